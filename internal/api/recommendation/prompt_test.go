package recommendation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/d8app/d8-backend/internal/types"
)

func TestFormatRequestDate(t *testing.T) {
	formatted, weekday, weekend := formatRequestDate("2026-08-29")
	assert.Equal(t, "Saturday, August 29, 2026", formatted)
	assert.Equal(t, "Saturday", weekday)
	assert.True(t, weekend)

	_, weekday, weekend = formatRequestDate("2026-08-26")
	assert.Equal(t, "Wednesday", weekday)
	assert.False(t, weekend)
}

func TestSystemMessageFor(t *testing.T) {
	assert.Contains(t, systemMessageFor(types.DateTypeMeal), "restaurant recommendation specialist")
	assert.Contains(t, systemMessageFor(types.DateTypeActivity), "activity recommendation specialist")
}

func TestBuildMealPrompt(t *testing.T) {
	req := &types.DateRequest{
		DateType:   types.DateTypeMeal,
		Date:       "2026-08-29",
		Location:   "Boston, MA",
		MealTimes:  []string{"dinner"},
		Cuisines:   []string{"italian", "french"},
		PriceRange: "high",
	}

	prompt := buildPrompt(req, "Boston, MA")
	assert.Contains(t, prompt, "Boston, MA")
	assert.Contains(t, prompt, "dinner")
	assert.Contains(t, prompt, "italian")
	assert.Contains(t, prompt, "Saturday")
	// The JSON schema block tells the model what shape to return.
	assert.Contains(t, prompt, `"cuisine_type"`)
}

func TestBuildActivityPrompt(t *testing.T) {
	req := &types.DateRequest{
		DateType:          types.DateTypeActivity,
		Date:              "2026-08-26",
		Location:          "Boston, MA",
		ActivityTypes:     []string{"outdoor"},
		ActivityIntensity: "low",
	}

	prompt := buildPrompt(req, "Boston, MA")
	assert.Contains(t, prompt, "outdoor")
	assert.Contains(t, prompt, `"duration"`)
}

func TestBuildExplorePrompt(t *testing.T) {
	prompt := buildExplorePrompt(&types.DateRequest{Location: "Boston, MA"}, "Boston, MA")
	assert.Contains(t, prompt, "Boston, MA")
	// Explore asks for a fixed mixed batch.
	assert.True(t, strings.Contains(prompt, "6"))
}
