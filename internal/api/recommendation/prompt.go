package recommendation

import (
	"fmt"
	"strings"
	"time"

	"github.com/d8app/d8-backend/internal/types"
)

const mealSystemMessage = `You are an expert restaurant recommendation specialist with extensive knowledge of dining scenes across major cities. You understand what makes restaurants perfect for dates, considering atmosphere, food quality, service, and romantic appeal. Always respond with valid JSON arrays containing detailed restaurant recommendations. Be specific about real, well-known restaurants and their actual details. Focus on establishments that locals would genuinely recommend to friends for special occasions.`

const activitySystemMessage = `You are an expert activity recommendation specialist with extensive knowledge of entertainment, recreation, and date-worthy activities across major cities. You understand what makes activities perfect for dates, considering engagement, conversation opportunities, and shared experiences. Always respond with valid JSON arrays containing detailed activity recommendations. Be specific about real, well-known venues and activities and their actual details. Focus on experiences that locals would genuinely recommend to friends for special occasions.`

func systemMessageFor(dateType types.DateType) string {
	if dateType == types.DateTypeActivity {
		return activitySystemMessage
	}
	return mealSystemMessage
}

var mealPriceDescriptions = map[string]string{
	types.PriceLow:    "budget-friendly (under $15 per person)",
	types.PriceMedium: "moderate pricing ($15-30 per person)",
	types.PriceHigh:   "upscale ($30-60 per person)",
	types.PriceLuxury: "fine dining ($60+ per person)",
}

var activityPriceDescriptions = map[string]string{
	types.PriceFree:   "completely free activities (parks, hiking, museums with free admission, etc.)",
	types.PriceLow:    "budget-friendly (under $20 per person)",
	types.PriceMedium: "moderate pricing ($20-50 per person)",
	types.PriceHigh:   "upscale ($50-100 per person)",
	types.PriceLuxury: "premium ($100+ per person)",
}

var intensityDescriptions = map[string]string{
	"low":      "relaxed, easy activities",
	"medium":   "moderate effort activities",
	"high":     "high energy, intense activities",
	"not_sure": "any intensity level",
}

// formatRequestDate renders "2025-06-14" as "Saturday, June 14, 2025".
// Unparseable dates pass through verbatim.
func formatRequestDate(date string) (formatted string, weekday string, weekend bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date, "unknown", false
	}
	wd := t.Weekday()
	return t.Format("Monday, January 2, 2006"), wd.String(), wd == time.Saturday || wd == time.Sunday
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func lookupOr(m map[string]string, key, fallback string) string {
	if desc, ok := m[key]; ok {
		return desc
	}
	return fallback
}

// userProfileContext renders the optional personalization block. Empty
// when the request carries no user id.
func userProfileContext(req *types.DateRequest, noun string) string {
	if req.UserID == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nUSER PROFILE & PREFERENCES:\n")
	if req.UserAgeRange != "" {
		fmt.Fprintf(&b, "- Age Range: %s\n", req.UserAgeRange)
	}
	if req.UserRelationshipStatus != "" {
		fmt.Fprintf(&b, "- Relationship Status: %s\n", req.UserRelationshipStatus)
	}
	if len(req.UserHobbies) > 0 {
		fmt.Fprintf(&b, "- Hobbies & Interests: %s\n", strings.Join(req.UserHobbies, ", "))
	}
	if req.UserBudget != "" {
		fmt.Fprintf(&b, "- General Budget Preference: %s\n", req.UserBudget)
	}
	if len(req.UserCuisines) > 0 {
		fmt.Fprintf(&b, "- Preferred Cuisines: %s\n", strings.Join(req.UserCuisines, ", "))
	}
	if len(req.UserFavoriteCuisines) > 0 {
		fmt.Fprintf(&b, "- Favorite Cuisines: %s\n", strings.Join(req.UserFavoriteCuisines, ", "))
	}
	if len(req.UserTransportation) > 0 {
		fmt.Fprintf(&b, "- Transportation: %s\n", strings.Join(req.UserTransportation, ", "))
	}
	fmt.Fprintf(&b, "\nUse this profile information to personalize %s that match the user's lifestyle, preferences, and relationship context.\n", noun)
	return b.String()
}

func weekendContext(weekend bool, subject string) string {
	if weekend {
		return fmt.Sprintf("This is a weekend date, so consider %s that are popular for weekend outings and may have special weekend hours or menus.", subject)
	}
	return fmt.Sprintf("This is a weekday date, so consider %s that offer good value and aren't overly crowded.", subject)
}

// buildPrompt renders the request into the meal or activity template.
// The location must already be resolved by the caller.
func buildPrompt(req *types.DateRequest, location string) string {
	if req.DateType == types.DateTypeActivity {
		return buildActivityPrompt(req, location)
	}
	return buildMealPrompt(req, location)
}

func buildMealPrompt(req *types.DateRequest, location string) string {
	formattedDate, dayOfWeek, weekend := formatRequestDate(req.Date)
	mealTimes := joinOr(req.MealTimes, "any time")
	cuisines := joinOr(req.Cuisines, "any cuisine")
	priceDesc := lookupOr(mealPriceDescriptions, req.PriceRange, "any price range")

	return fmt.Sprintf(`You are an expert restaurant recommendation specialist with deep knowledge of dining scenes across major cities. You understand the nuances of what makes a perfect date restaurant, considering atmosphere, service, food quality, and romantic appeal.

CONTEXT & REQUIREMENTS:
- Date: %s (%s)
- Location: %s
- Date Type: %s
- Meal Time: %s
- Price Range: %s
- Cuisine Preferences: %s
%s
%s

RECOMMENDATION CRITERIA:
For this %s date, prioritize restaurants that excel in:

1. ATMOSPHERE & AMBIANCE: romantic lighting, intimate seating, appropriate noise level for conversation, good spacing between tables.
2. FOOD QUALITY & EXPERIENCE: fresh ingredients, well-executed dishes matching the cuisine type, menu variety.
3. SERVICE & TIMING: attentive but not intrusive service, reasonable wait times for the requested meal time.
4. LOCATION & ACCESSIBILITY: safe, well-lit area with parking or public transportation nearby.
5. VALUE & PRICING: fair pricing for the quality, good value within the specified price range.

SPECIFIC INSTRUCTIONS:
- Recommend 6-8 restaurants that are real, well-established establishments
- Focus on restaurants that are actually open on %s for %s
- Include a mix of well-known spots and hidden gems
- Consider the specific meal time (breakfast = casual, lunch = business-friendly, dinner = romantic)
- Ensure variety in cuisine types while respecting preferences
- Include restaurants that locals would recommend to friends

Return your response as a JSON array with this exact structure:
[
  {
    "name": "Restaurant Name",
    "description": "Detailed 2-3 sentence description highlighting what makes this restaurant special for dates",
    "location": "Specific neighborhood, City",
    "address": "Full street address with city and state",
    "latitude": 40.7128,
    "longitude": -74.0060,
    "cuisine_type": "Specific cuisine type",
    "price_level": "low/medium/high/luxury",
    "is_open": true,
    "open_hours": "Specific hours of operation",
    "rating": 4.5,
    "why_recommended": "Detailed explanation of why this restaurant is perfect for this specific date occasion",
    "estimated_cost": "Specific cost range per person",
    "best_time": "Optimal time to visit for this meal time"
  }
]

IMPORTANT: Only recommend real, well-known restaurants that actually exist in %s or nearby areas. Do not make up restaurants or provide generic recommendations.`,
		formattedDate, dayOfWeek, location, req.DateType, mealTimes, priceDesc, cuisines,
		userProfileContext(req, "recommendations"),
		weekendContext(weekend, "restaurants"),
		req.DateType, formattedDate, mealTimes, location)
}

func buildActivityPrompt(req *types.DateRequest, location string) string {
	formattedDate, dayOfWeek, weekend := formatRequestDate(req.Date)
	activityTypes := joinOr(req.ActivityTypes, "any activity type")
	intensityDesc := lookupOr(intensityDescriptions, req.ActivityIntensity, "any intensity level")
	priceDesc := lookupOr(activityPriceDescriptions, req.PriceRange, "any price range")

	return fmt.Sprintf(`You are an expert activity recommendation specialist with deep knowledge of entertainment, recreation, and date-worthy activities across major cities. You understand what makes activities perfect for dates, considering engagement, conversation opportunities, and shared experiences.

CONTEXT & REQUIREMENTS:
- Date: %s (%s)
- Location: %s
- Date Type: %s
- Activity Types: %s
- Activity Intensity: %s
- Price Range: %s
%s
%s

RECOMMENDATION CRITERIA:
For this %s date, prioritize activities that excel in:

1. ENGAGEMENT & INTERACTION: activities that encourage conversation and connection through shared experiences.
2. ATMOSPHERE & SETTING: clean, well-maintained facilities with a safe and welcoming atmosphere.
3. TIMING & AVAILABILITY: activities available on %s with appropriate duration and flexible scheduling.
4. VALUE & PRICING: fair pricing for the experience, good value within the specified price range.
5. LOCATION & ACCESSIBILITY: safe, well-lit area with parking or public transportation nearby.

SPECIFIC INSTRUCTIONS:
- Recommend 6-8 activities that are real, well-established venues or experiences
- Focus on activities that are actually available on %s
- Consider the specific activity intensity and types requested
- Include a mix of popular spots and hidden gems
- Consider weather-appropriate activities for the location and season

Return your response as a JSON array with this exact structure:
[
  {
    "name": "Activity Name",
    "description": "Concise 1-2 sentence description highlighting what makes this activity special for dates",
    "location": "Specific neighborhood, City",
    "address": "Full street address with city and state",
    "latitude": 40.7128,
    "longitude": -74.0060,
    "cuisine_type": "Activity type (sports/outdoor/indoor/entertainment/fitness)",
    "price_level": "free/low/medium/high/luxury",
    "is_open": true,
    "open_hours": "Specific hours of operation",
    "rating": 4.5,
    "why_recommended": "Brief explanation of why this activity is perfect for this specific date occasion",
    "estimated_cost": "Specific cost range per person",
    "best_time": "Optimal time to visit for this activity",
    "duration": "Expected duration (e.g., '1-2 hours', '2-3 hours', 'Half day', 'Full day')"
  }
]

IMPORTANT: Only recommend real, well-known activities and venues that actually exist in %s or nearby areas. Do not make up activities or provide generic recommendations.`,
		formattedDate, dayOfWeek, location, req.DateType, activityTypes, intensityDesc, priceDesc,
		userProfileContext(req, "activity recommendations"),
		weekendContext(weekend, "activities"),
		req.DateType, formattedDate, formattedDate, location)
}

// buildExplorePrompt renders the mixed restaurants-plus-activities
// template used by the explore endpoint.
func buildExplorePrompt(req *types.DateRequest, location string) string {
	formattedDate, dayOfWeek, weekend := formatRequestDate(req.Date)

	dateContext := "This is a weekday, so consider places that offer good value and aren't overly crowded."
	if weekend {
		dateContext = "This is a weekend, so consider places that are popular for weekend outings and may have special weekend hours or events."
	}

	return fmt.Sprintf(`You are an expert local guide and recommendation specialist with deep knowledge of entertainment, dining, and recreational scenes across major cities. You understand what makes places perfect for dates, considering atmosphere, engagement opportunities, and shared experiences.

CONTEXT & REQUIREMENTS:
- Date: %s (%s)
- Location: %s
- Purpose: Generate a curated mix of 6 ideas for exploring the area

%s

EXPLORE IDEAS CRITERIA:
Generate a diverse mix of 6 ideas that include:

1. RESTAURANTS (3 ideas): mix of cuisines, price ranges, atmospheres and meal times; include both well-known and local favorites.
2. ACTIVITIES (3 ideas): mix of indoor and outdoor, different energy levels and categories; include both popular attractions and unique local experiences.

SPECIFIC INSTRUCTIONS:
- Recommend 6 places that are real, well-established establishments
- Focus on places that are actually available on %s
- Include a mix of popular spots and hidden gems
- Ensure variety in types and price ranges
- Consider weather-appropriate activities for the location and season
- Make sure the mix feels balanced and offers something for everyone

Return your response as a JSON array with this exact structure:
[
  {
    "name": "Place Name",
    "description": "Detailed 2-3 sentence description highlighting what makes this place special for dates",
    "location": "Specific neighborhood, City",
    "address": "Full street address with city and state",
    "latitude": 40.7128,
    "longitude": -74.0060,
    "cuisine_type": "italian/mexican/american/japanese/chinese/indian/thai/french/mediterranean/sports/outdoor/indoor/entertainment/fitness",
    "price_level": "free/low/medium/high/luxury",
    "is_open": true,
    "open_hours": "Specific hours of operation",
    "rating": 4.5,
    "why_recommended": "Detailed explanation of why this place is perfect for exploring and dating",
    "estimated_cost": "Specific cost range per person",
    "best_time": "Optimal time to visit",
    "duration": "Expected duration (e.g., '1-2 hours', '2-3 hours', 'Half day', 'Full day')"
  }
]

IMPORTANT:
- Only recommend real, well-known places that actually exist in %s or nearby areas
- Do not make up places or provide generic recommendations
- Ensure the mix includes both restaurants and activities
- If you don't know specific places in %s, recommend well-known chains or popular establishments that are likely to exist there
- Use realistic coordinates within the %s area`,
		formattedDate, dayOfWeek, location, dateContext, formattedDate,
		location, location, location)
}
