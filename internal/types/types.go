package types

import (
	"github.com/google/uuid"
)

// DateType discriminates whether a request is for a meal or a
// non-dining activity.
type DateType string

const (
	DateTypeMeal     DateType = "meal"
	DateTypeActivity DateType = "activity"
)

// Price tiers the mobile client may send. Activities additionally allow
// "free".
const (
	PriceFree   = "free"
	PriceLow    = "low"
	PriceMedium = "medium"
	PriceHigh   = "high"
	PriceLuxury = "luxury"
)

// UnknownLocation is the sentinel the client (or a failed reverse
// geocode) produces when no usable location exists. Requests carrying it
// are rejected before any paid API call.
const UnknownLocation = "Unknown Location"

// CurrentLocation is the sentinel meaning "resolve my coordinates".
const CurrentLocation = "Current Location"

// DateRequest is the client-supplied search criteria. Immutable once
// received.
type DateRequest struct {
	DateType          DateType `json:"date_type"`
	MealTimes         []string `json:"meal_times,omitempty"`
	PriceRange        string   `json:"price_range"`
	Cuisines          []string `json:"cuisines,omitempty"`
	ActivityTypes     []string `json:"activity_types,omitempty"`
	ActivityIntensity string   `json:"activity_intensity,omitempty"`
	Date              string   `json:"date"` // YYYY-MM-DD
	Location          string   `json:"location"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	Page              int      `json:"page,omitempty"`

	// Profile hints, used only to bias the prompt text.
	UserID                  string   `json:"user_id,omitempty"`
	UserAgeRange            string   `json:"user_age_range,omitempty"`
	UserRelationshipStatus  string   `json:"user_relationship_status,omitempty"`
	UserHobbies             []string `json:"user_hobbies,omitempty"`
	UserBudget              string   `json:"user_budget,omitempty"`
	UserCuisines            []string `json:"user_cuisines,omitempty"`
	UserTransportation      []string `json:"user_transportation,omitempty"`
	UserFavoriteCuisines    []string `json:"user_favorite_cuisines,omitempty"`
	UserPreferredPriceRange string   `json:"user_preferred_price_range,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude were supplied.
func (r *DateRequest) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Recommendation is one suggested place, created per-request from parsed
// model output. Never persisted; its lifetime is the HTTP response.
type Recommendation struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	Address        string    `json:"address"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	CuisineType    string    `json:"cuisine_type"`
	PriceLevel     string    `json:"price_level"`
	IsOpen         bool      `json:"is_open"`
	OpenHours      string    `json:"open_hours"`
	Rating         float64   `json:"rating"`
	WhyRecommended string    `json:"why_recommended"`
	EstimatedCost  string    `json:"estimated_cost"`
	BestTime       string    `json:"best_time"`
	Duration       string    `json:"duration,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	Pros           []string  `json:"pros,omitempty"`
	Cons           []string  `json:"cons,omitempty"`
}

// RecommendationResponse is the envelope both POST endpoints return.
// QueryUsed doubles as the degradation channel: upstream failures fold
// their explanation into it rather than surfacing a structured error.
type RecommendationResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	TotalFound      int              `json:"total_found"`
	QueryUsed       string           `json:"query_used"`
	ProcessingTime  float64          `json:"processing_time"`
}

// FeedbackRequest records a user's reaction to a recommendation.
type FeedbackRequest struct {
	UserID           string   `json:"user_id"`
	RecommendationID string   `json:"recommendation_id"`
	FeedbackType     string   `json:"feedback_type"` // positive, negative, neutral
	Rating           *float64 `json:"rating,omitempty"`
	Comments         string   `json:"comments,omitempty"`
}

// InteractionRequest records a view or click on a recommendation.
type InteractionRequest struct {
	UserID           string `json:"user_id"`
	InteractionType  string `json:"interaction_type"` // view, click
	RecommendationID string `json:"recommendation_id,omitempty"`
}
