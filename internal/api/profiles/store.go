package profiles

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/d8app/d8-backend/internal/types"
)

// UserPreferences is one user's accumulated preference data, persisted
// as a single JSON document and rewritten in full on every mutation.
type UserPreferences struct {
	UserID string `json:"user_id"`

	// Food preferences (scores are 0-1)
	FavoriteCuisines     map[string]float64 `json:"favorite_cuisines"`
	AvoidedCuisines      []string           `json:"avoided_cuisines"`
	PreferredPriceRanges map[string]float64 `json:"preferred_price_ranges"`
	DietaryRestrictions  []string           `json:"dietary_restrictions"`
	MealTimePreferences  map[string]float64 `json:"meal_time_preferences"`

	// Activity preferences
	FavoriteActivityTypes      map[string]float64 `json:"favorite_activity_types"`
	PreferredActivityIntensity map[string]float64 `json:"preferred_activity_intensity"`
	AvoidedActivities          []string           `json:"avoided_activities"`

	// Location preferences
	PreferredNeighborhoods map[string]float64 `json:"preferred_neighborhoods"`
	PreferredCities        map[string]float64 `json:"preferred_cities"`
	MaxTravelDistance      int                `json:"max_travel_distance"` // miles

	// Date preferences
	PreferredDateTypes map[string]float64 `json:"preferred_date_types"`

	// Behavioral counters
	TotalRecommendationsViewed  int        `json:"total_recommendations_viewed"`
	TotalRecommendationsClicked int        `json:"total_recommendations_clicked"`
	TotalFeedbackGiven          int        `json:"total_feedback_given"`
	LastActive                  *time.Time `json:"last_active,omitempty"`

	FeedbackHistory []FeedbackEntry `json:"feedback_history"`
	SearchHistory   []SearchEntry   `json:"search_history"`
}

// FeedbackEntry is one recorded reaction to a recommendation.
type FeedbackEntry struct {
	Timestamp        time.Time `json:"timestamp"`
	RecommendationID string    `json:"recommendation_id"`
	FeedbackType     string    `json:"feedback_type"` // positive, negative, neutral
	Rating           *float64  `json:"rating,omitempty"`
	Comments         string    `json:"comments,omitempty"`
}

// SearchEntry is one recorded search query.
type SearchEntry struct {
	Timestamp time.Time         `json:"timestamp"`
	Query     types.DateRequest `json:"query"`
}

// Store manages per-user preference files under a single data
// directory, one JSON file per user id.
type Store struct {
	dataDir string
	logger  *slog.Logger

	mu    sync.Mutex
	users map[string]*UserPreferences
	now   func() time.Time
}

// NewStore creates the data directory if needed and loads any existing
// user files.
func NewStore(dataDir string, logger *slog.Logger) (*Store, error) {
	if dataDir == "" {
		dataDir = "user_data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preference data dir: %w", err)
	}

	s := &Store{
		dataDir: dataDir,
		logger:  logger,
		users:   make(map[string]*UserPreferences),
		now:     time.Now,
	}
	if err := s.loadExisting(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadExisting() error {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return fmt.Errorf("failed to read preference data dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		userID := strings.TrimSuffix(entry.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(s.dataDir, entry.Name()))
		if err != nil {
			s.logger.Warn("Failed to read user preference file", slog.String("user_id", userID), slog.Any("error", err))
			continue
		}
		var prefs UserPreferences
		if err := json.Unmarshal(data, &prefs); err != nil {
			s.logger.Warn("Failed to parse user preference file", slog.String("user_id", userID), slog.Any("error", err))
			continue
		}
		s.users[userID] = &prefs
	}
	return nil
}

// GetOrCreate returns a copy of the user's preferences, creating an
// empty record on first reference.
func (s *Store) GetOrCreate(userID string) UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.getOrCreateLocked(userID)
}

func (s *Store) getOrCreateLocked(userID string) *UserPreferences {
	if prefs, ok := s.users[userID]; ok {
		return prefs
	}
	prefs := &UserPreferences{
		UserID:                     userID,
		FavoriteCuisines:           map[string]float64{},
		PreferredPriceRanges:       map[string]float64{},
		MealTimePreferences:        map[string]float64{},
		FavoriteActivityTypes:      map[string]float64{},
		PreferredActivityIntensity: map[string]float64{},
		PreferredNeighborhoods:     map[string]float64{},
		PreferredCities:            map[string]float64{},
		MaxTravelDistance:          10,
		PreferredDateTypes:         map[string]float64{},
	}
	s.users[userID] = prefs
	return prefs
}

// save rewrites the user's file in full. Caller must hold the lock.
func (s *Store) save(prefs *UserPreferences) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences for %s: %w", prefs.UserID, err)
	}
	filename := filepath.Join(s.dataDir, fmt.Sprintf("%s.json", filepath.Base(prefs.UserID)))
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences for %s: %w", prefs.UserID, err)
	}
	return nil
}

// RecordSearch appends a search query to the user's history.
func (s *Store) RecordSearch(userID string, query types.DateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs := s.getOrCreateLocked(userID)
	now := s.now()
	prefs.SearchHistory = append(prefs.SearchHistory, SearchEntry{Timestamp: now, Query: query})
	prefs.LastActive = &now
	return s.save(prefs)
}

// RecordFeedback appends one feedback entry and bumps the counter.
func (s *Store) RecordFeedback(userID, recommendationID, feedbackType string, rating *float64, comments string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs := s.getOrCreateLocked(userID)
	now := s.now()
	prefs.FeedbackHistory = append(prefs.FeedbackHistory, FeedbackEntry{
		Timestamp:        now,
		RecommendationID: recommendationID,
		FeedbackType:     feedbackType,
		Rating:           rating,
		Comments:         comments,
	})
	prefs.TotalFeedbackGiven++
	prefs.LastActive = &now
	return s.save(prefs)
}

// RecordInteraction bumps the view or click counter.
func (s *Store) RecordInteraction(userID, interactionType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs := s.getOrCreateLocked(userID)
	switch interactionType {
	case "view":
		prefs.TotalRecommendationsViewed++
	case "click":
		prefs.TotalRecommendationsClicked++
	}
	now := s.now()
	prefs.LastActive = &now
	return s.save(prefs)
}

// LearnFromFeedback recomputes preferences from the last 30 days of
// feedback. The per-dimension update hooks are not implemented yet;
// this only partitions the history and persists unchanged preferences.
func (s *Store) LearnFromFeedback(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs := s.getOrCreateLocked(userID)

	cutoff := s.now().AddDate(0, 0, -30)
	var positive, negative []FeedbackEntry
	for _, fb := range prefs.FeedbackHistory {
		if fb.Timestamp.Before(cutoff) {
			continue
		}
		switch fb.FeedbackType {
		case "positive":
			positive = append(positive, fb)
		case "negative":
			negative = append(negative, fb)
		}
	}
	if len(positive) == 0 && len(negative) == 0 {
		return nil
	}

	s.updateCuisinePreferences(prefs, positive, negative)
	s.updatePricePreferences(prefs, positive, negative)
	s.updateActivityPreferences(prefs, positive, negative)

	return s.save(prefs)
}

// TODO: correlate feedback entries with the recommendations they refer
// to once recommendation ids are persisted alongside feedback.
func (s *Store) updateCuisinePreferences(prefs *UserPreferences, positive, negative []FeedbackEntry) {
}

func (s *Store) updatePricePreferences(prefs *UserPreferences, positive, negative []FeedbackEntry) {
}

func (s *Store) updateActivityPreferences(prefs *UserPreferences, positive, negative []FeedbackEntry) {
}

// PersonalizationScore rates how well a recommendation matches the
// user's recorded preferences, clamped to [0,1].
func (s *Store) PersonalizationScore(userID string, rec types.Recommendation) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs := s.getOrCreateLocked(userID)

	score := 0.0
	category := strings.ToLower(rec.CuisineType)

	if weight, ok := prefs.FavoriteCuisines[category]; ok {
		score += weight * 0.3
	} else if containsFold(prefs.AvoidedCuisines, category) {
		score -= 0.5
	}

	if weight, ok := prefs.PreferredPriceRanges[rec.PriceLevel]; ok {
		score += weight * 0.2
	}

	location := strings.ToLower(rec.Location)
	for neighborhood, weight := range prefs.PreferredNeighborhoods {
		if strings.Contains(location, strings.ToLower(neighborhood)) {
			score += weight * 0.2
		}
	}

	// The category field doubles as the activity type for activity
	// recommendations.
	if weight, ok := prefs.FavoriteActivityTypes[category]; ok {
		score += weight * 0.3
	} else if containsFold(prefs.AvoidedActivities, category) {
		score -= 0.5
	}

	return clamp01(score)
}

// PersonalizeRecommendations orders recommendations by descending
// personalization score. The sort is stable so equally scored records
// keep the model's original order.
func (s *Store) PersonalizeRecommendations(userID string, recs []types.Recommendation) []types.Recommendation {
	type scored struct {
		rec   types.Recommendation
		score float64
	}
	items := make([]scored, len(recs))
	for i, rec := range recs {
		items[i] = scored{rec: rec, score: s.PersonalizationScore(userID, rec)}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })

	out := make([]types.Recommendation, len(items))
	for i, item := range items {
		out[i] = item.rec
	}
	return out
}

func containsFold(items []string, target string) bool {
	for _, item := range items {
		if strings.EqualFold(item, target) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
