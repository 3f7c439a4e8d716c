package itinerary

import (
	"sort"

	"github.com/google/uuid"

	"github.com/teranga-tours/service-booking/internal/domain"
)

// Stage is one stop within a circuit's day-by-day program. Stages are
// stored flat; (DayNumber, StageNumber) is unique per circuit.
type Stage struct {
	ID              uuid.UUID `json:"id"`
	CircuitID       uuid.UUID `json:"circuit_id"`
	DayNumber       int       `json:"day_number"`
	StageNumber     int       `json:"stage_number"`
	TitleFR         string    `json:"title_fr"`
	TitleEN         string    `json:"title_en"`
	DescriptionFR   string    `json:"description_fr"`
	DescriptionEN   string    `json:"description_en"`
	StartTime       string    `json:"start_time,omitempty"`
	EndTime         string    `json:"end_time,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	DisplayOrder    int       `json:"display_order"`
}

// Validate checks the structural invariants of a stage.
func (s Stage) Validate() error {
	if s.DayNumber < 1 {
		return domain.NewValidationError("day_number must be >= 1")
	}
	if s.StageNumber < 1 {
		return domain.NewValidationError("stage_number must be >= 1")
	}
	if s.TitleFR == "" {
		return domain.NewValidationError("title_fr is required")
	}
	if s.DurationMinutes < 0 {
		return domain.NewValidationError("duration_minutes must not be negative")
	}
	return nil
}

// DayGroup is the stages of a single day, in the order supplied.
type DayGroup struct {
	DayNumber int     `json:"day_number"`
	Stages    []Stage `json:"stages"`
}

// Group partitions a flat stage list into one group per distinct day,
// sorted ascending by day number. The relative order of stages within a
// day is preserved as given; callers fetch stages pre-sorted by
// (day_number, stage_number) from storage. An empty input yields an empty
// (non-nil) slice.
func Group(stages []Stage) []DayGroup {
	byDay := make(map[int]*DayGroup)
	days := make([]int, 0)

	for _, s := range stages {
		g, ok := byDay[s.DayNumber]
		if !ok {
			g = &DayGroup{DayNumber: s.DayNumber}
			byDay[s.DayNumber] = g
			days = append(days, s.DayNumber)
		}
		g.Stages = append(g.Stages, s)
	}

	sort.Ints(days)

	groups := make([]DayGroup, 0, len(days))
	for _, day := range days {
		groups = append(groups, *byDay[day])
	}
	return groups
}
