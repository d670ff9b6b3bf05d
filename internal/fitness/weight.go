package fitness

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WeightUnit can be one of:
//   - kg
//   - lbs
type WeightUnit string

const (
	WeightUnitKilograms WeightUnit = "kg"
	WeightUnitPounds    WeightUnit = "lbs"
)

func (u WeightUnit) String() string {
	return string(u)
}

func (u WeightUnit) IsValid() bool {
	switch u {
	case WeightUnitKilograms, WeightUnitPounds:
		return true
	default:
		return false
	}
}

// ParseWeightUnit accepts the unit in any case, empty means kilograms.
func ParseWeightUnit(s string) (WeightUnit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return WeightUnitKilograms, nil
	}
	u := WeightUnit(s)
	if !u.IsValid() {
		return "", fmt.Errorf("%w: unknown weight unit [%s]", ErrInvalidEntry, s)
	}
	return u, nil
}

// WeightEntry is a single body-weight measurement.
type WeightEntry struct {
	ID     string     `json:"id,omitempty"`
	Date   time.Time  `json:"date"`
	Weight float64    `json:"weight"`
	Unit   WeightUnit `json:"unit"`
}

func NewWeightEntry(date time.Time, weight float64, unit WeightUnit) WeightEntry {
	return WeightEntry{
		ID:     uuid.NewString(),
		Date:   date,
		Weight: weight,
		Unit:   unit,
	}
}

func (w WeightEntry) Validate() error {
	if math.IsNaN(w.Weight) || math.IsInf(w.Weight, 0) || w.Weight <= 0 {
		return fmt.Errorf("%w: weight must be a positive number, got %v", ErrInvalidEntry, w.Weight)
	}
	if !w.Unit.IsValid() {
		return fmt.Errorf("%w: unknown weight unit [%s]", ErrInvalidEntry, w.Unit)
	}
	if w.Date.IsZero() {
		return fmt.Errorf("%w: date is not set", ErrInvalidEntry)
	}
	return nil
}

func (w *WeightEntry) UnmarshalJSON(data []byte) error {
	type weightAlias WeightEntry
	aux := &struct {
		Date string `json:"date"`
		*weightAlias
	}{
		weightAlias: (*weightAlias)(w),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	date, err := ParseDate(aux.Date)
	if err != nil {
		return fmt.Errorf("weight date: %w", err)
	}
	w.Date = date
	if w.Unit == "" {
		w.Unit = WeightUnitKilograms
	}
	return nil
}
