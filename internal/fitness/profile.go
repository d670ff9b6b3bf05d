package fitness

import "time"

// Profile holds the whole training history of the user.
// Both slices keep insertion order, duplicates and equal timestamps are allowed.
type Profile struct {
	Workouts      []WorkoutEntry `json:"workouts"`
	WeightHistory []WeightEntry  `json:"weight_history"`
}

func NewProfile() *Profile {
	return &Profile{
		Workouts:      []WorkoutEntry{},
		WeightHistory: []WeightEntry{},
	}
}

func (p *Profile) AddWorkout(w WorkoutEntry) {
	p.Workouts = append(p.Workouts, w)
}

func (p *Profile) AddWeight(w WeightEntry) {
	p.WeightHistory = append(p.WeightHistory, w)
}

// RecentWorkouts returns workouts logged at or after now - days.
func (p *Profile) RecentWorkouts(now time.Time, days int) []WorkoutEntry {
	return WorkoutsSince(p.Workouts, Cutoff(now, days))
}

// RecentWeights returns weight entries logged at or after now - days.
func (p *Profile) RecentWeights(now time.Time, days int) []WeightEntry {
	cutoff := Cutoff(now, days)
	var recent []WeightEntry
	for _, w := range p.WeightHistory {
		if !w.Date.Before(cutoff) {
			recent = append(recent, w)
		}
	}
	return recent
}

// Cutoff returns the start of a trailing window of days ending at now.
// A day is always 24 hours here, regardless of DST changes.
func Cutoff(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * Day)
}

func WorkoutsSince(workouts []WorkoutEntry, cutoff time.Time) []WorkoutEntry {
	var recent []WorkoutEntry
	for _, w := range workouts {
		if !w.Date.Before(cutoff) {
			recent = append(recent, w)
		}
	}
	return recent
}
