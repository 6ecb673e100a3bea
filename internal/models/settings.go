package models

import "fmt"

// Default review intervals, in days.
const (
	DefaultConfidentDays = 7
	DefaultMediumDays    = 3
	DefaultWTFDays       = 1
)

// Settings holds the spaced-repetition intervals for each recall tier.
type Settings struct {
	ConfidentDays int `json:"confident_days"`
	MediumDays    int `json:"medium_days"`
	WTFDays       int `json:"wtf_days"`
}

// DefaultSettings returns the 7/3/1 day schedule.
func DefaultSettings() Settings {
	return Settings{
		ConfidentDays: DefaultConfidentDays,
		MediumDays:    DefaultMediumDays,
		WTFDays:       DefaultWTFDays,
	}
}

// Validate reports the first non-positive interval.
func (s Settings) Validate() error {
	switch {
	case s.ConfidentDays <= 0:
		return fmt.Errorf("confident_days must be positive, got %d", s.ConfidentDays)
	case s.MediumDays <= 0:
		return fmt.Errorf("medium_days must be positive, got %d", s.MediumDays)
	case s.WTFDays <= 0:
		return fmt.Errorf("wtf_days must be positive, got %d", s.WTFDays)
	}
	return nil
}
