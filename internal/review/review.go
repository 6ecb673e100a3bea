// Package review schedules the next review of an item.
package review

import (
	"fmt"
	"time"

	"github.com/NasuPanda/mnemos-web/internal/models"
)

// Tier is how well the user recalled an item.
type Tier string

const (
	Confident Tier = "confident"
	Medium    Tier = "medium"
	WTF       Tier = "wtf"
	Custom    Tier = "custom"
)

const (
	MinCustomDays = 1
	MaxCustomDays = 365

	dateLayout = "2006-01-02"
)

// Interval returns the number of days until the next review.
func Interval(tier Tier, customDays int, settings models.Settings) (int, error) {
	switch tier {
	case Confident:
		return settings.ConfidentDays, nil
	case Medium:
		return settings.MediumDays, nil
	case WTF:
		return settings.WTFDays, nil
	case Custom:
		if customDays < MinCustomDays || customDays > MaxCustomDays {
			return 0, fmt.Errorf("custom_days must be between %d and %d", MinCustomDays, MaxCustomDays)
		}
		return customDays, nil
	default:
		return 0, fmt.Errorf("unknown review type %q", tier)
	}
}

// Apply records a review at now and schedules the next one.
func Apply(it models.Item, tier Tier, customDays int, settings models.Settings, now time.Time) (models.Item, error) {
	days, err := Interval(tier, customDays, settings)
	if err != nil {
		return it, err
	}

	today := now.UTC()
	next := today.AddDate(0, 0, days).Format(dateLayout)

	it = it.Clone()
	it.Reviewed = true
	it.NextReviewDate = &next
	it.ReviewDates = append(it.ReviewDates, today.Format(dateLayout))
	it.LastAccessed = models.FormatTimestamp(now)
	return it, nil
}

// IsDue reports whether an active item should be reviewed on now's date.
// Items never scheduled, or with an unreadable date, are due.
func IsDue(it models.Item, now time.Time) bool {
	if it.Archived {
		return false
	}
	if it.NextReviewDate == nil || *it.NextReviewDate == "" {
		return true
	}
	due, err := models.ParseTimestamp(*it.NextReviewDate)
	if err != nil {
		return true
	}
	return due.UTC().Format(dateLayout) <= now.UTC().Format(dateLayout)
}
