package datastore

import (
	"encoding/json"
	"fmt"

	"github.com/NasuPanda/mnemos-web/internal/models"
)

// Decode parses a stored document and brings it up to the current schema.
func Decode(data []byte) (*models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	Upgrade(&doc)
	return &doc, nil
}

// Encode serializes doc in the indented form written to every backend.
func Encode(doc *models.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Upgrade fills in fields older documents lack. Applying it twice is the
// same as applying it once.
func Upgrade(doc *models.Document) {
	if doc.Items == nil {
		doc.Items = []models.Item{}
	}
	doc.Categories = dedupe(doc.Categories)

	defaults := models.DefaultSettings()
	if doc.Settings.ConfidentDays <= 0 {
		doc.Settings.ConfidentDays = defaults.ConfidentDays
	}
	if doc.Settings.MediumDays <= 0 {
		doc.Settings.MediumDays = defaults.MediumDays
	}
	if doc.Settings.WTFDays <= 0 {
		doc.Settings.WTFDays = defaults.WTFDays
	}

	for i := range doc.Items {
		upgradeItem(&doc.Items[i])
	}
}

func upgradeItem(it *models.Item) {
	it.ProblemImages = seedImages(it.ProblemImages, it.ProblemImage)
	it.AnswerImages = seedImages(it.AnswerImages, it.AnswerImage)
	if it.ReviewDates == nil {
		it.ReviewDates = []string{}
	}
}

// seedImages keeps an existing list (even an empty one) and otherwise starts
// from the single legacy image.
func seedImages(list []string, legacy *string) []string {
	if list != nil {
		return list
	}
	if legacy != nil && *legacy != "" {
		return []string{*legacy}
	}
	return []string{}
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
