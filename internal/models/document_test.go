package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NasuPanda/mnemos-web/internal/models"
)

func TestDocument_CategoryHelpers(t *testing.T) {
	doc := models.NewDefaultDocument(time.Now())
	doc.Items = []models.Item{
		{ID: "1", Section: "Math"},
		{ID: "2", Section: "Math"},
		{ID: "3", Section: models.DefaultCategory},
	}

	assert.True(t, doc.EnsureCategory("Math"))
	assert.False(t, doc.EnsureCategory("Math"))
	assert.False(t, doc.EnsureCategory(""))
	assert.True(t, doc.HasCategoryFold("MATH", ""))
	assert.False(t, doc.HasCategoryFold("MATH", "Math"))
	assert.Equal(t, 2, doc.CountSection("Math"))

	assert.Equal(t, 2, doc.RenameCategory("Math", "Algebra"))
	assert.Equal(t, []string{models.DefaultCategory, "Algebra"}, doc.Categories)
	assert.Equal(t, "Algebra", doc.Items[0].Section)

	assert.True(t, doc.RemoveCategory("Algebra"))
	assert.False(t, doc.RemoveCategory("Algebra"))
	assert.Equal(t, 1, doc.FindItem("2"))
	assert.Equal(t, -1, doc.FindItem("9"))
}

func TestDocument_CloneIsDeep(t *testing.T) {
	text := "2+2?"
	doc := models.NewDefaultDocument(time.Now())
	doc.Items = []models.Item{{ID: "1", ProblemText: &text, ProblemImages: []string{"a.png"}}}

	cp := doc.Clone()
	*cp.Items[0].ProblemText = "changed"
	cp.Items[0].ProblemImages[0] = "b.png"
	cp.Categories[0] = "Other"

	assert.Equal(t, "2+2?", *doc.Items[0].ProblemText)
	assert.Equal(t, "a.png", doc.Items[0].ProblemImages[0])
	assert.Equal(t, models.DefaultCategory, doc.Categories[0])
}

func TestTimestamp_JSON(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2024-05-01T10:20:30.123456"`, time.Date(2024, 5, 1, 10, 20, 30, 123456000, time.UTC)},
		{`"2024-05-01T10:20:30Z"`, time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC)},
		{`"2024-05-01"`, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		var ts models.Timestamp
		require.NoError(t, json.Unmarshal([]byte(tt.in), &ts), tt.in)
		assert.True(t, tt.want.Equal(ts.Time), tt.in)
	}

	var ts models.Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	out, err := json.Marshal(models.NewTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("JST", 9*3600))))
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-01T18:04:05Z"`, string(out))
}

func TestSettings_Validate(t *testing.T) {
	assert.NoError(t, models.DefaultSettings().Validate())
	assert.ErrorContains(t, models.Settings{ConfidentDays: 1, MediumDays: 0, WTFDays: 1}.Validate(), "medium_days")
}
