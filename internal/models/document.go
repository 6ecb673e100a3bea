package models

import (
	"strings"
	"time"
)

// DefaultCategory is the only category of a freshly constructed document.
const DefaultCategory = "Default"

// Document is the single persisted aggregate: every item, category and setting.
type Document struct {
	Items       []Item    `json:"items"`
	Categories  []string  `json:"categories"`
	Settings    Settings  `json:"settings"`
	LastUpdated Timestamp `json:"last_updated"`
}

// NewDefaultDocument builds the document used when nothing is stored anywhere.
func NewDefaultDocument(now time.Time) *Document {
	return &Document{
		Items:       []Item{},
		Categories:  []string{DefaultCategory},
		Settings:    DefaultSettings(),
		LastUpdated: NewTimestamp(now),
	}
}

// Clone returns a deep copy that can be mutated without affecting d.
func (d *Document) Clone() *Document {
	out := &Document{
		Items:       make([]Item, len(d.Items)),
		Categories:  cloneStrings(d.Categories),
		Settings:    d.Settings,
		LastUpdated: d.LastUpdated,
	}
	for i, it := range d.Items {
		out.Items[i] = it.Clone()
	}
	return out
}

// FindItem returns the index of the item with the given id, or -1.
func (d *Document) FindItem(id string) int {
	for i := range d.Items {
		if d.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// HasCategory reports an exact match in the category list.
func (d *Document) HasCategory(name string) bool {
	return d.categoryIndex(name) >= 0
}

// HasCategoryFold reports a case-insensitive match, ignoring the category named except.
func (d *Document) HasCategoryFold(name, except string) bool {
	for _, c := range d.Categories {
		if c == except {
			continue
		}
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// EnsureCategory appends name when it is not yet known.
func (d *Document) EnsureCategory(name string) bool {
	if name == "" || d.HasCategory(name) {
		return false
	}
	d.Categories = append(d.Categories, name)
	return true
}

// RemoveCategory drops name from the category list.
func (d *Document) RemoveCategory(name string) bool {
	i := d.categoryIndex(name)
	if i < 0 {
		return false
	}
	d.Categories = append(d.Categories[:i], d.Categories[i+1:]...)
	return true
}

// RenameCategory renames from to to in the category list and on every item
// that references it. It returns the number of items changed.
func (d *Document) RenameCategory(from, to string) int {
	if i := d.categoryIndex(from); i >= 0 {
		d.Categories[i] = to
	}
	updated := 0
	for i := range d.Items {
		if d.Items[i].Section == from {
			d.Items[i].Section = to
			updated++
		}
	}
	return updated
}

// CountSection returns how many items use the given category.
func (d *Document) CountSection(name string) int {
	n := 0
	for _, it := range d.Items {
		if it.Section == name {
			n++
		}
	}
	return n
}

func (d *Document) categoryIndex(name string) int {
	for i, c := range d.Categories {
		if c == name {
			return i
		}
	}
	return -1
}
