package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NasuPanda/mnemos-web/internal/datastore"
	"github.com/NasuPanda/mnemos-web/internal/models"
	"github.com/NasuPanda/mnemos-web/internal/storage"
)

// DocumentKey is the key test stores write under.
const DocumentKey = "mnemos_data.json"

// TestStores bundles a datastore with the file backends behind it.
type TestStores struct {
	Store  *datastore.Store
	Remote *storage.FileStore
	Local  *storage.FileStore
}

// NewTestStore builds a datastore over two temporary file stores. Remote
// replication is not wired; tests that need it set Options themselves.
func NewTestStore(t *testing.T) *TestStores {
	t.Helper()
	dir := t.TempDir()
	remote := storage.NewFileStore(filepath.Join(dir, "remote"))
	local := storage.NewFileStore(filepath.Join(dir, "local"))
	return &TestStores{
		Store: datastore.New(datastore.Options{
			Remote: remote,
			Key:    DocumentKey,
			Local:  local,
		}),
		Remote: remote,
		Local:  local,
	}
}

// LoadedTestStore is NewTestStore with a default document already installed.
func LoadedTestStore(t *testing.T) *TestStores {
	t.Helper()
	ts := NewTestStore(t)
	ts.Store.Install(models.NewDefaultDocument(time.Now()))
	return ts
}

// NewItem returns an active item in the given category.
func NewItem(id, section string) models.Item {
	now := models.FormatTimestamp(time.Now())
	return models.Item{
		ID:            id,
		Name:          "item " + id,
		Section:       section,
		ProblemImages: []string{},
		AnswerImages:  []string{},
		ReviewDates:   []string{},
		CreatedDate:   now,
		LastAccessed:  now,
	}
}

// WriteDocument encodes doc into b under DocumentKey.
func WriteDocument(t *testing.T, b storage.Backend, doc *models.Document) {
	t.Helper()
	data, err := datastore.Encode(doc)
	require.NoError(t, err)
	require.True(t, b.Put(context.Background(), DocumentKey, data))
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
