package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/NasuPanda/mnemos-web/internal/storage"
	"github.com/NasuPanda/mnemos-web/internal/testutil"
)

type SQLiteStoreSuite struct {
	suite.Suite
	path  string
	store *storage.SQLiteStore
}

func (s *SQLiteStoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "replica.db")
	store, err := storage.OpenSQLite(s.path)
	s.Require().NoError(err)
	s.store = store
}

func (s *SQLiteStoreSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.store)
}

func (s *SQLiteStoreSuite) TestProbe() {
	s.True(s.store.Probe(context.Background()))
}

func (s *SQLiteStoreSuite) TestGetMissingKey() {
	data, ok := s.store.Get(context.Background(), "mnemos_data.json")
	s.False(ok)
	s.Nil(data)
}

func (s *SQLiteStoreSuite) TestPutUpserts() {
	ctx := context.Background()
	s.True(s.store.Put(ctx, "mnemos_data.json", []byte(`{"v":1}`)))
	s.True(s.store.Put(ctx, "mnemos_data.json", []byte(`{"v":2}`)))

	data, ok := s.store.Get(ctx, "mnemos_data.json")
	s.True(ok)
	s.JSONEq(`{"v":2}`, string(data))
}

func (s *SQLiteStoreSuite) TestReopenKeepsDataAndSkipsMigrations() {
	ctx := context.Background()
	s.Require().True(s.store.Put(ctx, "k", []byte("kept")))
	s.Require().NoError(s.store.Close())

	reopened, err := storage.OpenSQLite(s.path)
	s.Require().NoError(err)
	s.store = reopened

	data, ok := s.store.Get(ctx, "k")
	s.True(ok)
	s.Equal("kept", string(data))
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := storage.OpenSQLite(" ")
	if err == nil {
		t.Fatal("expected error for empty path")
	}
}
