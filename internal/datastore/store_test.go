package datastore_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/NasuPanda/mnemos-web/internal/datastore"
	"github.com/NasuPanda/mnemos-web/internal/models"
	"github.com/NasuPanda/mnemos-web/internal/storage"
	"github.com/NasuPanda/mnemos-web/internal/testutil"
	"github.com/NasuPanda/mnemos-web/internal/testutil/mocks"
)

type StoreSuite struct {
	suite.Suite
	ctx    context.Context
	remote *storage.FileStore
	local  *storage.FileStore
	queue  *mocks.MockJobQueue
	clock  time.Time
	store  *datastore.Store
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	dir := s.T().TempDir()
	s.remote = storage.NewFileStore(filepath.Join(dir, "remote"))
	s.local = storage.NewFileStore(filepath.Join(dir, "local"))
	s.queue = new(mocks.MockJobQueue)
	s.clock = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = datastore.New(datastore.Options{
		Remote: s.remote,
		Key:    testutil.DocumentKey,
		Local:  s.local,
		Queue:  s.queue,
		Now:    func() time.Time { return s.clock },
	})
}

func (s *StoreSuite) docWithItems(n int) *models.Document {
	doc := models.NewDefaultDocument(s.clock.Add(-time.Hour))
	for i := 0; i < n; i++ {
		doc.Items = append(doc.Items, testutil.NewItem(string(rune('a'+i)), models.DefaultCategory))
	}
	return doc
}

func (s *StoreSuite) TestResolve_PrefersRemote() {
	testutil.WriteDocument(s.T(), s.remote, s.docWithItems(3))
	testutil.WriteDocument(s.T(), s.local, s.docWithItems(1))

	doc, src := s.store.ResolveAtStartup(s.ctx)
	s.Equal(datastore.SourceRemote, src)
	s.Len(doc.Items, 3)
	s.Len(s.store.Active(s.ctx), 3)
}

func (s *StoreSuite) TestResolve_FallsBackToLocal() {
	testutil.WriteDocument(s.T(), s.local, s.docWithItems(2))

	doc, src := s.store.ResolveAtStartup(s.ctx)
	s.Equal(datastore.SourceLocal, src)
	s.Len(doc.Items, 2)
}

func (s *StoreSuite) TestResolve_CorruptRemoteFallsBackToLocal() {
	s.Require().True(s.remote.Put(s.ctx, testutil.DocumentKey, []byte("{not json")))
	testutil.WriteDocument(s.T(), s.local, s.docWithItems(1))

	_, src := s.store.ResolveAtStartup(s.ctx)
	s.Equal(datastore.SourceLocal, src)
}

func (s *StoreSuite) TestResolve_UnreachableRemote() {
	remote := new(mocks.MockBackend)
	remote.On("Probe", mock.Anything).Return(false)
	store := datastore.New(datastore.Options{Remote: remote, Key: testutil.DocumentKey, Local: s.local})

	doc, src := store.ResolveAtStartup(s.ctx)
	s.Equal(datastore.SourceDefault, src)
	s.Empty(doc.Items)
	s.Equal([]string{models.DefaultCategory}, doc.Categories)
	s.Equal(models.DefaultSettings(), doc.Settings)
	remote.AssertNotCalled(s.T(), "Get", mock.Anything, mock.Anything)
}

func (s *StoreSuite) TestSave_WritesBackupAndQueuesReplication() {
	s.store.Install(s.docWithItems(0))
	s.queue.On("EnqueueReplication", testutil.DocumentKey, mock.Anything).Return(nil).Once()

	doc := s.docWithItems(1)
	s.store.Save(s.ctx, doc)

	s.Same(doc, s.store.Get(s.ctx))
	s.Equal(s.clock, doc.LastUpdated.Time)

	data, ok := s.local.Get(s.ctx, testutil.DocumentKey)
	s.Require().True(ok)
	backup, err := datastore.Decode(data)
	s.Require().NoError(err)
	s.Len(backup.Items, 1)

	queued := s.queue.Calls[0].Arguments.Get(1).([]byte)
	s.JSONEq(string(data), string(queued))
	s.queue.AssertExpectations(s.T())
}

func (s *StoreSuite) TestSave_QueueFailureIsNotFatal() {
	s.queue.On("EnqueueReplication", mock.Anything, mock.Anything).Return(assertErr)

	s.store.Save(s.ctx, s.docWithItems(1))
	_, ok := s.local.Get(s.ctx, testutil.DocumentKey)
	s.True(ok)
}

func (s *StoreSuite) TestSave_LastUpdatedStrictlyIncreases() {
	s.queue.On("EnqueueReplication", mock.Anything, mock.Anything).Return(nil)

	first := s.docWithItems(0)
	s.store.Save(s.ctx, first)
	// Clock stands still: the second save must still move forward.
	second := first.Clone()
	s.store.Save(s.ctx, second)
	s.True(second.LastUpdated.After(first.LastUpdated.Time))

	// A document stamped in the future is still bumped past its own stamp.
	future := s.docWithItems(0)
	future.LastUpdated = models.NewTimestamp(s.clock.Add(time.Hour))
	prior := future.LastUpdated.Time
	s.store.Save(s.ctx, future)
	s.True(future.LastUpdated.After(prior))
}

func (s *StoreSuite) TestUpdate_ErrorLeavesDocumentUntouched() {
	s.store.Install(s.docWithItems(1))
	before := s.store.Get(s.ctx)

	_, err := s.store.Update(s.ctx, func(doc *models.Document) error {
		doc.Items = nil
		return assertErr
	})
	s.ErrorIs(err, assertErr)
	s.Same(before, s.store.Get(s.ctx))
	s.Len(before.Items, 1)
	s.queue.AssertNotCalled(s.T(), "EnqueueReplication", mock.Anything, mock.Anything)
}

func (s *StoreSuite) TestUpdate_SerializesConcurrentWriters() {
	s.queue.On("EnqueueReplication", mock.Anything, mock.Anything).Return(nil)
	s.store.Install(s.docWithItems(0))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.store.Update(s.ctx, func(doc *models.Document) error {
				doc.Items = append(doc.Items, testutil.NewItem(string(rune('A'+i)), models.DefaultCategory))
				return nil
			})
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	s.Len(s.store.Get(s.ctx).Items, 20)
	s.EqualValues(20, s.store.Revision())
}

func (s *StoreSuite) TestGet_EmergencyFallbackReadsBackupOnce() {
	local := new(mocks.MockBackend)
	data, err := datastore.Encode(s.docWithItems(2))
	s.Require().NoError(err)
	local.On("Get", mock.Anything, testutil.DocumentKey).Return(data, true).Once()
	store := datastore.New(datastore.Options{Key: testutil.DocumentKey, Local: local})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Len(store.Active(s.ctx), 2)
		}()
	}
	wg.Wait()
	local.AssertNumberOfCalls(s.T(), "Get", 1)
}

func (s *StoreSuite) TestGet_EmergencyFallbackDefaults() {
	doc := s.store.Get(s.ctx)
	s.Empty(doc.Items)
	s.Equal([]string{models.DefaultCategory}, doc.Categories)
	s.Empty(s.store.Archived(s.ctx))
}

func (s *StoreSuite) TestInstallIfUnchanged() {
	s.queue.On("EnqueueReplication", mock.Anything, mock.Anything).Return(nil)
	rev := s.store.Revision()

	s.True(s.store.InstallIfUnchanged(s.docWithItems(1), rev))

	s.store.Save(s.ctx, s.docWithItems(2))
	s.False(s.store.InstallIfUnchanged(s.docWithItems(5), rev))
	s.Len(s.store.Get(s.ctx).Items, 2)
}

func (s *StoreSuite) TestInstallDefaultsKeepsExisting() {
	s.store.Install(s.docWithItems(1))
	s.Len(s.store.InstallDefaults().Items, 1)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

var assertErr = errors.New("boom")

func TestDecode_LegacyImages(t *testing.T) {
	raw := `{
		"items": [
			{"id": "1", "name": "n", "section": "Default", "problem_image": "x.jpg", "archived": false},
			{"id": "2", "name": "m", "section": "Default", "problem_image": "y.jpg", "problem_images": []},
			{"id": "3", "name": "o", "section": "Default", "problem_image": "z.jpg", "problem_images": null}
		],
		"categories": ["Default", "Math", "Default"],
		"last_updated": "2024-01-01T00:00:00"
	}`

	doc, err := datastore.Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"x.jpg"}, doc.Items[0].ProblemImages)
	assert.Equal(t, []string{}, doc.Items[0].AnswerImages)
	assert.Equal(t, []string{}, doc.Items[1].ProblemImages, "an explicit empty list wins over the legacy field")
	assert.Equal(t, []string{"z.jpg"}, doc.Items[2].ProblemImages, "null is treated as absent")
	assert.Equal(t, []string{}, doc.Items[0].ReviewDates)
	assert.Equal(t, []string{"Default", "Math"}, doc.Categories)
	assert.Equal(t, models.DefaultSettings(), doc.Settings)
	assert.Equal(t, 2024, doc.LastUpdated.Year())
}

func TestDecode_Invalid(t *testing.T) {
	_, err := datastore.Decode([]byte("[]"))
	assert.Error(t, err)
}

func TestUpgrade_Idempotent(t *testing.T) {
	raw := `{"items":[{"id":"1","section":"Default","problem_image":"x.jpg","answer_image":""}],"settings":{"confident_days":10}}`

	once, err := datastore.Decode([]byte(raw))
	require.NoError(t, err)
	first, err := datastore.Encode(once)
	require.NoError(t, err)

	twice, err := datastore.Decode(first)
	require.NoError(t, err)
	datastore.Upgrade(twice)
	second, err := datastore.Encode(twice)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, 10, twice.Settings.ConfidentDays)
	assert.Equal(t, 3, twice.Settings.MediumDays)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(second, &generic))
	assert.Contains(t, generic, "last_updated")
}
