package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/NasuPanda/mnemos-web/internal/datastore"
	"github.com/NasuPanda/mnemos-web/internal/errors"
	"github.com/NasuPanda/mnemos-web/internal/models"
	"github.com/NasuPanda/mnemos-web/internal/review"
	"github.com/NasuPanda/mnemos-web/internal/services"
	"github.com/NasuPanda/mnemos-web/internal/testutil"
)

func strPtr(s string) *string { return &s }

type ItemServiceSuite struct {
	suite.Suite
	ctx   context.Context
	ts    *testutil.TestStores
	items services.ItemService
}

func (s *ItemServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.ts = testutil.LoadedTestStore(s.T())
	s.items = services.NewItemService(s.ts.Store)
}

func (s *ItemServiceSuite) create(name, section string) *models.Item {
	it, err := s.items.Create(s.ctx, models.ItemInput{Name: name, Section: section, ProblemText: strPtr("2+2?")})
	s.Require().NoError(err)
	return it
}

func (s *ItemServiceSuite) TestCreateListDelete() {
	it := s.create("Q1", models.DefaultCategory)
	s.NotEmpty(it.ID)
	s.NotEmpty(it.CreatedDate)
	s.Equal(it.CreatedDate, it.LastAccessed)
	s.Equal([]string{}, it.ProblemImages)

	active := s.items.ListActive(s.ctx)
	s.Require().Len(active, 1)
	s.Equal(it.ID, active[0].ID)

	s.Require().NoError(s.items.Delete(s.ctx, it.ID))
	s.Empty(s.items.ListActive(s.ctx))

	err := s.items.Delete(s.ctx, it.ID)
	s.True(errors.HasCode(err, errors.ErrCodeNotFound))
}

func (s *ItemServiceSuite) TestCreate_PersistsToLocalBackup() {
	s.create("Q1", models.DefaultCategory)

	data, ok := s.ts.Local.Get(s.ctx, testutil.DocumentKey)
	s.Require().True(ok)
	doc, err := datastore.Decode(data)
	s.Require().NoError(err)
	s.Len(doc.Items, 1)
}

func (s *ItemServiceSuite) TestCreate_AppendsUnseenCategory() {
	s.create("Q1", "Physics")
	s.create("Q2", "Physics")

	s.Equal([]string{models.DefaultCategory, "Physics"}, s.ts.Store.Get(s.ctx).Categories)
}

func (s *ItemServiceSuite) TestCreate_Validation() {
	_, err := s.items.Create(s.ctx, models.ItemInput{Name: "  ", Section: "Default"})
	s.True(errors.HasCode(err, errors.ErrCodeValidation))

	_, err = s.items.Create(s.ctx, models.ItemInput{Name: "Q"})
	s.True(errors.HasCode(err, errors.ErrCodeValidation))
	s.Empty(s.items.ListActive(s.ctx))
}

func (s *ItemServiceSuite) TestUpdate_PreservesIdentity() {
	it := s.create("Q1", models.DefaultCategory)

	updated, err := s.items.Update(s.ctx, it.ID, models.ItemInput{Name: "Q1 edited", Section: "Math"})
	s.Require().NoError(err)
	s.Equal(it.ID, updated.ID)
	s.Equal(it.CreatedDate, updated.CreatedDate)
	s.Equal("Q1 edited", updated.Name)
	s.Nil(updated.ProblemText)
	s.Contains(s.ts.Store.Get(s.ctx).Categories, "Math")

	_, err = s.items.Update(s.ctx, "missing", models.ItemInput{Name: "x", Section: "Math"})
	s.True(errors.HasCode(err, errors.ErrCodeNotFound))
}

func (s *ItemServiceSuite) TestArchiveMovesBetweenProjections() {
	a := s.create("A", models.DefaultCategory)
	b := s.create("B", models.DefaultCategory)

	archived, err := s.items.SetArchived(s.ctx, a.ID, true)
	s.Require().NoError(err)
	s.True(archived.Archived)

	s.Equal([]string{b.ID}, ids(s.items.ListActive(s.ctx)))
	s.Equal([]string{a.ID}, ids(s.items.ListArchived(s.ctx)))

	_, err = s.items.SetArchived(s.ctx, a.ID, false)
	s.Require().NoError(err)
	s.Equal([]string{a.ID, b.ID}, ids(s.items.ListActive(s.ctx)), "document order is kept")
}

func (s *ItemServiceSuite) TestReviewAndDue() {
	a := s.create("A", models.DefaultCategory)
	b := s.create("B", models.DefaultCategory)

	reviewed, err := s.items.Review(s.ctx, a.ID, services.ReviewRequest{Type: review.Confident})
	s.Require().NoError(err)
	s.True(reviewed.Reviewed)
	s.Len(reviewed.ReviewDates, 1)
	s.Require().NotNil(reviewed.NextReviewDate)

	s.Equal([]string{b.ID}, ids(s.items.ListDue(s.ctx, time.Now())))
	s.Len(s.items.ListDue(s.ctx, time.Now().AddDate(0, 0, 8)), 2)

	_, err = s.items.Review(s.ctx, a.ID, services.ReviewRequest{Type: review.Custom, CustomDays: 0})
	s.True(errors.HasCode(err, errors.ErrCodeValidation))
	_, err = s.items.Review(s.ctx, "missing", services.ReviewRequest{Type: review.WTF})
	s.True(errors.HasCode(err, errors.ErrCodeNotFound))
}

func (s *ItemServiceSuite) TestGet() {
	it := s.create("Q1", models.DefaultCategory)

	got, err := s.items.Get(s.ctx, it.ID)
	s.Require().NoError(err)
	s.Equal(it.Name, got.Name)

	_, err = s.items.Get(s.ctx, "nope")
	s.True(errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestItemServiceSuite(t *testing.T) {
	suite.Run(t, new(ItemServiceSuite))
}

func ids(items []models.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
