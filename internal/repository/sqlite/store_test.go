package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
	"github.com/vytor/lingoplay/internal/repository/repotest"
	"github.com/vytor/lingoplay/internal/repository/sqlite"
	"github.com/vytor/lingoplay/internal/testutil"
)

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &repotest.StoreSuite{NewStore: func() repository.Store {
		db := testutil.NewTestDB(t)
		t.Cleanup(func() { _ = db.Close() })
		return sqlite.New(db)
	}})
}

type ForeignKeySuite struct {
	suite.Suite
	db    *sql.DB
	store repository.Store
}

func (s *ForeignKeySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.store = sqlite.New(s.db)
	s.Require().NoError(repository.Seed(context.Background(), s.store))
}

func (s *ForeignKeySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ForeignKeySuite) TestProgressRequiresUser() {
	_, err := s.store.Progress.Insert(context.Background(), models.UserProgress{UserID: 42, LanguageID: 1, TotalActivities: 30, Level: 1})
	s.Assert().ErrorIs(err, repository.ErrMissingReference)
}

func (s *ForeignKeySuite) TestLanguageCodeIsCaseInsensitive() {
	l, err := s.store.Languages.GetByCode(context.Background(), "TE")
	s.Require().NoError(err)
	s.Require().NotNil(l)
	s.Assert().Equal("te", l.Code)

	_, err = s.store.Languages.Insert(context.Background(), models.Language{Name: "Dup", Code: "HI"})
	s.Assert().ErrorIs(err, repository.ErrDuplicate)
}

func TestForeignKeySuite(t *testing.T) {
	suite.Run(t, new(ForeignKeySuite))
}

func TestEmptyLanguageListRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)
	store := sqlite.New(db)

	g, err := store.Games.Insert(context.Background(), models.Game{Title: "x", Description: "y", Difficulty: "all", Kind: "word-match"})
	require.NoError(t, err)
	got, err := store.Games.Get(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Languages)
}
