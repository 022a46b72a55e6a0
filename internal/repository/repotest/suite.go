// Package repotest holds a behavioural suite every repository.Store backend
// must pass.
package repotest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
)

// StoreSuite runs against a fresh, seeded store per test.
type StoreSuite struct {
	suite.Suite
	NewStore func() repository.Store

	ctx   context.Context
	store repository.Store
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore()
	s.Require().NoError(repository.Seed(s.ctx, s.store))
}

func (s *StoreSuite) Store() repository.Store { return s.store }

func (s *StoreSuite) insertUser(username string) *models.User {
	u, err := s.store.Users.Insert(s.ctx, models.User{Username: username, PasswordHash: "hash", Name: "Test", Email: username + "@example.com"})
	s.Require().NoError(err)
	return u
}

func (s *StoreSuite) language(code string) *models.Language {
	l, err := s.store.Languages.GetByCode(s.ctx, code)
	s.Require().NoError(err)
	s.Require().NotNil(l)
	return l
}

func (s *StoreSuite) TestSeed() {
	langs, err := s.store.Languages.List(s.ctx)
	s.Require().NoError(err)
	s.Assert().Len(langs, 3)

	games, err := s.store.Games.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 4)
	s.Assert().Equal("word-match", games[0].Kind)
	s.Assert().Equal(int64(4), games[3].ID)
	s.Assert().Equal("story-completion", games[3].Kind)
	s.Assert().Equal([]string{"en", "te", "hi"}, games[3].Languages)

	activities, err := s.store.Activities.List(s.ctx)
	s.Require().NoError(err)
	s.Assert().Len(activities, 3)

	// Seeding twice is a no-op.
	s.Require().NoError(repository.Seed(s.ctx, s.store))
	langs, err = s.store.Languages.List(s.ctx)
	s.Require().NoError(err)
	s.Assert().Len(langs, 3)
}

func (s *StoreSuite) TestUsers() {
	u := s.insertUser("asha")
	s.Assert().Greater(u.ID, int64(0))
	s.Assert().False(u.CreatedAt.IsZero())

	got, err := s.store.Users.GetByUsername(s.ctx, "asha")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(u.ID, got.ID)
	s.Assert().Equal("hash", got.PasswordHash)

	_, err = s.store.Users.Insert(s.ctx, models.User{Username: "asha", PasswordHash: "x", Name: "Dup", Email: "d@example.com"})
	s.Assert().ErrorIs(err, repository.ErrDuplicate)

	missing, err := s.store.Users.Get(s.ctx, 9999)
	s.Assert().NoError(err)
	s.Assert().Nil(missing)
}

func (s *StoreSuite) TestLanguageByCode() {
	te := s.language("te")
	s.Assert().Equal("Telugu", te.Name)

	missing, err := s.store.Languages.GetByCode(s.ctx, "xx")
	s.Assert().NoError(err)
	s.Assert().Nil(missing)

	byID, err := s.store.Languages.Get(s.ctx, te.ID)
	s.Require().NoError(err)
	s.Assert().Equal("te", byID.Code)
}

func (s *StoreSuite) TestActivitiesByType() {
	games, err := s.store.Activities.ListByType(s.ctx, models.ActivityTypeGame)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Assert().Equal("Word Scramble Game", games[0].Title)

	none, err := s.store.Activities.ListByType(s.ctx, "unknown")
	s.Require().NoError(err)
	s.Assert().Empty(none)
}

func (s *StoreSuite) TestProgress() {
	u := s.insertUser("ravi")
	hi := s.language("hi")
	now := time.Now().UTC().Truncate(time.Second)

	p, err := s.store.Progress.Insert(s.ctx, models.UserProgress{
		UserID: u.ID, LanguageID: hi.ID, TotalActivities: 30, Level: 1, LastActivity: &now,
	})
	s.Require().NoError(err)

	_, err = s.store.Progress.Insert(s.ctx, models.UserProgress{UserID: u.ID, LanguageID: hi.ID, TotalActivities: 30, Level: 1})
	s.Assert().ErrorIs(err, repository.ErrDuplicate)

	p.Stars = 5
	p.ActivitiesCompleted = 3
	s.Require().NoError(s.store.Progress.Update(s.ctx, *p))

	got, err := s.store.Progress.GetByUserLanguage(s.ctx, u.ID, hi.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(5, got.Stars)
	s.Assert().Equal(3, got.ActivitiesCompleted)
	s.Require().NotNil(got.LastActivity)
	s.Assert().True(now.Equal(*got.LastActivity))

	list, err := s.store.Progress.ListByUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Assert().Len(list, 1)

	err = s.store.Progress.Update(s.ctx, models.UserProgress{ID: 9999, UserID: u.ID, LanguageID: hi.ID})
	s.Assert().ErrorIs(err, repository.ErrNotFound)
}

func (s *StoreSuite) TestHistory() {
	u := s.insertUser("meera")
	en := s.language("en")

	h, err := s.store.History.Insert(s.ctx, models.ActivityHistory{UserID: u.ID, ActivityID: 2, LanguageID: en.ID})
	s.Require().NoError(err)
	s.Assert().False(h.StartTime.IsZero())
	s.Assert().Nil(h.EndTime)

	end := time.Now().UTC().Truncate(time.Second)
	score := 7
	h.EndTime = &end
	h.Score = &score
	h.Feedback = json.RawMessage(`{"total":10}`)
	s.Require().NoError(s.store.History.Update(s.ctx, *h))

	got, err := s.store.History.Get(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Score)
	s.Assert().Equal(7, *got.Score)
	s.Assert().JSONEq(`{"total":10}`, string(got.Feedback))

	list, err := s.store.History.ListByUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Assert().Len(list, 1)
}

func (s *StoreSuite) TestExtractedTexts() {
	u := s.insertUser("kiran")
	te := s.language("te")
	img := "/uploads/a.png"

	e, err := s.store.ExtractedTexts.Insert(s.ctx, models.ExtractedText{UserID: u.ID, LanguageID: te.ID, Text: "నమస్కారం", ImageURL: &img})
	s.Require().NoError(err)
	s.Assert().False(e.CreatedAt.IsZero())

	list, err := s.store.ExtractedTexts.ListByUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Assert().Equal("నమస్కారం", list[0].Text)
	s.Require().NotNil(list[0].ImageURL)
	s.Assert().Equal(img, *list[0].ImageURL)

	other, err := s.store.ExtractedTexts.ListByUser(s.ctx, u.ID+100)
	s.Require().NoError(err)
	s.Assert().Empty(other)
}
