package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/softdelete"
	id "missionsuivi/pkg/domain"
	"missionsuivi/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	clock time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	s.store = NewInMemoryStore(softdelete.ForSchemaVersion(3))
	s.store.SetClock(func() time.Time {
		s.clock = s.clock.Add(time.Minute)
		return s.clock
	})
	s.store.SeedCategories()
	s.store.PutCity(models.City{ID: 1, Name: "Rabat"})
	s.store.PutCity(models.City{ID: 2, Name: "Casablanca"})
	s.store.PutBranch(models.Branch{ID: 10, Name: "Agence Centre", CityID: 1})
	s.store.PutBranch(models.Branch{ID: 20, Name: "Agence Port", CityID: 2})
	s.store.PutInspector(models.Inspector{ID: 5, LastName: "Alaoui", FirstName: "Sara", CityID: 1})
	s.store.PutInspector(models.Inspector{ID: 6, LastName: "Bennani", FirstName: "Omar", CityID: 1})
}

func (s *InMemoryStoreSuite) insert(mission id.MissionID, city id.CityID, branch id.BranchID, notes ...int) {
	var records []models.Record
	for i, n := range notes {
		records = append(records, models.Record{
			MissionID: mission, CityID: city, BranchID: branch, InspectorID: 5,
			CategoryID: 1, RubricID: id.RubricID(i + 1), Note: n,
		})
	}
	s.Require().NoError(s.store.Insert(s.ctx, records))
}

func (s *InMemoryStoreSuite) TestFetch() {
	s.insert(1, 1, 10, 4, 5)
	s.insert(1, 2, 20, 3)
	s.insert(2, 1, 10, 1)

	s.Run("orders by city then branch and joins names", func() {
		records, err := s.store.Fetch(s.ctx, models.Filter{})
		s.Require().NoError(err)
		s.Require().Len(records, 4)
		s.Equal("Casablanca", records[0].CityName)
		s.Equal("Agence Port", records[0].BranchName)
		s.Equal("Rabat", records[1].CityName)
	})

	s.Run("filters by mission", func() {
		mission := id.MissionID(2)
		records, err := s.store.Fetch(s.ctx, models.Filter{MissionID: &mission})
		s.Require().NoError(err)
		s.Len(records, 1)
		s.Equal(1, records[0].Note)
	})

	s.Run("rejects unresolved period filter", func() {
		period := id.PeriodID(1)
		_, err := s.store.Fetch(s.ctx, models.Filter{PeriodID: &period})
		s.Require().Error(err)
	})
}

func (s *InMemoryStoreSuite) TestSoftDeleteAndRestoreAreIdempotent() {
	s.insert(1, 1, 10, 4, 5, 3)
	city := id.CityID(1)
	f := models.Filter{CityID: &city}

	n, err := s.store.SoftDelete(s.ctx, f)
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	n, err = s.store.SoftDelete(s.ctx, f)
	s.Require().NoError(err)
	s.Equal(int64(0), n)

	live, err := s.store.Fetch(s.ctx, f)
	s.Require().NoError(err)
	s.Empty(live)

	all, err := s.store.Fetch(s.ctx, models.Filter{CityID: &city, IncludeDeleted: true})
	s.Require().NoError(err)
	s.Len(all, 3)
	s.NotNil(all[0].DeletedAt)

	_, err = s.store.Restore(s.ctx, all[0].ID)
	s.Require().NoError(err)
	_, err = s.store.Restore(s.ctx, all[0].ID)
	s.Require().ErrorIs(err, sentinel.ErrNothingToRestore)

	n, err = s.store.RestoreAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	n, err = s.store.RestoreAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), n)
}

func (s *InMemoryStoreSuite) TestRestoreMany() {
	s.insert(1, 1, 10, 4, 5)
	_, err := s.store.SoftDelete(s.ctx, models.Filter{})
	s.Require().NoError(err)

	n, err := s.store.RestoreMany(s.ctx, []id.RecordID{1, 2, 99})
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	_, err = s.store.RestoreMany(s.ctx, []id.RecordID{99})
	s.Require().ErrorIs(err, sentinel.ErrNothingToRestore)
}

func (s *InMemoryStoreSuite) TestCapabilityMissing() {
	st := NewInMemoryStore(softdelete.New())
	_, err := st.SoftDelete(s.ctx, models.Filter{})
	s.Require().ErrorIs(err, sentinel.ErrUnsupported)

	err = st.SoftDeleteEntity(s.ctx, models.EntityCity, 1)
	s.True(softdelete.IsCapabilityError(err))
}

func (s *InMemoryStoreSuite) TestRunInTxRollsBack() {
	s.insert(1, 1, 10, 4)
	boom := errors.New("boom")

	err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
		if _, err := s.store.SoftDelete(ctx, models.Filter{}); err != nil {
			return err
		}
		s.Require().NoError(s.store.Insert(ctx, []models.Record{{MissionID: 1, CityID: 1, BranchID: 10, InspectorID: 5, CategoryID: 1, RubricID: 2, Note: 2}}))
		return boom
	})
	s.Require().ErrorIs(err, boom)

	records, err := s.store.Fetch(s.ctx, models.Filter{IncludeDeleted: true})
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Nil(records[0].DeletedAt)
}

func (s *InMemoryStoreSuite) TestInsertRejectsOutOfRangeNote() {
	err := s.store.Insert(s.ctx, []models.Record{{MissionID: 1, CityID: 1, BranchID: 10, InspectorID: 5, CategoryID: 1, RubricID: 1, Note: 6}})
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *InMemoryStoreSuite) TestReferenceSoftDelete() {
	roster, err := s.store.Roster(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(roster, 2)

	s.Require().NoError(s.store.SoftDeleteEntity(s.ctx, models.EntityInspector, 5))
	s.Require().ErrorIs(s.store.SoftDeleteEntity(s.ctx, models.EntityInspector, 5), sentinel.ErrNotFound)

	roster, err = s.store.Roster(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(roster, 1)
	s.Equal("Bennani", roster[0].LastName)

	// name lookups still see retired rows
	insp, err := s.store.FindInspector(s.ctx, 5)
	s.Require().NoError(err)
	s.Equal("Alaoui Sara", insp.FullName())

	s.Require().NoError(s.store.RestoreEntity(s.ctx, models.EntityInspector, 5))
	s.Require().ErrorIs(s.store.RestoreEntity(s.ctx, models.EntityInspector, 5), sentinel.ErrNothingToRestore)
}

func (s *InMemoryStoreSuite) TestPeriodAndMissions() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	s.store.PutPeriod(models.Period{ID: 1, Label: "T1", StartDate: start, EndDate: end, CityID: 1})
	s.store.PutMission(models.Mission{ID: 4, Name: "M4", StartDate: start, EndDate: end})
	s.store.PutMission(models.Mission{ID: 2, Name: "M2", StartDate: start, EndDate: end})

	missions, err := s.store.MissionsByRange(s.ctx, start, end)
	s.Require().NoError(err)
	s.Require().Len(missions, 2)
	s.Equal(id.MissionID(2), missions[0].ID)

	s.Require().NoError(s.store.SoftDeleteEntity(s.ctx, models.EntityPeriod, 1))
	_, err = s.store.FindPeriod(s.ctx, 1)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestUpsertRubricsKeepsIDsByNumero() {
	n, err := s.store.UpsertRubrics(s.ctx, 1, []models.Rubric{{Numero: 1, Label: "Accueil"}, {Numero: 2, Label: "Affichage"}})
	s.Require().NoError(err)
	s.Equal(2, n)

	_, err = s.store.UpsertRubrics(s.ctx, 1, []models.Rubric{{Numero: 1, Label: "Accueil client"}})
	s.Require().NoError(err)

	rubrics, err := s.store.Rubrics(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(rubrics, 2)
	s.Equal("Accueil client", rubrics[0].Label)
	s.Equal(id.RubricID(1), rubrics[0].ID)
}
