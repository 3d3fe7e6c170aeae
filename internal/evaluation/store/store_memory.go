package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/softdelete"
	id "missionsuivi/pkg/domain"
	"missionsuivi/pkg/platform/sentinel"
)

// InMemoryStore keeps everything in maps guarded by one RWMutex. RunInTx
// serializes units of work and rolls record changes back on error.
type InMemoryStore struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	guard *softdelete.Guard
	now   func() time.Time

	nextID     id.RecordID
	records    []models.Record
	cities     map[id.CityID]models.City
	branches   map[id.BranchID]models.Branch
	inspectors map[id.InspectorID]models.Inspector
	periods    map[id.PeriodID]models.Period
	missions   map[id.MissionID]models.Mission
	categories map[id.CategoryID]models.Category
	rubrics    map[id.RubricID]models.Rubric
	scale      map[int]models.ScaleItem
	deleted    map[models.ReferenceEntity]map[int64]time.Time
}

func NewInMemoryStore(guard *softdelete.Guard) *InMemoryStore {
	return &InMemoryStore{
		guard:      guard,
		now:        time.Now,
		cities:     make(map[id.CityID]models.City),
		branches:   make(map[id.BranchID]models.Branch),
		inspectors: make(map[id.InspectorID]models.Inspector),
		periods:    make(map[id.PeriodID]models.Period),
		missions:   make(map[id.MissionID]models.Mission),
		categories: make(map[id.CategoryID]models.Category),
		rubrics:    make(map[id.RubricID]models.Rubric),
		scale:      make(map[int]models.ScaleItem),
		deleted:    make(map[models.ReferenceEntity]map[int64]time.Time),
	}
}

// SetClock overrides the time source used for created_at and deleted_at.
func (s *InMemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// RunInTx runs fn with exclusive access to mutations. On error every record
// and reference change made by fn is undone.
func (s *InMemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.snapshot()
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.restoreSnapshot(snapshot)
		s.mu.Unlock()
		return err
	}
	return nil
}

type memSnapshot struct {
	nextID  id.RecordID
	records []models.Record
	deleted map[models.ReferenceEntity]map[int64]time.Time
	scale   map[int]models.ScaleItem
	rubrics map[id.RubricID]models.Rubric
}

func (s *InMemoryStore) snapshot() memSnapshot {
	snap := memSnapshot{
		nextID:  s.nextID,
		records: make([]models.Record, len(s.records)),
		deleted: make(map[models.ReferenceEntity]map[int64]time.Time, len(s.deleted)),
		scale:   make(map[int]models.ScaleItem, len(s.scale)),
		rubrics: make(map[id.RubricID]models.Rubric, len(s.rubrics)),
	}
	copy(snap.records, s.records)
	for e, rows := range s.deleted {
		cp := make(map[int64]time.Time, len(rows))
		for k, v := range rows {
			cp[k] = v
		}
		snap.deleted[e] = cp
	}
	for k, v := range s.scale {
		snap.scale[k] = v
	}
	for k, v := range s.rubrics {
		snap.rubrics[k] = v
	}
	return snap
}

func (s *InMemoryStore) restoreSnapshot(snap memSnapshot) {
	s.nextID = snap.nextID
	s.records = snap.records
	s.deleted = snap.deleted
	s.scale = snap.scale
	s.rubrics = snap.rubrics
}

func (s *InMemoryStore) PutCity(c models.City) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cities[c.ID] = c
}

func (s *InMemoryStore) PutBranch(b models.Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches[b.ID] = b
}

func (s *InMemoryStore) PutInspector(i models.Inspector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inspectors[i.ID] = i
}

func (s *InMemoryStore) PutPeriod(p models.Period) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods[p.ID] = p
}

func (s *InMemoryStore) PutMission(m models.Mission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missions[m.ID] = m
}

func (s *InMemoryStore) PutCategory(c models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

func (s *InMemoryStore) PutRubric(r models.Rubric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rubrics[r.ID] = r
}

// SeedCategories registers the three fixed categories with ids 1..3.
func (s *InMemoryStore) SeedCategories() {
	s.PutCategory(models.Category{ID: 1, Code: id.CategoryFI, Label: "Fonctionnement Interne", DisplayOrder: 1})
	s.PutCategory(models.Category{ID: 2, Code: id.CategoryFQS, Label: "Qualité de Service", DisplayOrder: 2})
	s.PutCategory(models.Category{ID: 3, Code: id.CategoryFGAB, Label: "GAB", DisplayOrder: 3})
}

func (s *InMemoryStore) isDeleted(entity models.ReferenceEntity, rowID int64) bool {
	_, ok := s.deleted[entity][rowID]
	return ok
}

func matches(r models.Record, f models.Filter) bool {
	if !f.IncludeDeleted && r.IsDeleted() {
		return false
	}
	switch {
	case f.MissionID != nil && r.MissionID != *f.MissionID:
		return false
	case f.CityID != nil && r.CityID != *f.CityID:
		return false
	case f.BranchID != nil && r.BranchID != *f.BranchID:
		return false
	case f.InspectorID != nil && r.InspectorID != *f.InspectorID:
		return false
	case f.CategoryID != nil && r.CategoryID != *f.CategoryID:
		return false
	}
	return true
}

func (s *InMemoryStore) Fetch(_ context.Context, f models.Filter) ([]models.Record, error) {
	if err := checkFilter(f); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Record
	for _, r := range s.records {
		if !matches(r, f) {
			continue
		}
		r.CityName = s.cities[r.CityID].Name
		r.BranchName = s.branches[r.BranchID].Name
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CityName != b.CityName {
			return a.CityName < b.CityName
		}
		if a.BranchName != b.BranchName {
			return a.BranchName < b.BranchName
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (s *InMemoryStore) SoftDelete(_ context.Context, f models.Filter) (int64, error) {
	if err := checkFilter(f); err != nil {
		return 0, err
	}
	if err := s.guard.Require(softdelete.TableEvaluation); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	live := f
	live.IncludeDeleted = false
	now := s.now()
	var n int64
	for i := range s.records {
		if matches(s.records[i], live) {
			t := now
			s.records[i].DeletedAt = &t
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) HardDelete(_ context.Context, f models.Filter) (int64, error) {
	if err := checkFilter(f); err != nil {
		return 0, err
	}
	if f.IsEmpty() {
		return 0, errors.New("hard delete requires at least one filter")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all := f
	all.IncludeDeleted = true
	kept := s.records[:0:0]
	var n int64
	for _, r := range s.records {
		if matches(r, all) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return n, nil
}

func (s *InMemoryStore) Restore(ctx context.Context, recordID id.RecordID) (int64, error) {
	return s.RestoreMany(ctx, []id.RecordID{recordID})
}

func (s *InMemoryStore) RestoreMany(_ context.Context, ids []id.RecordID) (int64, error) {
	if err := s.guard.Require(softdelete.TableEvaluation); err != nil {
		return 0, err
	}
	want := make(map[id.RecordID]struct{}, len(ids))
	for _, rid := range ids {
		want[rid] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := range s.records {
		if _, ok := want[s.records[i].ID]; ok && s.records[i].IsDeleted() {
			s.records[i].DeletedAt = nil
			n++
		}
	}
	if n == 0 {
		return 0, sentinel.ErrNothingToRestore
	}
	return n, nil
}

func (s *InMemoryStore) RestoreAll(_ context.Context) (int64, error) {
	if err := s.guard.Require(softdelete.TableEvaluation); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := range s.records {
		if s.records[i].IsDeleted() {
			s.records[i].DeletedAt = nil
			n++
		}
	}
	return n, nil
}

// Insert assigns ids and timestamps. Notes outside 1..5 violate the same
// constraint the database enforces.
func (s *InMemoryStore) Insert(_ context.Context, records []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if r.Note < 1 || r.Note > 5 {
			return sentinel.ErrConflict
		}
	}
	now := s.now()
	for _, r := range records {
		s.nextID++
		r.ID = s.nextID
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if r.EvaluationDate.IsZero() {
			y, m, d := now.Date()
			r.EvaluationDate = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		}
		r.CityName, r.BranchName = "", ""
		s.records = append(s.records, r)
	}
	return nil
}

func (s *InMemoryStore) Scale(_ context.Context) ([]models.ScaleItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ScaleItem, 0, len(s.scale))
	for _, item := range s.scale {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Note < out[j].Note })
	return out, nil
}

func (s *InMemoryStore) Rubrics(_ context.Context, categoryID id.CategoryID) ([]models.Rubric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Rubric
	for _, r := range s.rubrics {
		if r.CategoryID == categoryID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out, nil
}

func (s *InMemoryStore) Categories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) FindCategory(_ context.Context, categoryID id.CategoryID) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[categoryID]
	if !ok {
		return models.Category{}, sentinel.ErrNotFound
	}
	return c, nil
}

func (s *InMemoryStore) FindCategoryByCode(_ context.Context, code id.CategoryCode) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.Code == code {
			return c, nil
		}
	}
	return models.Category{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindCity(_ context.Context, cityID id.CityID) (models.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cities[cityID]
	if !ok {
		return models.City{}, sentinel.ErrNotFound
	}
	return c, nil
}

func (s *InMemoryStore) FindBranch(_ context.Context, branchID id.BranchID) (models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.branches[branchID]
	if !ok {
		return models.Branch{}, sentinel.ErrNotFound
	}
	return b, nil
}

func (s *InMemoryStore) FindInspector(_ context.Context, inspectorID id.InspectorID) (models.Inspector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.inspectors[inspectorID]
	if !ok {
		return models.Inspector{}, sentinel.ErrNotFound
	}
	return i, nil
}

func (s *InMemoryStore) FindPeriod(_ context.Context, periodID id.PeriodID) (models.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.periods[periodID]
	if !ok || s.liveOnlyHides(models.EntityPeriod, int64(periodID)) {
		return models.Period{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (s *InMemoryStore) MissionsByRange(_ context.Context, start, end time.Time) ([]models.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Mission
	for _, m := range s.missions {
		if s.liveOnlyHides(models.EntityMission, int64(m.ID)) {
			continue
		}
		if models.SameRange(m.StartDate, m.EndDate, start, end) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) Roster(_ context.Context, cityID id.CityID) ([]models.Inspector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Inspector
	for _, i := range s.inspectors {
		if i.CityID != cityID || s.liveOnlyHides(models.EntityInspector, int64(i.ID)) {
			continue
		}
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].LastName != out[b].LastName {
			return out[a].LastName < out[b].LastName
		}
		if out[a].FirstName != out[b].FirstName {
			return out[a].FirstName < out[b].FirstName
		}
		return out[a].ID < out[b].ID
	})
	return out, nil
}

func (s *InMemoryStore) liveOnlyHides(entity models.ReferenceEntity, rowID int64) bool {
	return s.guard.Supports(entity.Table()) && s.isDeleted(entity, rowID)
}

func (s *InMemoryStore) exists(entity models.ReferenceEntity, rowID int64) bool {
	switch entity {
	case models.EntityCity:
		_, ok := s.cities[id.CityID(rowID)]
		return ok
	case models.EntityBranch:
		_, ok := s.branches[id.BranchID(rowID)]
		return ok
	case models.EntityInspector:
		_, ok := s.inspectors[id.InspectorID(rowID)]
		return ok
	case models.EntityPeriod:
		_, ok := s.periods[id.PeriodID(rowID)]
		return ok
	case models.EntityMission:
		_, ok := s.missions[id.MissionID(rowID)]
		return ok
	}
	return false
}

func (s *InMemoryStore) SoftDeleteEntity(_ context.Context, entity models.ReferenceEntity, rowID int64) error {
	if err := s.guard.Require(entity.Table()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists(entity, rowID) || s.isDeleted(entity, rowID) {
		return sentinel.ErrNotFound
	}
	if s.deleted[entity] == nil {
		s.deleted[entity] = make(map[int64]time.Time)
	}
	s.deleted[entity][rowID] = s.now()
	return nil
}

func (s *InMemoryStore) RestoreEntity(_ context.Context, entity models.ReferenceEntity, rowID int64) error {
	if err := s.guard.Require(entity.Table()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isDeleted(entity, rowID) {
		return sentinel.ErrNothingToRestore
	}
	delete(s.deleted[entity], rowID)
	return nil
}

func (s *InMemoryStore) UpsertScale(_ context.Context, items []models.ScaleItem) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		if item.Note < 1 || item.Note > 5 {
			return 0, sentinel.ErrConflict
		}
		s.scale[item.Note] = item
	}
	return len(items), nil
}

func (s *InMemoryStore) UpsertRubrics(_ context.Context, categoryID id.CategoryID, rubrics []models.Rubric) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byNumero := make(map[int]id.RubricID)
	var maxID id.RubricID
	for rid, r := range s.rubrics {
		if r.CategoryID == categoryID {
			byNumero[r.Numero] = rid
		}
		if rid > maxID {
			maxID = rid
		}
	}
	for _, r := range rubrics {
		if r.Numero < 1 || r.Numero > 12 {
			return 0, sentinel.ErrConflict
		}
		r.CategoryID = categoryID
		if existing, ok := byNumero[r.Numero]; ok {
			r.ID = existing
		} else {
			maxID++
			r.ID = maxID
			byNumero[r.Numero] = r.ID
		}
		s.rubrics[r.ID] = r
	}
	return len(rubrics), nil
}

func (s *InMemoryStore) Ping(context.Context) error {
	return nil
}
