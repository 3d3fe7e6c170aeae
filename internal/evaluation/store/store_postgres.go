package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/softdelete"
	"missionsuivi/internal/platform/postgres"
	id "missionsuivi/pkg/domain"
	"missionsuivi/pkg/platform/sentinel"
	txcontext "missionsuivi/pkg/platform/tx"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore reads and writes the evaluation schema. Mutations join the
// transaction carried by the context, if any.
type PostgresStore struct {
	db    *sql.DB
	guard *softdelete.Guard
}

func NewPostgres(db *sql.DB, guard *softdelete.Guard) *PostgresStore {
	return &PostgresStore{db: db, guard: guard}
}

func (s *PostgresStore) execer(ctx context.Context) txcontext.Querier {
	return txcontext.QuerierFor(ctx, s.db)
}

func (s *PostgresStore) exec(ctx context.Context, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	res, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, postgres.TranslateError(err)
	}
	return res.RowsAffected()
}

func (s *PostgresStore) query(ctx context.Context, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, postgres.TranslateError(err)
	}
	return rows, nil
}

func (s *PostgresStore) queryRow(ctx context.Context, b sq.Sqlizer) (*sql.Row, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.execer(ctx).QueryRowContext(ctx, query, args...), nil
}

// filterEq turns the set dimensions of a filter into column equalities.
func filterEq(alias string, f models.Filter) sq.Eq {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}
	eq := sq.Eq{}
	if f.MissionID != nil {
		eq[col("mission_id")] = int64(*f.MissionID)
	}
	if f.CityID != nil {
		eq[col("ville_id")] = int64(*f.CityID)
	}
	if f.BranchID != nil {
		eq[col("etablissement_visite_id")] = int64(*f.BranchID)
	}
	if f.InspectorID != nil {
		eq[col("controleur_id")] = int64(*f.InspectorID)
	}
	if f.CategoryID != nil {
		eq[col("volet_id")] = int64(*f.CategoryID)
	}
	return eq
}

func (s *PostgresStore) deletedAtColumn(alias, table string) string {
	if s.guard.Supports(table) {
		return alias + ".deleted_at"
	}
	return "NULL::timestamptz"
}

// Fetch returns matching records joined with city and branch names, ordered
// by city name, branch name, then creation.
func (s *PostgresStore) Fetch(ctx context.Context, f models.Filter) ([]models.Record, error) {
	if err := checkFilter(f); err != nil {
		return nil, err
	}
	b := psql.Select(
		"e.id", "e.mission_id", "e.ville_id", "e.etablissement_visite_id", "e.controleur_id",
		"e.volet_id", "e.rubrique_id", "e.note", "e.commentaire", "e.date_evaluation",
		"e.created_at", s.deletedAtColumn("e", softdelete.TableEvaluation), "v.nom", "ev.nom",
	).
		From("evaluation e").
		Join("ville v ON v.id = e.ville_id").
		Join("etablissement_visite ev ON ev.id = e.etablissement_visite_id").
		Where(s.guard.LiveOnly("e", softdelete.TableEvaluation, f.IncludeDeleted)).
		Where(filterEq("e", f)).
		OrderBy("v.nom", "ev.nom", "e.created_at", "e.id")

	rows, err := s.query(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("fetch evaluations: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var (
			r         models.Record
			comment   sql.NullString
			deletedAt sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.MissionID, &r.CityID, &r.BranchID, &r.InspectorID,
			&r.CategoryID, &r.RubricID, &r.Note, &comment, &r.EvaluationDate,
			&r.CreatedAt, &deletedAt, &r.CityName, &r.BranchName); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		r.Comment = comment.String
		if deletedAt.Valid {
			t := deletedAt.Time
			r.DeletedAt = &t
		}
		records = append(records, r)
	}
	return records, postgres.TranslateError(rows.Err())
}

// SoftDelete marks every live matching row deleted and returns how many
// rows changed. An empty filter matches the whole table.
func (s *PostgresStore) SoftDelete(ctx context.Context, f models.Filter) (int64, error) {
	if err := checkFilter(f); err != nil {
		return 0, err
	}
	if err := s.guard.Require(softdelete.TableEvaluation); err != nil {
		return 0, err
	}
	n, err := s.exec(ctx, psql.Update("evaluation").
		Set("deleted_at", sq.Expr("NOW()")).
		Where(sq.Eq{"deleted_at": nil}).
		Where(filterEq("", f)))
	if err != nil {
		return 0, fmt.Errorf("soft delete evaluations: %w", err)
	}
	return n, nil
}

// HardDelete removes matching rows. It backs replace-on-submit on schemas
// without deleted_at.
func (s *PostgresStore) HardDelete(ctx context.Context, f models.Filter) (int64, error) {
	if err := checkFilter(f); err != nil {
		return 0, err
	}
	if f.IsEmpty() {
		return 0, errors.New("hard delete requires at least one filter")
	}
	n, err := s.exec(ctx, psql.Delete("evaluation").Where(filterEq("", f)))
	if err != nil {
		return 0, fmt.Errorf("delete evaluations: %w", err)
	}
	return n, nil
}

// Restore clears deleted_at on one row. It returns sentinel.ErrNothingToRestore
// when the row is absent or already live.
func (s *PostgresStore) Restore(ctx context.Context, recordID id.RecordID) (int64, error) {
	return s.restoreWhere(ctx, sq.Eq{"id": int64(recordID)})
}

// RestoreMany clears deleted_at on every listed row that is currently deleted.
func (s *PostgresStore) RestoreMany(ctx context.Context, ids []id.RecordID) (int64, error) {
	raw := make([]int64, len(ids))
	for i, rid := range ids {
		raw[i] = int64(rid)
	}
	return s.restoreWhere(ctx, sq.Expr("id = ANY(?)", pq.Array(raw)))
}

// RestoreAll clears deleted_at on every deleted row. Zero is a valid answer.
func (s *PostgresStore) RestoreAll(ctx context.Context) (int64, error) {
	if err := s.guard.Require(softdelete.TableEvaluation); err != nil {
		return 0, err
	}
	n, err := s.exec(ctx, psql.Update("evaluation").
		Set("deleted_at", nil).
		Where(sq.NotEq{"deleted_at": nil}))
	if err != nil {
		return 0, fmt.Errorf("restore all evaluations: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) restoreWhere(ctx context.Context, pred sq.Sqlizer) (int64, error) {
	if err := s.guard.Require(softdelete.TableEvaluation); err != nil {
		return 0, err
	}
	n, err := s.exec(ctx, psql.Update("evaluation").
		Set("deleted_at", nil).
		Where(pred).
		Where(sq.NotEq{"deleted_at": nil}))
	if err != nil {
		return 0, fmt.Errorf("restore evaluations: %w", err)
	}
	if n == 0 {
		return 0, sentinel.ErrNothingToRestore
	}
	return n, nil
}

// Insert writes a batch of notes. A zero EvaluationDate defaults to the
// database's current date.
func (s *PostgresStore) Insert(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}
	b := psql.Insert("evaluation").Columns(
		"mission_id", "ville_id", "etablissement_visite_id", "controleur_id",
		"volet_id", "rubrique_id", "note", "commentaire", "date_evaluation",
	)
	for _, r := range records {
		var evalDate any = sq.Expr("CURRENT_DATE")
		if !r.EvaluationDate.IsZero() {
			evalDate = r.EvaluationDate
		}
		comment := sql.NullString{String: r.Comment, Valid: r.Comment != ""}
		b = b.Values(int64(r.MissionID), int64(r.CityID), int64(r.BranchID), int64(r.InspectorID),
			int64(r.CategoryID), int64(r.RubricID), r.Note, comment, evalDate)
	}
	if _, err := s.exec(ctx, b); err != nil {
		return fmt.Errorf("insert evaluations: %w", err)
	}
	return nil
}

// Scale returns the bareme ordered by note.
func (s *PostgresStore) Scale(ctx context.Context) ([]models.ScaleItem, error) {
	rows, err := s.query(ctx, psql.Select("note", "libelle", "COALESCE(description, '')").
		From("bareme").OrderBy("note"))
	if err != nil {
		return nil, fmt.Errorf("fetch scale: %w", err)
	}
	defer rows.Close()
	var items []models.ScaleItem
	for rows.Next() {
		var item models.ScaleItem
		if err := rows.Scan(&item.Note, &item.Label, &item.Description); err != nil {
			return nil, fmt.Errorf("scan scale item: %w", err)
		}
		items = append(items, item)
	}
	return items, postgres.TranslateError(rows.Err())
}

// Rubrics returns the rubric set of a category ordered by numero.
func (s *PostgresStore) Rubrics(ctx context.Context, categoryID id.CategoryID) ([]models.Rubric, error) {
	rows, err := s.query(ctx, psql.Select(
		"id", "volet_id", "numero", "libelle",
		"COALESCE(composante_evaluee, '')", "COALESCE(criteres_indicateurs, '')", "COALESCE(mode_verification, '')",
	).From("rubrique").Where(sq.Eq{"volet_id": int64(categoryID)}).OrderBy("numero"))
	if err != nil {
		return nil, fmt.Errorf("fetch rubrics: %w", err)
	}
	defer rows.Close()
	var rubrics []models.Rubric
	for rows.Next() {
		var r models.Rubric
		if err := rows.Scan(&r.ID, &r.CategoryID, &r.Numero, &r.Label, &r.Component, &r.Criteria, &r.VerificationMode); err != nil {
			return nil, fmt.Errorf("scan rubric: %w", err)
		}
		rubrics = append(rubrics, r)
	}
	return rubrics, postgres.TranslateError(rows.Err())
}

func (s *PostgresStore) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.query(ctx, psql.Select("id", "code", "libelle", "ordre").From("volet").OrderBy("ordre", "id"))
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	defer rows.Close()
	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Label, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, postgres.TranslateError(rows.Err())
}

func (s *PostgresStore) FindCategory(ctx context.Context, categoryID id.CategoryID) (models.Category, error) {
	return s.findCategory(ctx, sq.Eq{"id": int64(categoryID)})
}

func (s *PostgresStore) FindCategoryByCode(ctx context.Context, code id.CategoryCode) (models.Category, error) {
	return s.findCategory(ctx, sq.Eq{"code": code.String()})
}

func (s *PostgresStore) findCategory(ctx context.Context, pred sq.Sqlizer) (models.Category, error) {
	row, err := s.queryRow(ctx, psql.Select("id", "code", "libelle", "ordre").From("volet").Where(pred))
	if err != nil {
		return models.Category{}, err
	}
	var c models.Category
	if err := row.Scan(&c.ID, &c.Code, &c.Label, &c.DisplayOrder); err != nil {
		return models.Category{}, notFound(err, "find category")
	}
	return c, nil
}

// FindCity, FindBranch and FindInspector ignore deleted_at: historical
// submissions keep their labels after a reference row is retired.
func (s *PostgresStore) FindCity(ctx context.Context, cityID id.CityID) (models.City, error) {
	row, err := s.queryRow(ctx, psql.Select("id", "nom").From("ville").Where(sq.Eq{"id": int64(cityID)}))
	if err != nil {
		return models.City{}, err
	}
	var c models.City
	if err := row.Scan(&c.ID, &c.Name); err != nil {
		return models.City{}, notFound(err, "find city")
	}
	return c, nil
}

func (s *PostgresStore) FindBranch(ctx context.Context, branchID id.BranchID) (models.Branch, error) {
	row, err := s.queryRow(ctx, psql.Select("id", "nom", "ville_id").From("etablissement_visite").
		Where(sq.Eq{"id": int64(branchID)}))
	if err != nil {
		return models.Branch{}, err
	}
	var b models.Branch
	if err := row.Scan(&b.ID, &b.Name, &b.CityID); err != nil {
		return models.Branch{}, notFound(err, "find branch")
	}
	return b, nil
}

func (s *PostgresStore) FindInspector(ctx context.Context, inspectorID id.InspectorID) (models.Inspector, error) {
	row, err := s.queryRow(ctx, psql.Select("id", "nom", "prenom", "COALESCE(ville_id, 0)").From("controleur").
		Where(sq.Eq{"id": int64(inspectorID)}))
	if err != nil {
		return models.Inspector{}, err
	}
	var i models.Inspector
	if err := row.Scan(&i.ID, &i.LastName, &i.FirstName, &i.CityID); err != nil {
		return models.Inspector{}, notFound(err, "find inspector")
	}
	return i, nil
}

// FindPeriod returns live periods only.
func (s *PostgresStore) FindPeriod(ctx context.Context, periodID id.PeriodID) (models.Period, error) {
	row, err := s.queryRow(ctx, psql.Select("id", "libelle", "date_debut", "date_fin", "ville_id").
		From("periode").
		Where(sq.Eq{"id": int64(periodID)}).
		Where(s.guard.LiveOnly("", softdelete.TablePeriod, false)))
	if err != nil {
		return models.Period{}, err
	}
	var p models.Period
	if err := row.Scan(&p.ID, &p.Label, &p.StartDate, &p.EndDate, &p.CityID); err != nil {
		return models.Period{}, notFound(err, "find period")
	}
	return p, nil
}

// MissionsByRange lists live missions with exactly the given dates.
func (s *PostgresStore) MissionsByRange(ctx context.Context, start, end time.Time) ([]models.Mission, error) {
	rows, err := s.query(ctx, psql.Select("id", "nom", "date_debut", "date_fin").
		From("mission").
		Where(sq.Eq{"date_debut": start.Format(time.DateOnly), "date_fin": end.Format(time.DateOnly)}).
		Where(s.guard.LiveOnly("", softdelete.TableMission, false)).
		OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("fetch missions by range: %w", err)
	}
	defer rows.Close()
	var out []models.Mission
	for rows.Next() {
		var m models.Mission
		if err := rows.Scan(&m.ID, &m.Name, &m.StartDate, &m.EndDate); err != nil {
			return nil, fmt.Errorf("scan mission: %w", err)
		}
		out = append(out, m)
	}
	return out, postgres.TranslateError(rows.Err())
}

// Roster lists the live inspectors assigned to a city by name.
func (s *PostgresStore) Roster(ctx context.Context, cityID id.CityID) ([]models.Inspector, error) {
	rows, err := s.query(ctx, psql.Select("id", "nom", "prenom", "ville_id").
		From("controleur").
		Where(sq.Eq{"ville_id": int64(cityID)}).
		Where(s.guard.LiveOnly("", softdelete.TableInspector, false)).
		OrderBy("nom", "prenom", "id"))
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	defer rows.Close()
	var out []models.Inspector
	for rows.Next() {
		var i models.Inspector
		if err := rows.Scan(&i.ID, &i.LastName, &i.FirstName, &i.CityID); err != nil {
			return nil, fmt.Errorf("scan inspector: %w", err)
		}
		out = append(out, i)
	}
	return out, postgres.TranslateError(rows.Err())
}

// SoftDeleteEntity retires one reference row. It returns sentinel.ErrNotFound
// when the row is absent or already deleted.
func (s *PostgresStore) SoftDeleteEntity(ctx context.Context, entity models.ReferenceEntity, rowID int64) error {
	table := entity.Table()
	if err := s.guard.Require(table); err != nil {
		return err
	}
	n, err := s.exec(ctx, psql.Update(table).
		Set("deleted_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": rowID, "deleted_at": nil}))
	if err != nil {
		return fmt.Errorf("soft delete %s: %w", table, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// RestoreEntity brings back one retired reference row.
func (s *PostgresStore) RestoreEntity(ctx context.Context, entity models.ReferenceEntity, rowID int64) error {
	table := entity.Table()
	if err := s.guard.Require(table); err != nil {
		return err
	}
	n, err := s.exec(ctx, psql.Update(table).
		Set("deleted_at", nil).
		Where(sq.Eq{"id": rowID}).
		Where(sq.NotEq{"deleted_at": nil}))
	if err != nil {
		return fmt.Errorf("restore %s: %w", table, err)
	}
	if n == 0 {
		return sentinel.ErrNothingToRestore
	}
	return nil
}

// UpsertScale inserts or relabels bareme entries.
func (s *PostgresStore) UpsertScale(ctx context.Context, items []models.ScaleItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	b := psql.Insert("bareme").Columns("note", "libelle", "description")
	for _, item := range items {
		b = b.Values(item.Note, item.Label, sql.NullString{String: item.Description, Valid: item.Description != ""})
	}
	b = b.Suffix("ON CONFLICT (note) DO UPDATE SET libelle = EXCLUDED.libelle, description = EXCLUDED.description")
	n, err := s.exec(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("upsert scale: %w", err)
	}
	return int(n), nil
}

// UpsertRubrics inserts or updates a category's rubrics keyed by numero.
func (s *PostgresStore) UpsertRubrics(ctx context.Context, categoryID id.CategoryID, rubrics []models.Rubric) (int, error) {
	if len(rubrics) == 0 {
		return 0, nil
	}
	b := psql.Insert("rubrique").Columns(
		"volet_id", "numero", "libelle", "composante_evaluee", "criteres_indicateurs", "mode_verification",
	)
	for _, r := range rubrics {
		b = b.Values(int64(categoryID), r.Numero, r.Label, r.Component, r.Criteria, r.VerificationMode)
	}
	b = b.Suffix(`ON CONFLICT (volet_id, numero) DO UPDATE SET
		libelle = EXCLUDED.libelle,
		composante_evaluee = EXCLUDED.composante_evaluee,
		criteres_indicateurs = EXCLUDED.criteres_indicateurs,
		mode_verification = EXCLUDED.mode_verification`)
	n, err := s.exec(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("upsert rubrics: %w", err)
	}
	return int(n), nil
}

// Ping reports database reachability for the health endpoint.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, postgres.TranslateError(err))
}
