// Package softdelete records which tables of the deployed schema carry a
// deleted_at column, and builds the live-row predicate read paths use.
package softdelete

import (
	"errors"
	"fmt"
	"sort"

	"missionsuivi/internal/platform/config"
	"missionsuivi/pkg/platform/sentinel"
	"missionsuivi/pkg/platform/strings"

	sq "github.com/Masterminds/squirrel"
)

const (
	TableEvaluation = "evaluation"
	TableCity       = "ville"
	TableBranch     = "etablissement_visite"
	TableInspector  = "controleur"
	TablePeriod     = "periode"
	TableMission    = "mission"
)

// schemaTables lists the tables each migration version added deleted_at to.
var schemaTables = map[int][]string{
	2: {TableEvaluation},
	3: {TableCity, TableBranch, TableInspector, TablePeriod, TableMission},
}

// CapabilityError reports a soft-delete operation on a table without the
// column. It matches sentinel.ErrUnsupported.
type CapabilityError struct {
	Table string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("soft delete not supported on table %q", e.Table)
}

func (e *CapabilityError) Unwrap() error {
	return sentinel.ErrUnsupported
}

// Guard is immutable once built; share it freely.
type Guard struct {
	tables map[string]struct{}
}

// New builds a guard for an explicit table list.
func New(tables ...string) *Guard {
	g := &Guard{tables: make(map[string]struct{}, len(tables))}
	for _, t := range strings.Normalize(tables, true) {
		g.tables[t] = struct{}{}
	}
	return g
}

// ForSchemaVersion returns the guard matching a migration version.
func ForSchemaVersion(version int) *Guard {
	var tables []string
	for v, ts := range schemaTables {
		if v <= version {
			tables = append(tables, ts...)
		}
	}
	return New(tables...)
}

// FromConfig prefers the explicit table list over the schema version.
func FromConfig(cfg config.SoftDeleteConfig) *Guard {
	if len(cfg.Tables) > 0 {
		return New(cfg.Tables...)
	}
	return ForSchemaVersion(cfg.SchemaVersion)
}

func (g *Guard) Supports(table string) bool {
	if g == nil {
		return false
	}
	_, ok := g.tables[table]
	return ok
}

// Require returns a *CapabilityError when the table lacks deleted_at.
func (g *Guard) Require(table string) error {
	if !g.Supports(table) {
		return &CapabilityError{Table: table}
	}
	return nil
}

// Tables lists the supported tables in name order.
func (g *Guard) Tables() []string {
	if g == nil {
		return nil
	}
	out := make([]string, 0, len(g.tables))
	for t := range g.tables {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// LiveOnly returns "<alias>.deleted_at IS NULL" for supported tables and an
// always-true predicate otherwise, or when deleted rows are requested.
func (g *Guard) LiveOnly(alias, table string, includeDeleted bool) sq.Sqlizer {
	if includeDeleted || !g.Supports(table) {
		return sq.Expr("TRUE")
	}
	col := "deleted_at"
	if alias != "" {
		col = alias + "." + col
	}
	return sq.Eq{col: nil}
}

// IsCapabilityError reports whether err came from Require.
func IsCapabilityError(err error) bool {
	var ce *CapabilityError
	return errors.As(err, &ce)
}
