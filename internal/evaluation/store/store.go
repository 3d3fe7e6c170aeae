// Package store persists evaluation records and the reference lists they
// point at. PostgresStore is the production backend; InMemoryStore backs
// handler tests and database-less development runs.
package store

import (
	"errors"

	"missionsuivi/internal/evaluation/models"
)

// errUnresolvedPeriod guards against a period filter reaching a store
// before the binder replaced it with a mission.
var errUnresolvedPeriod = errors.New("period filter must be resolved to a mission before querying")

func checkFilter(f models.Filter) error {
	if f.PeriodID != nil {
		return errUnresolvedPeriod
	}
	return nil
}
