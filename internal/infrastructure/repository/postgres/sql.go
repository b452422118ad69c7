package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	qb "github.com/riskibarqy/pickem-standings/internal/platform/querybuilder"
)

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func weekConditions(key game.WeekKey) []qb.Condition {
	return []qb.Condition{
		qb.Eq("season", key.Season),
		qb.Eq("week", key.Week),
	}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
