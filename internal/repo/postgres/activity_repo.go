package postgres

import (
	"context"
	"encoding/json"

	"github.com/geocoder89/sportsbuddy/internal/observability"
	"github.com/geocoder89/sportsbuddy/internal/observer"
	"github.com/geocoder89/sportsbuddy/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var activityColumns = []string{"level", "message", "action", "user_id", "details", "recorded_at"}

// ActivityRepo is append-only; the archiver bulk-loads entries with COPY.
type ActivityRepo struct {
	base
}

func NewActivityRepo(pool *pgxpool.Pool, prom *observability.Prom) *ActivityRepo {
	return &ActivityRepo{base{
		pool:       pool,
		prom:       prom,
		table:      "activity_log",
		collection: store.CollectionActivity,
	}}
}

func (r *ActivityRepo) InsertActivity(ctx context.Context, entries []observer.Entry) (n int64, err error) {
	if len(entries) == 0 {
		return 0, nil
	}

	rows, err := activityRows(entries)
	if err != nil {
		return 0, err
	}

	err = r.observe("insert", func() error {
		n, err = r.pool.CopyFrom(ctx, pgx.Identifier{r.table}, activityColumns, pgx.CopyFromRows(rows))
		return mapErr(err)
	})
	return n, err
}

func activityRows(entries []observer.Entry) ([][]any, error) {
	rows := make([][]any, 0, len(entries))

	for _, e := range entries {
		details := []byte("{}")
		if len(e.Details) > 0 {
			b, err := json.Marshal(e.Details)
			if err != nil {
				return nil, err
			}
			details = b
		}

		var userID *string
		if e.UserID != "" {
			uid := e.UserID
			userID = &uid
		}

		rows = append(rows, []any{string(e.Level), e.Message, e.Action, userID, details, e.Timestamp.UTC()})
	}

	return rows, nil
}
