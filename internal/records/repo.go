package records

import (
	"context"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/units"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// EnsureTracked creates empty records for tracked exercises the user has no
// row for yet. Existing records are left alone.
func (r *Repo) EnsureTracked(ctx context.Context, userID string, exercises []string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.ensuretracked")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	batch := &pgx.Batch{}
	for _, e := range exercises {
		batch.Queue(
			`INSERT INTO personal_record (user_id, exercise, value, unit, achieved_at)
				VALUES ($1, $2, 0, $3, NULL)
				ON CONFLICT (user_id, exercise) DO NOTHING;`,
			userID, NormalizeName(e), string(units.Kilograms),
		)
	}

	return r.db.SendBatch(ctx, batch).Close()
}

func (r *Repo) List(ctx context.Context, userID string) (_ []PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT user_id, exercise, value, unit, achieved_at
			FROM personal_record
			WHERE user_id = $1
			ORDER BY exercise;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PersonalRecord
	for rows.Next() {
		var (
			pr         PersonalRecord
			unit       string
			achievedAt *time.Time
		)
		if err := rows.Scan(&pr.UserID, &pr.Exercise, &pr.Value, &unit, &achievedAt); err != nil {
			return nil, err
		}
		pr.Unit = units.WeightUnit(unit)
		pr.Date = achievedAt
		records = append(records, pr)
	}

	return records, rows.Err()
}

// Upsert stores the record unless the stored one is already achieved and at
// least as heavy, compared in kilograms. Reports whether the record was
// written. The comparison runs in the statement itself, so concurrent workouts
// of one user cannot replace a heavier record with a lighter one.
func (r *Repo) Upsert(ctx context.Context, record PersonalRecord) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", record.UserID))
	span.SetAttributes(attribute.String("record.exercise", record.Exercise))

	tag, err := r.db.Exec(
		ctx,
		`INSERT INTO personal_record (user_id, exercise, value, unit, achieved_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, exercise)
			DO UPDATE SET value = EXCLUDED.value, unit = EXCLUDED.unit, achieved_at = EXCLUDED.achieved_at
			WHERE personal_record.achieved_at IS NULL
				OR (CASE WHEN personal_record.unit = $6 THEN personal_record.value / $7 ELSE personal_record.value END)
					< (CASE WHEN EXCLUDED.unit = $6 THEN EXCLUDED.value / $7 ELSE EXCLUDED.value END);`,
		record.UserID, record.Exercise, record.Value, string(record.Unit), record.Date,
		string(units.Pounds), units.PoundsPerKilogram,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
