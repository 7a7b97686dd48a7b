package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/units"
	"github.com/2beens/workoutlog/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type WorkoutParams struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

type ListParams struct {
	WorkoutParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, workout WorkoutSummary) (_ *WorkoutSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workout.ID))
	span.SetAttributes(attribute.String("user.id", workout.UserID))

	exercisesJson, err := json.Marshal(workout.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workout
				(id, user_id, name, date, duration, weight_unit, exercises, total_sets, completed_sets)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		workout.ID, workout.UserID, workout.Name, workout.Date, workout.Duration,
		string(workout.WeightUnit), exercisesJson, workout.TotalSets, workout.CompletedSets,
	)
	switch {
	case pkg.IsUniqueViolationError(err):
		return nil, ErrWorkoutExists
	case pkg.IsCheckViolationError(err):
		return nil, errors.Join(ErrInvalidWorkout, err)
	case err != nil:
		return nil, err
	}

	return &workout, nil
}

func (r *Repo) Get(ctx context.Context, userID, id string) (_ *WorkoutSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, date, duration, weight_unit, exercises, total_sets, completed_sets
			FROM workout
			WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts, err := r.rows2workouts(rows)
	if err != nil {
		return nil, err
	}

	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &workouts[0], nil
}

// ListAll returns all workouts of a user, newest first, optionally bounded by date.
func (r *Repo) ListAll(ctx context.Context, params WorkoutParams) (_ []WorkoutSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", params.UserID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, date, duration, weight_unit, exercises, total_sets, completed_sets
			FROM workout
			WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR date >= $2)
				AND ($3::timestamptz IS NULL OR date <= $3)
			ORDER BY date DESC;`,
		params.UserID, params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	workouts, err := r.rows2workouts(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2workouts: %w", err)
	}
	return workouts, nil
}

// List is like ListAll, but returns only the requested page, and the total count.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []WorkoutSummary, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", params.UserID))
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 || params.Size < 1 {
		return nil, 0, fmt.Errorf("invalid page [%d] or size [%d]", params.Page, params.Size)
	}

	total, err = r.Count(ctx, params.WorkoutParams)
	if err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	offset := (params.Page - 1) * params.Size
	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, date, duration, weight_unit, exercises, total_sets, completed_sets
			FROM workout
			WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR date >= $2)
				AND ($3::timestamptz IS NULL OR date <= $3)
			ORDER BY date DESC
			LIMIT $4 OFFSET $5;`,
		params.UserID, params.From, params.To, params.Size, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	workouts, err := r.rows2workouts(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("rows2workouts: %w", err)
	}
	return workouts, total, nil
}

func (r *Repo) Count(ctx context.Context, params WorkoutParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workout
			WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR date >= $2)
				AND ($3::timestamptz IS NULL OR date <= $3);`,
		params.UserID, params.From, params.To,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *Repo) rows2workouts(rows pgx.Rows) ([]WorkoutSummary, error) {
	var workouts []WorkoutSummary
	for rows.Next() {
		var w WorkoutSummary
		var weightUnit string
		var exercisesJson []byte
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Name, &w.Date, &w.Duration, &weightUnit,
			&exercisesJson, &w.TotalSets, &w.CompletedSets,
		); err != nil {
			return nil, err
		}
		w.WeightUnit = units.WeightUnit(weightUnit)
		if len(exercisesJson) > 0 {
			if err := json.Unmarshal(exercisesJson, &w.Exercises); err != nil {
				return nil, fmt.Errorf("unmarshal exercises of workout %s: %w", w.ID, err)
			}
		}
		workouts = append(workouts, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}

