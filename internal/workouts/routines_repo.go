package workouts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type RoutinesRepo struct {
	db *pgxpool.Pool
}

func NewRoutinesRepo(db *pgxpool.Pool) *RoutinesRepo {
	return &RoutinesRepo{
		db: db,
	}
}

func (r *RoutinesRepo) Add(ctx context.Context, routine Routine) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routine.ID))

	exercisesJson, err := json.Marshal(routine.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO routine (id, user_id, name, exercises, created_at) VALUES ($1, $2, $3, $4, $5);`,
		routine.ID, routine.UserID, routine.Name, exercisesJson, routine.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &routine, nil
}

func (r *RoutinesRepo) Get(ctx context.Context, userID, id string) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, exercises, created_at FROM routine WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routines, err := r.rows2routines(rows)
	if err != nil {
		return nil, err
	}
	if len(routines) != 1 {
		return nil, ErrRoutineNotFound
	}
	return &routines[0], nil
}

func (r *RoutinesRepo) List(ctx context.Context, userID string) (_ []Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, exercises, created_at FROM routine WHERE user_id = $1 ORDER BY created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2routines(rows)
}

func (r *RoutinesRepo) Update(ctx context.Context, routine Routine) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routine.ID))

	exercisesJson, err := json.Marshal(routine.Exercises)
	if err != nil {
		return fmt.Errorf("marshal exercises: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE routine SET name = $1, exercises = $2 WHERE id = $3 AND user_id = $4;`,
		routine.Name, exercisesJson, routine.ID, routine.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}
	return nil
}

func (r *RoutinesRepo) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM routine WHERE id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}
	return nil
}

func (r *RoutinesRepo) rows2routines(rows pgx.Rows) ([]Routine, error) {
	var routines []Routine
	for rows.Next() {
		var routine Routine
		var exercisesJson []byte
		if err := rows.Scan(&routine.ID, &routine.UserID, &routine.Name, &exercisesJson, &routine.CreatedAt); err != nil {
			return nil, err
		}
		if len(exercisesJson) > 0 {
			if err := json.Unmarshal(exercisesJson, &routine.Exercises); err != nil {
				return nil, fmt.Errorf("unmarshal exercises of routine %s: %w", routine.ID, err)
			}
		}
		routines = append(routines, routine)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return routines, nil
}
