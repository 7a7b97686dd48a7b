package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

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

func (r *Repo) Get(ctx context.Context, userID string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var (
		p                      Profile
		goalsJson, prefsJson   []byte
		heightUnit, weightUnit *string
	)
	err = r.db.QueryRow(
		ctx,
		`SELECT id, name, email, bio, goals, preferences, profile_image, height, height_unit, weight, weight_unit, updated_at
			FROM profile
			WHERE id = $1;`,
		userID,
	).Scan(
		&p.ID, &p.Name, &p.Email, &p.Bio, &goalsJson, &prefsJson, &p.ProfileImage,
		&p.Height, &heightUnit, &p.Weight, &weightUnit, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(goalsJson, &p.Goals); err != nil {
		return nil, fmt.Errorf("unmarshal goals: %w", err)
	}
	if err := json.Unmarshal(prefsJson, &p.Preferences); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}
	if heightUnit != nil {
		p.HeightUnit = units.LengthUnit(*heightUnit)
	}
	if weightUnit != nil {
		p.WeightUnit = units.WeightUnit(*weightUnit)
	}

	return &p, nil
}

func (r *Repo) Upsert(ctx context.Context, p Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", p.ID))

	goals := p.Goals
	if goals == nil {
		goals = []string{}
	}
	goalsJson, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("marshal goals: %w", err)
	}
	prefsJson, err := json.Marshal(p.Preferences)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO profile
				(id, name, email, bio, goals, preferences, profile_image, height, height_unit, weight, weight_unit, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				email = EXCLUDED.email,
				bio = EXCLUDED.bio,
				goals = EXCLUDED.goals,
				preferences = EXCLUDED.preferences,
				profile_image = EXCLUDED.profile_image,
				height = EXCLUDED.height,
				height_unit = EXCLUDED.height_unit,
				weight = EXCLUDED.weight,
				weight_unit = EXCLUDED.weight_unit,
				updated_at = EXCLUDED.updated_at;`,
		p.ID, p.Name, p.Email, p.Bio, goalsJson, prefsJson, p.ProfileImage,
		p.Height, nullable(string(p.HeightUnit)), p.Weight, nullable(string(p.WeightUnit)), p.UpdatedAt,
	)
	return err
}

func (r *Repo) UpdatePreferences(ctx context.Context, userID string, prefs Preferences) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.updatepreferences")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	prefsJson, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE profile SET preferences = $1, updated_at = now() WHERE id = $2;`,
		prefsJson, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
