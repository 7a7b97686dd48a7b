package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/units"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=profile_test

type profileRepo interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, p Profile) error
	UpdatePreferences(ctx context.Context, userID string, prefs Preferences) error
}

// EditRequest carries the user editable profile fields. Measurements sent
// without a unit are taken in the user's current preferred unit.
type EditRequest struct {
	Name         string           `json:"name"`
	Bio          string           `json:"bio"`
	Goals        []string         `json:"goals"`
	ProfileImage string           `json:"profileImage,omitempty"`
	Height       *float64         `json:"height,omitempty"`
	HeightUnit   units.LengthUnit `json:"heightUnit,omitempty"`
	Weight       *float64         `json:"weight,omitempty"`
	WeightUnit   units.WeightUnit `json:"weightUnit,omitempty"`
}

type Service struct {
	repo profileRepo
	now  func() time.Time
}

func NewService(repo profileRepo) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Get returns the stored profile, or a default one if the user never saved it.
func (s *Service) Get(ctx context.Context, userID, email string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	p, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		def := NewDefaultProfile(userID, email)
		return &def, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, userID, email string, req EditRequest) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	p, err := s.Get(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Bio = req.Bio
	p.Goals = req.Goals
	if p.Goals == nil {
		p.Goals = []string{}
	}
	p.ProfileImage = req.ProfileImage
	if email != "" {
		p.Email = email
	}

	p.Height, p.HeightUnit = req.Height, req.HeightUnit
	if p.Height != nil && p.HeightUnit == "" {
		p.HeightUnit = units.PreferredLengthUnit(p.Preferences.UseMetric)
	}
	if p.Height == nil {
		p.HeightUnit = ""
	}

	p.Weight, p.WeightUnit = req.Weight, req.WeightUnit
	if p.Weight != nil && p.WeightUnit == "" {
		p.WeightUnit = units.PreferredWeightUnit(p.Preferences.UseMetric)
	}
	if p.Weight == nil {
		p.WeightUnit = ""
	}

	p.normalizeUnits()
	p.UpdatedAt = s.now()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePreferences replaces the preferences only. Stored height and weight
// stay in their entry units whatever useMetric becomes.
func (s *Service) UpdatePreferences(ctx context.Context, userID, email string, prefs Preferences) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.updatepreferences")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	err = s.repo.UpdatePreferences(ctx, userID, prefs)
	if errors.Is(err, ErrProfileNotFound) {
		p := NewDefaultProfile(userID, email)
		p.Preferences = prefs
		p.UpdatedAt = s.now()
		if err := s.repo.Upsert(ctx, p); err != nil {
			return nil, err
		}
		return &p, nil
	}
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, email)
}

func (s *Service) PreferredWeightUnit(ctx context.Context, userID string) (units.WeightUnit, error) {
	p, err := s.Get(ctx, userID, "")
	if err != nil {
		return "", err
	}
	return units.PreferredWeightUnit(p.Preferences.UseMetric), nil
}
