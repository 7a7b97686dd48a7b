package profile

import (
	"errors"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/units"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("invalid profile")
)

const maxRestTimeSeconds = 3600

type Preferences struct {
	UseMetric       bool `json:"useMetric"`
	Notifications   bool `json:"notifications"`
	DefaultRestTime int  `json:"defaultRestTime"` // seconds
	DarkMode        bool `json:"darkMode"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		UseMetric:       false,
		Notifications:   true,
		DefaultRestTime: 60,
		DarkMode:        false,
	}
}

func (p Preferences) Validate() error {
	if p.DefaultRestTime < 0 || p.DefaultRestTime > maxRestTimeSeconds {
		return errors.Join(ErrInvalidProfile, errors.New("rest time out of range"))
	}
	return nil
}

// Profile holds the user's body measurements in the units they were entered
// in. Switching the unit preference never rewrites them.
type Profile struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Bio          string           `json:"bio"`
	Goals        []string         `json:"goals"`
	Preferences  Preferences      `json:"preferences"`
	ProfileImage string           `json:"profileImage,omitempty"`
	Height       *float64         `json:"height,omitempty"`
	HeightUnit   units.LengthUnit `json:"heightUnit,omitempty"`
	Weight       *float64         `json:"weight,omitempty"`
	WeightUnit   units.WeightUnit `json:"weightUnit,omitempty"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func NewDefaultProfile(userID, email string) Profile {
	return Profile{
		ID:          userID,
		Email:       email,
		Goals:       []string{},
		Preferences: DefaultPreferences(),
	}
}

func (p Profile) Validate() error {
	if p.ID == "" {
		return errors.Join(ErrInvalidProfile, errors.New("id empty"))
	}
	if p.Height != nil {
		if *p.Height <= 0 {
			return errors.Join(ErrInvalidProfile, errors.New("height must be positive"))
		}
		if _, err := units.ParseLengthUnit(string(p.HeightUnit)); err != nil {
			return errors.Join(ErrInvalidProfile, err)
		}
	}
	if p.Weight != nil {
		if *p.Weight <= 0 {
			return errors.Join(ErrInvalidProfile, errors.New("weight must be positive"))
		}
		if _, err := units.ParseWeightUnit(string(p.WeightUnit)); err != nil {
			return errors.Join(ErrInvalidProfile, err)
		}
	}
	for _, g := range p.Goals {
		if strings.TrimSpace(g) == "" {
			return errors.Join(ErrInvalidProfile, errors.New("empty goal"))
		}
	}
	return p.Preferences.Validate()
}

// normalizeUnits stores unit aliases ("inches", "pounds") as their short form.
// Unknown units are left for Validate to reject.
func (p *Profile) normalizeUnits() {
	if u, err := units.ParseLengthUnit(string(p.HeightUnit)); err == nil {
		p.HeightUnit = u
	}
	if u, err := units.ParseWeightUnit(string(p.WeightUnit)); err == nil {
		p.WeightUnit = u
	}
}

// View is a profile with measurements converted to the preferred units.
type View struct {
	Profile
	DisplayHeight string `json:"displayHeight,omitempty"`
	DisplayWeight string `json:"displayWeight,omitempty"`
}

// Display converts height and weight at read time. The stored profile is not
// modified.
func Display(p Profile) View {
	view := View{Profile: p}
	if p.Height != nil {
		view.DisplayHeight = units.FormatHeight(*p.Height, p.HeightUnit, units.PreferredLengthUnit(p.Preferences.UseMetric))
	}
	if p.Weight != nil {
		view.DisplayWeight = units.FormatWeight(*p.Weight, p.WeightUnit, units.PreferredWeightUnit(p.Preferences.UseMetric))
	}
	return view
}
