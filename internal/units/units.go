package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	PoundsPerKilogram  = 2.20462
	CentimetersPerInch = 2.54
)

type WeightUnit string

const (
	Kilograms WeightUnit = "kg"
	Pounds    WeightUnit = "lb"
)

type LengthUnit string

const (
	Centimeters LengthUnit = "cm"
	Inches      LengthUnit = "in"
)

var ErrUnknownUnit = errors.New("unknown unit")

func ParseWeightUnit(s string) (WeightUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg", "kgs", "kilograms":
		return Kilograms, nil
	case "lb", "lbs", "pounds":
		return Pounds, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
	}
}

func ParseLengthUnit(s string) (LengthUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cm", "centimeters":
		return Centimeters, nil
	case "in", "inches":
		return Inches, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
	}
}

// PreferredWeightUnit maps the metric preference flag to a weight unit.
func PreferredWeightUnit(useMetric bool) WeightUnit {
	if useMetric {
		return Kilograms
	}
	return Pounds
}

func PreferredLengthUnit(useMetric bool) LengthUnit {
	if useMetric {
		return Centimeters
	}
	return Inches
}

// canonicalWeight maps aliases like "lbs" to their unit; unknown units come back unchanged.
func canonicalWeight(u WeightUnit) WeightUnit {
	if parsed, err := ParseWeightUnit(string(u)); err == nil {
		return parsed
	}
	return u
}

func canonicalLength(u LengthUnit) LengthUnit {
	if parsed, err := ParseLengthUnit(string(u)); err == nil {
		return parsed
	}
	return u
}

// ToKilograms converts without rounding; used for comparisons across units.
// Unknown units are taken as kilograms.
func ToKilograms(value float64, from WeightUnit) float64 {
	if canonicalWeight(from) == Pounds {
		return value / PoundsPerKilogram
	}
	return value
}

// ConvertWeight converts value between kg and lb, rounded to the nearest integer.
// Same-unit conversion only rounds, and so does a conversion involving an unknown unit.
func ConvertWeight(value float64, from, to WeightUnit) int {
	from, to = canonicalWeight(from), canonicalWeight(to)
	switch {
	case from == to:
		return int(math.Round(value))
	case from == Kilograms && to == Pounds:
		return int(math.Round(value * PoundsPerKilogram))
	case from == Pounds && to == Kilograms:
		return int(math.Round(value / PoundsPerKilogram))
	default:
		// unknown unit, nothing to convert from
		return int(math.Round(value))
	}
}

// ConvertLength converts value between cm and in, rounded to the nearest integer.
// Same-unit and unknown-unit conversions only round.
func ConvertLength(value float64, from, to LengthUnit) int {
	from, to = canonicalLength(from), canonicalLength(to)
	switch {
	case from == to:
		return int(math.Round(value))
	case from == Centimeters && to == Inches:
		return int(math.Round(value / CentimetersPerInch))
	case from == Inches && to == Centimeters:
		return int(math.Round(value * CentimetersPerInch))
	default:
		// unknown unit, nothing to convert from
		return int(math.Round(value))
	}
}

// FormatHeight renders a height for display in the given unit.
// Imperial heights are shown as feet'inches", e.g. 5'11".
func FormatHeight(value float64, from, to LengthUnit) string {
	converted := ConvertLength(value, from, to)
	if canonicalLength(to) == Inches {
		return fmt.Sprintf("%d'%d\"", converted/12, converted%12)
	}
	return fmt.Sprintf("%d cm", converted)
}

func FormatWeight(value float64, from, to WeightUnit) string {
	return fmt.Sprintf("%d %s", ConvertWeight(value, from, to), canonicalWeight(to))
}
