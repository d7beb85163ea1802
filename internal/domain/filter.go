package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Slider bounds for the magnitude filter.
const (
	MinMagnitude  = 0.0
	MaxMagnitude  = 10.0
	MagnitudeStep = 0.1

	stepsPerUnit = 10
)

// ErrInvalidRange is returned when a user-supplied magnitude range is rejected.
var ErrInvalidRange = errors.New("invalid magnitude range")

// DefaultRange is the slider's initial selection.
var DefaultRange = Range{Min: 4.0, Max: 7.0}

var validate = validator.New()

// Range is an inclusive magnitude interval.
type Range struct {
	Min float64 `json:"min" validate:"gte=0,lte=10"`
	Max float64 `json:"max" validate:"gte=0,lte=10,gtefield=Min"`
}

// Contains reports whether m lies within the range, bounds included.
func (r Range) Contains(m float64) bool {
	return m >= r.Min && m <= r.Max
}

// Validate checks the range against the slider domain.
func (r Range) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q (got %v)", ErrInvalidRange, strings.ToLower(fe.Field()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return nil
}

// Snap rounds both bounds to the slider step.
func (r Range) Snap() Range {
	return Range{Min: snap(r.Min), Max: snap(r.Max)}
}

// String formats the range the way the dashboard caption shows it.
func (r Range) String() string {
	return fmt.Sprintf("%.1f to %.1f", r.Min, r.Max)
}

func snap(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	// k/10 is the float nearest the decimal k*0.1.
	return math.Round(v*stepsPerUnit) / stepsPerUnit
}

// ParseRange builds a validated Range from query-style strings. An empty string
// keeps the corresponding default bound.
func ParseRange(minStr, maxStr string) (Range, error) {
	r := DefaultRange
	if s := strings.TrimSpace(minStr); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Range{}, fmt.Errorf("%w: min %q is not a number", ErrInvalidRange, minStr)
		}
		r.Min = v
	}
	if s := strings.TrimSpace(maxStr); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Range{}, fmt.Errorf("%w: max %q is not a number", ErrInvalidRange, maxStr)
		}
		r.Max = v
	}
	r = r.Snap()
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Filter returns a new table holding only rows whose magnitude lies in r.
// The result shares no storage with t.
func (t *Table) Filter(r Range) *Table {
	b := NewTableBuilder(t.Columns())
	for i := 0; i < t.Len(); i++ {
		if r.Contains(t.Magnitudes[i]) {
			b.Append(t.Row(i), t.extraRow(i))
		}
	}
	return b.Build()
}
