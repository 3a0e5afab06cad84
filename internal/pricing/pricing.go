package pricing

import (
	"errors"
	"fmt"
	"math"
)

// stepNoise is the relative error treated as float noise in a step count
const stepNoise = 1e-12

// ErrInvalid is returned by Validate for unusable pricing settings
var ErrInvalid = errors.New("invalid pricing")

// Engine bills printed area in fixed currency steps.
// PricePerSquare is charged per SquareSize m² of area, and the result is
// rounded up to the next multiple of Step, never below Minimum.
type Engine struct {
	PricePerSquare float64 `yaml:"price_per_square" toml:"price_per_square" json:"price_per_square"`
	SquareSize     float64 `yaml:"square_size" toml:"square_size" json:"square_size"`
	Step           float64 `yaml:"step" toml:"step" json:"step"`
	Minimum        float64 `yaml:"minimum" toml:"minimum" json:"minimum"`
}

// NewDefaultEngine prices 25 per 50x50 cm square, billed in steps of 25
func NewDefaultEngine() Engine {
	return Engine{
		PricePerSquare: 25,
		SquareSize:     0.25,
		Step:           25,
		Minimum:        25,
	}
}

// Validate reports settings that would make Cost meaningless
func (e Engine) Validate() error {
	switch {
	case e.PricePerSquare <= 0:
		return fmt.Errorf("%w: price per square must be positive, got %v", ErrInvalid, e.PricePerSquare)
	case e.SquareSize <= 0:
		return fmt.Errorf("%w: square size must be positive, got %v", ErrInvalid, e.SquareSize)
	case e.Step <= 0:
		return fmt.Errorf("%w: step must be positive, got %v", ErrInvalid, e.Step)
	case e.Minimum < 0:
		return fmt.Errorf("%w: minimum must not be negative, got %v", ErrInvalid, e.Minimum)
	}
	return nil
}

// Cost returns the billed price for an area in m².
// Partial steps are always billed in full.
func (e Engine) Cost(area float64) float64 {
	if area < 0 || math.IsNaN(area) {
		area = 0
	}

	steps := (area * e.PricePerSquare) / (e.SquareSize * e.Step)
	// Drop float noise just above a whole step, like 4.000000000000001.
	// Only ever rounds toward the lower whole step by a relative epsilon.
	if whole := math.Floor(steps); steps-whole < stepNoise*math.Max(1, steps) {
		steps = whole
	}

	cost := math.Ceil(steps) * e.Step
	return math.Max(cost, e.Minimum)
}
