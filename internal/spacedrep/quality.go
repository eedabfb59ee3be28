package spacedrep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRating is returned when a rating string cannot be parsed.
var ErrInvalidRating = errors.New("spacedrep: invalid rating")

// Scale identifies which rating scale a caller used.
type Scale int

const (
	ScaleNative Scale = iota // 0-5 recall quality
	ScaleSimple              // 1-4 again/hard/good/easy buttons
)

// Simplified ratings as shown on the study screen.
const (
	RatingAgain = 1
	RatingHard  = 2
	RatingGood  = 3
	RatingEasy  = 4
)

var simpleNames = map[string]int{
	"again": RatingAgain,
	"hard":  RatingHard,
	"good":  RatingGood,
	"easy":  RatingEasy,
}

// ClampQuality forces q into [0,5].
func ClampQuality(q int) int {
	if q < MinQuality {
		return MinQuality
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return q
}

// FromSimpleRating maps the 1-4 scale onto native quality.
// Unknown values map to 3.
func FromSimpleRating(r int) int {
	switch r {
	case RatingAgain:
		return 0
	case RatingHard:
		return 3
	case RatingGood:
		return 4
	case RatingEasy:
		return 5
	default:
		return 3
	}
}

// NormalizeQuality converts a rating on the given scale to a clamped native quality.
func NormalizeQuality(value int, scale Scale) int {
	if scale == ScaleSimple {
		return FromSimpleRating(value)
	}
	return ClampQuality(value)
}

// ParseRating parses CLI/API rating input. Digits are read on the given scale;
// the names again, hard, good and easy are always read on the simple scale.
func ParseRating(s string, scale Scale) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if r, ok := simpleNames[s]; ok {
		return FromSimpleRating(r), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return NormalizeQuality(n, scale), nil
}

// IsPass reports whether a native quality counts as a successful recall.
func IsPass(quality int) bool {
	return ClampQuality(quality) >= PassThreshold
}
