package spacedrep

import "time"

// Day is the scheduling unit. Intervals are whole days of 86,400,000 ms,
// independent of calendar or DST changes.
const Day = 24 * time.Hour

// DefaultEaseFactor is the ease assigned to a freshly created item.
const DefaultEaseFactor = 2.5

// MinEaseFactor is the floor the ease factor never drops below.
const MinEaseFactor = 1.3

// PassThreshold is the lowest quality that counts as a successful recall.
const PassThreshold = 3

// Quality bounds for the native 0-5 scale.
const (
	MinQuality = 0
	MaxQuality = 5
)

// FirstIntervalDays and SecondIntervalDays are the fixed intervals after the
// first and second consecutive successes.
const (
	FirstIntervalDays  = 1
	SecondIntervalDays = 6
)
