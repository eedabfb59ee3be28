package session

import "time"

// Replenishment draws missed and known items in a fixed 3:1 ratio.
const (
	ReplenishIncorrectNum = 3
	ReplenishIncorrectDen = 4
)

// Qualities recorded when the caller only reports correctness.
const (
	DefaultCorrectQuality   = 4
	DefaultIncorrectQuality = 1
)

// QualityUnset tells Runner.Answer to derive quality from correctness.
const QualityUnset = -1

// MaxRecordedTime caps the time spent recorded for one answer, so an idle
// terminal does not skew average time statistics.
const MaxRecordedTime = 10 * time.Minute
