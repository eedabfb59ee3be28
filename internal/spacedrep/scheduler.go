package spacedrep

import (
	"math"
	"time"
)

// ComputeNextSchedule applies one recall event of the given quality to item
// and returns the item with all four schedule fields replaced. Quality is
// clamped to [0,5] first, so the function never fails.
func ComputeNextSchedule(item Item, quality int, now time.Time) Item {
	q := ClampQuality(quality)
	next := item

	if q < PassThreshold {
		next.Repetitions = 0
		next.IntervalDays = 0
	} else {
		next.Repetitions = item.Repetitions + 1
		switch next.Repetitions {
		case 1:
			next.IntervalDays = FirstIntervalDays
		case 2:
			next.IntervalDays = SecondIntervalDays
		default:
			next.IntervalDays = int(math.Round(float64(item.IntervalDays) * item.EaseFactor))
		}
	}

	next.EaseFactor = nextEase(item.EaseFactor, q)
	next.NextReviewAt = now.Add(time.Duration(next.IntervalDays) * Day)
	return next
}

// nextEase is the SM-2 ease update, floored at MinEaseFactor.
func nextEase(ease float64, q int) float64 {
	miss := float64(MaxQuality - q)
	ease += 0.1 - miss*(0.08+miss*0.02)
	if ease < MinEaseFactor {
		return MinEaseFactor
	}
	return ease
}
