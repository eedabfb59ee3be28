package session

// cycle returns n elements drawn from src in ring order, wrapping around as
// often as needed. A single-element src yields n copies of it; an empty src
// yields nil, which callers treat as underflow.
func cycle[T any](src []T, n int) []T {
	if len(src) == 0 || n <= 0 {
		return nil
	}
	out := make([]T, n)
	for i := range out {
		out[i] = src[i%len(src)]
	}
	return out
}

// incorrectShare returns how many of deficit items come from the missed set:
// ceil(deficit * 3/4).
func incorrectShare(deficit int) int {
	if deficit <= 0 {
		return 0
	}
	return (deficit*ReplenishIncorrectNum + ReplenishIncorrectDen - 1) / ReplenishIncorrectDen
}
