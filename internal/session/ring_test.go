package session

import (
	"reflect"
	"testing"
)

func TestCycle(t *testing.T) {
	tests := []struct {
		name string
		src  []string
		n    int
		want []string
	}{
		{"empty source underflows", nil, 3, nil},
		{"zero requested", []string{"a"}, 0, nil},
		{"single element repeats", []string{"a"}, 3, []string{"a", "a", "a"}},
		{"shorter than source", []string{"a", "b", "c"}, 2, []string{"a", "b"}},
		{"wraps around", []string{"a", "b"}, 5, []string{"a", "b", "a", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cycle(tt.src, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("cycle(%v, %d) = %v, want %v", tt.src, tt.n, got, tt.want)
			}
		})
	}
}

func TestIncorrectShare(t *testing.T) {
	tests := []struct {
		deficit int
		want    int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{5, 4},
		{8, 6},
		{10, 8},
	}
	for _, tt := range tests {
		if got := incorrectShare(tt.deficit); got != tt.want {
			t.Errorf("incorrectShare(%d) = %d, want %d", tt.deficit, got, tt.want)
		}
	}
}

func TestIDSetKeepsInsertionOrder(t *testing.T) {
	s := newIDSet()
	s.Add("b")
	s.Add("a")
	if s.Add("b") {
		t.Error("re-adding an id should report false")
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("IDs() = %v, want [b a]", got)
	}
	if !s.Has("a") || s.Has("c") {
		t.Error("Has returned wrong membership")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
