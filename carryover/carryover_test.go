package carryover

import "testing"

func TestAddPreservesOrder(t *testing.T) {
	var s Set
	s.Add(7)
	s.Add(3)
	s.Add(9)
	got := s.Lines()
	want := []uint64{7, 3, 9}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d = %d, want %d", i, got[i], want[i])
		}
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
}

func TestEmptySet(t *testing.T) {
	var s Set
	if s.Len() != 0 || s.Lines() != nil {
		t.Fatalf("empty set not zero-valued: len=%d lines=%v", s.Len(), s.Lines())
	}
}
