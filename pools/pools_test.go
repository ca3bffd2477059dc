package pools

import "testing"

type probe struct {
	n int
}

func TestGetReturnsDistinctZeroedNodes(t *testing.T) {
	na := NewNodeAllocator[probe](4)
	a := na.Get()
	b := na.Get()
	if a == b {
		t.Fatalf("Get returned the same pointer twice")
	}
	a.n = 5
	if b.n != 0 {
		t.Fatalf("b.n = %d, want 0 (nodes must not alias)", b.n)
	}
}

func TestGetSpansChunkBoundary(t *testing.T) {
	na := NewNodeAllocator[probe](2)
	ptrs := make(map[*probe]bool)
	for i := 0; i < 10; i++ {
		p := na.Get()
		if ptrs[p] {
			t.Fatalf("duplicate pointer returned at i=%d", i)
		}
		ptrs[p] = true
	}
	if na.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", na.Len())
	}
}

func TestResetClearsChunks(t *testing.T) {
	na := NewNodeAllocator[probe](4)
	na.Get()
	na.Get()
	na.Reset()
	if na.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", na.Len())
	}
}

func TestDefaultChunkSizeOnNonPositive(t *testing.T) {
	na := NewNodeAllocator[probe](0)
	if na.chunkSize != DefaultChunkSize {
		t.Fatalf("chunkSize = %d, want %d", na.chunkSize, DefaultChunkSize)
	}
}
