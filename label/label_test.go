package label

import (
	"strings"
	"testing"
)

func labelStrings(domain []byte, v *View) []string {
	out := make([]string, 0, len(v.Labels()))
	for _, l := range v.Labels() {
		out = append(out, string(l.Bytes(domain)))
	}
	return out
}

func TestSplitTLDFirst(t *testing.T) {
	domain := []byte("www.google.com")
	var v View
	ok, warn, err := Split(domain, &v)
	if err != nil || !ok || warn {
		t.Fatalf("Split() = ok=%v warn=%v err=%v", ok, warn, err)
	}
	got := labelStrings(domain, &v)
	want := []string{"com", "google", "www"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("label %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitEmptyDomain(t *testing.T) {
	var v View
	ok, warn, err := Split(nil, &v)
	if ok || warn || err != nil {
		t.Fatalf("Split(nil) = ok=%v warn=%v err=%v, want all zero", ok, warn, err)
	}
	if len(v.Labels()) != 0 {
		t.Fatalf("Split(nil) mutated output: %v", v.Labels())
	}
}

func TestSplitSingleLabel(t *testing.T) {
	var v View
	ok, _, err := Split([]byte("localhost"), &v)
	if !ok || err != nil {
		t.Fatalf("Split(localhost) = ok=%v err=%v", ok, err)
	}
	if got := labelStrings([]byte("localhost"), &v); len(got) != 1 || got[0] != "localhost" {
		t.Fatalf("got %v", got)
	}
}

func TestSplitWarnsOnLongLabel(t *testing.T) {
	long := strings.Repeat("a", 80)
	domain := []byte(long + ".com")
	var v View
	ok, warn, err := Split(domain, &v)
	if !ok || err != nil || !warn {
		t.Fatalf("Split() = ok=%v warn=%v err=%v, want ok warn", ok, warn, err)
	}
}

func TestSplitRejectsOverlongLabel(t *testing.T) {
	tooLong := strings.Repeat("a", 256)
	domain := []byte(tooLong + ".com")
	var v View
	ok, _, err := Split(domain, &v)
	if ok || err == nil {
		t.Fatalf("Split() = ok=%v err=%v, want rejection", ok, err)
	}
}

func TestSplitReusesScratchBuffer(t *testing.T) {
	var v View
	_, _, _ = Split([]byte("a.b.c.d"), &v)
	first := len(v.Labels())
	_, _, _ = Split([]byte("x.y"), &v)
	if len(v.Labels()) != 2 {
		t.Fatalf("expected Reset to clear stale labels, got %d (was %d)", len(v.Labels()), first)
	}
}
