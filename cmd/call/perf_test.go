package call

import (
	"bytes"
	"testing"
)

func TestSplitPayload(t *testing.T) {
	payload := []byte("abcdefghij")

	segs := splitPayload(payload, 3)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if got := bytes.Join(segs, nil); !bytes.Equal(got, payload) {
		t.Errorf("segments join to %q, want %q", got, payload)
	}
	for i, seg := range segs {
		if cap(seg) != len(seg) {
			t.Errorf("segment %d is not capped", i)
		}
	}

	if segs := splitPayload([]byte("ab"), 5); len(segs) != 2 {
		t.Errorf("expected one segment per byte, got %d", len(segs))
	}
	if segs := splitPayload(nil, 4); len(segs) != 0 {
		t.Errorf("expected no segments for an empty payload, got %d", len(segs))
	}
}

func TestShouldSkip(t *testing.T) {
	perfSkip = []string{"echo", "sum"}
	defer func() { perfSkip = nil }()

	if !shouldSkip("sum") || shouldSkip("info") {
		t.Error("shouldSkip does not follow the skip list")
	}
}
