package domain

import (
	"testing"
	"time"
)

func TestUser_HasFreeBalance(t *testing.T) {
	tests := []struct {
		name      string
		freeCount int
		want      bool
	}{
		{"positive balance", 10, true},
		{"single remaining", 1, true},
		{"exhausted", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{FreeCount: tt.freeCount}
			if got := u.HasFreeBalance(); got != tt.want {
				t.Errorf("HasFreeBalance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDivinationRecord_MarkCompleted(t *testing.T) {
	rec := DivinationRecord{
		ID:     "rec-1",
		Status: StatusPending,
		Interpretation: Interpretation{
			Overall:    "steady progress ahead",
			Confidence: 0.8,
		},
	}

	done := rec.MarkCompleted()

	if done.Status != StatusCompleted {
		t.Errorf("expected status %q, got %q", StatusCompleted, done.Status)
	}
	if done.Interpretation.Overall != "steady progress ahead" {
		t.Error("MarkCompleted must not touch the interpretation")
	}
	// transitions are pure: the receiver stays untouched
	if rec.Status != StatusPending {
		t.Errorf("receiver mutated: status %q", rec.Status)
	}
}

func TestDivinationRecord_MarkFailed(t *testing.T) {
	rec := DivinationRecord{
		ID:     "rec-2",
		Status: StatusPending,
		Hexagram: Hexagram{
			Original: Figure{Name: "Qian", Number: 1},
		},
		Interpretation: Interpretation{Overall: "original reading", Confidence: 0.9},
	}

	failed := rec.MarkFailed("generator unavailable")

	if failed.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, failed.Status)
	}
	if failed.Interpretation.Overall != "divination failed: generator unavailable" {
		t.Errorf("unexpected failure summary: %q", failed.Interpretation.Overall)
	}
	if failed.Interpretation.Confidence != 0 {
		t.Error("failed interpretation must carry zero confidence")
	}
	// only the interpretation is overwritten
	if failed.Hexagram.Original.Name != "Qian" {
		t.Error("MarkFailed must not touch the hexagram")
	}
	if rec.Status != StatusPending {
		t.Error("receiver mutated")
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Errorf("category %q should be valid", c)
		}
	}
	for _, c := range []string{"", "politics", "CAREER"} {
		if ValidCategory(c) {
			t.Errorf("category %q should be invalid", c)
		}
	}
}

func TestRecordMetadata_CastAt(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := DivinationRecord{Metadata: RecordMetadata{CastAt: at}}
	if !rec.Metadata.CastAt.Equal(at) {
		t.Error("cast timestamp not preserved")
	}
}
