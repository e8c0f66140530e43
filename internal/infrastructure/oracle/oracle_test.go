package oracle

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestMockOracle_CastHexagram_Shape(t *testing.T) {
	o := NewWithSeed(1)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	hex, err := o.CastHexagram(context.Background(), "will my career advance", at)
	if err != nil {
		t.Fatalf("CastHexagram: %v", err)
	}

	if hex.Original.Number < 1 || hex.Original.Number > 64 {
		t.Errorf("original ordinal out of range: %d", hex.Original.Number)
	}
	if len(hex.Original.Lines) != 6 {
		t.Errorf("expected 6 lines, got %d", len(hex.Original.Lines))
	}
	if len(hex.ChangingLines) < 1 || len(hex.ChangingLines) > 2 {
		t.Errorf("expected 1-2 changing lines, got %d", len(hex.ChangingLines))
	}
	for _, pos := range hex.ChangingLines {
		if pos < 1 || pos > 6 {
			t.Errorf("changing line position out of range: %d", pos)
		}
	}
	if hex.Changed == nil {
		t.Fatal("expected a changed figure")
	}
	if len(hex.Changed.Lines) != 6 {
		t.Errorf("changed figure must keep 6 lines, got %d", len(hex.Changed.Lines))
	}

	// every changing position must actually differ between the figures
	for _, pos := range hex.ChangingLines {
		if hex.Original.Lines[pos-1] == hex.Changed.Lines[pos-1] {
			t.Errorf("line %d did not flip", pos)
		}
	}
}

func TestMockOracle_CastHexagram_CancelledContext(t *testing.T) {
	o := NewWithSeed(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := o.CastHexagram(ctx, "any question here", time.Now()); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestMockOracle_Interpret(t *testing.T) {
	o := NewWithSeed(7)
	ctx := context.Background()
	at := time.Now()

	tests := []struct {
		name     string
		question string
		wantWord string
	}{
		{"career keyword", "should I change my job this year", "career"},
		{"love keyword", "how is my relationship going", "heart"},
		{"wealth keyword", "is it wise to invest my savings", "finances"},
		{"no keyword", "what does tomorrow hold", "flux"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hex, err := o.CastHexagram(ctx, tt.question, at)
			if err != nil {
				t.Fatalf("CastHexagram: %v", err)
			}
			interp, err := o.Interpret(ctx, tt.question, hex)
			if err != nil {
				t.Fatalf("Interpret: %v", err)
			}

			if !strings.Contains(interp.Overall, tt.wantWord) {
				t.Errorf("overall %q should mention %q", interp.Overall, tt.wantWord)
			}
			if len(interp.Advice) == 0 {
				t.Error("expected advice entries")
			}
			if interp.Timing == "" {
				t.Error("expected timing text")
			}
			if interp.Confidence < 0.75 || interp.Confidence >= 0.95 {
				t.Errorf("confidence out of range: %f", interp.Confidence)
			}
			if len(hex.ChangingLines) > 1 && interp.Warning == "" {
				t.Error("expected warning when more than one line changes")
			}
		})
	}
}
