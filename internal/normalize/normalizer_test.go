package normalize

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeHistory struct {
	queries []string
	err     error
}

func (f *fakeHistory) FindByWordSubstring(_ context.Context, word string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.queries, nil
}

func TestNormalizer_SuffixCanonicalization(t *testing.T) {
	n := New(nil, false)
	ctx := context.Background()

	inputs := []string{"John Smith Jr", "john smith, jr.", "John Smith junior"}
	want := "john smith junior"

	for _, input := range inputs {
		got := n.Normalize(ctx, input)
		if got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}

	if got := n.Normalize(ctx, "Sammy Davis Sr"); got != "sammy davis senior" {
		t.Errorf("Expected 'sammy davis senior', got %q", got)
	}
}

func TestNormalizer_BareSuffixRewrite(t *testing.T) {
	n := New(nil, false)

	got := n.Normalize(context.Background(), "jr smith stories")
	if got != "junior smith stories" {
		t.Errorf("Expected bare jr token rewritten, got %q", got)
	}
}

func TestNormalizer_Idempotence(t *testing.T) {
	history := &fakeHistory{queries: []string{"lionel messi"}}
	n := New(history, false)
	ctx := context.Background()

	for _, input := range []string{"Messi", "John Smith Jr", "  OpenAI  ", "", "quantum computing"} {
		once := n.Normalize(ctx, input)
		twice := n.Normalize(ctx, once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNormalizer_SingleWordExpansion(t *testing.T) {
	history := &fakeHistory{queries: []string{"messi stats", "lionel andres messi", "lionel messi"}}
	n := New(history, false)

	got := n.Normalize(context.Background(), "Messi")
	if got != "lionel andres messi" {
		t.Errorf("Expected expansion to longest multi-word match, got %q", got)
	}
}

func TestNormalizer_MultiWordUnchanged(t *testing.T) {
	history := &fakeHistory{queries: []string{"lionel messi career"}}
	n := New(history, false)

	got := n.Normalize(context.Background(), "Lionel Messi")
	if got != "lionel messi" {
		t.Errorf("Multi-word query should not consult history, got %q", got)
	}
}

func TestNormalizer_LookupFailureFallsBack(t *testing.T) {
	history := &fakeHistory{err: errors.New("store offline")}
	n := New(history, false)

	got := n.Normalize(context.Background(), "Messi")
	if got != "messi" {
		t.Errorf("Expected local normalization on lookup failure, got %q", got)
	}
}

func TestNormalizer_SingleWordHistoricalMatch(t *testing.T) {
	// With no multi-word form on record, a single-word match with at least
	// as many tokens is reused as the canonical key.
	history := &fakeHistory{queries: []string{"golang"}}
	n := New(history, false)

	got := n.Normalize(context.Background(), "Go")
	if got != "golang" {
		t.Errorf("Expected %q, got %q", "golang", got)
	}
}

func TestMemoryHistory_RecordAndFind(t *testing.T) {
	h := NewMemoryHistory(time.Minute, time.Minute)
	h.Record("Lionel Messi")
	h.Record("openai")

	matches, err := h.FindByWordSubstring(context.Background(), "messi")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(matches) != 1 || matches[0] != "lionel messi" {
		t.Errorf("Expected [lionel messi], got %v", matches)
	}

	n := New(h, false)
	if got := n.Normalize(context.Background(), "Messi"); got != "lionel messi" {
		t.Errorf("Expected history-backed expansion, got %q", got)
	}
}

func TestMemoryHistory_RecencyOrder(t *testing.T) {
	h := NewMemoryHistory(time.Minute, time.Minute)
	h.Record("marta messi")
	time.Sleep(time.Millisecond)
	h.Record("lionel messi")

	matches, err := h.FindByWordSubstring(context.Background(), "messi")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %v", matches)
	}
	if matches[0] != "lionel messi" || matches[1] != "marta messi" {
		t.Errorf("Expected most recent first, got %v", matches)
	}

	// Re-recording refreshes recency
	time.Sleep(time.Millisecond)
	h.Record("marta messi")
	matches, _ = h.FindByWordSubstring(context.Background(), "messi")
	if matches[0] != "marta messi" {
		t.Errorf("Expected refreshed entry first, got %v", matches)
	}

	// Equal-token-count candidates resolve to the most recent one
	n := New(h, false)
	if got := n.Normalize(context.Background(), "Messi"); got != "marta messi" {
		t.Errorf("Expected expansion to the most recent match, got %q", got)
	}
}
