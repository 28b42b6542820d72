package engine

import (
	"context"
	"testing"
)

func TestCollectSymbolByCode(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 5)

	res, err := e.CollectSymbolByCode(ctx, "ukjent-symbol")
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.AlreadyCollected {
		t.Errorf("unknown code = %+v, want plain rejection", res)
	}

	res, err = e.CollectSymbolByCode(ctx, " Sirkel-Rod ")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("collection = %+v, want success", res)
	}
	if res.Symbol == nil || res.Symbol.SymbolID != "sirkel-rod" {
		t.Errorf("symbol = %+v, want sirkel-rod", res.Symbol)
	}
	if res.Collected != 1 || res.Total != 9 {
		t.Errorf("progress = %d/%d, want 1/9", res.Collected, res.Total)
	}

	// Collecting again is a soft failure that still carries symbol data.
	res, err = e.CollectSymbolByCode(ctx, "sirkel-rod")
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || !res.AlreadyCollected {
		t.Errorf("duplicate = %+v, want already-collected", res)
	}
	if res.Symbol == nil {
		t.Error("duplicate result dropped symbol data")
	}
}

func TestAllSymbolsBadge(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 24)

	for _, s := range e.Catalog().Symbols {
		if _, err := e.CollectSymbolByCode(ctx, s.SymbolID); err != nil {
			t.Fatal(err)
		}
	}
	st, err := e.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !st.BadgeEarned("symbolsamler") {
		t.Error("symbolsamler badge not awarded with the full set")
	}
}

func TestValidateDecryptionSequence(t *testing.T) {
	ctx := context.Background()

	// sendelogg's target sequence is [2 0 1] over three symbols.
	tests := []struct {
		name        string
		attempt     []int
		wantCorrect int
		wantSolved  bool
	}{
		{"all positions wrong", []int{0, 1, 2}, 0, false},
		{"one position right", []int{2, 1, 0}, 1, false},
		{"full match", []int{2, 0, 1}, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, 10)
			res, err := e.ValidateDecryptionSequence(ctx, "sendelogg", tt.attempt)
			if err != nil {
				t.Fatal(err)
			}
			if res.CorrectCount != tt.wantCorrect {
				t.Errorf("CorrectCount = %d, want %d", res.CorrectCount, tt.wantCorrect)
			}
			if res.Solved != tt.wantSolved {
				t.Errorf("Solved = %v, want %v", res.Solved, tt.wantSolved)
			}
			if res.SequenceLen != 3 {
				t.Errorf("SequenceLen = %d, want 3", res.SequenceLen)
			}
		})
	}
}

func TestDecryptionWrongLengthScoresZero(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 10)

	// [2 0] overlaps the target prefix but a wrong-length attempt never
	// earns partial credit.
	res, err := e.ValidateDecryptionSequence(ctx, "sendelogg", []int{2, 0})
	if err != nil {
		t.Fatal(err)
	}
	if res.Solved || res.CorrectCount != 0 {
		t.Errorf("wrong-length attempt = %+v, want zero score", res)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", res.Attempts)
	}
}

func TestDecryptionUnknownChallenge(t *testing.T) {
	e := newTestEngine(t, 10)
	res, err := e.ValidateDecryptionSequence(context.Background(), "finnes-ikke", []int{0})
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Solved {
		t.Errorf("unknown challenge = %+v, want rejection", res)
	}
}

func TestDecryptionSolveIsSticky(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 10)

	if _, err := e.ValidateDecryptionSequence(ctx, "sendelogg", []int{0, 1, 2}); err != nil {
		t.Fatal(err)
	}
	res, err := e.ValidateDecryptionSequence(ctx, "sendelogg", []int{2, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Solved {
		t.Fatalf("solve = %+v", res)
	}
	if len(res.UnlockedFiles) == 0 {
		t.Error("solve did not report unlocked files")
	}

	st, err := e.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	unlocked := false
	for _, f := range st.UnlockedFiles {
		if f == "sendelogg-kryptert" {
			unlocked = true
		}
	}
	if !unlocked {
		t.Errorf("sendelogg-kryptert not unlocked: %v", st.UnlockedFiles)
	}

	// Re-attempting a solved challenge short-circuits with the full count
	// and no attempt increment.
	res, err = e.ValidateDecryptionSequence(ctx, "sendelogg", []int{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Solved || res.CorrectCount != 3 {
		t.Errorf("post-solve attempt = %+v, want solved short-circuit", res)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want the pre-solve count of 1", res.Attempts)
	}
}

func TestAllDecryptionsBadge(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 24)

	solutions := map[string][]int{
		"sendelogg":    {2, 0, 1},
		"kartfragment": {1, 0, 3, 2},
		"hovednokkel":  {4, 2, 0, 3, 1},
	}
	for _, id := range e.Catalog().ChallengeIDs() {
		res, err := e.ValidateDecryptionSequence(ctx, id, solutions[id])
		if err != nil {
			t.Fatal(err)
		}
		if !res.Solved {
			t.Fatalf("challenge %q not solved: %+v", id, res)
		}
	}

	st, err := e.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !st.BadgeEarned("kodeknekker") {
		t.Error("kodeknekker badge not awarded after all challenges")
	}
}
