package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vintervake/kodekalender/kalender/content"
)

// SymbolResult is the structured outcome of a symbol collection attempt.
// An already-collected symbol is a soft failure: nothing changed, but the
// symbol's data is still returned for display.
type SymbolResult struct {
	Success          bool            `json:"success"`
	AlreadyCollected bool            `json:"alreadyCollected"`
	Symbol           *content.Symbol `json:"symbol,omitempty"`
	Message          string          `json:"message"`
	Collected        int             `json:"collected"`
	Total            int             `json:"total"`
}

// DecryptionResult reports positional scoring for a sequence attempt. The
// partial correct-count is deliberate feedback for the ordering puzzle, not
// a leak: it never says which positions are right.
type DecryptionResult struct {
	Success       bool     `json:"success"`
	Solved        bool     `json:"solved"`
	CorrectCount  int      `json:"correctCount"`
	SequenceLen   int      `json:"sequenceLength"`
	Attempts      int      `json:"attempts"`
	Message       string   `json:"message"`
	UnlockedFiles []string `json:"unlockedFiles,omitempty"`
}

// CollectSymbolByCode records a physically found symbol. The code is the
// symbol's own ID, printed next to its QR code.
func (e *Engine) CollectSymbolByCode(ctx context.Context, code string) (SymbolResult, error) {
	st, err := e.State(ctx)
	if err != nil {
		return SymbolResult{}, err
	}
	total := e.catalog.SymbolCount()

	symbolID := strings.ToLower(strings.TrimSpace(code))
	if _, declared := e.catalog.SymbolClueDay(symbolID); !declared {
		return SymbolResult{
			Message:   "UGYLDIG SYMBOLKODE",
			Collected: len(st.CollectedSymbols),
			Total:     total,
		}, nil
	}
	symbol, _ := e.catalog.SymbolByID(symbolID)

	added, err := e.store.AddToSet(ctx, keyCollectedSymbols, symbolID)
	if err != nil {
		return SymbolResult{}, fmt.Errorf("failed to persist symbol %q: %w", symbolID, err)
	}
	if !added {
		return SymbolResult{
			AlreadyCollected: true,
			Symbol:           symbol,
			Message:          "SYMBOL ALLEREDE SAMLET",
			Collected:        len(st.CollectedSymbols),
			Total:            total,
		}, nil
	}

	if _, err := e.badges.CheckAndAwardAllEligible(ctx); err != nil {
		return SymbolResult{}, err
	}

	slog.Info("Symbol collected",
		slog.String("type", "game"),
		slog.String("session_id", e.sessionID),
		slog.String("symbol_id", symbolID))

	return SymbolResult{
		Success:   true,
		Symbol:    symbol,
		Message:   "SYMBOL REGISTRERT",
		Collected: len(st.CollectedSymbols) + 1,
		Total:     total,
	}, nil
}

// ValidateDecryptionSequence scores an ordered-sequence attempt against a
// challenge. Scoring is positional: index i of the attempt must equal
// index i of the target. A wrong-length attempt scores zero regardless of
// overlap.
func (e *Engine) ValidateDecryptionSequence(ctx context.Context, challengeID string, attempt []int) (DecryptionResult, error) {
	challenge, ok := e.catalog.ChallengeByID(challengeID)
	if !ok {
		return DecryptionResult{Message: "UKJENT DEKRYPTERINGSOPPGAVE"}, nil
	}

	st, err := e.State(ctx)
	if err != nil {
		return DecryptionResult{}, err
	}
	target := challenge.CorrectSequence

	if st.SolvedChallenges[challengeID] {
		return DecryptionResult{
			Success:      true,
			Solved:       true,
			CorrectCount: len(target),
			SequenceLen:  len(target),
			Attempts:     st.ChallengeAttempts[challengeID],
			Message:      "ALLEREDE DEKRYPTERT",
		}, nil
	}

	if len(attempt) != len(target) {
		attempts, err := e.recordChallengeAttempt(ctx, st, challengeID)
		if err != nil {
			return DecryptionResult{}, err
		}
		return DecryptionResult{
			SequenceLen: len(target),
			Attempts:    attempts,
			Message:     "FEIL LENGDE PÅ SEKVENSEN",
		}, nil
	}

	correct := 0
	for i := range target {
		if attempt[i] == target[i] {
			correct++
		}
	}

	if correct < len(target) {
		attempts, err := e.recordChallengeAttempt(ctx, st, challengeID)
		if err != nil {
			return DecryptionResult{}, err
		}
		return DecryptionResult{
			CorrectCount: correct,
			SequenceLen:  len(target),
			Attempts:     attempts,
			Message:      fmt.Sprintf("%d AV %d SYMBOLER PÅ RETT PLASS", correct, len(target)),
		}, nil
	}

	if _, err := e.store.AddToSet(ctx, keySolvedChallenges, challengeID); err != nil {
		return DecryptionResult{}, fmt.Errorf("failed to persist solved challenge: %w", err)
	}
	for _, fileID := range challenge.UnlocksFiles {
		if _, err := e.store.AddToSet(ctx, keyUnlockedFiles, fileID); err != nil {
			return DecryptionResult{}, fmt.Errorf("failed to unlock file %q: %w", fileID, err)
		}
	}
	if _, err := e.badges.CheckAndAwardAllEligible(ctx); err != nil {
		return DecryptionResult{}, err
	}

	slog.Info("Decryption solved",
		slog.String("type", "game"),
		slog.String("session_id", e.sessionID),
		slog.String("challenge_id", challengeID))

	return DecryptionResult{
		Success:       true,
		Solved:        true,
		CorrectCount:  correct,
		SequenceLen:   len(target),
		Attempts:      st.ChallengeAttempts[challengeID],
		Message:       "DEKRYPTERING FULLFØRT",
		UnlockedFiles: challenge.UnlocksFiles,
	}, nil
}

func (e *Engine) recordChallengeAttempt(ctx context.Context, st *GameState, challengeID string) (int, error) {
	attempts := make(map[string]int, len(st.ChallengeAttempts))
	for k, v := range st.ChallengeAttempts {
		attempts[k] = v
	}
	attempts[challengeID]++
	if err := e.store.Set(ctx, keyChallengeAttempts, attempts); err != nil {
		return 0, fmt.Errorf("failed to persist challenge attempts: %w", err)
	}
	return attempts[challengeID], nil
}
