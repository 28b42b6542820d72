package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

const exportVersion = 1

// exportBlob is the wire shape of a full-state export. Only recognized
// fact categories are carried.
type exportBlob struct {
	Version    int                        `json:"version"`
	SessionID  string                     `json:"sessionId"`
	ExportedAt string                     `json:"exportedAt"`
	Facts      map[string]json.RawMessage `json:"facts"`
}

// Export serializes every persisted fact category into one JSON blob.
func (e *Engine) Export(ctx context.Context) ([]byte, error) {
	blob := exportBlob{
		Version:    exportVersion,
		SessionID:  e.sessionID,
		ExportedAt: e.Now().Format("2006-01-02T15:04:05Z07:00"),
		Facts:      make(map[string]json.RawMessage),
	}
	for _, key := range factKeys() {
		var raw json.RawMessage
		ok, err := e.store.Get(ctx, key, &raw)
		if err != nil {
			return nil, fmt.Errorf("failed to export %q: %w", key, err)
		}
		if ok {
			blob.Facts[key] = raw
		}
	}
	return json.MarshalIndent(blob, "", "  ")
}

// Import restores a previously exported state. It is all-or-nothing:
// every category is decoded and checked before anything is written, so a
// malformed blob leaves the store untouched.
func (e *Engine) Import(ctx context.Context, data []byte) error {
	var blob exportBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("malformed export blob: %w", err)
	}
	if blob.Version != exportVersion {
		return fmt.Errorf("unsupported export version %d", blob.Version)
	}

	validated := make(map[string]json.RawMessage)
	for _, key := range factKeys() {
		raw, ok := blob.Facts[key]
		if !ok {
			continue
		}
		if err := validateFactShape(key, raw); err != nil {
			return fmt.Errorf("invalid data for %q: %w", key, err)
		}
		validated[key] = raw
	}

	for key, raw := range validated {
		if err := e.store.Set(ctx, key, raw); err != nil {
			return fmt.Errorf("failed to restore %q: %w", key, err)
		}
	}

	slog.Info("State imported",
		slog.String("type", "game"),
		slog.String("session_id", e.sessionID),
		slog.Int("categories", len(validated)))
	return nil
}

// validateFactShape decodes the raw value into the category's typed shape
// so imports fail before any write happens.
func validateFactShape(key string, raw json.RawMessage) error {
	switch key {
	case keySubmittedCodes:
		var v []SubmittedCode
		return json.Unmarshal(raw, &v)
	case keyCollectedSymbols, keySolvedChallenges, keyUnlockedFiles, keyUnlockedModules, keySeenFiles:
		var v []string
		return json.Unmarshal(raw, &v)
	case keyChallengeAttempts:
		var v map[string]int
		return json.Unmarshal(raw, &v)
	case keyFailedAttempts:
		var v map[int]int
		return json.Unmarshal(raw, &v)
	case keyEarnedBadges:
		var v []EarnedBadge
		return json.Unmarshal(raw, &v)
	case keyUnlockedTopics:
		var v map[string]int
		return json.Unmarshal(raw, &v)
	case keyResolvedCrises:
		var v CrisisFlags
		return json.Unmarshal(raw, &v)
	case keyLetters:
		var v map[int]string
		return json.Unmarshal(raw, &v)
	case keyLastLetterVisit:
		var v int
		return json.Unmarshal(raw, &v)
	default:
		return fmt.Errorf("unrecognized fact key")
	}
}
