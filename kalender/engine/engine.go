package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/vintervake/kodekalender/kalender/content"
	"github.com/vintervake/kodekalender/kalender/store"
)

const stateCacheSize = 16

// QuestState is the per-day lifecycle state.
type QuestState string

const (
	QuestLocked    QuestState = "locked"
	QuestAvailable QuestState = "available"
	QuestCompleted QuestState = "completed"
)

// SubmitResult is the structured outcome of a code submission. Wrong codes
// are recoverable outcomes for the player, never errors.
type SubmitResult struct {
	Success         bool   `json:"success"`
	IsNewCompletion bool   `json:"isNewCompletion"`
	Message         string `json:"message"`
	FailedAttempts  int    `json:"failedAttempts,omitempty"`
}

// Engine derives game state from persisted facts and applies player-action
// transitions. One instance serves one player session; the catalog is
// shared read-only across all of them.
type Engine struct {
	sessionID string
	catalog   *content.Catalog
	store     store.Store
	clock     Clock
	fixedDay  int

	stateCache *lru.Cache
	badges     *BadgeManager
}

// Options tune an engine instance. Zero values fall back to the system
// clock and calendar gating.
type Options struct {
	Clock Clock
	// FixedDay pins the calendar day regardless of the clock; used for
	// local testing and preview deployments.
	FixedDay int
}

func New(sessionID string, catalog *content.Catalog, st store.Store, opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	cache, _ := lru.New(stateCacheSize)
	e := &Engine{
		sessionID:  sessionID,
		catalog:    catalog,
		store:      st,
		clock:      clock,
		fixedDay:   opts.FixedDay,
		stateCache: cache,
	}
	e.badges = newBadgeManager(e)
	return e
}

func (e *Engine) SessionID() string {
	return e.sessionID
}

func (e *Engine) Catalog() *content.Catalog {
	return e.catalog
}

func (e *Engine) Badges() *BadgeManager {
	return e.badges
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.clock()
}

// CurrentDay is the calendar day used for content gating.
func (e *Engine) CurrentDay() int {
	if e.fixedDay > 0 {
		return e.fixedDay
	}
	return CalendarDay(e.clock())
}

// State returns the derived game state, memoized per store revision.
func (e *Engine) State(ctx context.Context) (*GameState, error) {
	rev := e.store.Revision()
	cacheKey := strconv.FormatInt(rev, 10)
	if cached, ok := e.stateCache.Get(cacheKey); ok {
		return cached.(*GameState), nil
	}

	st, err := e.deriveState(ctx)
	if err != nil {
		return nil, err
	}
	e.stateCache.Add(cacheKey, st)
	return st, nil
}

// QuestStatus classifies a day as locked, available or completed. A day is
// available once the calendar has reached it and every requirement (prior
// days, unlocked topics) is satisfied.
func (e *Engine) QuestStatus(ctx context.Context, day int) (QuestState, error) {
	st, err := e.State(ctx)
	if err != nil {
		return QuestLocked, err
	}
	return e.questStatusFor(st, day), nil
}

func (e *Engine) questStatusFor(st *GameState, day int) QuestState {
	q, ok := e.catalog.QuestByDay(day)
	if !ok {
		return QuestLocked
	}
	if st.CompletedDays[day] {
		return QuestCompleted
	}
	if day > e.CurrentDay() {
		return QuestLocked
	}
	if q.Requires != nil {
		for _, requiredDay := range q.Requires.Days {
			if !st.CompletedDays[requiredDay] {
				return QuestLocked
			}
		}
		for _, topic := range q.Requires.Topics {
			if _, unlocked := st.UnlockedTopics[topic]; !unlocked {
				return QuestLocked
			}
		}
	}
	return QuestAvailable
}

// SubmitCode applies the Available -> Completed transition for a day.
// Resubmitting a correct code is always safe: the completion is recorded
// once and later submissions report success without side effects.
func (e *Engine) SubmitCode(ctx context.Context, day int, input string) (SubmitResult, error) {
	quest, ok := e.catalog.QuestByDay(day)
	if !ok {
		return SubmitResult{Message: "UKJENT LUKE"}, nil
	}

	st, err := e.State(ctx)
	if err != nil {
		return SubmitResult{}, err
	}

	normalized := content.NormalizeCode(input)
	expected := content.NormalizeCode(quest.Code)

	if normalized != expected {
		attempts, err := e.recordFailedAttempt(ctx, st, day)
		if err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{
			Message:        "UGYLDIG KODE",
			FailedAttempts: attempts,
		}, nil
	}

	if st.CompletedDays[day] {
		return SubmitResult{
			Success: true,
			Message: "OPPDRAG ALLEREDE FULLFØRT",
		}, nil
	}

	if e.questStatusFor(st, day) == QuestLocked {
		return SubmitResult{Message: "LUKEN ER LÅST"}, nil
	}

	codes := append([]SubmittedCode(nil), st.SubmittedCodes...)
	codes = append(codes, SubmittedCode{Code: normalized, SubmittedAt: e.Now()})
	if err := e.store.Set(ctx, keySubmittedCodes, codes); err != nil {
		return SubmitResult{}, fmt.Errorf("failed to persist submission: %w", err)
	}

	if err := e.clearFailedAttempts(ctx, st, day); err != nil {
		return SubmitResult{}, err
	}

	if err := e.applyReveals(ctx, quest); err != nil {
		return SubmitResult{}, err
	}

	awarded, err := e.badges.CheckAndAwardAllEligible(ctx)
	if err != nil {
		return SubmitResult{}, err
	}

	slog.Info("Quest completed",
		slog.String("type", "game"),
		slog.String("session_id", e.sessionID),
		slog.Int("day", day),
		slog.Int("badges_awarded", len(awarded)))

	return SubmitResult{
		Success:         true,
		IsNewCompletion: true,
		Message:         "KODE GODKJENT",
	}, nil
}

// applyReveals adds every file, topic and module referenced by the quest's
// reveals to the persisted unlocked sets. Topic unlocks record the day that
// unlocked them. Symbols are deliberately not granted here; collection is
// a separate out-of-band action.
func (e *Engine) applyReveals(ctx context.Context, quest *content.Quest) error {
	if quest.Reveals == nil {
		return nil
	}
	for _, fileID := range quest.Reveals.Files {
		if _, err := e.store.AddToSet(ctx, keyUnlockedFiles, fileID); err != nil {
			return fmt.Errorf("failed to unlock file %q: %w", fileID, err)
		}
	}
	for _, moduleID := range quest.Reveals.Modules {
		if _, err := e.store.AddToSet(ctx, keyUnlockedModules, moduleID); err != nil {
			return fmt.Errorf("failed to unlock module %q: %w", moduleID, err)
		}
	}
	if len(quest.Reveals.Topics) > 0 {
		topics := make(map[string]int)
		if _, err := e.store.Get(ctx, keyUnlockedTopics, &topics); err != nil {
			return err
		}
		changed := false
		for _, topic := range quest.Reveals.Topics {
			if _, ok := topics[topic]; !ok {
				topics[topic] = quest.Day
				changed = true
			}
		}
		if changed {
			if err := e.store.Set(ctx, keyUnlockedTopics, topics); err != nil {
				return fmt.Errorf("failed to unlock topics: %w", err)
			}
		}
	}
	return nil
}

func (e *Engine) recordFailedAttempt(ctx context.Context, st *GameState, day int) (int, error) {
	attempts := make(map[int]int, len(st.FailedAttempts))
	for k, v := range st.FailedAttempts {
		attempts[k] = v
	}
	attempts[day]++
	if err := e.store.Set(ctx, keyFailedAttempts, attempts); err != nil {
		return 0, fmt.Errorf("failed to persist attempt counter: %w", err)
	}
	return attempts[day], nil
}

func (e *Engine) clearFailedAttempts(ctx context.Context, st *GameState, day int) error {
	if _, ok := st.FailedAttempts[day]; !ok {
		return nil
	}
	attempts := make(map[int]int, len(st.FailedAttempts))
	for k, v := range st.FailedAttempts {
		attempts[k] = v
	}
	delete(attempts, day)
	return e.store.Set(ctx, keyFailedAttempts, attempts)
}

// IsBonusQuestCompleted reports completion of a day's bonus objective. The
// bonus quest is only accessible once the main quest is done.
func (e *Engine) IsBonusQuestCompleted(ctx context.Context, day int) (bool, error) {
	st, err := e.State(ctx)
	if err != nil {
		return false, err
	}
	return st.CompletedBonusQuests[day], nil
}

// SubmitBonusCode checks a code-validated bonus objective. The submission
// is recorded in the same code log as the main quests.
func (e *Engine) SubmitBonusCode(ctx context.Context, day int, input string) (SubmitResult, error) {
	quest, ok := e.catalog.QuestByDay(day)
	if !ok || quest.BonusQuest == nil {
		return SubmitResult{Message: "INGEN BONUSOPPDRAG"}, nil
	}
	if quest.BonusQuest.ValidationMode != content.BonusValidationCode {
		return SubmitResult{Message: "BONUSOPPDRAGET GODKJENNES MANUELT"}, nil
	}

	st, err := e.State(ctx)
	if err != nil {
		return SubmitResult{}, err
	}
	if !st.CompletedDays[day] {
		return SubmitResult{Message: "FULLFØR HOVEDOPPDRAGET FØRST"}, nil
	}

	normalized := content.NormalizeCode(input)
	if normalized != content.NormalizeCode(quest.BonusQuest.Code) {
		attempts, err := e.recordFailedAttempt(ctx, st, day)
		if err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{Message: "UGYLDIG KODE", FailedAttempts: attempts}, nil
	}

	if st.CompletedBonusQuests[day] {
		return SubmitResult{Success: true, Message: "BONUSOPPDRAG ALLEREDE FULLFØRT"}, nil
	}

	codes := append([]SubmittedCode(nil), st.SubmittedCodes...)
	codes = append(codes, SubmittedCode{Code: normalized, SubmittedAt: e.Now()})
	if err := e.store.Set(ctx, keySubmittedCodes, codes); err != nil {
		return SubmitResult{}, fmt.Errorf("failed to persist submission: %w", err)
	}

	if _, err := e.badges.CheckAndAwardAllEligible(ctx); err != nil {
		return SubmitResult{}, err
	}

	return SubmitResult{Success: true, IsNewCompletion: true, Message: "BONUSKODE GODKJENT"}, nil
}

// Flush exposes the store's pending-write synchronization point.
func (e *Engine) Flush(ctx context.Context) error {
	return e.store.Flush(ctx)
}
