package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/vintervake/kodekalender/kalender/content"
)

// GameState is a pure projection of the persisted fact log against the
// catalog. It is never mutated in place; every write re-derives it.
type GameState struct {
	CompletedDays        map[int]bool
	CompletedBonusQuests map[int]bool
	EarnedBadges         []EarnedBadge
	CollectedSymbols     []string
	SolvedChallenges     map[string]bool
	ChallengeAttempts    map[string]int
	FailedAttempts       map[int]int
	UnlockedFiles        []string
	UnlockedTopics       map[string]int
	UnlockedModules      []string
	ResolvedCrises       CrisisFlags
	CompletedArcs        map[string]bool
	SubmittedCodes       []SubmittedCode

	earnedBadgeSet map[string]bool
	submittedSet   map[string]bool
}

// BadgeEarned reports whether the badge is in the earned set.
func (s *GameState) BadgeEarned(badgeID string) bool {
	return s.earnedBadgeSet[badgeID]
}

// CodeSubmitted reports whether a normalized code is in the submission log.
func (s *GameState) CodeSubmitted(code string) bool {
	return s.submittedSet[content.NormalizeCode(code)]
}

// CompletedDayCount is the number of completed main quests.
func (s *GameState) CompletedDayCount() int {
	return len(s.CompletedDays)
}

// deriveState rebuilds the full game state from raw facts. No state outside
// the store survives this function; the result must be reproducible
// byte-for-byte from the fact log plus the catalog.
func (e *Engine) deriveState(ctx context.Context) (*GameState, error) {
	st := &GameState{
		CompletedDays:        make(map[int]bool),
		CompletedBonusQuests: make(map[int]bool),
		SolvedChallenges:     make(map[string]bool),
		ChallengeAttempts:    make(map[string]int),
		FailedAttempts:       make(map[int]int),
		UnlockedTopics:       make(map[string]int),
		CompletedArcs:        make(map[string]bool),
		earnedBadgeSet:       make(map[string]bool),
		submittedSet:         make(map[string]bool),
	}

	if _, err := e.store.Get(ctx, keySubmittedCodes, &st.SubmittedCodes); err != nil {
		return nil, fmt.Errorf("failed to load submitted codes: %w", err)
	}
	if _, err := e.store.Get(ctx, keyCollectedSymbols, &st.CollectedSymbols); err != nil {
		return nil, fmt.Errorf("failed to load collected symbols: %w", err)
	}
	var solved []string
	if _, err := e.store.Get(ctx, keySolvedChallenges, &solved); err != nil {
		return nil, fmt.Errorf("failed to load solved challenges: %w", err)
	}
	for _, id := range solved {
		st.SolvedChallenges[id] = true
	}
	if _, err := e.store.Get(ctx, keyChallengeAttempts, &st.ChallengeAttempts); err != nil {
		return nil, fmt.Errorf("failed to load challenge attempts: %w", err)
	}
	if _, err := e.store.Get(ctx, keyFailedAttempts, &st.FailedAttempts); err != nil {
		return nil, fmt.Errorf("failed to load failed attempts: %w", err)
	}
	if _, err := e.store.Get(ctx, keyEarnedBadges, &st.EarnedBadges); err != nil {
		return nil, fmt.Errorf("failed to load earned badges: %w", err)
	}
	for _, b := range st.EarnedBadges {
		st.earnedBadgeSet[b.BadgeID] = true
	}
	if _, err := e.store.Get(ctx, keyUnlockedFiles, &st.UnlockedFiles); err != nil {
		return nil, fmt.Errorf("failed to load unlocked files: %w", err)
	}
	if _, err := e.store.Get(ctx, keyUnlockedTopics, &st.UnlockedTopics); err != nil {
		return nil, fmt.Errorf("failed to load unlocked topics: %w", err)
	}
	if _, err := e.store.Get(ctx, keyUnlockedModules, &st.UnlockedModules); err != nil {
		return nil, fmt.Errorf("failed to load unlocked modules: %w", err)
	}
	if _, err := e.store.Get(ctx, keyResolvedCrises, &st.ResolvedCrises); err != nil {
		return nil, fmt.Errorf("failed to load crisis flags: %w", err)
	}

	// Completed days follow from matching submitted codes against quest
	// codes; the submission log, not the day set, is the source of truth.
	for _, sc := range st.SubmittedCodes {
		normalized := content.NormalizeCode(sc.Code)
		st.submittedSet[normalized] = true
		if q, ok := e.catalog.QuestByCode(normalized); ok {
			st.CompletedDays[q.Day] = true
		}
	}

	for i := range e.catalog.Quests {
		q := &e.catalog.Quests[i]
		if q.BonusQuest == nil {
			continue
		}
		if e.bonusQuestCompleted(st, q) {
			st.CompletedBonusQuests[q.Day] = true
		}
	}

	for _, arc := range e.catalog.Arcs {
		if e.arcCompleted(st, arc.ArcID) {
			st.CompletedArcs[arc.ArcID] = true
		}
	}

	sort.Strings(st.UnlockedFiles)
	sort.Strings(st.UnlockedModules)
	sort.Strings(st.CollectedSymbols)

	return st, nil
}

// bonusQuestCompleted checks the day's bonus objective: parent-approved
// bonus quests complete through their badge, code-validated ones through
// the submission log.
func (e *Engine) bonusQuestCompleted(st *GameState, q *content.Quest) bool {
	bq := q.BonusQuest
	if bq == nil {
		return false
	}
	switch bq.ValidationMode {
	case content.BonusValidationParentApproval:
		for _, b := range e.catalog.Badges {
			cond, ok := b.Condition.(content.BonusQuestCondition)
			if ok && cond.Day == q.Day && st.BadgeEarned(b.BadgeID) {
				return true
			}
		}
		return false
	case content.BonusValidationCode:
		return st.CodeSubmitted(bq.Code)
	default:
		return false
	}
}

// arcCompleted declares an arc complete iff the phases reached through
// completed days are exactly 1..maxPhaseSeen. A completed phase set {1,3}
// is incomplete: phase 2 is missing even though phase 3 was reached.
func (e *Engine) arcCompleted(st *GameState, arcID string) bool {
	completedPhases := make(map[int]bool)
	maxPhase := 0
	found := false
	for i := range e.catalog.Quests {
		q := &e.catalog.Quests[i]
		if q.StoryArc == nil || q.StoryArc.ArcID != arcID {
			continue
		}
		found = true
		if q.StoryArc.Phase > maxPhase {
			maxPhase = q.StoryArc.Phase
		}
		if st.CompletedDays[q.Day] {
			completedPhases[q.StoryArc.Phase] = true
		}
	}
	if !found || len(completedPhases) == 0 {
		return false
	}
	for phase := 1; phase <= maxPhase; phase++ {
		if !completedPhases[phase] {
			return false
		}
	}
	return true
}
