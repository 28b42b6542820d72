package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vintervake/kodekalender/kalender/content"
)

// BadgeObserver is notified synchronously whenever a badge is awarded.
type BadgeObserver func(sessionID string, badge content.Badge, earned EarnedBadge)

// AwardResult is the structured outcome of a badge-award attempt. A
// condition that is not yet met is the normal case, not an error.
type AwardResult struct {
	Success       bool   `json:"success"`
	AlreadyEarned bool   `json:"alreadyEarned"`
	Message       string `json:"message"`
}

// BadgeManager evaluates declarative unlock conditions against derived
// game state and persists awards.
type BadgeManager struct {
	engine    *Engine
	observers []BadgeObserver
}

func newBadgeManager(e *Engine) *BadgeManager {
	return &BadgeManager{engine: e}
}

// Subscribe registers an observer for badge awards.
func (m *BadgeManager) Subscribe(obs BadgeObserver) {
	m.observers = append(m.observers, obs)
}

// IsUnlockConditionMet dispatches on the sealed condition set. Unknown
// condition kinds are treated as never met so future content additions
// degrade instead of crashing.
func (m *BadgeManager) IsUnlockConditionMet(ctx context.Context, condition content.UnlockCondition) (bool, error) {
	st, err := m.engine.State(ctx)
	if err != nil {
		return false, err
	}
	return m.conditionMet(st, condition), nil
}

func (m *BadgeManager) conditionMet(st *GameState, condition content.UnlockCondition) bool {
	switch cond := condition.(type) {
	case content.BonusQuestCondition:
		q, ok := m.engine.catalog.QuestByDay(cond.Day)
		if !ok || q.BonusQuest == nil {
			return false
		}
		return st.CompletedBonusQuests[cond.Day]
	case content.StoryArcCondition:
		return st.CompletedArcs[cond.ArcID]
	case content.AllDecryptionsCondition:
		for _, id := range m.engine.catalog.ChallengeIDs() {
			if !st.SolvedChallenges[id] {
				return false
			}
		}
		return true
	case content.AllSymbolsCondition:
		return len(st.CollectedSymbols) >= m.engine.catalog.SymbolCount()
	default:
		slog.Warn("Unknown badge condition kind",
			slog.String("type", "game"),
			slog.String("condition", fmt.Sprintf("%T", condition)))
		return false
	}
}

// CheckAndAwardBadge awards the badge when its condition holds. The bypass
// exists for the parent-approval path, where a human judgment rather than a
// derivable game fact authorizes the award.
func (m *BadgeManager) CheckAndAwardBadge(ctx context.Context, badgeID string, bypassConditionCheck bool) (AwardResult, error) {
	badge, ok := m.engine.catalog.BadgeByID(badgeID)
	if !ok {
		return AwardResult{Message: "UKJENT UTMERKELSE"}, nil
	}

	st, err := m.engine.State(ctx)
	if err != nil {
		return AwardResult{}, err
	}

	if st.BadgeEarned(badgeID) {
		return AwardResult{
			Success:       true,
			AlreadyEarned: true,
			Message:       "UTMERKELSE ALLEREDE OPPNÅDD",
		}, nil
	}

	if !bypassConditionCheck && !m.conditionMet(st, badge.Condition) {
		return AwardResult{Message: "VILKÅRET ER IKKE OPPFYLT"}, nil
	}

	if err := m.award(ctx, st, badge); err != nil {
		return AwardResult{}, err
	}
	return AwardResult{Success: true, Message: "UTMERKELSE OPPNÅDD"}, nil
}

func (m *BadgeManager) award(ctx context.Context, st *GameState, badge *content.Badge) error {
	earned := EarnedBadge{BadgeID: badge.BadgeID, AwardedAt: m.engine.Now()}
	badges := append([]EarnedBadge(nil), st.EarnedBadges...)
	badges = append(badges, earned)
	if err := m.engine.store.Set(ctx, keyEarnedBadges, badges); err != nil {
		return fmt.Errorf("failed to persist badge %q: %w", badge.BadgeID, err)
	}

	if badge.CrisisKey != "" {
		if err := m.resolveCrisis(ctx, st, badge.CrisisKey); err != nil {
			return err
		}
	}

	slog.Info("Badge awarded",
		slog.String("type", "game"),
		slog.String("session_id", m.engine.sessionID),
		slog.String("badge_id", badge.BadgeID))

	for _, obs := range m.observers {
		obs(m.engine.sessionID, *badge, earned)
	}
	return nil
}

func (m *BadgeManager) resolveCrisis(ctx context.Context, st *GameState, crisisKey string) error {
	flags := st.ResolvedCrises
	switch crisisKey {
	case content.CrisisAntenna:
		flags.Antenna = true
	case content.CrisisInventory:
		flags.Inventory = true
	default:
		slog.Warn("Unknown crisis key on badge",
			slog.String("type", "game"),
			slog.String("crisis", crisisKey))
		return nil
	}
	if err := m.engine.store.Set(ctx, keyResolvedCrises, flags); err != nil {
		return fmt.Errorf("failed to persist crisis flags: %w", err)
	}
	return nil
}

// CheckAndAwardAllEligible sweeps the badge catalog and awards every badge
// whose condition has newly become true. Called after every state-changing
// player action so unlocks land promptly no matter which condition kind
// flipped.
func (m *BadgeManager) CheckAndAwardAllEligible(ctx context.Context) ([]string, error) {
	var awarded []string
	for i := range m.engine.catalog.Badges {
		badge := &m.engine.catalog.Badges[i]

		st, err := m.engine.State(ctx)
		if err != nil {
			return awarded, err
		}
		if st.BadgeEarned(badge.BadgeID) {
			continue
		}
		if !m.conditionMet(st, badge.Condition) {
			continue
		}
		if err := m.award(ctx, st, badge); err != nil {
			return awarded, err
		}
		awarded = append(awarded, badge.BadgeID)
	}
	return awarded, nil
}

// ApproveParentTask is the out-of-band approval path: it bypasses the
// declarative condition for the badge tied to the day's bonus quest.
func (m *BadgeManager) ApproveParentTask(ctx context.Context, day int) (AwardResult, error) {
	q, ok := m.engine.catalog.QuestByDay(day)
	if !ok || q.BonusQuest == nil {
		return AwardResult{Message: "INGEN BONUSOPPDRAG"}, nil
	}
	if q.BonusQuest.ValidationMode != content.BonusValidationParentApproval {
		return AwardResult{Message: "BONUSOPPDRAGET GODKJENNES MED KODE"}, nil
	}
	for i := range m.engine.catalog.Badges {
		badge := &m.engine.catalog.Badges[i]
		cond, ok := badge.Condition.(content.BonusQuestCondition)
		if ok && cond.Day == day {
			return m.CheckAndAwardBadge(ctx, badge.BadgeID, true)
		}
	}
	return AwardResult{Message: "INGEN UTMERKELSE FOR DAGEN"}, nil
}
