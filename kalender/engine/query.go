package engine

import (
	"context"
	"fmt"
)

// Summary is the progression overview exposed to the presentation layer.
type Summary struct {
	Day                  int            `json:"day"`
	CompletedDays        []int          `json:"completedDays"`
	CompletedBonusQuests []int          `json:"completedBonusQuests"`
	CompletedArcs        []string       `json:"completedArcs"`
	EarnedBadges         []EarnedBadge  `json:"earnedBadges"`
	CollectedSymbols     []string       `json:"collectedSymbols"`
	SolvedChallenges     []string       `json:"solvedChallenges"`
	UnlockedFiles        []string       `json:"unlockedFiles"`
	UnlockedModules      []string       `json:"unlockedModules"`
	UnlockedTopics       map[string]int `json:"unlockedTopics"`
	ResolvedCrises       CrisisFlags    `json:"resolvedCrises"`
	UnreadFiles          int            `json:"unreadFiles"`
	UnreadLetters        int            `json:"unreadLetters"`
	StatusBanner         string         `json:"statusBanner,omitempty"`
}

// SystemMetric is one cosmetic dashboard gauge.
type SystemMetric struct {
	Name   string `json:"name"`
	Value  int    `json:"value"`
	Max    int    `json:"max"`
	Status string `json:"status"`
}

// Summarize builds the progression overview for the current session.
func (e *Engine) Summarize(ctx context.Context) (*Summary, error) {
	st, err := e.State(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Day:              e.CurrentDay(),
		EarnedBadges:     st.EarnedBadges,
		CollectedSymbols: st.CollectedSymbols,
		UnlockedFiles:    st.UnlockedFiles,
		UnlockedModules:  st.UnlockedModules,
		UnlockedTopics:   st.UnlockedTopics,
		ResolvedCrises:   st.ResolvedCrises,
	}
	for day := 1; day <= 24; day++ {
		if st.CompletedDays[day] {
			summary.CompletedDays = append(summary.CompletedDays, day)
		}
		if st.CompletedBonusQuests[day] {
			summary.CompletedBonusQuests = append(summary.CompletedBonusQuests, day)
		}
	}
	for _, arc := range e.catalog.Arcs {
		if st.CompletedArcs[arc.ArcID] {
			summary.CompletedArcs = append(summary.CompletedArcs, arc.ArcID)
		}
	}
	for _, id := range e.catalog.ChallengeIDs() {
		if st.SolvedChallenges[id] {
			summary.SolvedChallenges = append(summary.SolvedChallenges, id)
		}
	}

	unreadFiles, err := e.UnreadFileCount(ctx)
	if err != nil {
		return nil, err
	}
	summary.UnreadFiles = unreadFiles
	unreadLetters, err := e.UnreadLetterCount(ctx)
	if err != nil {
		return nil, err
	}
	summary.UnreadLetters = unreadLetters

	banner, err := e.StatusBanner(ctx)
	if err != nil {
		return nil, err
	}
	summary.StatusBanner = banner

	return summary, nil
}

// Alerts generates the dashboard notification list from derived state.
// Quests may carry a cosmetic alert override; the current day's override
// is injected as an extra notice without affecting priority rules.
func (e *Engine) Alerts(ctx context.Context) ([]Alert, error) {
	st, err := e.State(ctx)
	if err != nil {
		return nil, err
	}
	day := e.CurrentDay()
	alerts := GenerateAlerts(day, st.CompletedDays, st.ResolvedCrises, e.Now())

	if q, ok := e.catalog.QuestByDay(day); ok && q.AlertOverride != "" {
		alerts = append([]Alert{{
			Level:     AlertWarning,
			Day:       day,
			Title:     "DAGENS VARSEL",
			Message:   q.AlertOverride,
			Timestamp: e.Now(),
		}}, alerts...)
		if len(alerts) > maxAlerts {
			alerts = alerts[:maxAlerts]
		}
	}
	return alerts, nil
}

// StatusBanner returns the most recent cosmetic system-status line from a
// completed quest day, empty when none applies.
func (e *Engine) StatusBanner(ctx context.Context) (string, error) {
	st, err := e.State(ctx)
	if err != nil {
		return "", err
	}
	banner := ""
	for day := 1; day <= e.CurrentDay() && day <= 24; day++ {
		q, ok := e.catalog.QuestByDay(day)
		if !ok || q.SystemStatusOverride == "" {
			continue
		}
		if st.CompletedDays[day] {
			banner = q.SystemStatusOverride
		}
	}
	return banner, nil
}

// Metrics produces the cosmetic dashboard gauges. Values follow the
// seasonal S-curve; unresolved crises drag the affected gauge down.
func (e *Engine) Metrics(ctx context.Context) ([]SystemMetric, error) {
	st, err := e.State(ctx)
	if err != nil {
		return nil, err
	}
	day := e.CurrentDay()

	antenna := SigmoidValue(20, 98, day)
	if day >= antennaCrisisDay && !st.ResolvedCrises.Antenna {
		antenna = 31
	}
	inventory := SigmoidValue(40, 100, day)
	if day >= inventoryCrisisDay && !st.ResolvedCrises.Inventory {
		inventory = 58
	}
	fuel := SigmoidValue(10, 95, day)

	metrics := []SystemMetric{
		{Name: "samband", Value: antenna, Max: 100, Status: StatusFromRatio(float64(antenna), 100)},
		{Name: "lager", Value: inventory, Max: 100, Status: StatusFromRatio(float64(inventory), 100)},
		{Name: "drivstoff", Value: fuel, Max: 100, Status: StatusFromRatio(float64(fuel), 100)},
	}
	return metrics, nil
}

// SaveLetter stores a free-form narrative letter entry for a day.
func (e *Engine) SaveLetter(ctx context.Context, day int, text string) error {
	if day < 1 || day > 24 {
		return fmt.Errorf("day %d outside calendar", day)
	}
	letters := make(map[int]string)
	if _, err := e.store.Get(ctx, keyLetters, &letters); err != nil {
		return err
	}
	letters[day] = text
	return e.store.Set(ctx, keyLetters, letters)
}

// Letters returns every stored letter entry keyed by day.
func (e *Engine) Letters(ctx context.Context) (map[int]string, error) {
	letters := make(map[int]string)
	if _, err := e.store.Get(ctx, keyLetters, &letters); err != nil {
		return nil, err
	}
	return letters, nil
}

// MarkFileSeen records that the player has opened an unlocked file.
func (e *Engine) MarkFileSeen(ctx context.Context, fileID string) error {
	_, err := e.store.AddToSet(ctx, keySeenFiles, fileID)
	return err
}

// UnreadFileCount is the number of unlocked files never opened. Letters
// use a different convention on purpose; see UnreadLetterCount.
func (e *Engine) UnreadFileCount(ctx context.Context) (int, error) {
	var unlocked []string
	if _, err := e.store.Get(ctx, keyUnlockedFiles, &unlocked); err != nil {
		return 0, err
	}
	unread := 0
	for _, fileID := range unlocked {
		seen, err := e.store.InSet(ctx, keySeenFiles, fileID)
		if err != nil {
			return 0, err
		}
		if !seen {
			unread++
		}
	}
	return unread, nil
}

// MarkLettersVisited records the day of the latest letter-archive visit.
func (e *Engine) MarkLettersVisited(ctx context.Context) error {
	return e.store.Set(ctx, keyLastLetterVisit, e.CurrentDay())
}

// UnreadLetterCount counts letters dated after the last archive visit.
// This is a last-visit convention, distinct from the per-file seen set,
// mirroring how the two archives historically tracked unread state.
func (e *Engine) UnreadLetterCount(ctx context.Context) (int, error) {
	letters := make(map[int]string)
	if _, err := e.store.Get(ctx, keyLetters, &letters); err != nil {
		return 0, err
	}
	lastVisit := 0
	if _, err := e.store.Get(ctx, keyLastLetterVisit, &lastVisit); err != nil {
		return 0, err
	}
	unread := 0
	for day := range letters {
		if day > lastVisit {
			unread++
		}
	}
	return unread, nil
}
