package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vintervake/kodekalender/kalender/content"
	"github.com/vintervake/kodekalender/kalender/store"
)

func testClock() Clock {
	return func() time.Time {
		return time.Date(2025, time.December, 24, 12, 0, 0, 0, time.UTC)
	}
}

func newTestEngine(t *testing.T, day int) *Engine {
	t.Helper()
	catalog, err := content.NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return New("test-session", catalog, store.NewMemoryStore(), Options{
		Clock:    testClock(),
		FixedDay: day,
	})
}

// completeDay drives a day to completion through the public API, including
// its prerequisites.
func completeDay(t *testing.T, e *Engine, day int) {
	t.Helper()
	q, ok := e.Catalog().QuestByDay(day)
	if !ok {
		t.Fatalf("no quest for day %d", day)
	}
	if q.Requires != nil {
		for _, required := range q.Requires.Days {
			completeDayIfNeeded(t, e, required)
		}
		for _, topic := range q.Requires.Topics {
			completeTopicSource(t, e, topic)
		}
	}
	res, err := e.SubmitCode(context.Background(), day, q.Code)
	if err != nil {
		t.Fatalf("SubmitCode(day %d) error = %v", day, err)
	}
	if !res.Success {
		t.Fatalf("SubmitCode(day %d) = %+v, want success", day, res)
	}
}

func completeDayIfNeeded(t *testing.T, e *Engine, day int) {
	t.Helper()
	st, err := e.State(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !st.CompletedDays[day] {
		completeDay(t, e, day)
	}
}

func completeTopicSource(t *testing.T, e *Engine, topic string) {
	t.Helper()
	st, err := e.State(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.UnlockedTopics[topic]; ok {
		return
	}
	for i := range e.Catalog().Quests {
		q := &e.Catalog().Quests[i]
		if q.Reveals == nil {
			continue
		}
		for _, revealed := range q.Reveals.Topics {
			if revealed == topic {
				completeDayIfNeeded(t, e, q.Day)
				return
			}
		}
	}
	t.Fatalf("no quest reveals topic %q", topic)
}

func TestSubmitCodeDayEight(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 8)

	// Day 8 requires day 3, which requires day 1.
	completeDay(t, e, 3)

	res, err := e.SubmitCode(ctx, 8, "sekk")
	if err != nil {
		t.Fatalf("SubmitCode() error = %v", err)
	}
	if !res.Success || !res.IsNewCompletion {
		t.Fatalf("SubmitCode() = %+v, want new completion", res)
	}

	st, err := e.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !st.CompletedDays[8] {
		t.Error("day 8 not in completed set")
	}

	// The day-8 reveals must be applied.
	foundTopic := false
	if day, ok := st.UnlockedTopics["navigasjon"]; ok && day == 8 {
		foundTopic = true
	}
	if !foundTopic {
		t.Errorf("topic navigasjon not unlocked by day 8: %v", st.UnlockedTopics)
	}
}

func TestSubmitCodeIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 8)
	completeDay(t, e, 3)

	if _, err := e.SubmitCode(ctx, 8, "SEKK"); err != nil {
		t.Fatal(err)
	}
	rev := e.store.Revision()

	res, err := e.SubmitCode(ctx, 8, "SEKK")
	if err != nil {
		t.Fatalf("SubmitCode() error = %v", err)
	}
	if !res.Success {
		t.Errorf("resubmission = %+v, want success", res)
	}
	if res.IsNewCompletion {
		t.Error("resubmission reported as new completion")
	}
	if !strings.Contains(res.Message, "ALLEREDE") {
		t.Errorf("resubmission message = %q, want it to say ALLEREDE", res.Message)
	}
	if e.store.Revision() != rev {
		t.Error("resubmission wrote to the store")
	}
}

func TestSubmitCodeNormalization(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 1)

	for _, input := range []string{" lykt ", "Lykt", "LYKT"} {
		e := newTestEngine(t, 1)
		res, err := e.SubmitCode(ctx, 1, input)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Success {
			t.Errorf("SubmitCode(%q) = %+v, want success", input, res)
		}
	}

	res, err := e.SubmitCode(ctx, 1, "FEIL")
	if err != nil {
		t.Fatal(err)
	}
	if res.Success {
		t.Error("wrong code accepted")
	}
	if res.FailedAttempts != 1 {
		t.Errorf("FailedAttempts = %d, want 1", res.FailedAttempts)
	}
}

func TestSubmitCodeWrongCodeNeverAnError(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 1)

	for i := 1; i <= 3; i++ {
		res, err := e.SubmitCode(ctx, 1, "TULL")
		if err != nil {
			t.Fatalf("attempt %d: error = %v, wrong codes are outcomes", i, err)
		}
		if res.FailedAttempts != i {
			t.Errorf("attempt %d: FailedAttempts = %d", i, res.FailedAttempts)
		}
	}

	// A correct code clears the counter.
	if _, err := e.SubmitCode(ctx, 1, "LYKT"); err != nil {
		t.Fatal(err)
	}
	st, err := e.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.FailedAttempts[1]; ok {
		t.Error("failed-attempt counter not cleared by success")
	}
}

func TestQuestStatusGating(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 5)

	tests := []struct {
		day  int
		want QuestState
	}{
		{1, QuestAvailable},
		{2, QuestLocked}, // needs topic morse from day 1
		{3, QuestLocked}, // needs day 1
		{5, QuestLocked}, // needs topic radiobolger
		{6, QuestLocked}, // future day and unmet requirement
		{12, QuestLocked},
	}
	for _, tt := range tests {
		got, err := e.QuestStatus(ctx, tt.day)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("QuestStatus(day %d) = %v, want %v", tt.day, got, tt.want)
		}
	}

	completeDay(t, e, 1)
	got, err := e.QuestStatus(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != QuestAvailable {
		t.Errorf("QuestStatus(day 2) after day 1 = %v, want available", got)
	}
}

func TestSubmitCodeLockedDay(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 2)

	// Correct code for a calendar-locked day is rejected without recording
	// a completion.
	res, err := e.SubmitCode(ctx, 8, "SEKK")
	if err != nil {
		t.Fatal(err)
	}
	if res.Success {
		t.Fatalf("locked-day submission = %+v, want rejection", res)
	}
	st, err := e.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.CompletedDays[8] {
		t.Error("locked day recorded as completed")
	}
}

func TestSubmitCodeUnknownDay(t *testing.T) {
	res, err := newTestEngine(t, 8).SubmitCode(context.Background(), 42, "SEKK")
	if err != nil {
		t.Fatal(err)
	}
	if res.Success {
		t.Errorf("unknown day = %+v, want rejection", res)
	}
}

func TestSubmitBonusCode(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 8)

	// Bonus requires the main quest first.
	res, err := e.SubmitBonusCode(ctx, 4, "KANEL")
	if err != nil {
		t.Fatal(err)
	}
	if res.Success {
		t.Fatalf("bonus before main quest = %+v, want rejection", res)
	}

	completeDay(t, e, 4)
	res, err = e.SubmitBonusCode(ctx, 4, "kanel")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || !res.IsNewCompletion {
		t.Fatalf("bonus submission = %+v, want new completion", res)
	}

	done, err := e.IsBonusQuestCompleted(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("bonus quest not reported completed")
	}

	// The bakerens-laerling badge rides on the day-4 bonus.
	st, err := e.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !st.BadgeEarned("bakerens-laerling") {
		t.Error("bonus completion did not award its badge")
	}

	// Resubmitting the bonus code is idempotent.
	res, err = e.SubmitBonusCode(ctx, 4, "KANEL")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.IsNewCompletion {
		t.Errorf("bonus resubmission = %+v, want idempotent success", res)
	}
	if !strings.Contains(res.Message, "ALLEREDE") {
		t.Errorf("bonus resubmission message = %q, want ALLEREDE", res.Message)
	}
}

func TestCurrentDayFollowsClock(t *testing.T) {
	catalog, err := content.NewCatalog()
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"mid december", time.Date(2025, time.December, 10, 8, 0, 0, 0, time.UTC), 10},
		{"after christmas", time.Date(2025, time.December, 28, 8, 0, 0, 0, time.UTC), 24},
		{"november", time.Date(2025, time.November, 30, 8, 0, 0, 0, time.UTC), 0},
		{"january stays open", time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC), 24},
		{"february closes", time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New("s", catalog, store.NewMemoryStore(), Options{
				Clock: func() time.Time { return tt.at },
			})
			if got := e.CurrentDay(); got != tt.want {
				t.Errorf("CurrentDay() = %d, want %d", got, tt.want)
			}
		})
	}
}
