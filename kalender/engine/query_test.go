package engine

import (
	"context"
	"testing"
)

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 9)
	completeDay(t, e, 9)

	summary, err := e.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.Day != 9 {
		t.Errorf("Day = %d, want 9", summary.Day)
	}
	if len(summary.CompletedDays) == 0 || summary.CompletedDays[len(summary.CompletedDays)-1] != 9 {
		t.Errorf("CompletedDays = %v, want ascending list ending in 9", summary.CompletedDays)
	}
	for i := 1; i < len(summary.CompletedDays); i++ {
		if summary.CompletedDays[i] <= summary.CompletedDays[i-1] {
			t.Errorf("CompletedDays not ascending: %v", summary.CompletedDays)
		}
	}
	if len(summary.CompletedArcs) != 1 || summary.CompletedArcs[0] != "antennehavari" {
		t.Errorf("CompletedArcs = %v", summary.CompletedArcs)
	}
	if summary.UnreadFiles == 0 {
		t.Error("UnreadFiles = 0 with unlocked, never-opened files")
	}
	if summary.StatusBanner != "ANTENNE TILBAKE PÅ NETT" {
		t.Errorf("StatusBanner = %q", summary.StatusBanner)
	}
}

func TestStatusBannerRequiresCompletion(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 9)
	// Day 9 is open on the calendar but not completed.
	banner, err := e.StatusBanner(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if banner != "" {
		t.Errorf("StatusBanner = %q before the day is completed", banner)
	}
}

func TestAlertsInjectDailyOverride(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 3)

	alerts, err := e.Alerts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) == 0 || len(alerts) > maxAlerts {
		t.Fatalf("got %d alerts", len(alerts))
	}
	if alerts[0].Title != "DAGENS VARSEL" {
		t.Errorf("first alert = %+v, want the day's override notice", alerts[0])
	}
	if alerts[0].Message != "ANTENNEFEIL OPPDAGET I SEKTOR 3" {
		t.Errorf("override message = %q", alerts[0].Message)
	}
}

func TestMetricsCrisisDrag(t *testing.T) {
	ctx := context.Background()

	e := newTestEngine(t, 5)
	metrics, err := e.Metrics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(metrics) != 3 {
		t.Fatalf("got %d gauges", len(metrics))
	}
	samband := metrics[0]
	if samband.Name != "samband" || samband.Value != 31 {
		t.Errorf("samband = %+v, want the crisis floor while the antenna is down", samband)
	}
	if samband.Status != StatusCritical {
		t.Errorf("samband status = %q", samband.Status)
	}

	// Before the crisis breaks out the gauge follows the seasonal curve.
	early := newTestEngine(t, 2)
	metrics, err = early.Metrics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if metrics[0].Value == 31 {
		t.Error("crisis floor applied before the crisis day")
	}
}

func TestLetterArchive(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 5)

	if err := e.SaveLetter(ctx, 0, "x"); err == nil {
		t.Error("SaveLetter accepted day 0")
	}
	if err := e.SaveLetter(ctx, 25, "x"); err == nil {
		t.Error("SaveLetter accepted day 25")
	}

	if err := e.SaveLetter(ctx, 2, "Kjære nissen"); err != nil {
		t.Fatal(err)
	}
	if err := e.SaveLetter(ctx, 4, "PS: mer marsipan"); err != nil {
		t.Fatal(err)
	}
	unread, err := e.UnreadLetterCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if unread != 2 {
		t.Errorf("unread letters = %d, want 2 before the first visit", unread)
	}

	if err := e.MarkLettersVisited(ctx); err != nil {
		t.Fatal(err)
	}
	unread, err = e.UnreadLetterCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if unread != 0 {
		t.Errorf("unread letters = %d after visiting", unread)
	}

	// The counter is a last-visit watermark, so only letters dated after
	// the visit day come back as unread.
	if err := e.SaveLetter(ctx, 12, "fra fremtiden"); err != nil {
		t.Fatal(err)
	}
	unread, err = e.UnreadLetterCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if unread != 1 {
		t.Errorf("unread letters = %d, want 1 for the post-visit entry", unread)
	}

	letters, err := e.Letters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(letters) != 3 || letters[4] != "PS: mer marsipan" {
		t.Errorf("letters = %v", letters)
	}
}

func TestUnreadFileTracking(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 2)
	completeDay(t, e, 1)

	unread, err := e.UnreadFileCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if unread != 1 {
		t.Fatalf("unread files = %d, want the day 1 log", unread)
	}

	if err := e.MarkFileSeen(ctx, "logg-001"); err != nil {
		t.Fatal(err)
	}
	unread, err = e.UnreadFileCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if unread != 0 {
		t.Errorf("unread files = %d after opening", unread)
	}

	// Marking twice is harmless.
	if err := e.MarkFileSeen(ctx, "logg-001"); err != nil {
		t.Fatal(err)
	}
}
