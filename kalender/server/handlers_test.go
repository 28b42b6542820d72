package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vintervake/kodekalender/kalender/content"
	"github.com/vintervake/kodekalender/kalender/engine"
	"github.com/vintervake/kodekalender/kalender/services"
)

func newTestMux(t *testing.T, day int) *http.ServeMux {
	t.Helper()
	catalog, err := content.NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	hub := NewHub()
	registry := NewSessionRegistry(catalog, nil, engine.Options{FixedDay: day}, hub)
	search := services.NewArchiveSearchService(catalog)
	mux := http.NewServeMux()
	NewHandler(registry, search, nil, hub).Register(mux)
	return mux
}

// do performs a request against the mux, carrying the session cookie, and
// returns the recorder plus the cookie to reuse on the next request.
func do(t *testing.T, mux *http.ServeMux, method, target, body string, cookie *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return rec, c
		}
	}
	return rec, cookie
}

func TestStateHidesLockedQuests(t *testing.T) {
	mux := newTestMux(t, 3)

	rec, _ := do(t, mux, http.MethodGet, "/api/state", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp stateResp
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Quests) != 24 {
		t.Fatalf("got %d quests", len(resp.Quests))
	}
	if resp.Quests[0].Title == "" {
		t.Error("day 1 title hidden while the day is open")
	}
	for _, q := range resp.Quests {
		if q.Day > 3 && (q.Title != "" || q.HintType != "") {
			t.Errorf("day %d leaks title/hint while locked: %+v", q.Day, q)
		}
	}
	if resp.Summary == nil || resp.Summary.Day != 3 {
		t.Errorf("summary = %+v", resp.Summary)
	}
}

func TestSubmitFlowAndSessionIsolation(t *testing.T) {
	mux := newTestMux(t, 3)

	rec, cookie := do(t, mux, http.MethodPost, "/api/submit", `{"day":1,"code":"lykt"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result engine.SubmitResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !result.Success || !result.IsNewCompletion {
		t.Fatalf("result = %+v", result)
	}

	// Same session sees the completion.
	rec, _ = do(t, mux, http.MethodGet, "/api/state", "", cookie)
	var resp stateResp
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Summary.CompletedDays) != 1 || resp.Summary.CompletedDays[0] != 1 {
		t.Errorf("completedDays = %v", resp.Summary.CompletedDays)
	}

	// A fresh session does not.
	rec, _ = do(t, mux, http.MethodGet, "/api/state", "", nil)
	var other stateResp
	if err := json.NewDecoder(rec.Body).Decode(&other); err != nil {
		t.Fatal(err)
	}
	if len(other.Summary.CompletedDays) != 0 {
		t.Errorf("fresh session completedDays = %v", other.Summary.CompletedDays)
	}
}

func TestSubmitRejectsWrongMethod(t *testing.T) {
	mux := newTestMux(t, 3)
	rec, _ := do(t, mux, http.MethodGet, "/api/submit", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestImportRejectsBadBlob(t *testing.T) {
	mux := newTestMux(t, 3)
	rec, _ := do(t, mux, http.MethodPost, "/api/import", `{"version":99}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestSnapshotsDisabledWithoutBucket(t *testing.T) {
	mux := newTestMux(t, 3)
	rec, _ := do(t, mux, http.MethodGet, "/api/snapshots", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	rec, _ = do(t, mux, http.MethodPost, "/api/snapshots/restore", `{"key":"snapshots/x/y.json"}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("restore status = %d", rec.Code)
	}
}

func TestSnapshotRestoreScopedToSession(t *testing.T) {
	catalog, err := content.NewCatalog()
	if err != nil {
		t.Fatal(err)
	}
	snapshots, err := services.NewSnapshotService("key", "secret", "fra1", "bucket", "snapshots")
	if err != nil {
		t.Fatal(err)
	}
	hub := NewHub()
	registry := NewSessionRegistry(catalog, nil, engine.Options{FixedDay: 3}, hub)
	mux := http.NewServeMux()
	NewHandler(registry, services.NewArchiveSearchService(catalog), snapshots, hub).Register(mux)

	cookie := &http.Cookie{Name: sessionCookie, Value: "sess-me"}
	rec, _ := do(t, mux, http.MethodPost, "/api/snapshots/restore", `{"key":"snapshots/sess-other/x.json"}`, cookie)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec, _ = do(t, mux, http.MethodGet, "/api/snapshots/restore", "", cookie)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong-method status = %d", rec.Code)
	}
}

func TestExportDownload(t *testing.T) {
	mux := newTestMux(t, 3)
	_, cookie := do(t, mux, http.MethodPost, "/api/submit", `{"day":1,"code":"LYKT"}`, nil)

	rec, _ := do(t, mux, http.MethodGet, "/api/export", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	var blob struct {
		Version int `json:"version"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&blob); err != nil {
		t.Fatal(err)
	}
	if blob.Version != 1 {
		t.Errorf("export version = %d", blob.Version)
	}
}
