package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vintervake/kodekalender/kalender/content"
	"github.com/vintervake/kodekalender/kalender/engine"
	"github.com/vintervake/kodekalender/kalender/services"
)

func TestRequestLoggerAllowsWebsocketUpgrade(t *testing.T) {
	catalog, err := content.NewCatalog()
	if err != nil {
		t.Fatal(err)
	}
	hub := NewHub()
	go hub.Run()
	registry := NewSessionRegistry(catalog, nil, engine.Options{FixedDay: 3}, hub)
	mux := http.NewServeMux()
	NewHandler(registry, services.NewArchiveSearchService(catalog), nil, hub).Register(mux)

	// The production server wraps everything, /ws included, so the upgrade
	// must survive the logging wrapper.
	srv := httptest.NewServer(RequestLogger(mux))
	defer srv.Close()

	const sid = "ws-test-session"
	header := http.Header{}
	header.Add("Cookie", sessionCookie+"="+sid)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("websocket dial through RequestLogger failed: %v (status %d)", err, status)
	}
	defer conn.Close()

	// Give the hub a moment to register the connection, then push an event.
	time.Sleep(50 * time.Millisecond)
	hub.Publish(sid, Event{Type: "quest_completed", Payload: map[string]int{"day": 1}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading pushed event: %v", err)
	}
	if !strings.Contains(string(msg), "quest_completed") {
		t.Errorf("pushed event = %s", msg)
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("requests under the limit were blocked")
	}
	if rl.Allow("a") {
		t.Error("request over the limit was allowed")
	}
	if !rl.Allow("b") {
		t.Error("separate key shares a window")
	}
}

func TestRateLimiterLimitHandler(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	request := func(sid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/submit", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sid})
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec
	}

	if rec := request("sid-1"); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	rec := request("sid-1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "FOR MANGE FORSØK") {
		t.Errorf("limit response body = %s", rec.Body.String())
	}
	if rec := request("sid-2"); rec.Code != http.StatusOK {
		t.Errorf("other session status = %d", rec.Code)
	}
}
