package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/vintervake/kodekalender/kalender/engine"
	"github.com/vintervake/kodekalender/kalender/logger"
	"github.com/vintervake/kodekalender/kalender/services"
)

const maxImportSize = 1 << 20

// Handler wires the HTTP API to per-session engines.
type Handler struct {
	registry  *SessionRegistry
	search    *services.ArchiveSearchService
	snapshots *services.SnapshotService
	hub       *Hub
}

func NewHandler(registry *SessionRegistry, search *services.ArchiveSearchService, snapshots *services.SnapshotService, hub *Hub) *Handler {
	return &Handler{registry: registry, search: search, snapshots: snapshots, hub: hub}
}

func (h *Handler) Register(mux *http.ServeMux) {
	limiter := NewRateLimiter(30, time.Minute)
	mux.HandleFunc("/api/state", h.handleState)
	mux.HandleFunc("/api/submit", limiter.Limit(h.handleSubmit))
	mux.HandleFunc("/api/bonus", limiter.Limit(h.handleBonus))
	mux.HandleFunc("/api/symbol", limiter.Limit(h.handleSymbol))
	mux.HandleFunc("/api/decrypt", limiter.Limit(h.handleDecrypt))
	mux.HandleFunc("/api/badges", h.handleBadges)
	mux.HandleFunc("/api/badges/approve", h.handleApprove)
	mux.HandleFunc("/api/alerts", h.handleAlerts)
	mux.HandleFunc("/api/metrics", h.handleMetrics)
	mux.HandleFunc("/api/search", h.handleSearch)
	mux.HandleFunc("/api/letters", h.handleLetters)
	mux.HandleFunc("/api/letters/visit", h.handleLettersVisit)
	mux.HandleFunc("/api/files/seen", h.handleFileSeen)
	mux.HandleFunc("/api/export", h.handleExport)
	mux.HandleFunc("/api/import", h.handleImport)
	mux.HandleFunc("/api/snapshots", h.handleSnapshots)
	mux.HandleFunc("/api/snapshots/restore", h.handleSnapshotRestore)
	mux.HandleFunc("/ws", h.handleWs)
}

// engineFor resolves the request's session engine, minting a session on
// first contact.
func (h *Handler) engineFor(w http.ResponseWriter, r *http.Request) (*engine.Engine, bool) {
	eng, err := h.registry.Engine(r.Context(), sessionID(w, r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return nil, false
	}
	return eng, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---- Dashboard ----

type questView struct {
	Day            int    `json:"day"`
	Title          string `json:"title"`
	State          string `json:"state"`
	HintType       string `json:"hintType,omitempty"`
	HasBonus       bool   `json:"hasBonus"`
	BonusCompleted bool   `json:"bonusCompleted,omitempty"`
}

type stateResp struct {
	Summary *engine.Summary `json:"summary"`
	Quests  []questView     `json:"quests"`
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}

	summary, err := eng.Summarize(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	st, err := eng.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	quests := make([]questView, 0, len(eng.Catalog().Quests))
	for i := range eng.Catalog().Quests {
		q := &eng.Catalog().Quests[i]
		status, err := eng.QuestStatus(r.Context(), q.Day)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		view := questView{
			Day:      q.Day,
			State:    string(status),
			HasBonus: q.BonusQuest != nil,
		}
		// Titles and hints stay hidden while a day is locked.
		if status != engine.QuestLocked {
			view.Title = q.Title
			view.HintType = q.HintType
			view.BonusCompleted = st.CompletedBonusQuests[q.Day]
		}
		quests = append(quests, view)
	}

	logger.LogRequest(r.URL.Path, time.Since(start), nil)
	writeJSON(w, http.StatusOK, stateResp{Summary: summary, Quests: quests})
}

// ---- Code submission ----

type submitReq struct {
	Day  int    `json:"day"`
	Code string `json:"code"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, func(eng *engine.Engine, req submitReq) (engine.SubmitResult, error) {
		return eng.SubmitCode(r.Context(), req.Day, req.Code)
	})
}

func (h *Handler) handleBonus(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, func(eng *engine.Engine, req submitReq) (engine.SubmitResult, error) {
		return eng.SubmitBonusCode(r.Context(), req.Day, req.Code)
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, fn func(*engine.Engine, submitReq) (engine.SubmitResult, error)) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result, err := fn(eng, req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result.Success && result.IsNewCompletion {
		h.hub.Publish(eng.SessionID(), Event{Type: "quest_completed", Payload: map[string]int{"day": req.Day}})
	}
	writeJSON(w, http.StatusOK, result)
}

// ---- Symbols and decryption ----

func (h *Handler) handleSymbol(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	result, err := eng.CollectSymbolByCode(r.Context(), req.Code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	var req struct {
		ChallengeID string `json:"challengeId"`
		Sequence    []int  `json:"sequence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	result, err := eng.ValidateDecryptionSequence(r.Context(), req.ChallengeID, req.Sequence)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ---- Badges ----

type badgeView struct {
	BadgeID     string `json:"badgeId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
	EarnedAt    string `json:"earnedAt,omitempty"`
}

func (h *Handler) handleBadges(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	st, err := eng.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	earnedAt := make(map[string]time.Time, len(st.EarnedBadges))
	for _, b := range st.EarnedBadges {
		earnedAt[b.BadgeID] = b.AwardedAt
	}

	views := make([]badgeView, 0, len(eng.Catalog().Badges))
	for _, b := range eng.Catalog().Badges {
		view := badgeView{
			BadgeID:     b.BadgeID,
			Title:       b.Title,
			Description: b.Description,
			Earned:      st.BadgeEarned(b.BadgeID),
		}
		if at, ok := earnedAt[b.BadgeID]; ok {
			view.EarnedAt = at.Format(time.RFC3339)
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Day int `json:"day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	result, err := eng.Badges().ApproveParentTask(r.Context(), req.Day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ---- Dashboard feeds ----

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	alerts, err := eng.Alerts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	metrics, err := eng.Metrics(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	results, err := h.search.Search(r.Context(), eng, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// ---- Letters and files ----

func (h *Handler) handleLetters(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		letters, err := eng.Letters(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, letters)
	case http.MethodPost:
		var req struct {
			Day  int    `json:"day"`
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if err := eng.SaveLetter(r.Context(), req.Day, req.Text); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleLettersVisit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	if err := eng.MarkLettersVisited(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"visited": true})
}

func (h *Handler) handleFileSeen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	var req struct {
		FileID string `json:"fileId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := eng.MarkFileSeen(r.Context(), req.FileID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"seen": true})
}

// ---- Export / import ----

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	data, err := eng.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=kodekalender-"+strconv.FormatInt(time.Now().Unix(), 10)+".json")
	_, _ = w.Write(data)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if err := eng.Import(r.Context(), data); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"imported": true})
}

// handleSnapshots uploads the current state to remote storage (POST) or
// lists stored snapshots (GET). Disabled when no bucket is configured.
func (h *Handler) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		writeError(w, http.StatusNotFound, "snapshots not configured")
		return
	}
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPost:
		key, err := h.snapshots.Upload(r.Context(), eng, eng.SessionID())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"key": key})
	case http.MethodGet:
		keys, err := h.snapshots.List(r.Context(), eng.SessionID())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, keys)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSnapshotRestore pulls a stored snapshot back into the session.
// The service refuses keys from other sessions.
func (h *Handler) handleSnapshotRestore(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		writeError(w, http.StatusNotFound, "snapshots not configured")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	eng, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.snapshots.Restore(r.Context(), eng, eng.SessionID(), req.Key); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrSnapshotOutOfScope) {
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"restored": true})
}

func (h *Handler) handleWs(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if _, err := h.registry.Engine(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return
	}
	ServeWs(h.hub, id, w, r)
}
