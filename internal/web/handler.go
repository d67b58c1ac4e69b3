package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goaltrack/goaltrack/internal/aggregate"
	"github.com/goaltrack/goaltrack/internal/config"
	"github.com/goaltrack/goaltrack/internal/database"
	"github.com/goaltrack/goaltrack/internal/engine"
	"github.com/goaltrack/goaltrack/internal/models"
	"github.com/goaltrack/goaltrack/internal/timespan"
)

type Handler struct {
	config    *config.Config
	activity  *database.ActivityStore
	ruleStore *database.RuleStore
	engine    *engine.Engine
	cache     *aggregate.Cache
}

func NewHandler(cfg *config.Config, activity *database.ActivityStore, ruleStore *database.RuleStore) *Handler {
	aggregator := aggregate.NewAggregator(activity, cfg.Engine.MinimumSwitchGap)
	cache := aggregate.NewCache()
	return &Handler{
		config:    cfg,
		activity:  activity,
		ruleStore: ruleStore,
		engine:    engine.New(aggregator, cache, nil, nil),
		cache:     cache,
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/rules", h.handleRules)
	mux.HandleFunc("/api/check", h.handleCheck)
	mux.HandleFunc("/api/activity", h.handleActivity)
	mux.HandleFunc("/api/status", h.handleStatus)

	mux.HandleFunc("/health", h.handleHealth)

	mux.HandleFunc("/", h.handleIndex)
}

func (h *Handler) handleRules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listRules(w)
	case http.MethodPost:
		h.createRule(w, r)
	case http.MethodDelete:
		h.deleteRule(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listRules(w http.ResponseWriter) {
	ruleSet, err := h.ruleStore.LoadRules()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load rules: %v", err), http.StatusInternalServerError)
		return
	}
	respondJSON(w, ruleSet)
}

type ruleRequest struct {
	Title      string  `json:"title"`
	Kind       string  `json:"kind"`
	Category   string  `json:"category"`
	TimeSpan   string  `json:"time_span"`
	Comparator string  `json:"comparator"`
	Threshold  float64 `json:"threshold"`
}

func (h *Handler) createRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if _, ok := models.ParseGoalKind(req.Kind); !ok {
		http.Error(w, fmt.Sprintf("Unknown goal kind: %q", req.Kind), http.StatusBadRequest)
		return
	}
	if _, ok := models.ParseCategory(req.Category); !ok {
		http.Error(w, fmt.Sprintf("Unknown category: %q", req.Category), http.StatusBadRequest)
		return
	}
	if _, ok := models.ParseTimeSpan(req.TimeSpan); !ok {
		http.Error(w, fmt.Sprintf("Unknown time span: %q", req.TimeSpan), http.StatusBadRequest)
		return
	}
	if _, ok := models.ParseComparator(req.Comparator); !ok {
		http.Error(w, fmt.Sprintf("Unknown comparator: %q", req.Comparator), http.StatusBadRequest)
		return
	}

	row := &models.GoalRule{
		Title:      req.Title,
		Kind:       req.Kind,
		Category:   req.Category,
		TimeSpan:   req.TimeSpan,
		Comparator: req.Comparator,
		Threshold:  req.Threshold,
	}
	if err := h.ruleStore.SaveRule(row); err != nil {
		http.Error(w, fmt.Sprintf("Failed to save rule: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(row)
}

func (h *Handler) deleteRule(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid rule id: %q", idStr), http.StatusBadRequest)
		return
	}
	if err := h.ruleStore.DeleteRule(uint(id)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to delete rule: %v", err), http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]any{"deleted": id})
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ruleSet, err := h.ruleStore.LoadRules()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load rules: %v", err), http.StatusInternalServerError)
		return
	}

	// Every check request is its own session; never serve stale windows.
	h.cache.Invalidate()
	checked, err := h.engine.CheckAll(ruleSet, time.Now())
	if err != nil {
		http.Error(w, fmt.Sprintf("Check failed: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, checked)
}

func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	spanStr := r.URL.Query().Get("span")
	if spanStr == "" {
		spanStr = string(models.SpanToday)
	}
	span, ok := models.ParseTimeSpan(spanStr)
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown time span: %q", spanStr), http.StatusBadRequest)
		return
	}

	now := time.Now()
	start, end := timespan.Resolve(span, now)
	aggregator := aggregate.NewAggregator(h.activity, h.config.Engine.MinimumSwitchGap)
	summaries, err := aggregator.Aggregate(start, end)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to aggregate activity: %v", err), http.StatusInternalServerError)
		return
	}

	ordered := make([]*models.CategorySummary, 0, len(summaries))
	for _, category := range models.AllCategories() {
		ordered = append(ordered, summaries[category])
	}

	respondJSON(w, map[string]any{
		"span":      span,
		"start":     start,
		"end":       end,
		"summaries": ordered,
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	latest, _ := h.activity.GetLatest()

	status := map[string]any{
		"running":        true,
		"poll_interval":  h.config.Tracker.PollInterval.String(),
		"check_interval": h.config.Engine.CheckInterval.String(),
		"database_path":  h.config.Database.Path,
	}

	if latest != nil {
		status["latest_snapshot"] = map[string]any{
			"category":     latest.Category,
			"app_name":     latest.AppName,
			"window_title": latest.WindowTitle,
			"start":        latest.Start,
			"end":          latest.End,
		}
	}

	respondJSON(w, status)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	respondJSON(w, map[string]any{
		"name": "goaltrack",
		"endpoints": []string{
			"/api/rules",
			"/api/check",
			"/api/activity",
			"/api/status",
			"/health",
		},
	})
}

func respondJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
	}
}
