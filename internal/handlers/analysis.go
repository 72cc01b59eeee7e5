package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/esoccer-insights/stats-api/internal/logic"
	"github.com/esoccer-insights/stats-api/internal/models"
)

// GetPlayerMetrics returns a player's form over their last matches
// @Summary Get Player Metrics
// @Tags Player
// @Produce json
// @Param player path string true "Player name"
// @Param window query int false "Number of recent matches (1-200)"
// @Success 200 {object} models.PlayerMetrics
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 502 {object} map[string]string "Source Unavailable"
// @Router /players/{player}/metrics [get]
func (h *Handler) GetPlayerMetrics(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")
	window, err := h.windowParam(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics, err := h.analysis.PlayerMetrics(r.Context(), player, window)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, metrics)
}

// GetPlayerTrends returns the patterns found in a player's last five matches
// @Summary Get Player Trends
// @Tags Player
// @Produce json
// @Param player path string true "Player name"
// @Success 200 {object} models.PlayerTrend
// @Failure 404 {object} map[string]string "Not Found"
// @Router /players/{player}/trends [get]
func (h *Handler) GetPlayerTrends(w http.ResponseWriter, r *http.Request) {
	trend, err := h.analysis.PlayerTrend(r.Context(), chi.URLParam(r, "player"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, trend)
}

// GetLeagueStats returns the league baseline
// @Summary Get League Stats
// @Tags League
// @Produce json
// @Param league path string true "League name"
// @Param window query int false "Number of recent matches (1-200)"
// @Success 200 {object} models.LeagueStats
// @Failure 404 {object} map[string]string "Not Found"
// @Router /leagues/{league}/stats [get]
func (h *Handler) GetLeagueStats(w http.ResponseWriter, r *http.Request) {
	window, err := h.windowParam(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.analysis.LeagueStats(r.Context(), chi.URLParam(r, "league"), window)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, stats)
}

// GetLeagueLeaderboard ranks the players of a league by full-time goals
// @Summary Get League Leaderboard
// @Tags League
// @Produce json
// @Param league path string true "League name"
// @Param window query int false "Number of recent matches per player (1-200)"
// @Success 200 {array} models.PlayerMetrics
// @Failure 404 {object} map[string]string "Not Found"
// @Router /leagues/{league}/leaderboard [get]
func (h *Handler) GetLeagueLeaderboard(w http.ResponseWriter, r *http.Request) {
	window, err := h.windowParam(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	board, err := h.analysis.LeagueLeaderboard(r.Context(), chi.URLParam(r, "league"), window)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, board)
}

// GetLeagueTrends scans every player of a league for patterns
// @Summary Get League Trends
// @Tags League
// @Produce json
// @Param league path string true "League name"
// @Success 200 {array} models.PlayerTrend
// @Failure 404 {object} map[string]string "Not Found"
// @Router /leagues/{league}/trends [get]
func (h *Handler) GetLeagueTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.analysis.LeagueTrends(r.Context(), chi.URLParam(r, "league"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if trends == nil {
		trends = []models.PlayerTrend{}
	}
	h.jsonResponse(w, http.StatusOK, trends)
}

// GetHeadToHead compares two players over their direct meetings
// @Summary Get Head to Head
// @Tags Fixture
// @Produce json
// @Param player1 query string true "First player"
// @Param player2 query string true "Second player"
// @Param window query int false "Number of recent meetings (1-200)"
// @Success 200 {object} models.H2HStats
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /h2h [get]
func (h *Handler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	q, ok := h.pairQuery(w, r)
	if !ok {
		return
	}

	h2h, err := h.analysis.HeadToHead(r.Context(), q.Player1, q.Player2, q.Window)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, h2h)
}

// GetFixtureAnalysis returns every signal for an upcoming pairing
// @Summary Get Fixture Analysis
// @Tags Fixture
// @Produce json
// @Param player1 query string true "Home player"
// @Param player2 query string true "Away player"
// @Param window query int false "Number of recent matches (1-200)"
// @Success 200 {object} models.FixtureAnalysis
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /fixtures/analysis [get]
func (h *Handler) GetFixtureAnalysis(w http.ResponseWriter, r *http.Request) {
	q, ok := h.pairQuery(w, r)
	if !ok {
		return
	}

	analysis, err := h.analysis.FixtureAnalysis(r.Context(), q.Player1, q.Player2, q.Window)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, analysis)
}

// AnalyzeFixture computes a fixture analysis from the records in the body only
// @Summary Analyze Fixture
// @Description Stateless analysis over caller-supplied matches in any upstream schema
// @Tags Fixture
// @Accept json
// @Produce json
// @Param body body models.AnalyzeFixtureRequest true "Players and matches"
// @Success 200 {object} models.FixtureAnalysis
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /analyze/fixture [post]
func (h *Handler) AnalyzeFixture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var req models.AnalyzeFixtureRequest
	if err := dec.Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Player1 = strings.TrimSpace(req.Player1)
	req.Player2 = strings.TrimSpace(req.Player2)
	if err := h.validateStruct(req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	if req.Window == 0 {
		req.Window = h.defaultWindow
	}

	records := logic.NormalizeMatches(req.Matches)
	logic.SortRecent(records)

	analysis := logic.AnalyzeFixture(records, req.Player1, req.Player2, req.Window)
	if analysis == nil {
		h.errorResponse(w, http.StatusNotFound, "No matches found for either player")
		return
	}
	h.jsonResponse(w, http.StatusOK, analysis)
}

func (h *Handler) pairQuery(w http.ResponseWriter, r *http.Request) (models.PairQuery, bool) {
	window, err := h.windowParam(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return models.PairQuery{}, false
	}
	q := models.PairQuery{
		Player1: strings.TrimSpace(r.URL.Query().Get("player1")),
		Player2: strings.TrimSpace(r.URL.Query().Get("player2")),
		Window:  window,
	}
	if err := h.validateStruct(q); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return q, false
	}
	return q, true
}
