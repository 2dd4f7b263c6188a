package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lolfm/internal/config"
	"lolfm/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Game is the set of core operations the HTTP layer exposes. *game.Service implements it.
type Game interface {
	Clock(ctx context.Context) (game.Clock, error)
	GenerateSchedule(ctx context.Context, leagueID int64) (game.ScheduleResult, error)
	Standings(ctx context.Context, leagueID int64, seasonYear int) ([]game.Standing, error)
	LeagueMatches(ctx context.Context, leagueID int64, seasonYear int) ([]game.MatchView, error)
	SimulateMatch(ctx context.Context, matchID int64) (game.MatchResult, error)
	CreateExhibition(ctx context.Context, homeTeamID, awayTeamID int64) (int64, error)
	CreateTeam(ctx context.Context, in game.CreateTeamInput) (int64, error)
	Team(ctx context.Context, teamID int64) (game.TeamView, error)
	Roster(ctx context.Context, teamID int64) ([]game.Player, error)
	SettleTeam(ctx context.Context, teamID int64) (game.Settlement, error)
	FinancialRecords(ctx context.Context, teamID int64, limit int) ([]game.FinancialRecord, error)
	BankruptcyEvents(ctx context.Context, teamID int64) ([]game.BankruptcyEvent, error)
	FreeAgents(ctx context.Context, limit int) ([]game.Player, error)
	SignFreeAgent(ctx context.Context, teamID, playerID, salary int64) (game.Player, error)
	ReleasePlayer(ctx context.Context, teamID, playerID int64) error
	RenewContract(ctx context.Context, teamID, playerID, salary int64) (game.Player, error)
	TrainPlayer(ctx context.Context, teamID, playerID int64, training game.Training) (game.TrainingResult, error)
	UpgradeFacility(ctx context.Context, teamID int64, facility game.FacilityType) (game.FacilityUpgradeResult, error)
	SignSponsorship(ctx context.Context, teamID int64, sponsor string, amount int64) error
}

type Server struct {
	cfg  config.APIConfig
	log  *slog.Logger
	game Game
	mux  *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, gameSvc Game) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:  cfg,
		log:  logger,
		game: gameSvc,
		mux:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/clock", s.handleClock)

		r.Post("/leagues/{id}/schedule", s.handleGenerateSchedule)
		r.Get("/leagues/{id}/standings", s.handleStandings)
		r.Get("/leagues/{id}/matches", s.handleLeagueMatches)

		r.Post("/matches/exhibition", s.handleCreateExhibition)
		r.Post("/matches/{id}/simulate", s.handleSimulateMatch)

		r.Get("/free-agents", s.handleFreeAgents)

		r.Post("/teams", s.handleCreateTeam)
		r.Get("/teams/{id}", s.handleTeam)
		r.Get("/teams/{id}/roster", s.handleRoster)
		r.Post("/teams/{id}/settle", s.handleSettleTeam)
		r.Get("/teams/{id}/records", s.handleFinancialRecords)
		r.Get("/teams/{id}/bankruptcy-events", s.handleBankruptcyEvents)
		r.Post("/teams/{id}/players/{player_id}/sign", s.handleSignFreeAgent)
		r.Post("/teams/{id}/players/{player_id}/release", s.handleReleasePlayer)
		r.Post("/teams/{id}/players/{player_id}/renew", s.handleRenewContract)
		r.Post("/teams/{id}/players/{player_id}/train", s.handleTrainPlayer)
		r.Post("/teams/{id}/facilities/upgrade", s.handleUpgradeFacility)
		r.Post("/teams/{id}/sponsorships", s.handleSignSponsorship)
	})
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.Clock(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGenerateSchedule(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := pathID(w, r, "id", "league")
	if !ok {
		return
	}
	out, err := s.game.GenerateSchedule(r.Context(), leagueID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := pathID(w, r, "id", "league")
	if !ok {
		return
	}
	season, ok := queryInt(w, r, "season", 0)
	if !ok {
		return
	}
	out, err := s.game.Standings(r.Context(), leagueID, season)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"standings": out})
}

func (s *Server) handleLeagueMatches(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := pathID(w, r, "id", "league")
	if !ok {
		return
	}
	season, ok := queryInt(w, r, "season", 0)
	if !ok {
		return
	}
	if season <= 0 {
		clock, err := s.game.Clock(r.Context())
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		season = clock.Year
	}
	out, err := s.game.LeagueMatches(r.Context(), leagueID, season)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": out})
}

func (s *Server) handleSimulateMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := pathID(w, r, "id", "match")
	if !ok {
		return
	}
	out, err := s.game.SimulateMatch(r.Context(), matchID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExhibition(w http.ResponseWriter, r *http.Request) {
	var in struct {
		HomeTeamID int64 `json:"home_team_id"`
		AwayTeamID int64 `json:"away_team_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := s.game.CreateExhibition(r.Context(), in.HomeTeamID, in.AwayTeamID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string `json:"name"`
		LeagueID    *int64 `json:"league_id"`
		OwnerUserID string `json:"owner_user_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := s.game.CreateTeam(r.Context(), game.CreateTeamInput{
		OwnerUserID: strings.TrimSpace(in.OwnerUserID),
		LeagueID:    in.LeagueID,
		Name:        in.Name,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "id", "team")
	if !ok {
		return
	}
	out, err := s.game.Team(r.Context(), teamID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "id", "team")
	if !ok {
		return
	}
	out, err := s.game.Roster(r.Context(), teamID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": out})
}

func (s *Server) handleSettleTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "id", "team")
	if !ok {
		return
	}
	out, err := s.game.SettleTeam(r.Context(), teamID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFinancialRecords(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "id", "team")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", 50)
	if !ok {
		return
	}
	if limit <= 0 || limit > 500 {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
		return
	}
	out, err := s.game.FinancialRecords(r.Context(), teamID, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": out})
}

func (s *Server) handleBankruptcyEvents(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "id", "team")
	if !ok {
		return
	}
	out, err := s.game.BankruptcyEvents(r.Context(), teamID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

func (s *Server) handleFreeAgents(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", 50)
	if !ok {
		return
	}
	if limit <= 0 || limit > 200 {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 200")
		return
	}
	out, err := s.game.FreeAgents(r.Context(), limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": out})
}

func (s *Server) handleSignFreeAgent(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "id", "team")
	if !ok {
		return
	}
	playerID, ok := pathID(w, r, "player_id", "player")
	if !ok {
		return
	}
	var in struct {
		Salary int64 `json:"salary"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.SignFreeAgent(r.Context(), teamID, playerID, in.Salary)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleReleasePlayer(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "id", "team")
	if !ok {
		return
	}
	playerID, ok := pathID(w, r, "player_id", "player")
	if !ok {
		return
	}
	if err := s.game.ReleasePlayer(r.Context(), teamID, playerID); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRenewContract(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "id", "team")
	if !ok {
		return
	}
	playerID, ok := pathID(w, r, "player_id", "player")
	if !ok {
		return
	}
	var in struct {
		Salary int64 `json:"salary"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.RenewContract(r.Context(), teamID, playerID, in.Salary)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTrainPlayer(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "id", "team")
	if !ok {
		return
	}
	playerID, ok := pathID(w, r, "player_id", "player")
	if !ok {
		return
	}
	var in struct {
		Training string `json:"training"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	training, err := game.ParseTraining(in.Training)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	out, err := s.game.TrainPlayer(r.Context(), teamID, playerID, training)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpgradeFacility(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "id", "team")
	if !ok {
		return
	}
	var in struct {
		Facility string `json:"facility"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	facility, err := game.ParseFacilityType(in.Facility)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	out, err := s.game.UpgradeFacility(r.Context(), teamID, facility)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSignSponsorship(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "id", "team")
	if !ok {
		return
	}
	var in struct {
		Sponsor       string `json:"sponsor"`
		SigningAmount int64  `json:"signing_amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.game.SignSponsorship(r.Context(), teamID, in.Sponsor, in.SigningAmount); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
}

// statusFor maps an error kind from the core to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrPrecondition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, game.ErrTerminalState):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "err", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func pathID(w http.ResponseWriter, r *http.Request, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid "+label+" id")
		return 0, false
	}
	return id, true
}

func queryInt(w http.ResponseWriter, r *http.Request, key string, fallback int) (int, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+key)
		return 0, false
	}
	return n, true
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
