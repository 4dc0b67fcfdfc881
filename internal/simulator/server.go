// Package simulator implementa localmente a API REST consumida pelo cliente
// (auth, issues, bets) sobre um repositório em memória.
package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/radieske/yegame-client/internal/api/dto"
	"github.com/radieske/yegame-client/internal/display"
	"github.com/radieske/yegame-client/internal/shared/logger"
	"github.com/radieske/yegame-client/pkg/contracts/events"
)

type Server struct {
	log     *zap.Logger
	repo    *Repo
	tokens  *Tokens
	publ    Publisher
	metrics *Metrics
	limiter *rate.Limiter
}

type ServerOptions struct {
	Publisher Publisher
	Metrics   *Metrics
	// AuthRate/AuthBurst limitam /auth/*; zero usa 5 req/s com burst 10
	AuthRate  rate.Limit
	AuthBurst int
}

func NewServer(log *zap.Logger, repo *Repo, tokens *Tokens, opts ServerOptions) *Server {
	if opts.Publisher == nil {
		opts.Publisher = NopPublisher{}
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	if opts.AuthRate == 0 {
		opts.AuthRate = 5
	}
	if opts.AuthBurst == 0 {
		opts.AuthBurst = 10
	}
	return &Server{
		log:     logger.OrNop(log),
		repo:    repo,
		tokens:  tokens,
		publ:    opts.Publisher,
		metrics: opts.Metrics,
		limiter: rate.NewLimiter(opts.AuthRate, opts.AuthBurst),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(RateLimit(s.limiter))
			r.Post("/login", s.login)
			r.Post("/register", s.register)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.tokens.RequireAuth)

			r.Get("/issues", s.listIssues)
			r.Post("/issues", s.createIssue)
			r.Get("/issues/{id}", s.getIssue)
			r.Put("/issues/{id}", s.updateIssue)
			r.Delete("/issues/{id}", s.deleteIssue)
			r.Patch("/issues/{id}/toggle-popular", s.togglePopular)

			r.Post("/bets", s.placeBet)
			r.Get("/bets/user/{id}", s.userBets)
			r.Get("/bets/stats/{id}", s.betStats)
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// erros de validação/negócio saem como {message}; saldo insuficiente como {error}
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorBody{Message: msg})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// ---------- auth ----------

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "잘못된 요청입니다")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "모든 항목을 입력해주세요")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	u, err := s.repo.CreateUser(req.Username, req.Email, hash, display.InitialCoins)
	if errors.Is(err, ErrUserExists) {
		s.metrics.AuthDenied.WithLabelValues("user_exists").Inc()
		writeError(w, http.StatusConflict, "이미 존재하는 사용자입니다")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondAuth(w, http.StatusCreated, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "잘못된 요청입니다")
		return
	}

	u, hash, err := s.repo.FindByUsername(strings.TrimSpace(req.Username))
	if err != nil || !checkPassword(hash, req.Password) {
		s.metrics.AuthDenied.WithLabelValues("bad_credentials").Inc()
		writeError(w, http.StatusUnauthorized, "아이디 또는 비밀번호가 올바르지 않습니다")
		return
	}

	s.respondAuth(w, http.StatusOK, u)
}

func (s *Server) respondAuth(w http.ResponseWriter, status int, u dto.User) {
	tok, err := s.tokens.Issue(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info("user authenticated", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	writeJSON(w, status, dto.AuthResponse{Token: tok, User: &u})
}

// ---------- issues ----------

func (s *Server) listIssues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.IssuesResponse{Success: true, Issues: s.repo.ListIssues()})
}

func (s *Server) getIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "잘못된 이슈 ID입니다")
		return
	}
	it, err := s.repo.GetIssue(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.IssueResponse{Success: false, Message: "이슈를 찾을 수 없습니다"})
		return
	}
	writeJSON(w, http.StatusOK, dto.IssueResponse{Success: true, Issue: &it})
}

func decodeIssueInput(r *http.Request) (dto.IssueInput, string) {
	var in dto.IssueInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return in, "잘못된 요청입니다"
	}
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		return in, "제목을 입력해주세요"
	case !in.Category.Valid():
		return in, "알 수 없는 카테고리입니다"
	case in.YesPrice < 0 || in.YesPrice > 100:
		return in, "yes_price는 0에서 100 사이여야 합니다"
	case in.EndDate.IsZero():
		return in, "종료일을 입력해주세요"
	}
	return in, ""
}

func (s *Server) createIssue(w http.ResponseWriter, r *http.Request) {
	in, msg := decodeIssueInput(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	it := s.repo.CreateIssue(in)
	s.log.Info("issue created", zap.Int64("issue_id", it.ID), zap.String("category", string(it.Category)))
	s.publishIssue(r.Context(), it, "create")
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) updateIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "잘못된 이슈 ID입니다")
		return
	}
	in, msg := decodeIssueInput(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	it, err := s.repo.UpdateIssue(id, in)
	if err != nil {
		writeError(w, http.StatusNotFound, "이슈를 찾을 수 없습니다")
		return
	}
	s.publishIssue(r.Context(), it, "update")
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) deleteIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "잘못된 이슈 ID입니다")
		return
	}
	it, err := s.repo.GetIssue(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "이슈를 찾을 수 없습니다")
		return
	}
	if err := s.repo.DeleteIssue(id); err != nil {
		writeError(w, http.StatusNotFound, "이슈를 찾을 수 없습니다")
		return
	}
	s.log.Info("issue deleted", zap.Int64("issue_id", id))
	s.publishIssue(r.Context(), it, "delete")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) togglePopular(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "잘못된 이슈 ID입니다")
		return
	}
	it, err := s.repo.TogglePopular(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "이슈를 찾을 수 없습니다")
		return
	}
	s.publishIssue(r.Context(), it, "toggle_popular")
	writeJSON(w, http.StatusOK, it)
}

// ---------- bets ----------

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "잘못된 요청입니다")
		return
	}
	if !req.Choice.Valid() || req.Amount <= 0 || req.IssueID <= 0 {
		writeError(w, http.StatusBadRequest, "선택과 금액을 확인해주세요")
		return
	}
	// só aposta em nome próprio
	if c := claimsFrom(r.Context()); c == nil || c.UserID != req.UserID {
		writeError(w, http.StatusForbidden, "다른 사용자로 베팅할 수 없습니다")
		return
	}

	bet, coinsLeft, it, err := s.repo.PlaceBet(req.UserID, req.IssueID, req.Choice, req.Amount)
	switch {
	case errors.Is(err, ErrInsufficientCoins):
		writeJSON(w, http.StatusBadRequest, dto.ErrorBody{Error: "코인이 부족합니다"})
		return
	case errors.Is(err, ErrIssueEnded):
		writeError(w, http.StatusBadRequest, "종료된 이슈입니다")
		return
	case errors.Is(err, ErrIssueNotFound), errors.Is(err, ErrUserNotFound):
		writeError(w, http.StatusNotFound, "이슈 또는 사용자를 찾을 수 없습니다")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.BetsPlaced.Inc()
	s.metrics.CoinsSpent.Add(float64(bet.Amount))

	// publicação é best-effort: a aposta já foi aceita
	if err := s.publ.PublishBetPlaced(r.Context(), events.BetPlaced{
		BetID:     bet.ID,
		UserID:    bet.UserID,
		IssueID:   bet.IssueID,
		Choice:    string(bet.Choice),
		Amount:    bet.Amount,
		CoinsLeft: coinsLeft,
		TsUnixMs:  bet.CreatedAt.UnixMilli(),
	}); err != nil {
		s.metrics.PublishErrs.Inc()
		s.log.Warn("publish bet_placed failed", zap.Int64("bet_id", bet.ID), zap.Error(err))
	}
	s.publishIssue(r.Context(), it, "bet")

	s.log.Info("bet placed",
		zap.Int64("bet_id", bet.ID),
		zap.Int64("user_id", bet.UserID),
		zap.Int64("issue_id", bet.IssueID),
		zap.String("choice", string(bet.Choice)),
		zap.Int64("amount", bet.Amount),
	)
	writeJSON(w, http.StatusCreated, bet)
}

func (s *Server) userBets(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "잘못된 사용자 ID입니다")
		return
	}
	if c := claimsFrom(r.Context()); c == nil || c.UserID != id {
		writeError(w, http.StatusForbidden, "다른 사용자의 내역은 볼 수 없습니다")
		return
	}
	writeJSON(w, http.StatusOK, s.repo.UserBets(id))
}

func (s *Server) betStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "잘못된 이슈 ID입니다")
		return
	}
	st, err := s.repo.Stats(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "이슈를 찾을 수 없습니다")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) publishIssue(ctx context.Context, it dto.Issue, reason string) {
	err := s.publ.PublishIssueUpdated(ctx, events.IssueUpdated{
		IssueID:     it.ID,
		YesPrice:    it.YesPrice,
		TotalVolume: it.TotalVolume,
		YesVolume:   it.YesVolume,
		NoVolume:    it.NoVolume,
		IsPopular:   it.IsPopular,
		Reason:      reason,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.metrics.PublishErrs.Inc()
		s.log.Warn("publish issue_updated failed", zap.Int64("issue_id", it.ID), zap.Error(err))
	}
}
