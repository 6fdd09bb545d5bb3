// internal/httpserver/server.go
//
// HTTP wiring for the game-session server.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     rate limiting).
//   - Public endpoints: "/", "/health", "/users/top".
//   - Game endpoints (optional auth, guests welcome): POST /game/new,
//     POST /game/guess, GET /game/{id}.
//   - Gated endpoints: /auth/me, /stats/me, /users/me/rank.
//   - Best-effort persistence of finished games to the DB for history.
//
// Notes:
//   - The engine (store/game/stats packages) holds the rules; handlers only
//     translate HTTP to engine calls and sentinel errors to status codes.
//   - A session belongs to the identity that created it (user id or the
//     anonymous cookie id); anyone else gets a 403.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/abswordle/server/internal/game"
	"github.com/abswordle/server/internal/stats"
	"github.com/abswordle/server/internal/store"
	"github.com/abswordle/server/internal/words"
)

// Server bundles router, session store, stats views, and DB handle.
type Server struct {
	r        *chi.Mux
	sessions *store.Store
	ledger   stats.Ledger
	ranker   *stats.Ranker
	source   words.Source
	db       *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
// db may be nil in tests; game history writes are skipped then.
func New(sessions *store.Store, ledger stats.Ledger, src words.Source, db *sql.DB) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		sessions: sessions,
		ledger:   ledger,
		ranker:   stats.NewRanker(ledger),
		source:   src,
		db:       db,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	rl := newRateLimiter(envInt("RATE_LIMIT_RPS", 10), envInt("RATE_LIMIT_BURST", 20))
	rl.startPruning(time.Minute, 10*time.Minute)
	s.r.Use(rl.middleware)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordle-server","endpoints":["/health","POST /game/new","POST /game/guess","GET /game/{id}","GET /users/top","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		if c, ok := s.source.(interface{ Counts() (int, int) }); ok {
			a, g := c.Counts()
			_ = json.NewEncoder(w).Encode(map[string]int{"answers": a, "allowed": g})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]int{})
	})

	// Game endpoints — OPTIONAL AUTH (guests can play)
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/guess", s.handleGuess)
	s.r.With(s.withOptionalAuth()).Get("/game/{id}", s.handleGetGame)

	// Leaderboard views
	s.r.Get("/users/top", s.handleTopPlayers)
	s.r.With(s.requireAuth()).Get("/users/me/rank", s.handleMyRank)
	s.r.With(s.requireAuth()).Get("/stats/me", s.handleMyStats)

	// Auth
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ GAME ---------------------------------------

// newGameRes is the payload for POST /game/new.
type newGameRes struct {
	GameID      string      `json:"gameId"`
	GameStatus  game.Status `json:"gameStatus"`
	CurrentTry  int         `json:"currentTry"`
	MaxAttempts int         `json:"maxAttempts"`
	WordLength  int         `json:"wordLength"`
}

// handleNewGame creates a session owned by the caller's identity and records
// a history row for registered users.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	ownerID, isUser := s.identity(w, r)
	sess, err := s.sessions.Create(r.Context(), ownerID, isUser)
	if err != nil {
		log.Error().Err(err).Msg("create session")
		http.Error(w, `{"error":"create_failed"}`, http.StatusInternalServerError)
		return
	}

	// History row, best effort. The secret is never written while the game
	// is live.
	if s.db != nil && isUser {
		now := time.Now().UTC().Format(time.RFC3339)
		if _, err := s.db.Exec(`INSERT INTO games (id, user_id, status, guesses, started_at)
		                        VALUES (?,?,?,0,?)`, sess.ID, ownerID, game.StatusProceed, now); err != nil {
			log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert game row")
		}
	}

	_ = json.NewEncoder(w).Encode(newGameRes{
		GameID:      sess.ID,
		GameStatus:  game.StatusProceed,
		CurrentTry:  0,
		MaxAttempts: game.MaxAttempts,
		WordLength:  words.WordLength,
	})
}

// guessReq/guessRes payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	GameID         string              `json:"gameId"`
	Guess          string              `json:"guess"`
	LetterStatuses []game.LetterStatus `json:"letterStatuses"`
	GameStatus     game.Status         `json:"gameStatus"`
	CurrentTry     int                 `json:"currentTry"`
	Word           string              `json:"word,omitempty"` // revealed on loss only
}

// handleGuess routes a guess to the owning session and maps engine errors to
// status codes. The attempt, status, and try count come back from one atomic
// engine call, so the client never sees a torn update.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if !s.authorizeOwner(w, r, req.GameID) {
		return
	}

	res, err := s.sessions.Submit(r.Context(), req.GameID, req.Guess)
	if err != nil {
		s.writeGuessError(w, err)
		return
	}

	if res.Status != game.StatusProceed {
		s.finishGameRow(req.GameID, res)
	}

	_ = json.NewEncoder(w).Encode(guessRes{
		GameID:         req.GameID,
		Guess:          res.Attempt.Guess,
		LetterStatuses: res.Attempt.Statuses,
		GameStatus:     res.Status,
		CurrentTry:     res.CurrentTry,
		Word:           res.Word,
	})
}

// handleGetGame returns the owner's view of a session. The secret stays
// hidden while the game proceeds.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.authorizeOwner(w, r, id) {
		return
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(sess.Snapshot())
}

// authorizeOwner 404s unknown sessions and 403s callers who do not own the
// session. Returns true when the request may proceed.
func (s *Server) authorizeOwner(w http.ResponseWriter, r *http.Request, id string) bool {
	sess, err := s.sessions.Get(id)
	if err != nil {
		http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
		return false
	}
	ownerID, _ := s.identity(w, r)
	if sess.OwnerID != ownerID {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		return false
	}
	return true
}

// writeGuessError maps engine sentinels to HTTP statuses.
func (s *Server) writeGuessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
	case errors.Is(err, game.ErrSessionFinished):
		http.Error(w, `{"error":"game_finished"}`, http.StatusConflict)
	case errors.Is(err, game.ErrGuessLength):
		http.Error(w, `{"error":"invalid_length"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrInvalidGuess):
		http.Error(w, `{"error":"not_in_word_list"}`, http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("submit guess")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}

// finishGameRow closes out the history row for a terminal game, best effort.
func (s *Server) finishGameRow(id string, res game.Result) {
	if s.db == nil {
		return
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(`UPDATE games SET status=?, guesses=?, finished_at=? WHERE id=?`,
		res.Status, res.CurrentTry, now, id); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("finish game row")
	}
}

// --------------------------- LEADERBOARD -----------------------------------

// handleTopPlayers serves GET /users/top?n= (default 20).
func (s *Server) handleTopPlayers(w http.ResponseWriter, r *http.Request) {
	n := 0
	if v := r.URL.Query().Get("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			n = parsed
		}
	}
	entries, err := s.ranker.TopN(r.Context(), n)
	if err != nil {
		log.Error().Err(err).Msg("top players")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []stats.LeaderboardEntry{}
	}
	_ = json.NewEncoder(w).Encode(entries)
}

// handleMyRank serves GET /users/me/rank for the authenticated user.
func (s *Server) handleMyRank(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	rank, err := s.ranker.RankOf(r.Context(), me.ID)
	if err != nil {
		if errors.Is(err, stats.ErrUnknownUser) {
			http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]int{"rank": rank})
}

// handleMyStats serves GET /stats/me for the authenticated user.
func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	u, err := s.ledger.Stats(r.Context(), me.ID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(u)
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses an integer env var, falling back to def.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
