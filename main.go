package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/abswordle/server/internal/httpserver"
	"github.com/abswordle/server/internal/stats"
	"github.com/abswordle/server/internal/store"
	"github.com/abswordle/server/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	src, err := buildWordSource()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	db, err := openDB(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ledger := stats.NewSQLLedger(db)
	sessions := store.New(src, ledger, store.Config{
		IdleTimeout:   envDuration("SESSION_IDLE_TIMEOUT", time.Hour),
		FinishedGrace: envDuration("SESSION_FINISHED_GRACE", 5*time.Minute),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	sessions.StartJanitor(ctx, time.Minute)

	srv := httpserver.New(sessions, ledger, src, db)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting wordle server")
	if err := srv.Start(ctx, ":"+port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("shutdown complete")
}

// buildWordSource loads the dictionary and applies the selection strategy
// picked by WORDS_STRATEGY ("random" default, "daily" for the shared
// word-of-the-day).
func buildWordSource() (words.Source, error) {
	list, err := words.Load(words.Options{
		AnswersFile: os.Getenv("WORDS_ANSWERS_FILE"),
		AllowedFile: os.Getenv("WORDS_ALLOWED_FILE"),
		DictOnly:    getEnv("WORDS_DICT_ONLY", "true") == "true",
	})
	if err != nil {
		return nil, err
	}
	if getEnv("WORDS_STRATEGY", "random") == "daily" {
		return words.NewDaily(list, getEnv("DAILY_SALT", "local_dev_salt")), nil
	}
	return list, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
