package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hallister/belfry/internal/db"
	"github.com/hallister/belfry/internal/engine"
	"github.com/hallister/belfry/internal/library"
	"github.com/hallister/belfry/internal/occurrence"
	"github.com/hallister/belfry/internal/playback"
	"github.com/hallister/belfry/internal/redis"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	env := LoadEnvironment()
	if env.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// schedule state: Postgres when configured, in-memory otherwise
	var store db.Store
	if env.DatabaseURL != "" {
		if err := db.Init(env.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("db init failed")
		}
		if err := db.RunMigrations(env.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("db migrate failed")
		}
		store = db.NewStore(db.DB)
	} else {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store")
		store = db.NewMemoryStore()
	}

	// audio library + change watcher
	lib := library.New(env.LibraryPath)
	defer lib.Close()
	go func() {
		if err := lib.Watch(); err != nil {
			log.Error().Err(err).Msg("library watcher unavailable")
		}
	}()

	// fired-occurrence keys: Redis survives restarts, memory replays at most
	// the most recent minute
	var fired engine.FiredStore
	if env.RedisAddress != "" {
		client := redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)
		fired = occurrence.NewRedisStore(client, occurrence.DefaultGraceWindow)
	} else {
		log.Warn().Msg("REDIS_ADDRESS not set, fired occurrences tracked in memory only")
		fired = occurrence.NewMemoryStore(occurrence.DefaultGraceWindow)
	}

	// playback sink
	var sink playback.Sink = playback.LogSink{}
	if env.MQTTBrokerURL != "" {
		mqttSink, err := playback.NewMQTTSink(env.MQTTBrokerURL, "belfry-server")
		if err != nil {
			log.Fatal().Err(err).Msg("mqtt sink init failed")
		}
		defer mqttSink.Close()
		sink = mqttSink
	}

	evaluator := engine.NewEvaluator(store, fired, lib, sink, engine.WithInterval(env.TickInterval))
	go evaluator.Run(ctx)

	router := gin.Default()
	RegisterRoutes(router, env, store, InitStorage(env), lib)

	srv := &http.Server{Addr: env.ServerAddress, Handler: router}
	go func() {
		log.Info().Str("addr", env.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
