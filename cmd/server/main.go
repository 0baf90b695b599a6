package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	"xtvredirect/bot"
	"xtvredirect/impl/auth"
	"xtvredirect/impl/core"
	"xtvredirect/internal/admin"
	"xtvredirect/internal/config"
	"xtvredirect/internal/database"
	"xtvredirect/internal/http-server/api"
	"xtvredirect/internal/redirect"
	"xtvredirect/internal/setup"
	"xtvredirect/internal/tmdb"
	"xtvredirect/lib/logger"
	"xtvredirect/lib/sl"

	"golang.org/x/time/rate"
)

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	base := logger.SetupLogger(conf.Env, conf.LogLevel, conf.LogPath)
	base.Info("starting xtvredirect", slog.String("config", *configPath), slog.String("env", conf.Env))

	ctx := context.Background()

	var store database.Store
	if conf.Store.UseMemory {
		base.Warn("using in-memory redirect store; records are lost on restart")
		store = database.NewMemoryDB()
	} else {
		mongo, err := database.NewMongoClient(ctx, conf.Store.Uri)
		if err != nil {
			base.Error("mongo client", sl.Err(err))
			os.Exit(1)
		}
		base.With(slog.String("database", mongo.Database())).Info("mongo client initialized")
		if err = mongo.EnsureIndexes(ctx); err != nil {
			base.Error("ensure indexes", sl.Err(err))
			os.Exit(1)
		}
		store = mongo
	}

	tgBot, err := bot.NewTgBot(conf.Telegram.BotToken, base, bot.BotConfig{
		OperatorId:     conf.Telegram.OperatorId,
		DigestInterval: conf.Telegram.DigestInterval,
	})
	if err != nil {
		base.Error("telegram bot", sl.Err(err))
		os.Exit(1)
	}
	// errors from the flows reach the operator; the bot keeps the plain logger so its own failures do not loop
	log := slog.New(logger.NewTelegramHandler(base.Handler(), tgBot, slog.LevelError))

	var sessions setup.SessionStore
	if conf.Store.RedisUrl != "" {
		rs, err := setup.NewRedisStore(ctx, conf.Store.RedisUrl, conf.Flow.SessionTTL)
		if err != nil {
			log.Error("redis session store", sl.Err(err))
			os.Exit(1)
		}
		defer func() { _ = rs.Close() }()
		sessions = rs
	} else {
		sessions = setup.NewMemoryStore(conf.Flow.SessionTTL)
	}

	policy, err := setup.ParsePolicy(conf.Flow.SetupPolicy)
	if err != nil {
		log.Error("setup policy", sl.Err(err))
		os.Exit(1)
	}
	animation, err := redirect.ParseAnimation(conf.Flow.Animation)
	if err != nil {
		log.Error("redirect animation", sl.Err(err))
		os.Exit(1)
	}
	var limiter *rate.Limiter
	if conf.Flow.InviteRatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(conf.Flow.InviteRatePerSec), 1)
	}

	catalog := tmdb.NewClient(conf.Catalog.ApiKey, log)
	transport := tgBot.Transport()
	operator := conf.Telegram.OperatorId

	tgBot.SetFlows(
		setup.New(transport, catalog, store, sessions, policy, operator, log),
		redirect.New(transport, catalog, store, animation, limiter, operator, log),
		admin.New(transport, store, operator, log),
	)
	log.Info("flows configured",
		slog.String("setup_policy", policy.Name()),
		slog.String("animation", animation.Name()),
	)

	handler := core.New(store, log)
	if conf.Listen.ApiToken != "" {
		handler.SetAuthService(auth.New(conf.Listen.ApiToken))
	}
	server := api.New(conf, log, handler)
	go func() {
		if err := server.Start(); err != nil {
			log.Error("api server", sl.Err(err))
		}
	}()

	go func() {
		if err := tgBot.Start(); err != nil {
			log.Error("telegram bot", sl.Err(err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	log.Info("shutting down", slog.String("signal", sig.String()))

	tgBot.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Error("api server shutdown", sl.Err(err))
	}
	if err = store.Close(shutdownCtx); err != nil {
		log.Error("store close", sl.Err(err))
	}
}
