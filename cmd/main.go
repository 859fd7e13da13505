package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/auth"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/config"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/db"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/logging"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/middleware"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/server"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/services"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/stations"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage/memory"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage/mongostore"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/stream"
)

type appStore interface {
	storage.UserStore
	storage.AdminStore
}

func main() {
	// Load .env
	envErr := godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Warn().Err(envErr).Msg("No .env file loaded")
	}
	if cfg.DefaultSecrets() {
		log.Warn().Msg("JWT secrets are using development defaults; set JWT_SECRET and ADMIN_JWT_SECRET")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store   appStore
		ping    func(context.Context) error
		client  *mongo.Client
		watcher *mongostore.Store
	)
	switch cfg.StorageDriver {
	case config.DriverMongo:
		client, err = db.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		database := client.Database(cfg.MongoDB)
		if err := db.EnsureIndexes(ctx, database); err != nil {
			log.Fatal().Err(err).Msg("Failed to create indexes")
		}
		watcher = mongostore.New(database)
		store = watcher
		ping = func(ctx context.Context) error { return db.Ping(ctx, client) }
	default:
		store = memory.New()
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
	}

	userTokens := auth.NewTokenManager(cfg.JWTSecret)
	adminTokens := auth.NewTokenManager(cfg.AdminJWTSecret)
	hub := stream.NewHub(32)

	userService := services.NewUserService(store, userTokens, services.UserServiceConfig{
		UserTokenTTL:      cfg.UserTokenTTL,
		ExplorerTokenTTL:  cfg.ExplorerTokenTTL,
		RefundRedirectURL: cfg.RefundRedirectURL,
	})
	walletService := services.NewWalletService(store)
	adminService := services.NewAdminService(store, adminTokens, services.AdminServiceConfig{
		TokenTTL:       cfg.AdminTokenTTL,
		AccessPassword: cfg.AddAdminAccessPassword,
		SeedPassword:   cfg.AdminSeedPassword,
	})
	dashboardService := services.NewDashboardService(store)

	if cfg.ChangeStreams && watcher != nil {
		go func() {
			if err := watcher.WatchUsers(ctx, hub.NotifyUser); err != nil {
				log.Error().Err(err).Msg("User change stream stopped, live user updates are disabled")
			}
		}()
	} else {
		userService.SetNotifier(hub)
		walletService.SetNotifier(hub)
	}

	if seeded, err := adminService.SeedInitial(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to seed initial admin")
	} else if seeded {
		log.Info().Str("admin", services.SeedAdminUserID).Msg("Initial admin created")
	}

	stationList, err := stations.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load stations")
	}

	poller := stream.NewPoller(hub, dashboardService, cfg.AdminPollInterval)
	if err := poller.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start admin poller")
	}

	srv := server.New(cfg, server.Deps{
		Users:     userService,
		Wallets:   walletService,
		Admins:    adminService,
		Dashboard: dashboardService,
		Hub:       hub,
		Guard:     middleware.NewAuthenticator(userTokens, adminTokens),
		Stations:  stationList,
		Ping:      ping,
	})

	go func() {
		log.Info().Str("addr", cfg.HTTPAddress()).Str("storage", cfg.StorageDriver).Msg("Server running")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown")
	}
	poller.Stop(shutdownCtx)
	if client != nil {
		if err := client.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}
}
