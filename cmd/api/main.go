package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/campuskit/membership-backend/api/routes"
	"github.com/campuskit/membership-backend/internal/invitations"
	"github.com/campuskit/membership-backend/internal/memberships"
	"github.com/campuskit/membership-backend/internal/notifications"
	"github.com/campuskit/membership-backend/internal/teams"
	"github.com/campuskit/membership-backend/internal/users"
	"github.com/campuskit/membership-backend/pkg/config"
	"github.com/campuskit/membership-backend/pkg/db"
	"github.com/campuskit/membership-backend/pkg/logger"
	"github.com/campuskit/membership-backend/pkg/metrics"
	"github.com/campuskit/membership-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	membershipMetrics := metrics.NewMembershipMetrics(registry)

	notifier := notifications.NewLogNotifier(logg)

	membershipsRepo := memberships.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())
	teamsRepo := teams.NewRepository(dbClient.DB())
	invitationsRepo := invitations.NewRepository(dbClient.DB())

	invitationsService, err := invitations.NewService(invitationsRepo, membershipsRepo, notifier, membershipMetrics, cfg.Invitation)
	if err != nil {
		logg.Error(context.Background(), "failed to create invitations service", err)
		os.Exit(1)
	}

	membershipsService, err := memberships.NewService(membershipsRepo, notifier, membershipMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create memberships service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, membershipsRepo, invitationsRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	teamsService, err := teams.NewService(teamsRepo, membershipsRepo, invitationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create teams service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, registry, routes.Services{
			Users:       usersService,
			Teams:       teamsService,
			Memberships: membershipsService,
			Invitations: invitationsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
