// Copyright (c) 2026 Odara. All rights reserved.

// Command app is the headless client shell for the Odara storefront.
//
// It wires the device-local stores (credentials, session, onboarding) to the
// API client exactly the way the mobile shell does: both stores initialize
// concurrently at startup, the 401 hook tears the session down, and the
// navigation gate decides which surface the UI would mount.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/odara-app/odara/internal/app/apiclient"
	"github.com/odara-app/odara/internal/app/credstore"
	"github.com/odara-app/odara/internal/app/navigation"
	"github.com/odara-app/odara/internal/app/onboarding"
	"github.com/odara-app/odara/internal/app/session"
)

// appConfig holds the client shell's environment configuration.
type appConfig struct {
	// APIURL is the base URL of the Odara API.
	APIURL string `env:"ODARA_API_URL" envDefault:"http://localhost:8080"`

	// CredentialsPath is the SQLite file holding tokens and flags.
	// Empty means ~/.odara/credentials.db.
	CredentialsPath string `env:"ODARA_CREDENTIALS_PATH"`
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With(slog.String("app", "odara-client"))
	slog.SetDefault(log)

	cfg := appConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Error("config parse failed", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.CredentialsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Error("home directory resolution failed", slog.Any("error", err))
			os.Exit(1)
		}
		cfg.CredentialsPath = filepath.Join(home, ".odara", "credentials.db")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.CredentialsPath), 0o700); err != nil {
		log.Error("credentials directory creation failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// ── Stores & Client ───────────────────────────────────────────────────
	creds, err := credstore.Open(ctx, cfg.CredentialsPath)
	if err != nil {
		log.Error("credential store open failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = creds.Close() }()

	api := apiclient.New(cfg.APIURL, creds, log)
	sessionStore := session.NewStore(creds, api, log)
	onboardingStore := onboarding.NewStore(creds, log)

	// A 401 from any endpoint means the session is dead on the server side.
	api.OnUnauthorized(func(ctx context.Context) {
		log.Info("session expired, logging out")
		sessionStore.Logout(ctx)
	})

	// ── Startup ───────────────────────────────────────────────────────────
	// Both stores restore concurrently; the gate shows Loading until both
	// are done.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sessionStore.Initialize(ctx)
	}()
	go func() {
		defer wg.Done()
		onboardingStore.Initialize(ctx)
	}()
	wg.Wait()

	route := navigation.Resolve(navigation.State{
		SessionLoading:      sessionStore.IsLoading(),
		OnboardingLoading:   onboardingStore.IsLoading(),
		OnboardingCompleted: onboardingStore.IsCompleted(),
		IsAuthenticated:     sessionStore.IsAuthenticated(),
		InitialAuthScreen:   onboardingStore.InitialAuthScreen(),
	})

	log.Info("client ready",
		slog.String("route", string(route)),
		slog.Bool("authenticated", sessionStore.IsAuthenticated()),
		slog.Bool("onboarded", onboardingStore.IsCompleted()),
	)
}
