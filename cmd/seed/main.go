// Copyright (c) 2026 Odara. All rights reserved.

// Command seed populates the catalogue with the demo storefront inventory.
//
// It is idempotent: products are identified by their derived slug, so rerunning
// the tool skips everything that already exists. Intended for development and
// staging environments.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/odara-app/odara/internal/catalog"
	"github.com/odara-app/odara/internal/platform/apperr"
	"github.com/odara-app/odara/internal/platform/config"
	"github.com/odara-app/odara/internal/platform/constants"
	"github.com/odara-app/odara/internal/platform/migration"
	pgstore "github.com/odara-app/odara/internal/platform/postgres"
	redisstore "github.com/odara-app/odara/internal/platform/redis"
)

// demoInventory is the fixed product set the storefront ships with.
var demoInventory = []catalog.CreateProductInput{
	{Name: "Linen Summer Dress", Description: "Lightweight linen dress with a relaxed fit.", Category: catalog.CategoryClothing, PriceCents: 5900, Currency: "USD", ImageURL: "https://cdn.odara.app/products/linen-summer-dress.jpg", Stock: 120},
	{Name: "Oversized Wool Coat", Description: "Double-breasted wool blend coat.", Category: catalog.CategoryClothing, PriceCents: 18900, Currency: "USD", ImageURL: "https://cdn.odara.app/products/oversized-wool-coat.jpg", Stock: 40},
	{Name: "Air Runner", Description: "Breathable everyday running shoe.", Category: catalog.CategoryShoes, PriceCents: 12900, Currency: "USD", ImageURL: "https://cdn.odara.app/products/air-runner.jpg", Stock: 200},
	{Name: "Suede Chelsea Boot", Description: "Classic chelsea boot in sand suede.", Category: catalog.CategoryShoes, PriceCents: 15900, Currency: "USD", ImageURL: "https://cdn.odara.app/products/suede-chelsea-boot.jpg", Stock: 65},
	{Name: "Canvas Tote", Description: "Heavy canvas tote with internal pocket.", Category: catalog.CategoryAccessories, PriceCents: 3400, Currency: "USD", ImageURL: "https://cdn.odara.app/products/canvas-tote.jpg", Stock: 300},
	{Name: "Gold Hoop Earrings", Description: "14k gold plated hoops, 28mm.", Category: catalog.CategoryAccessories, PriceCents: 4900, Currency: "USD", ImageURL: "https://cdn.odara.app/products/gold-hoop-earrings.jpg", Stock: 150},
	{Name: "Vitamin C Serum", Description: "Brightening serum with 15% vitamin C.", Category: catalog.CategoryBeauty, PriceCents: 2800, Currency: "USD", ImageURL: "https://cdn.odara.app/products/vitamin-c-serum.jpg", Stock: 500},
	{Name: "Café Crème Candle", Description: "Soy wax candle, 45 hour burn time.", Category: catalog.CategoryHome, PriceCents: 2400, Currency: "USD", ImageURL: "https://cdn.odara.app/products/cafe-creme-candle.jpg", Stock: 220},
	{Name: "Stoneware Mug Set", Description: "Set of four glazed stoneware mugs.", Category: catalog.CategoryHome, PriceCents: 4200, Currency: "USD", ImageURL: "https://cdn.odara.app/products/stoneware-mug-set.jpg", Stock: 90},
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With(slog.String("app", constants.AppName+"-seed"))
	slog.SetDefault(log)

	cfg, err := config.Load()
	must(log, err, "load configuration")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() { _ = rdb.Close() }()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	productRepository := catalog.NewProductRepository(pool)
	wishlistRepository := catalog.NewWishlistRepository(rdb)
	catalogService := catalog.NewService(productRepository, wishlistRepository, log)

	created, skipped := 0, 0
	for _, input := range demoInventory {
		product, err := catalogService.CreateProduct(ctx, input)
		if err != nil {
			if appErr := apperr.As(err); appErr != nil && appErr.Code == "CONFLICT" {
				skipped++
				continue
			}
			must(log, err, "seed product "+input.Name)
		}
		log.Info("product_seeded", slog.String("slug", product.Slug))
		created++
	}

	log.Info("seed_complete", slog.Int("created", created), slog.Int("skipped", skipped))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("seed failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
