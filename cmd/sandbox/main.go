package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cajero/internal/catalog"
	"github.com/MrJamesThe3rd/cajero/internal/config"
	cajeroHttp "github.com/MrJamesThe3rd/cajero/internal/http"
	authHandler "github.com/MrJamesThe3rd/cajero/internal/http/auth"
	cajaHandler "github.com/MrJamesThe3rd/cajero/internal/http/caja"
	catalogHandler "github.com/MrJamesThe3rd/cajero/internal/http/catalog"
	"github.com/MrJamesThe3rd/cajero/internal/sandbox"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	products, err := loadProducts(cfg.Sandbox.ProductsCSV)
	if err != nil {
		slog.Error("failed to load products", "path", cfg.Sandbox.ProductsCSV, "error", err)
		os.Exit(1)
	}

	ledger := sandbox.NewLedger(time.Now)

	demo, err := sandbox.Seed(ledger, products, 0)
	if err != nil {
		slog.Error("failed to seed sandbox", "error", err)
		os.Exit(1)
	}

	slog.Info("sandbox seeded",
		"company", demo.Company.NombreEmpresa,
		"cashier", sandbox.DemoCashierUsername,
		"admin", sandbox.DemoAdminUsername,
		"products", len(products),
	)

	tokens := authHandler.NewTokens(cfg.Sandbox.JWTSecret, cfg.Sandbox.TokenTTL)

	var (
		authH    = authHandler.NewHandler(ledger, tokens)
		cajasH   = cajaHandler.NewHandler(ledger)
		catalogH = catalogHandler.NewHandler(ledger)
	)

	router := cajeroHttp.New(tokens, authH, cajasH, catalogH, cfg.Sandbox.CORSOrigins)

	port := fmt.Sprintf(":%d", cfg.Sandbox.Port)
	slog.Info("starting sandbox", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// loadProducts returns nil when no file is configured so Seed falls back to
// its default catalog. Company references are filled in by Seed.
func loadProducts(path string) ([]catalog.Product, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open products file: %w", err)
	}
	defer f.Close()

	return sandbox.LoadProducts(f, "")
}
