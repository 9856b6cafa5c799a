package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/cafe-ecom/internal/auth"
	"github.com/MikeMC777/cafe-ecom/internal/config"
	"github.com/MikeMC777/cafe-ecom/internal/httpx"
	prod "github.com/MikeMC777/cafe-ecom/internal/product"
)

func openCatalog(ctx context.Context, cfg config.Config) (prod.Repository, func(), error) {
	if cfg.CatalogSource != "postgres" {
		items, err := prod.LoadFixtures(filepath.Join(cfg.FixturesDir, "menu.json"))
		if err != nil {
			return nil, nil, err
		}
		return prod.NewMemRepo(items...), func() {}, nil
	}
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	repo := prod.NewPGRepo(pool)
	if err := repo.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repo, pool.Close, nil
}

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openCatalog(ctx, cfg)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	defer closeRepo()

	r := httpx.NewRouter(cfg.CORSOrigins)
	registerRoutes(r, repo, auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL))

	srv := &http.Server{Addr: cfg.ProductSvcAddr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("product-service listening on %s", cfg.ProductSvcAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
