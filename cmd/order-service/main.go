package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/MikeMC777/cafe-ecom/docs"
	"github.com/MikeMC777/cafe-ecom/internal/auth"
	"github.com/MikeMC777/cafe-ecom/internal/cart"
	"github.com/MikeMC777/cafe-ecom/internal/config"
	"github.com/MikeMC777/cafe-ecom/internal/events"
	"github.com/MikeMC777/cafe-ecom/internal/httpx"
	"github.com/MikeMC777/cafe-ecom/internal/live"
	ord "github.com/MikeMC777/cafe-ecom/internal/order"
	"github.com/MikeMC777/cafe-ecom/internal/storage"
)

type publisher interface {
	ord.Publisher
	Close() error
}

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if cfg.StorageDriver == "postgres" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("pg pool: %v", err)
		}
		defer pool.Close()
	}
	store, err := storage.Open(ctx, cfg.StorageDriver, cfg.StoragePath, pool)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()

	pf, err := config.LoadPricing(cfg.PricingFile)
	if err != nil {
		log.Fatalf("pricing: %v", err)
	}
	pricing, err := ord.PricingFrom(pf)
	if err != nil {
		log.Fatalf("pricing: %v", err)
	}

	ext, err := ord.NewExt(cfg.UserSvcAddr, cfg.ProductSvcBaseURL)
	if err != nil {
		log.Fatalf("user service client: %v", err)
	}

	var pub publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		p, err := events.Dial(cfg.AMQPURL)
		if err != nil {
			log.Printf("[events] disabled: %v", err)
		} else {
			pub = p
		}
	}
	defer pub.Close()

	hub := live.NewHub()
	s := &server{
		carts:  cart.NewService(store),
		orders: ord.NewService(store, pricing, ord.WithPublisher(pub), ord.WithNotifier(hub)),
		ext:    ext,
		hub:    hub,
		issuer: auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL),
	}

	r := httpx.NewRouter(cfg.CORSOrigins)
	registerRoutes(r, s)
	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{Addr: cfg.OrderSvcAddr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("order-service listening on %s", cfg.OrderSvcAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
