package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/MikeMC777/cafe-ecom/internal/auth"
	"github.com/MikeMC777/cafe-ecom/internal/config"
	"github.com/MikeMC777/cafe-ecom/internal/httpx"
	"github.com/MikeMC777/cafe-ecom/internal/user"
	pb "github.com/MikeMC777/cafe-ecom/internal/userpb"
)

func openRepo(ctx context.Context, cfg config.Config) (user.Repository, func(), error) {
	if cfg.StorageDriver != "postgres" {
		log.Printf("[users] STORAGE_DRIVER=%s, keeping users in memory", cfg.StorageDriver)
		return user.NewMemRepo(), func() {}, nil
	}
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	repo := user.NewPGRepo(pool)
	if err := repo.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repo, pool.Close, nil
}

// grpcListenAddr binds every interface on the port of the dial address.
func grpcListenAddr(dial string) string {
	_, port, err := net.SplitHostPort(dial)
	if err != nil {
		return ":50051"
	}
	return ":" + port
}

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepo(ctx, cfg)
	if err != nil {
		log.Fatalf("user repo: %v", err)
	}
	defer closeRepo()

	svc := user.NewService(repo)
	if err := svc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	r := httpx.NewRouter(cfg.CORSOrigins)
	registerRoutes(r, svc, auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL))
	httpSrv := &http.Server{Addr: cfg.UserHTTPAddr, Handler: r}

	lis, err := net.Listen("tcp", grpcListenAddr(cfg.UserSvcAddr))
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	grpcSrv := grpc.NewServer()
	pb.RegisterUserDirectoryServer(grpcSrv, svc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("user-service HTTP listening on %s", cfg.UserHTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Printf("user-service gRPC listening on %s", lis.Addr())
		return grpcSrv.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		grpcSrv.GracefulStop()
		return httpSrv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
