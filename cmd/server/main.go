package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	"github.com/showmtmn-cloud/richgo/internal/api"
	"github.com/showmtmn-cloud/richgo/internal/config"
	"github.com/showmtmn-cloud/richgo/internal/store"
)

func openStore(ctx context.Context, env config.Env) store.Store {
	if env.RedisURL != "" {
		log.Printf("Connecting to Redis at: %s", env.RedisURL)
		opts, err := redis.ParseURL(env.RedisURL)
		if err != nil {
			log.Printf("Failed to parse Redis URL: %v", err)
		} else {
			client := redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = client.Ping(pingCtx).Err()
			cancel()
			if err != nil {
				log.Printf("Failed to connect to Redis: %v", err)
				_ = client.Close()
			} else if st, err := store.NewRedis(&store.RedisConfig{Client: client, TTL: 7 * 24 * time.Hour}); err == nil {
				log.Println("Using Redis for persistence")
				return st
			} else {
				log.Printf("Failed to set up Redis store: %v", err)
				_ = client.Close()
			}
		}
	}
	if env.SQLitePath != "" {
		st, err := store.OpenSQLite(env.SQLitePath)
		if err == nil {
			log.Printf("Using SQLite at %s for persistence", env.SQLitePath)
			return st
		}
		log.Printf("Failed to open SQLite: %v", err)
	}
	log.Println("Falling back to in-memory store")
	return store.NewMemory()
}

func main() {
	env := config.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := openStore(ctx, env)
	defer st.Close()

	a := newApp(env, st, affix.NewCachedResolver(30*time.Minute))
	if _, err := a.reload(ctx); err != nil {
		log.Printf("initial pass failed: %v", err)
	}

	w := config.NewFileWatcher(
		[]string{env.DataDir, env.ConfigDir, filepath.Join(env.ConfigDir, "leagues")},
		env.WatchInterval,
		a.onChange(ctx),
	)
	go w.Run(ctx)

	srv := &api.Server{
		Store:    st,
		Catalog:  a.Catalog,
		Market:   a.Market,
		Recipes:  a.Recipes,
		Resolver: a.resolver,
		League:   env.League,
	}
	httpSrv := &http.Server{Addr: env.HTTPAddr, Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Printf("listening on %s ...", env.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	var grpcSrv *grpc.Server
	if env.GRPCAddr != "" {
		lis, err := net.Listen("tcp", env.GRPCAddr)
		if err != nil {
			log.Fatalf("Failed to listen on %s: %v", env.GRPCAddr, err)
		}
		grpcSrv = grpc.NewServer()
		api.RegisterGRPC(grpcSrv, &api.GRPCService{Store: st, League: env.League})
		go func() {
			log.Printf("grpc listening on %s ...", env.GRPCAddr)
			if err := grpcSrv.Serve(lis); err != nil {
				log.Printf("grpc server stopped: %v", err)
			}
		}()
	}

	<-ctx.Done()
	log.Println("shutting down ...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
}
