package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/mind-engage/student-submissions/internal/api/http"
	auth "github.com/mind-engage/student-submissions/internal/auth/middleware"
	"github.com/mind-engage/student-submissions/internal/config"
	"github.com/mind-engage/student-submissions/internal/db"
	"github.com/mind-engage/student-submissions/internal/exam"
	"github.com/mind-engage/student-submissions/internal/seed"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store open failed: %v", err)
	}

	if cfg.SeedSampleData {
		if err := seed.Load(ctx, store); err != nil {
			log.Printf("warning: sample data not loaded: %v", err)
		}
	}

	svc := exam.NewService(store)
	authSvc := auth.NewAuthService(cfg.SecretKey)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.Deps{
			Service:     svc,
			Auth:        authSvc,
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop, stopCancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopCancel()

	go func() {
		log.Printf("listening on %s (store=%s)", cfg.HTTPAddr, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	}()

	<-stop.Done()
	log.Printf("shutting down")
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := store.Close(shutCtx); err != nil {
		log.Printf("store close: %v", err)
	}
}

// openStore builds the configured backend. An unreachable database is only
// a warning: the server still starts and requests fail until it comes back.
func openStore(ctx context.Context, cfg config.Config) (exam.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		ms, err := exam.NewMongoStore(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := ms.EnsureIndexes(ctx); err != nil {
			log.Printf("warning: mongodb not ready: %v", err)
		}
		return ms, nil
	case config.StoreSQLite, config.StorePostgres:
		drv := db.Driver(cfg.StoreDriver)
		h, err := db.Open(drv, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx, h); err != nil {
			log.Printf("warning: %s not ready: %v", drv, err)
		}
		return exam.NewSQLStore(h, drv), nil
	case config.StoreMemory:
		return exam.NewInMemoryStore(), nil
	default:
		return nil, errors.New("unknown STORE_DRIVER " + string(cfg.StoreDriver))
	}
}
