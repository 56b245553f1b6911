// Package app wires every layer of the outreach backend together: database,
// providers, repositories, domain services, job pool, and HTTP router. Only
// cmd/main.go constructs an App.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	outreachdb "github.com/yungbote/neurobridge-backend/internal/data/db"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/providers"
	"github.com/yungbote/neurobridge-backend/internal/webhook"
)

type App struct {
	Log *logger.Logger

	cfg      Config
	db       *outreachdb.PostgresService
	clients  *clients
	repos    *dataRepos
	services *domainServices
	handlers *httpHandlers
	engine   *gin.Engine
	server   *http.Server

	runServer bool
	runWorker bool
	ctx       context.Context
	cancel    context.CancelFunc
}

func New() (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("app: logger init: %w", err)
	}

	pg, err := outreachdb.NewPostgresService(log)
	if err != nil {
		return nil, fmt.Errorf("app: postgres init: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		return nil, fmt.Errorf("app: automigrate: %w", err)
	}

	c, err := buildClients(cfg, log)
	if err != nil {
		return nil, err
	}

	repos := buildRepos(pg.DB(), log)
	services := buildServices(cfg, log, repos, c)
	handlers := buildHandlers(pg.DB(), log, repos, c, services)
	engine := buildRouter(log, c, handlers)

	return &App{
		Log:      log,
		cfg:      cfg,
		db:       pg,
		clients:  c,
		repos:    repos,
		services: services,
		handlers: handlers,
		engine:   engine,
	}, nil
}

// Start begins background work: the job pool (if runWorker) and the
// orphaned-event retry ticker, which runs whenever a worker is active since
// it reuses the same webhook-application path as the HTTP ingest edge.
func (a *App) Start(runServer, runWorker bool) {
	a.runServer = runServer
	a.runWorker = runWorker

	ctx, cancel := context.WithCancel(context.Background())
	a.ctx = ctx
	a.cancel = cancel

	if runWorker {
		a.services.pool.Start(ctx)
		go a.runOrphanedLoop(ctx)
	}
}

// runOrphanedLoop fires ProcessBatch off in its own goroutine per tick
// rather than awaiting it inline: a batch that runs long (slow downstream
// resolver, DB contention) must not block the ticker from firing again.
// Queue.ProcessBatch itself refuses to overlap with a still-running cycle
// and counts the skip instead.
func (a *App) runOrphanedLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Orphaned.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go func() {
				if _, err := a.services.orphaned.ProcessBatch(ctx, a.applyOrphanedEvent); err != nil {
					a.Log.Warn("orphaned queue processing failed", "error", err.Error())
				}
			}()
		}
	}
}

// applyOrphanedEvent is the retry-time counterpart of the webhook handler's
// synchronous ApplyEvent call; re-resolving here lets a late-arriving
// Enrolment (import still in flight when the webhook first landed) settle
// the event on a subsequent tick instead of dead-lettering it immediately.
func (a *App) applyOrphanedEvent(ctx context.Context, ev providers.NormalizedEvent) error {
	return webhook.ApplyEvent(ctx, a.repos.outcomes, ev)
}

// Run starts the HTTP server, blocking until it exits. When the server is
// disabled (worker-only deployment), Run blocks until Close cancels the
// background context, so the process stays alive for the job pool.
func (a *App) Run(address string) error {
	if !a.runServer {
		if a.ctx != nil {
			<-a.ctx.Done()
		}
		return nil
	}

	a.server = &http.Server{Addr: address, Handler: a.engine}
	a.Log.Info("http server listening", "address", address)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("app: http server: %w", err)
	}
	return nil
}

// Close drains in-flight work: the orphaned queue is given a bounded window
// to flush before the job pool, responder, and HTTP server shut down, so a
// rolling deploy does not silently drop events that were mid-retry.
func (a *App) Close() error {
	ctx, cancelDrain := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelDrain()

	if a.runWorker {
		if err := a.services.orphaned.DrainQueue(ctx, a.applyOrphanedEvent, 8000); err != nil {
			a.Log.Warn("orphaned queue drain incomplete", "error", err.Error())
		}
	}

	if a.cancel != nil {
		a.cancel()
	}

	if a.services != nil && a.services.pool != nil {
		if err := a.services.pool.Shutdown(ctx); err != nil {
			a.Log.Warn("job pool shutdown incomplete", "error", err.Error())
		}
	}

	if a.services != nil && a.services.responder != nil {
		if err := a.services.responder.Shutdown(ctx); err != nil {
			a.Log.Warn("responder shutdown incomplete", "error", err.Error())
		}
	}

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.Log.Warn("http server shutdown incomplete", "error", err.Error())
		}
	}

	if a.clients != nil && a.clients.redis != nil {
		if err := a.clients.redis.Close(); err != nil {
			a.Log.Warn("redis client close failed", "error", err.Error())
		}
	}

	return nil
}
