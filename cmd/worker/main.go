// Package main is the entry point for the Mercatus background worker.
// It re-posts sale documents whose master data has been corrected since
// posting, and cleans up expired auth sessions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"mercatus/internal/config"
	"mercatus/internal/core/id"
	"mercatus/internal/domain/catalogs/marketplaceproduct"
	"mercatus/internal/domain/documents/mpsale"
	"mercatus/internal/domain/posting"
	"mercatus/internal/domain/projections/prices"
	"mercatus/internal/domain/projections/salesdata"
	"mercatus/internal/domain/projections/salesregister"
	"mercatus/internal/domain/resolve"
	"mercatus/internal/infrastructure/numerator"
	"mercatus/internal/infrastructure/storage/postgres"
	"mercatus/internal/infrastructure/storage/postgres/catalog_repo"
	"mercatus/internal/infrastructure/storage/postgres/document_repo"
	"mercatus/internal/infrastructure/storage/postgres/projection_repo"
	"mercatus/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting mercatus worker")

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	worker := NewWorker(pool, txManager, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// Worker runs periodic maintenance jobs.
type Worker struct {
	pool  *postgres.Pool
	sales *mpsale.Service
	relay *postgres.OutboxRelay
	idemp *postgres.IdempotencyStore
	log   *logger.Logger
}

// NewWorker wires the sale service the same way the API server does.
func NewWorker(pool *postgres.Pool, txManager *postgres.TxManager, log *logger.Logger) *Worker {
	salesRegisterService := salesregister.NewService(projection_repo.NewSalesRegisterRepo(txManager))
	salesDataService := salesdata.NewService(projection_repo.NewSalesDataRepo(txManager))

	postingEngine := posting.NewEngine(txManager, salesRegisterService, salesDataService)
	postingEngine.RegisterDocumentType("MarketplaceSale", posting.TargetSalesRegister, posting.TargetSalesData)

	productService := marketplaceproduct.NewService(
		catalog_repo.NewMarketplaceProductRepo(txManager), txManager, numerator.New(pool))

	resolver := resolve.NewResolver(
		catalog_repo.NewConnectionRepo(txManager),
		catalog_repo.NewOrganizationRepo(txManager),
		catalog_repo.NewNomenclatureRepo(txManager),
		productService,
		prices.NewService(projection_repo.NewPriceRepo(txManager)),
	)

	postingEngine.SetEventPublisher(postgres.NewPostingEvents(txManager))

	saleRepo := document_repo.NewMPSaleRepo(txManager)
	salesService := mpsale.NewService(saleRepo, postingEngine, resolver, txManager)

	workerLog := log.WithComponent("worker")

	return &Worker{
		pool:  pool,
		sales: salesService,
		relay: postgres.NewOutboxRelay(pool.Pool, 100, &loggingEventHandler{log: workerLog}),
		idemp: postgres.NewIdempotencyStore(pool, txManager, 24*time.Hour),
		log:   workerLog,
	}
}

// loggingEventHandler drains posting events to the log. Replace with a
// broker publisher when external consumers appear.
type loggingEventHandler struct {
	log *logger.Logger
}

func (h *loggingEventHandler) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	h.log.Infow("posting event",
		"aggregate_type", msg.AggregateType,
		"aggregate_id", msg.AggregateID,
		"event_type", msg.EventType,
	)
	return nil
}

// Run starts the periodic jobs and blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	repostTicker := time.NewTicker(5 * time.Minute)
	defer repostTicker.Stop()

	outboxTicker := time.NewTicker(30 * time.Second)
	defer outboxTicker.Stop()

	cleanupTicker := time.NewTicker(1 * time.Hour)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-repostTicker.C:
			w.repostStaleSales(ctx)
		case <-outboxTicker.C:
			w.drainOutbox(ctx)
		case <-cleanupTicker.C:
			w.cleanupSessions(ctx)
			w.cleanupIdempotency(ctx)
		}
	}
}

// drainOutbox relays pending posting events.
func (w *Worker) drainOutbox(ctx context.Context) {
	processed, err := w.relay.ProcessBatch(ctx)
	if err != nil {
		w.log.Errorw("outbox relay failed", "error", err)
		return
	}
	if processed > 0 {
		w.log.Debugw("relayed outbox batch", "count", processed)
	}
}

func (w *Worker) cleanupIdempotency(ctx context.Context) {
	removed, err := w.idemp.CleanupExpired(ctx)
	if err != nil {
		w.log.Errorw("idempotency cleanup failed", "error", err)
		return
	}
	if removed > 0 {
		w.log.Infow("cleaned up expired idempotency keys", "count", removed)
	}
}

// repostStaleSales finds posted sales with lines that were left without
// nomenclature enrichment but whose marketplace product has since been
// matched, and re-posts them. Posting replaces the projection rows, so
// the corrected master data propagates without manual intervention.
func (w *Worker) repostStaleSales(ctx context.Context) {
	rows, err := w.pool.Query(ctx, `
		SELECT DISTINCT d.id
		FROM doc_mp_sales d
		JOIN doc_mp_sale_lines l ON l.document_id = d.id
		JOIN cat_marketplace_products p ON p.id = l.marketplace_product_id
		WHERE d.posted = true
		  AND d.deletion_mark = false
		  AND l.nomenclature_id IS NULL
		  AND p.nomenclature_id IS NOT NULL
		LIMIT 100
	`)
	if err != nil {
		w.log.Errorw("stale sales query failed", "error", err)
		return
	}
	defer rows.Close()

	var docIDs []id.ID
	for rows.Next() {
		var docID id.ID
		if err := rows.Scan(&docID); err != nil {
			w.log.Errorw("stale sales scan failed", "error", err)
			return
		}
		docIDs = append(docIDs, docID)
	}
	if err := rows.Err(); err != nil {
		w.log.Errorw("stale sales rows failed", "error", err)
		return
	}

	reposted := 0
	for _, docID := range docIDs {
		if err := w.sales.Post(ctx, docID); err != nil {
			w.log.Warnw("re-post failed", "document_id", docID, "error", err)
			continue
		}
		reposted++
	}

	if reposted > 0 {
		w.log.Infow("re-posted sales after master data corrections", "count", reposted)
	}
}

func (w *Worker) cleanupSessions(ctx context.Context) {
	result, err := w.pool.Exec(ctx, `
		DELETE FROM auth_refresh_tokens
		WHERE expires_at < NOW() OR revoked = true
	`)
	if err != nil {
		w.log.Errorw("session cleanup failed", "error", err)
		return
	}

	if result.RowsAffected() > 0 {
		w.log.Infow("cleaned up expired sessions", "count", result.RowsAffected())
	}
}
