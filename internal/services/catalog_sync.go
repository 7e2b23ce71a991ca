package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sttmarket/backend/domain"
	"github.com/sttmarket/backend/repository"
	"github.com/sttmarket/backend/usecase/session"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// SyncConfig controls how frequently merchant submissions are published.
type SyncConfig struct {
	Interval time.Duration
}

// CatalogSync periodically publishes the merchant's persisted venue and event
// collections into the platform catalog, so self-service submissions reach
// the public browse surface and the moderation queue. It reads the substrate
// keys but never writes them; the session store stays the sole writer.
type CatalogSync struct {
	kv      repository.KVStore
	catalog repository.CatalogRepository
	monitor ConnectionHealth
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     SyncConfig
}

func NewCatalogSync(
	kv repository.KVStore,
	catalog repository.CatalogRepository,
	monitor ConnectionHealth,
	logger *zap.Logger,
	cfg SyncConfig,
) (*CatalogSync, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cs := &CatalogSync{
		kv:      kv,
		catalog: catalog,
		monitor: monitor,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %s", cfg.Interval)
	if _, err := cs.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := cs.Sync(ctx); err != nil {
			cs.logger.Error("catalog sync failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule catalog sync: %w", err)
	}

	return cs, nil
}

// Start launches the cron scheduler.
func (cs *CatalogSync) Start() {
	if cs == nil || cs.cron == nil {
		return
	}
	cs.cron.Start()
	cs.logger.Info("catalog sync started")
}

// Stop gracefully stops the scheduler.
func (cs *CatalogSync) Stop(ctx context.Context) {
	if cs == nil || cs.cron == nil {
		return
	}
	stopCtx := cs.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	cs.logger.Info("catalog sync stopped")
}

// Sync publishes the current collections synchronously.
func (cs *CatalogSync) Sync(ctx context.Context) error {
	if cs.monitor != nil && !cs.monitor.IsOnline() {
		cs.logger.Debug("skipping catalog sync (catalog offline)")
		return nil
	}

	if err := cs.syncVenues(ctx); err != nil {
		return err
	}
	return cs.syncEvents(ctx)
}

func (cs *CatalogSync) syncVenues(ctx context.Context) error {
	raw, err := cs.kv.Get(ctx, session.KeyVenues)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return nil
		}
		return err
	}

	var venues []domain.Venue
	if err := json.Unmarshal(raw, &venues); err != nil {
		cs.logger.Warn("skipping unreadable venue collection", zap.Error(err))
		return nil
	}

	for i := range venues {
		if err := cs.catalog.UpsertVenue(ctx, &venues[i]); err != nil {
			cs.logger.Error("venue upsert failed", zap.Int64("venue_id", venues[i].ID), zap.Error(err))
			continue
		}
	}
	return nil
}

func (cs *CatalogSync) syncEvents(ctx context.Context) error {
	raw, err := cs.kv.Get(ctx, session.KeyEvents)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return nil
		}
		return err
	}

	var events []domain.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		cs.logger.Warn("skipping unreadable event collection", zap.Error(err))
		return nil
	}

	for i := range events {
		if err := cs.catalog.UpsertEvent(ctx, &events[i]); err != nil {
			cs.logger.Error("event upsert failed", zap.Int64("event_id", events[i].ID), zap.Error(err))
			continue
		}
	}
	return nil
}
