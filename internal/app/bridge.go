package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/fastspring-bridge/internal/config"
	"github.com/samvad-hq/fastspring-bridge/internal/logger"
	"github.com/samvad-hq/fastspring-bridge/internal/monitor"
	"github.com/samvad-hq/fastspring-bridge/pkg/fastspring"
	"github.com/samvad-hq/fastspring-bridge/pkg/publishers"
	"github.com/samvad-hq/fastspring-bridge/pkg/watch"
)

// Bridge represents the billing bridge runtime. It manages the poll loop,
// coordinating between the API client, the watch registry, and publishers.
type Bridge struct {
	cfg          *config.Config
	watchReg     *watch.Registry
	fanout       *publishers.Fanout
	monitorSvc   *monitor.Service
	pollInterval time.Duration
	log          logger.Logger
}

// NewBridge builds a bridge runtime from config files.
func NewBridge(ctx context.Context, cfg *config.Config, log logger.Logger) (*Bridge, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := fastspring.New(
		cfg.FastSpringUsername,
		cfg.FastSpringPassword,
		cfg.FastSpringCompany,
		fastspring.WithBaseURL(cfg.FastSpringBaseURL),
		fastspring.WithTimeout(cfg.HTTPTimeout),
		fastspring.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("build fastspring client: %w", err)
	}

	watchReg, err := watch.LoadRegistry(cfg.WatchesFile)
	if err != nil {
		return nil, fmt.Errorf("load watch registry: %w", err)
	}
	watchList := watchReg.Enabled()
	watchIDs := make([]string, 0, len(watchList))
	for _, w := range watchList {
		watchIDs = append(watchIDs, w.ID)
	}
	log.InfoObj("watch registry loaded", "watches_meta", map[string]any{
		"count": len(watchIDs),
		"ids":   watchIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubRegistry := publishers.DefaultRegistry()
	pubClients, err := publishers.BuildAll(ctx, pubRegistry, enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients, log)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	monitorSvc := monitor.NewService(client, fanout, log)

	return &Bridge{
		cfg:          cfg,
		watchReg:     watchReg,
		fanout:       fanout,
		monitorSvc:   monitorSvc,
		pollInterval: cfg.PollInterval,
		log:          log,
	}, nil
}

// Run starts the poll loop until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	if b == nil || b.monitorSvc == nil {
		return fmt.Errorf("bridge is not initialized")
	}

	watches := b.watchReg.Enabled()
	if len(watches) == 0 {
		b.log.WarnObj("no watches configured; bridge idle", "watches_file", b.cfg.WatchesFile)
		<-ctx.Done()
		return ctx.Err()
	}

	b.log.InfoObj("bridge loop starting", "bridge_state", map[string]any{
		"watches_count":    len(watches),
		"publishers_count": b.fanout.Size(),
		"poll_interval":    b.pollInterval.String(),
	})

	if err := b.runOnce(ctx, watches); err != nil {
		b.log.ErrorObj("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.log.InfoObj("bridge loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := b.runOnce(ctx, watches); err != nil {
				b.log.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

// runOnce performs a single poll pass across all watched subscriptions.
func (b *Bridge) runOnce(ctx context.Context, watches []watch.Watch) error {
	start := time.Now()
	b.log.InfoObj("poll started", "poll_meta", map[string]any{
		"watches_count": len(watches),
		"started_at":    start.UTC(),
	})
	if err := b.monitorSvc.Run(ctx, watches); err != nil {
		return err
	}
	b.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"watches_count": len(watches),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}
