package worker

import (
	"context"
	"time"

	"gst_billing/internal/conf"
	"gst_billing/internal/logic"

	"go.uber.org/zap"
)

// MirrorReconciler re-drives mirror writes that failed during issuance.
type MirrorReconciler struct {
	billLogic logic.BillLogic
	logger    *zap.Logger
	interval  time.Duration
	batchSize int
	minAge    time.Duration
}

func NewMirrorReconciler(billLogic logic.BillLogic, logger *zap.Logger, cfg *conf.WorkerConfig) *MirrorReconciler {
	c := cfg.MirrorReconciler
	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}
	return &MirrorReconciler{
		billLogic: billLogic,
		logger:    logger.Named("MirrorReconciler"),
		interval:  time.Duration(c.IntervalSeconds) * time.Second,
		batchSize: batchSize,
		minAge:    time.Duration(c.MinAgeSeconds) * time.Second,
	}
}

func (r *MirrorReconciler) Name() string { return "mirror_reconciler" }

// Enabled is false when the configured interval is zero.
func (r *MirrorReconciler) Enabled() bool { return r.interval > 0 }

func (r *MirrorReconciler) Start(ctx context.Context) {
	if !r.Enabled() {
		r.logger.Info("Mirror reconciler disabled")
		<-ctx.Done()
		return
	}
	r.logger.Info("Mirror reconciler started",
		zap.Duration("interval", r.interval),
		zap.Int("batchSize", r.batchSize),
		zap.Duration("minAge", r.minAge))
	runEvery(ctx, r.interval, r.logger, r.reconcile)
}

func (r *MirrorReconciler) reconcile(ctx context.Context) {
	synced, err := r.billLogic.SyncMirror(ctx, r.batchSize, r.minAge)
	if err != nil {
		r.logger.Error("Mirror reconciliation failed", zap.Error(err), zap.Int("synced", synced))
		return
	}
	if synced > 0 {
		r.logger.Info("Mirror copies written", zap.Int("count", synced))
	}
}

var _ Worker = (*MirrorReconciler)(nil)
