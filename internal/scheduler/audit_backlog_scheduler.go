package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/hotel-admin-backend/internal/metrics"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// staleAfter is how long a hotel may wait for audit before it is reported
const staleAfter = 48 * time.Hour

// Backlog summarizes hotels still waiting for an admin decision
type Backlog struct {
	Pending       int64
	OldestPending *time.Time
}

// BacklogSource is implemented by the admin hotel service
type BacklogSource interface {
	AuditBacklog(ctx context.Context) (*Backlog, error)
}

// AuditBacklogScheduler periodically measures the audit queue, exports it as
// gauges and hands it to an optional notifier
type AuditBacklogScheduler struct {
	cron   *cron.Cron
	spec   string
	source BacklogSource
	notify func(*Backlog)
	now    func() time.Time
}

// NewAuditBacklogScheduler builds a scheduler running on the cron spec
func NewAuditBacklogScheduler(spec string, source BacklogSource, notify func(*Backlog)) *AuditBacklogScheduler {
	return &AuditBacklogScheduler{
		cron:   cron.New(),
		spec:   spec,
		source: source,
		notify: notify,
		now:    time.Now,
	}
}

// Start registers the job and starts the cron runner
func (s *AuditBacklogScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error("Failed to report audit backlog", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for audit backlog", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Audit backlog scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce measures the backlog immediately
func (s *AuditBacklogScheduler) RunOnce(ctx context.Context) (*Backlog, error) {
	backlog, err := s.source.AuditBacklog(ctx)
	if err != nil {
		return nil, err
	}

	metrics.AuditBacklog.Set(float64(backlog.Pending))
	age := time.Duration(0)
	if backlog.OldestPending != nil {
		age = s.now().Sub(*backlog.OldestPending)
	}
	metrics.OldestPendingAge.Set(age.Seconds())

	fields := map[string]interface{}{
		"pending":        backlog.Pending,
		"oldest_age_sec": int64(age.Seconds()),
	}
	if age > staleAfter {
		logger.Warn("Hotels are waiting too long for audit", fields)
	} else {
		logger.Debug("Audit backlog measured", fields)
	}

	if s.notify != nil && backlog.Pending > 0 {
		s.notify(backlog)
	}
	return backlog, nil
}

// Stop stops the cron runner and waits for a running job
func (s *AuditBacklogScheduler) Stop() {
	logger.Info("Stopping audit backlog scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Audit backlog scheduler stopped")
}
