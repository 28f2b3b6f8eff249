package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/selimsoyah/nexus-analytics-api/internal/config"
	"github.com/selimsoyah/nexus-analytics-api/internal/usecases/segmenting"
)

// SegmentRefreshService recomputes the RFM segmentation for the whole
// customer base on a nightly schedule, after the platform syncs have landed
type SegmentRefreshService struct {
	scheduler            *gocron.Scheduler
	cronSchedule         string
	enabled              bool
	segmenter            segmenting.Segmenter
	refreshRunning       bool
	refreshMutex         sync.Mutex
	lastRefreshStartedAt time.Time
	lastRefreshDoneAt    time.Time
	lastRefreshCount     int
}

func NewSegmentRefreshService(
	segmenter segmenting.Segmenter,
	appConfig *config.Config,
) *SegmentRefreshService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule":   appConfig.SegmentRefresh.CronSchedule,
		"refresh_enabled": appConfig.SegmentRefresh.Enabled,
	}).Info("Segment refresh scheduler configured")

	return &SegmentRefreshService{
		scheduler:    gocron.NewScheduler(time.UTC),
		cronSchedule: appConfig.SegmentRefresh.CronSchedule,
		enabled:      appConfig.SegmentRefresh.Enabled,
		segmenter:    segmenter,
	}
}

func (s *SegmentRefreshService) Start(ctx context.Context) error {
	if !s.enabled {
		logrus.Info("Segment refresh disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.cronSchedule).Info("Starting segment refresh scheduler")

	_, err := s.scheduler.Cron(s.cronSchedule).Do(func() {
		s.refreshSegments()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule segment refresh: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping segment refresh scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *SegmentRefreshService) refreshSegments() {
	s.refreshMutex.Lock()
	if s.refreshRunning {
		s.refreshMutex.Unlock()
		logrus.Info("Segment refresh already running, skipping")
		return
	}
	s.refreshRunning = true
	s.refreshMutex.Unlock()

	startTime := time.Now()
	s.lastRefreshStartedAt = startTime

	defer func() {
		s.refreshMutex.Lock()
		s.refreshRunning = false
		s.refreshMutex.Unlock()
	}()

	logrus.Info("Starting scheduled segment refresh")

	// Empty platform means the whole customer base, all platforms at once
	count, err := s.segmenter.RefreshSegments("")
	if err != nil {
		logrus.WithError(err).Error("Scheduled segment refresh failed")
		return
	}

	s.lastRefreshCount = count
	s.lastRefreshDoneAt = time.Now()

	logrus.WithFields(logrus.Fields{
		"duration":  time.Since(startTime).String(),
		"customers": count,
	}).Info("Scheduled segment refresh completed")
}

// TriggerManualRefresh recomputes segments outside the cron window
func (s *SegmentRefreshService) TriggerManualRefresh() {
	s.refreshMutex.Lock()
	if s.refreshRunning {
		s.refreshMutex.Unlock()
		logrus.Info("Segment refresh already running, ignoring manual request")
		return
	}
	s.refreshMutex.Unlock()

	logrus.Info("Starting manual segment refresh")
	go s.refreshSegments()
}

func (s *SegmentRefreshService) GetStatus() map[string]any {
	return map[string]any{
		"refresh_enabled":         s.enabled,
		"refresh_cron":            s.cronSchedule,
		"last_refresh_started_at": s.lastRefreshStartedAt,
		"last_refresh_done_at":    s.lastRefreshDoneAt,
		"last_refresh_customers":  s.lastRefreshCount,
	}
}
