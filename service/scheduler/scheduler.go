package scheduler

import (
	"context"
	"dialog-faq-backend/config"
	"dialog-faq-backend/service/comparesync"
	"dialog-faq-backend/service/etl"
	"dialog-faq-backend/service/extraction"
	"dialog-faq-backend/service/jobs"
	"fmt"
	"log/slog"
	"time"
)

// Scheduler 每日定时任务：对话聚合、FAQ提取（含对比同步）。
// 各任务独立运行，通过单飞登记表保证同类任务不重叠。
type Scheduler struct {
	etlService     *etl.Service
	faqService     *extraction.Service
	compareService *comparesync.Service
	registry       *jobs.Registry
	location       *time.Location

	cancel context.CancelFunc
}

func New() *Scheduler {
	return &Scheduler{
		etlService:     etl.NewService(),
		faqService:     extraction.NewService(),
		compareService: comparesync.NewService(),
		registry:       jobs.Default,
		location:       config.Cfg.Scheduler.Location(),
	}
}

func (s *Scheduler) Start() error {
	etlAt, err := parseRunAt(config.Cfg.Scheduler.ETLRunAt)
	if err != nil {
		return fmt.Errorf("invalid etl_run_at: %v", err)
	}
	faqAt, err := parseRunAt(config.Cfg.Scheduler.FAQRunAt)
	if err != nil {
		return fmt.Errorf("invalid faq_run_at: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.runDaily(ctx, "daily_dialog_etl", etlAt, s.runETL)
	go s.runDaily(ctx, "daily_faq_extraction", faqAt, s.runExtraction)

	slog.Info("Scheduler started",
		"etl_run_at", config.Cfg.Scheduler.ETLRunAt,
		"faq_run_at", config.Cfg.Scheduler.FAQRunAt,
		"timezone", config.Cfg.Scheduler.Timezone,
	)
	return nil
}

func (s *Scheduler) Shutdown() {
	if s.cancel != nil {
		slog.Info("Shutting down scheduler")
		s.cancel()
	}
}

type runAt struct {
	hour   int
	minute int
}

func parseRunAt(value string) (runAt, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return runAt{}, err
	}
	return runAt{hour: t.Hour(), minute: t.Minute()}, nil
}

// runDaily 在配置时区的每日固定时刻执行任务
func (s *Scheduler) runDaily(ctx context.Context, name string, at runAt, job func()) {
	for {
		next := s.nextRun(at)
		slog.Info("Scheduler job planned", "job", name, "next_run", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			job()
		}
	}
}

func (s *Scheduler) nextRun(at runAt) time.Time {
	now := time.Now().In(s.location)
	next := time.Date(now.Year(), now.Month(), now.Day(), at.hour, at.minute, 0, 0, s.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Scheduler) runETL() {
	handle, err := s.registry.Begin(jobs.KindAggregation)
	if err != nil {
		slog.Warn("Skipping scheduled ETL, job already running", "err", err)
		return
	}
	defer handle.Done()

	targetDate := s.etlService.DefaultTargetDate()
	slog.Info("Scheduled ETL triggered", "target_date", targetDate.Format(time.DateOnly))
	if _, err := s.etlService.RunForDate(targetDate); err != nil {
		slog.Error("Scheduled ETL failed", "err", err)
	}
}

func (s *Scheduler) runExtraction() {
	handle, err := s.registry.Begin(jobs.KindExtraction)
	if err != nil {
		slog.Warn("Skipping scheduled extraction, job already running", "err", err)
		return
	}
	defer handle.Done()

	slog.Info("Scheduled FAQ extraction triggered")
	if _, err := s.faqService.Run(nil, 0); err != nil {
		slog.Error("Scheduled FAQ extraction failed", "err", err)
	}

	slog.Info("Scheduled compare KB sync triggered")
	if _, err := s.compareService.Run(); err != nil {
		slog.Error("Scheduled compare KB sync failed", "err", err)
	}
}
