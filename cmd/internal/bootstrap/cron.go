package bootstrap

import (
	"fmt"

	command "github.com/goliatone/go-command"
	"github.com/robfig/cron"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Scheduler runs cron registrations made through commands.RegisterCron.
type Scheduler struct {
	cron   *cron.Cron
	logger interfaces.Logger
}

func NewScheduler(logger interfaces.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), logger: logger}
}

// Register matches commands.CronRegistrar. Handlers must be func() error.
func (s *Scheduler) Register(cfg command.HandlerConfig, handler any) error {
	job, ok := handler.(func() error)
	if !ok {
		return fmt.Errorf("cron: unsupported handler %T", handler)
	}
	return s.cron.AddFunc(cfg.Expression, func() {
		if err := job(); err != nil && s.logger != nil {
			s.logger.Error("cron.job.failed", "expression", cfg.Expression, "error", err)
		}
	})
}

// SetLogger replaces the logger used to report failing jobs.
func (s *Scheduler) SetLogger(logger interfaces.Logger) {
	s.logger = logger
}

// Entries reports the number of scheduled jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() { s.cron.Start() }

func (s *Scheduler) Stop() { s.cron.Stop() }
