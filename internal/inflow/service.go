package inflow

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Service records human traffic. Bot traffic is dropped before storage.
type Service struct {
	store    Store
	bots     *BotMatcher
	siteHost string
	enabled  bool
	now      func() time.Time
	logger   interfaces.Logger
}

// Option configures the Service.
type Option func(*Service)

func WithBotPatterns(extra ...string) Option {
	return func(s *Service) {
		s.bots = NewBotMatcher(extra...)
	}
}

// WithSiteHost marks referrers from host as internal navigation.
func WithSiteHost(host string) Option {
	return func(s *Service) {
		s.siteHost = strings.TrimSpace(host)
	}
}

func WithEnabled(enabled bool) Option {
	return func(s *Service) {
		s.enabled = enabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		bots:    defaultMatcher,
		enabled: true,
		now:     time.Now,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsBot reports whether userAgent is filtered by this service.
func (s *Service) IsBot(userAgent string) bool {
	return s.bots.IsBot(userAgent)
}

// Record stores a visit and reports whether it was kept. Bots and a disabled
// service return false without error.
func (s *Service) Record(ctx context.Context, in VisitInput) (bool, error) {
	if s == nil || !s.enabled || s.store == nil {
		return false, nil
	}
	if in.VariantID == uuid.Nil {
		return false, nil
	}
	if s.bots.IsBot(in.UserAgent) {
		s.logger.Debug("inflow.bot_skipped", "variant_id", in.VariantID)
		return false, nil
	}
	visit := &Visit{
		ID:        uuid.New(),
		VariantID: in.VariantID,
		GroupID:   in.GroupID,
		Locale:    in.Locale,
		Path:      in.Path,
		ShortCode: in.ShortCode,
		Referrer:  in.Referrer,
		Source:    Classify(in.Referrer, s.siteHost),
		UserAgent: in.UserAgent,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Insert(ctx, visit); err != nil {
		return false, err
	}
	return true, nil
}

// ViewCount returns the number of human visits recorded for a variant.
func (s *Service) ViewCount(ctx context.Context, variantID uuid.UUID) (int, error) {
	if s == nil || s.store == nil {
		return 0, nil
	}
	return s.store.CountByVariant(ctx, variantID)
}

// Sources breaks a variant's visits down by Source.
func (s *Service) Sources(ctx context.Context, variantID uuid.UUID) (map[Source]int, error) {
	if s == nil || s.store == nil {
		return map[Source]int{}, nil
	}
	return s.store.CountBySource(ctx, variantID)
}
