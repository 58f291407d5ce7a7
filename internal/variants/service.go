package variants

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/pkg/interfaces"
	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Service manages the authoring lifecycle of localized variants.
type Service interface {
	Create(ctx context.Context, req CreateVariantRequest) (*Variant, error)
	AddTranslation(ctx context.Context, req AddTranslationRequest) (*Variant, error)
	Update(ctx context.Context, req UpdateVariantRequest) (*Variant, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Variant, error)
	Schedule(ctx context.Context, id uuid.UUID, publishAt time.Time) (*Variant, error)
	PublishDue(ctx context.Context, now time.Time) ([]*Variant, error)
	AssignShortCode(ctx context.Context, id uuid.UUID) (*Variant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*Variant, error)
	ListGroup(ctx context.Context, groupID uuid.UUID) ([]*Variant, error)
	List(ctx context.Context, kind Kind) ([]*Variant, error)
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// CreateVariantRequest creates the first variant of a new group.
type CreateVariantRequest struct {
	Kind      Kind
	Locale    locale.Locale
	Slug      string
	Title     string
	Summary   string
	Body      string
	Status    Status
	PublishAt *time.Time
}

// AddTranslationRequest adds a locale variant to the group of SourceID.
type AddTranslationRequest struct {
	SourceID  uuid.UUID
	Locale    locale.Locale
	Slug      string
	Title     string
	Summary   string
	Body      string
	Status    Status
	PublishAt *time.Time
}

// UpdateVariantRequest edits the text fields of a variant. Nil fields are left untouched.
type UpdateVariantRequest struct {
	ID      uuid.UUID
	Slug    *string
	Title   *string
	Summary *string
	Body    *string
}

// BodyRenderer turns a markdown body into HTML.
type BodyRenderer func(body []byte) ([]byte, error)

// ServiceOption configures the variant service.
type ServiceOption func(*service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides uuid generation for variants and groups.
func WithIDGenerator(gen func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if gen != nil {
			s.id = gen
		}
	}
}

// WithShortCodeGenerator overrides short-code derivation.
func WithShortCodeGenerator(gen ShortCodeGenerator) ServiceOption {
	return func(s *service) {
		if gen != nil {
			s.shortCodes = gen
		}
	}
}

// WithShortCodeMaxAttempts bounds collision retries.
func WithShortCodeMaxAttempts(attempts int) ServiceOption {
	return func(s *service) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// WithBodyRenderer renders BodyHTML whenever Body changes.
func WithBodyRenderer(renderer BodyRenderer) ServiceOption {
	return func(s *service) {
		s.renderer = renderer
	}
}

// WithLogger injects the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo        Repository
	now         func() time.Time
	id          func() uuid.UUID
	shortCodes  ShortCodeGenerator
	maxAttempts int
	renderer    BodyRenderer
	logger      interfaces.Logger
	events      *changeBroadcaster
}

// NewService constructs the variant service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:        repo,
		now:         time.Now,
		id:          uuid.New,
		shortCodes:  NewShortCodeGenerator(DefaultShortCodeLength),
		maxAttempts: DefaultShortCodeMaxAttempts,
		logger:      logging.NoOp(),
		events:      newChangeBroadcaster(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateVariantRequest) (*Variant, error) {
	kind := req.Kind
	if kind == "" {
		kind = KindPost
	}
	if !kind.Valid() {
		return nil, ErrKindInvalid
	}
	record, err := s.buildVariant(ctx, kind, variantInput{
		locale:    req.Locale,
		slug:      req.Slug,
		title:     req.Title,
		summary:   req.Summary,
		body:      req.Body,
		status:    req.Status,
		publishAt: req.PublishAt,
	})
	if err != nil {
		return nil, err
	}
	record.GroupID = s.id()

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("variant.created", "variant_id", created.ID, "group_id", created.GroupID, "locale", created.Locale)
	s.broadcast(ChangeCreated, created)
	return created, nil
}

func (s *service) AddTranslation(ctx context.Context, req AddTranslationRequest) (*Variant, error) {
	if req.SourceID == uuid.Nil {
		return nil, ErrVariantRequired
	}
	source, err := s.repo.GetByID(ctx, req.SourceID)
	if err != nil {
		return nil, err
	}

	siblings, err := s.repo.ListByGroup(ctx, source.GroupID)
	if err != nil {
		return nil, err
	}
	for _, sibling := range siblings {
		if sibling.Locale == req.Locale {
			return nil, &TranslationExistsError{GroupID: source.GroupID, Locale: req.Locale.String(), ExistingID: sibling.ID}
		}
	}

	record, err := s.buildVariant(ctx, source.Kind, variantInput{
		locale:    req.Locale,
		slug:      req.Slug,
		title:     req.Title,
		summary:   req.Summary,
		body:      req.Body,
		status:    req.Status,
		publishAt: req.PublishAt,
	})
	if err != nil {
		return nil, err
	}
	record.GroupID = source.GroupID

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("variant.translation_added", "variant_id", created.ID, "group_id", created.GroupID, "locale", created.Locale)
	s.broadcast(ChangeCreated, created)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateVariantRequest) (*Variant, error) {
	record, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		record.Title = title
	}
	if req.Summary != nil {
		record.Summary = strings.TrimSpace(*req.Summary)
	}
	if req.Body != nil {
		record.Body = *req.Body
		html, err := s.render(record.Body)
		if err != nil {
			return nil, err
		}
		record.BodyHTML = html
	}
	if req.Slug != nil {
		next := strings.TrimSpace(*req.Slug)
		if err := validateSlug(next); err != nil {
			return nil, err
		}
		if next != record.Slug {
			if err := s.ensureSlugAvailable(ctx, record.Kind, record.Locale, next, record.ID); err != nil {
				return nil, err
			}
			record.Slug = next
		}
	}
	return s.save(ctx, record)
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Variant, error) {
	if !status.Valid() {
		return nil, ErrStatusInvalid
	}
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == StatusScheduled && record.PublishAt == nil {
		return nil, ErrScheduleRequired
	}
	s.applyStatus(record, status)
	return s.save(ctx, record)
}

func (s *service) Schedule(ctx context.Context, id uuid.UUID, publishAt time.Time) (*Variant, error) {
	if publishAt.IsZero() {
		return nil, ErrScheduleRequired
	}
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	at := publishAt.UTC()
	record.PublishAt = &at
	s.applyStatus(record, StatusScheduled)
	return s.save(ctx, record)
}

func (s *service) PublishDue(ctx context.Context, now time.Time) ([]*Variant, error) {
	if now.IsZero() {
		now = s.now()
	}
	records, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	published := make([]*Variant, 0)
	for _, record := range records {
		if record.Status != StatusScheduled || record.PublishAt == nil || record.PublishAt.After(now) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return published, err
		}
		s.applyStatus(record, StatusPublished)
		saved, err := s.save(ctx, record)
		if err != nil {
			return published, err
		}
		published = append(published, saved)
	}
	if len(published) > 0 {
		s.logger.Info("variant.publish_due", "count", len(published))
	}
	return published, nil
}

func (s *service) AssignShortCode(ctx context.Context, id uuid.UUID) (*Variant, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.ShortCode != "" {
		return record, nil
	}
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code := s.shortCodes(record.ID, attempt)
		if code == "" {
			continue
		}
		_, err := s.repo.GetByShortCode(ctx, code)
		if err == nil {
			s.logger.Debug("variant.short_code_collision", "variant_id", record.ID, "attempt", attempt)
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		record.ShortCode = code
		return s.save(ctx, record)
	}
	return nil, ErrShortCodeExhausted
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("variant.deleted", "variant_id", record.ID, "group_id", record.GroupID, "locale", record.Locale)
	s.broadcast(ChangeDeleted, record)
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Variant, error) {
	return s.load(ctx, id)
}

func (s *service) ListGroup(ctx context.Context, groupID uuid.UUID) ([]*Variant, error) {
	if groupID == uuid.Nil {
		return nil, ErrGroupRequired
	}
	return s.repo.ListByGroup(ctx, groupID)
}

func (s *service) List(ctx context.Context, kind Kind) ([]*Variant, error) {
	if kind != "" && !kind.Valid() {
		return nil, ErrKindInvalid
	}
	return s.repo.List(ctx, kind)
}

func (s *service) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.events.Subscribe(ctx)
}

type variantInput struct {
	locale    locale.Locale
	slug      string
	title     string
	summary   string
	body      string
	status    Status
	publishAt *time.Time
}

func (s *service) buildVariant(ctx context.Context, kind Kind, in variantInput) (*Variant, error) {
	if !in.locale.Valid() {
		return nil, ErrLocaleInvalid
	}
	title := strings.TrimSpace(in.title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	status := in.status
	if status == "" {
		status = StatusDraft
	}
	if !status.Valid() {
		return nil, ErrStatusInvalid
	}
	if status == StatusScheduled && in.publishAt == nil {
		return nil, ErrScheduleRequired
	}

	slugValue := strings.TrimSpace(in.slug)
	if slugValue == "" {
		derived, err := slug.Normalize(title)
		if err != nil || strings.TrimSpace(derived) == "" {
			return nil, ErrSlugRequired
		}
		slugValue = derived
	}
	if err := validateSlug(slugValue); err != nil {
		return nil, err
	}
	if err := s.ensureSlugAvailable(ctx, kind, in.locale, slugValue, uuid.Nil); err != nil {
		return nil, err
	}

	html, err := s.render(in.body)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &Variant{
		ID:        s.id(),
		Kind:      kind,
		Locale:    in.locale,
		Slug:      slugValue,
		Status:    StatusDraft,
		Title:     title,
		Summary:   strings.TrimSpace(in.summary),
		Body:      in.body,
		BodyHTML:  html,
		PublishAt: cloneTime(in.publishAt),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.applyStatus(record, status)
	return record, nil
}

func (s *service) applyStatus(record *Variant, status Status) {
	record.Status = status
	if status == StatusPublished && record.PublishedAt == nil {
		now := s.now().UTC()
		record.PublishedAt = &now
	}
}

func (s *service) ensureSlugAvailable(ctx context.Context, kind Kind, loc locale.Locale, value string, self uuid.UUID) error {
	existing, err := s.repo.GetBySlug(ctx, kind, loc, value)
	if err == nil {
		if existing.ID != self {
			return ErrSlugExists
		}
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*Variant, error) {
	if id == uuid.Nil {
		return nil, ErrVariantRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) save(ctx context.Context, record *Variant) (*Variant, error) {
	record.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.broadcast(ChangeUpdated, updated)
	return updated, nil
}

func (s *service) render(body string) (string, error) {
	if s.renderer == nil || strings.TrimSpace(body) == "" {
		return "", nil
	}
	html, err := s.renderer([]byte(body))
	if err != nil {
		return "", err
	}
	return string(html), nil
}

func (s *service) broadcast(kind ChangeType, record *Variant) {
	s.events.Broadcast(ChangeEvent{
		Type:       kind,
		Variant:    record.Clone(),
		OccurredAt: s.now().UTC(),
	})
}

func validateSlug(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrSlugRequired
	}
	if err := validation.Slug(value); err != nil {
		return errors.Join(ErrSlugInvalid, err)
	}
	return nil
}
