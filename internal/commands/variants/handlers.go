package variantscmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/variants"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	_ command.Commander[SetStatusCommand]       = (*SetStatusHandler)(nil)
	_ command.Commander[ScheduleVariantCommand] = (*ScheduleVariantHandler)(nil)
	_ command.Commander[PublishDueCommand]      = (*PublishDueHandler)(nil)
	_ command.Commander[AssignShortCodeCommand] = (*AssignShortCodeHandler)(nil)
)

type SetStatusHandler struct {
	inner *commands.Handler[SetStatusCommand]
}

func NewSetStatusHandler(service variants.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SetStatusCommand]) *SetStatusHandler {
	exec := func(ctx context.Context, msg SetStatusCommand) error {
		_, err := service.SetStatus(ctx, msg.VariantID, msg.Status)
		return err
	}
	handlerOpts := append([]commands.HandlerOption[SetStatusCommand]{
		commands.WithLogger[SetStatusCommand](logger),
		commands.WithOperation[SetStatusCommand]("variants.set_status"),
	}, opts...)
	return &SetStatusHandler{inner: commands.NewHandler[SetStatusCommand](exec, handlerOpts...)}
}

func (h *SetStatusHandler) Execute(ctx context.Context, msg SetStatusCommand) error {
	return h.inner.Execute(ctx, msg)
}

type ScheduleVariantHandler struct {
	inner *commands.Handler[ScheduleVariantCommand]
}

func NewScheduleVariantHandler(service variants.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ScheduleVariantCommand]) *ScheduleVariantHandler {
	exec := func(ctx context.Context, msg ScheduleVariantCommand) error {
		_, err := service.Schedule(ctx, msg.VariantID, msg.PublishAt)
		return err
	}
	handlerOpts := append([]commands.HandlerOption[ScheduleVariantCommand]{
		commands.WithLogger[ScheduleVariantCommand](logger),
		commands.WithOperation[ScheduleVariantCommand]("variants.schedule"),
	}, opts...)
	return &ScheduleVariantHandler{inner: commands.NewHandler[ScheduleVariantCommand](exec, handlerOpts...)}
}

func (h *ScheduleVariantHandler) Execute(ctx context.Context, msg ScheduleVariantCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PublishDueHandler is usually scheduled through commands.RegisterCron.
type PublishDueHandler struct {
	inner *commands.Handler[PublishDueCommand]
}

func NewPublishDueHandler(service variants.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishDueCommand]) *PublishDueHandler {
	base := logger
	if base == nil {
		base = logging.NoOp()
	}
	exec := func(ctx context.Context, msg PublishDueCommand) error {
		published, err := service.PublishDue(ctx, msg.Now)
		if len(published) > 0 {
			base.Info("variants.command.publish_due.completed", "published_count", len(published))
		}
		return err
	}
	handlerOpts := append([]commands.HandlerOption[PublishDueCommand]{
		commands.WithLogger[PublishDueCommand](logger),
		commands.WithOperation[PublishDueCommand]("variants.publish_due"),
	}, opts...)
	return &PublishDueHandler{inner: commands.NewHandler[PublishDueCommand](exec, handlerOpts...)}
}

func (h *PublishDueHandler) Execute(ctx context.Context, msg PublishDueCommand) error {
	return h.inner.Execute(ctx, msg)
}

type AssignShortCodeHandler struct {
	inner *commands.Handler[AssignShortCodeCommand]
}

func NewAssignShortCodeHandler(service variants.Service, logger interfaces.Logger, opts ...commands.HandlerOption[AssignShortCodeCommand]) *AssignShortCodeHandler {
	exec := func(ctx context.Context, msg AssignShortCodeCommand) error {
		_, err := service.AssignShortCode(ctx, msg.VariantID)
		return err
	}
	handlerOpts := append([]commands.HandlerOption[AssignShortCodeCommand]{
		commands.WithLogger[AssignShortCodeCommand](logger),
		commands.WithOperation[AssignShortCodeCommand]("variants.assign_short_code"),
	}, opts...)
	return &AssignShortCodeHandler{inner: commands.NewHandler[AssignShortCodeCommand](exec, handlerOpts...)}
}

func (h *AssignShortCodeHandler) Execute(ctx context.Context, msg AssignShortCodeCommand) error {
	return h.inner.Execute(ctx, msg)
}
