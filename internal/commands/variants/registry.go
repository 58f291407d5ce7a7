package variantscmd

import (
	"errors"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/variants"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// HandlerSet groups the variant command handlers.
type HandlerSet struct {
	SetStatus       *SetStatusHandler
	Schedule        *ScheduleVariantHandler
	PublishDue      *PublishDueHandler
	AssignShortCode *AssignShortCodeHandler
}

// RegisterVariantCommands builds every variant handler and registers them
// with reg in declaration order. A nil registry only builds the set.
func RegisterVariantCommands(reg commands.CommandRegistry, service variants.Service, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("variant command registration: service is nil")
	}
	logger := commands.CommandLogger(provider, "variants")

	set := &HandlerSet{
		SetStatus:       NewSetStatusHandler(service, logger),
		Schedule:        NewScheduleVariantHandler(service, logger),
		PublishDue:      NewPublishDueHandler(service, logger),
		AssignShortCode: NewAssignShortCodeHandler(service, logger),
	}
	if reg != nil {
		for _, handler := range []any{set.SetStatus, set.Schedule, set.PublishDue, set.AssignShortCode} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}
