package blog

import (
	markdowncmd "github.com/goliatone/go-blog/internal/commands/markdown"
	variantscmd "github.com/goliatone/go-blog/internal/commands/variants"
)

type (
	SetStatusCommand       = variantscmd.SetStatusCommand
	ScheduleVariantCommand = variantscmd.ScheduleVariantCommand
	PublishDueCommand      = variantscmd.PublishDueCommand
	AssignShortCodeCommand = variantscmd.AssignShortCodeCommand
	ImportMarkdownCommand  = markdowncmd.ImportMarkdownCommand
)

// Commands groups the go-command handlers built by the module.
type Commands struct {
	Variants       *variantscmd.HandlerSet
	ImportMarkdown *markdowncmd.ImportMarkdownHandler
}
