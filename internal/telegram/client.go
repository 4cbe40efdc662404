package telegram

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"
)

// Client is the interface for the Telegram operations the broadcaster uses.
// Errors carry domain.ErrNotParticipant and *domain.RateLimitError where the
// server reports those conditions.
type Client interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
	// Self is the logged-in user, valid inside Run.
	Self() *tg.User
	IsMember(ctx context.Context, group string) (bool, error)
	Join(ctx context.Context, group string) error
	Send(ctx context.Context, group, text string) error
}

// ParseMode selects how the message text is interpreted before sending.
type ParseMode string

const (
	ParsePlain ParseMode = "plain"
	ParseHTML  ParseMode = "html"
)

func ParseParseMode(s string) (ParseMode, error) {
	switch ParseMode(s) {
	case ParsePlain, "":
		return ParsePlain, nil
	case ParseHTML:
		return ParseHTML, nil
	default:
		return "", fmt.Errorf("unknown parse mode %q", s)
	}
}
