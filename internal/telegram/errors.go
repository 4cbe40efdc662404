package telegram

import (
	"errors"
	"fmt"
	"time"

	"github.com/gotd/td/tgerr"

	"github.com/danhigham/tgcast/internal/domain"
)

const (
	errUserNotParticipant     = "USER_NOT_PARTICIPANT"
	errUserAlreadyParticipant = "USER_ALREADY_PARTICIPANT"
	errSlowModeWait           = "SLOWMODE_WAIT"
)

var errNotConnected = errors.New("telegram client is not connected")

// mapError translates RPC errors into the domain conditions the broadcast
// loops switch on. Other errors are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if d, ok := tgerr.AsFloodWait(err); ok {
		return &domain.RateLimitError{Wait: d, Err: err}
	}
	if rpcErr, ok := tgerr.As(err); ok && rpcErr.Type == errSlowModeWait {
		return &domain.RateLimitError{Wait: time.Duration(rpcErr.Argument) * time.Second, Err: err}
	}
	if tgerr.Is(err, errUserNotParticipant) {
		return fmt.Errorf("%w: %w", domain.ErrNotParticipant, err)
	}
	return err
}

func isAlreadyParticipant(err error) bool {
	return tgerr.Is(err, errUserAlreadyParticipant)
}
