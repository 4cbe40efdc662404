package broadcast

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/danhigham/tgcast/internal/domain"
)

// Sync joins every group the account is not a member of yet. Per-group
// failures are logged and skipped; only ctx cancellation stops the pass.
func (s *Service) Sync(ctx context.Context, groups []string) error {
	for _, group := range groups {
		if group == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if s.isMember(ctx, group) {
			s.logger.Info("Already a member", zap.String("group", group))
			continue
		}

		s.logger.Info("Joining group", zap.String("group", group))
		res := domain.Classify(s.client.Join(ctx, group))
		s.handler.OnJoin(group, res)

		switch res.Outcome {
		case domain.OutcomeDone:
			s.logger.Info("Joined group", zap.String("group", group))
			if err := s.sleeper.Sleep(ctx, s.delays.BetweenGroups); err != nil {
				return err
			}
		case domain.OutcomeRateLimited:
			if err := s.waitRateLimit(ctx, "join", group, res); err != nil {
				return err
			}
		default:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("Failed to join group", zap.String("group", group), zap.Error(res.Err))
		}
	}
	return nil
}

// isMember fails open: any query error other than "not a participant" is
// logged and reported as not a member so that a join is attempted.
func (s *Service) isMember(ctx context.Context, group string) bool {
	member, err := s.client.IsMember(ctx, group)
	if err != nil {
		if !errors.Is(err, domain.ErrNotParticipant) {
			s.logger.Error("Failed to check membership", zap.String("group", group), zap.Error(err))
		}
		member = false
	}
	s.handler.OnMembership(group, member)
	return member
}
