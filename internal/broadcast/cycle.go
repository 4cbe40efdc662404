package broadcast

import (
	"context"

	"go.uber.org/zap"

	"github.com/danhigham/tgcast/internal/domain"
)

// CycleReport counts the outcomes of one pass.
type CycleReport struct {
	Sent        int
	Failed      int
	RateLimited int
}

// Cycle sends text to every non-blank group once, in order. A group that
// hits a rate limit is not retried within the same pass.
func (s *Service) Cycle(ctx context.Context, groups []string, text string) error {
	var report CycleReport

	for _, group := range groups {
		if group == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		s.logger.Info("Sending message", zap.String("group", group))
		res := domain.Classify(s.client.Send(ctx, group, text))
		s.handler.OnSend(group, res, s.now())

		switch res.Outcome {
		case domain.OutcomeDone:
			report.Sent++
			s.logger.Info("Message sent", zap.String("group", group))
			if err := s.sleeper.Sleep(ctx, s.delays.BetweenMessages); err != nil {
				return err
			}
		case domain.OutcomeRateLimited:
			report.RateLimited++
			if err := s.waitRateLimit(ctx, "send", group, res); err != nil {
				return err
			}
		default:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			report.Failed++
			s.logger.Error("Failed to send message", zap.String("group", group), zap.Error(res.Err))
		}
	}

	s.cycles++
	s.logger.Info("Cycle complete",
		zap.Int("cycle", s.cycles),
		zap.Int("sent", report.Sent),
		zap.Int("failed", report.Failed),
		zap.Int("rate_limited", report.RateLimited),
	)
	s.handler.OnCycleDone(s.cycles)
	return nil
}
