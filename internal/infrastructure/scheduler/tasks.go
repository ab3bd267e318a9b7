package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Task names
const (
	TaskExpireUnpaidOrders = "orders.expire_unpaid"
)

// UnpaidOrderExpirer cancels e-wallet orders left unpaid for longer than ttl
type UnpaidOrderExpirer interface {
	ExpireUnpaid(ctx context.Context, ttl time.Duration) (int, error)
}

// ExpireUnpaidOrders builds the task that releases stock held by abandoned
// e-wallet checkouts
func ExpireUnpaidOrders(orders UnpaidOrderExpirer, ttl time.Duration, logger *zap.Logger) TaskFunc {
	return func(ctx context.Context) error {
		n, err := orders.ExpireUnpaid(ctx, ttl)
		if n > 0 {
			logger.Info("Expired unpaid orders", zap.Int("count", n), zap.Duration("ttl", ttl))
		}
		return err
	}
}
