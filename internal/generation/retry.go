package generation

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"lovereel/internal/apierr"
	"lovereel/internal/model"
)

// Retrying 调用方的重试策略：只对连接失败和限流进行指数退避重试
type Retrying struct {
	next            Generator
	maxRetries      uint64
	initialInterval time.Duration
	log             logrus.FieldLogger
}

func NewRetrying(next Generator, maxRetries int, initialInterval time.Duration, log logrus.FieldLogger) *Retrying {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if initialInterval <= 0 {
		initialInterval = 500 * time.Millisecond
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Retrying{
		next:            next,
		maxRetries:      uint64(maxRetries),
		initialInterval: initialInterval,
		log:             log.WithField("component", "generation_retry"),
	}
}

func (r *Retrying) Generate(ctx context.Context, prompt string) (*model.Content, error) {
	var out *model.Content
	attempt := 0
	op := func() error {
		attempt++
		content, err := r.next.Generate(ctx, prompt)
		if err != nil {
			if apierr.Retryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		out = content
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.initialInterval
	b := backoff.WithContext(backoff.WithMaxRetries(policy, r.maxRetries), ctx)

	err := backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		r.log.WithFields(logrus.Fields{
			"attempt": attempt,
			"kind":    apierr.KindOf(err).String(),
			"wait":    wait.String(),
		}).Warn("retrying story generation")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
