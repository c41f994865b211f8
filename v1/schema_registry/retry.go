package schema_registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Logger is the logging interface used by the registry decorators.
// *logger.LoggerClient satisfies it.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// RetryPolicy bounds a single logical registry call.
type RetryPolicy struct {
	// Timeout applies to every attempt separately.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	// Zero or negative means no retries.
	MaxRetries int

	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type retryingClient struct {
	next   Client
	policy RetryPolicy
	logger Logger
}

// WithRetry wraps next so that every call runs under policy.Timeout and calls
// failing with ErrRegistryUnavailable are retried with exponential backoff.
// Other errors, including ErrNotFound and ErrCompatibilityRejected, are
// returned at once. Cancelling ctx stops retrying and returns ctx.Err().
func WithRetry(next Client, policy RetryPolicy, logger Logger) Client {
	return &retryingClient{next: next, policy: policy, logger: logger}
}

func (r *retryingClient) LookupLatest(ctx context.Context, subject string) (*RegisteredSchema, error) {
	return retry(ctx, r, "lookup_latest", func(ctx context.Context) (*RegisteredSchema, error) {
		return r.next.LookupLatest(ctx, subject)
	})
}

func (r *retryingClient) Register(ctx context.Context, subject string, schema Schema) (*RegisteredSchema, error) {
	return retry(ctx, r, "register", func(ctx context.Context) (*RegisteredSchema, error) {
		return r.next.Register(ctx, subject, schema)
	})
}

func (r *retryingClient) TestCompatibility(ctx context.Context, subject string, schema Schema) (bool, error) {
	return retry(ctx, r, "test_compatibility", func(ctx context.Context) (bool, error) {
		return r.next.TestCompatibility(ctx, subject, schema)
	})
}

func (r *retryingClient) SetCompatibilityLevel(ctx context.Context, subject string, level CompatibilityLevel) error {
	_, err := retry(ctx, r, "set_compatibility", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.next.SetCompatibilityLevel(ctx, subject, level)
	})
	return err
}

func (r *retryingClient) GetSchemaByID(ctx context.Context, id int) (*Schema, error) {
	return retry(ctx, r, "get_schema_by_id", func(ctx context.Context) (*Schema, error) {
		return r.next.GetSchemaByID(ctx, id)
	})
}

func (r *retryingClient) Close() error {
	return r.next.Close()
}

func (r *retryingClient) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if r.policy.InitialInterval > 0 {
		exp.InitialInterval = r.policy.InitialInterval
	}
	if r.policy.MaxInterval > 0 {
		exp.MaxInterval = r.policy.MaxInterval
	}
	// The retry count is the only bound.
	exp.MaxElapsedTime = 0
	exp.Reset()

	retries := r.policy.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

func retry[T any](ctx context.Context, r *retryingClient, op string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	attempt := 0

	operation := func() error {
		attempt++
		callCtx := ctx
		cancel := context.CancelFunc(func() {})
		if r.policy.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, r.policy.Timeout)
		}
		defer cancel()

		v, err := fn(callCtx)
		if err == nil {
			out = v
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		// The attempt ran out of its own time budget.
		if errors.Is(err, context.DeadlineExceeded) && !IsRegistryUnavailableError(err) {
			err = fmt.Errorf("%w: %s timed out after %s: %w", ErrRegistryUnavailable, op, r.policy.Timeout, err)
		}
		if !IsRegistryUnavailableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		if r.logger == nil {
			return
		}
		r.logger.Warn("schema registry call failed, retrying", err, map[string]interface{}{
			"operation": op,
			"attempt":   attempt,
			"backoff":   wait.String(),
		})
	}

	err := backoff.RetryNotify(operation, r.newBackOff(ctx), notify)
	return out, err
}
