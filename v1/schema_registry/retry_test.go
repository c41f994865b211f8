package schema_registry

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

// flakyClient fails the first failures calls of LookupLatest with err.
type flakyClient struct {
	*MemoryClient
	failures int32
	err      error
	calls    atomic.Int32
	block    bool
}

func (f *flakyClient) LookupLatest(ctx context.Context, subject string) (*RegisteredSchema, error) {
	n := f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if n <= f.failures {
		return nil, f.err
	}
	return f.MemoryClient.LookupLatest(ctx, subject)
}

func fastPolicy(retries int) RetryPolicy {
	return RetryPolicy{
		Timeout:         time.Second,
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	}
}

func seeded(t *testing.T) *MemoryClient {
	t.Helper()
	m := NewMemoryClient()
	if _, err := m.Register(context.Background(), "orders-value", avroSchema(userV1)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return m
}

func TestRetryRecoversFromTransientErrors(t *testing.T) {
	flaky := &flakyClient{MemoryClient: seeded(t), failures: 2, err: fmt.Errorf("%w: connection reset", ErrRegistryUnavailable)}
	client := WithRetry(flaky, fastPolicy(3), nil)

	got, err := client.LookupLatest(context.Background(), "orders-value")
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got.Version != 1 {
		t.Fatalf("unexpected version %d", got.Version)
	}
	if n := flaky.calls.Load(); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}

func TestRetryGivesUpAfterMaxRetries(t *testing.T) {
	flaky := &flakyClient{MemoryClient: seeded(t), failures: 100, err: fmt.Errorf("%w: 503", ErrRegistryUnavailable)}
	client := WithRetry(flaky, fastPolicy(2), nil)

	_, err := client.LookupLatest(context.Background(), "orders-value")
	if !IsRegistryUnavailableError(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if n := flaky.calls.Load(); n != 3 {
		t.Fatalf("expected 1 attempt + 2 retries, got %d", n)
	}
}

func TestRetrySkipsPermanentErrors(t *testing.T) {
	for _, permanent := range []error{
		notFound(codeSubjectNotFound, "missing"),
		incompatible("nope"),
	} {
		flaky := &flakyClient{MemoryClient: seeded(t), failures: 100, err: permanent}
		client := WithRetry(flaky, fastPolicy(5), nil)

		_, err := client.LookupLatest(context.Background(), "orders-value")
		if !errors.Is(err, permanent) {
			t.Fatalf("expected %v, got %v", permanent, err)
		}
		if n := flaky.calls.Load(); n != 1 {
			t.Fatalf("%v: expected a single attempt, got %d", permanent, n)
		}
	}
}

func TestRetryPerCallTimeoutIsRetried(t *testing.T) {
	flaky := &flakyClient{MemoryClient: seeded(t), block: true}
	policy := fastPolicy(2)
	policy.Timeout = 5 * time.Millisecond
	client := WithRetry(flaky, policy, nil)

	_, err := client.LookupLatest(context.Background(), "orders-value")
	if !IsRegistryUnavailableError(err) {
		t.Fatalf("expected a timeout to surface as unavailable, got %v", err)
	}
	if n := flaky.calls.Load(); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	flaky := &flakyClient{MemoryClient: seeded(t), failures: 100, err: fmt.Errorf("%w: 503", ErrRegistryUnavailable)}
	policy := fastPolicy(1000)
	policy.InitialInterval = 20 * time.Millisecond
	policy.MaxInterval = 20 * time.Millisecond
	client := WithRetry(flaky, policy, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	_, err := client.LookupLatest(ctx, "orders-value")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n := flaky.calls.Load(); n >= 1000 {
		t.Fatalf("retries did not stop on cancel")
	}
}

func TestRetryPassesThroughOtherOperations(t *testing.T) {
	m := NewMemoryClient()
	client := WithRetry(m, fastPolicy(1), nil)
	ctx := context.Background()

	registered, err := client.Register(ctx, "orders-value", avroSchema(userV1))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := client.SetCompatibilityLevel(ctx, "orders-value", CompatibilityFull); err != nil {
		t.Fatalf("set level: %v", err)
	}
	if m.Compatibility("orders-value") != CompatibilityFull {
		t.Fatalf("level not applied")
	}
	ok, err := client.TestCompatibility(ctx, "orders-value", avroSchema(userV2))
	if err != nil || !ok {
		t.Fatalf("test compatibility: %v %v", ok, err)
	}
	if _, err := client.GetSchemaByID(ctx, registered.ID); err != nil {
		t.Fatalf("get by id: %v", err)
	}
}

func TestConfigMaxRetries(t *testing.T) {
	cases := []struct {
		name       string
		maxRetries *int
		want       int
	}{
		{"unset uses default", nil, DefaultMaxRetries},
		{"explicit zero disables", Retries(0), 0},
		{"explicit value", Retries(5), 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := Config{URL: "http://localhost:8081", MaxRetries: tc.maxRetries}.RetryPolicy()
			if policy.MaxRetries != tc.want {
				t.Fatalf("MaxRetries = %d, want %d", policy.MaxRetries, tc.want)
			}
		})
	}
}

func TestZeroRetriesMakesOneAttempt(t *testing.T) {
	flaky := &flakyClient{MemoryClient: seeded(t), failures: 100, err: fmt.Errorf("%w: 503", ErrRegistryUnavailable)}
	policy := Config{URL: "http://localhost:8081", MaxRetries: Retries(0), InitialBackoff: time.Millisecond}.RetryPolicy()
	client := WithRetry(flaky, policy, nil)

	_, err := client.LookupLatest(context.Background(), "orders-value")
	if !IsRegistryUnavailableError(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if n := flaky.calls.Load(); n != 1 {
		t.Fatalf("expected a single attempt, got %d", n)
	}
}
