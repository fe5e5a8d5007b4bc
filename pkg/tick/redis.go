package tick

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	tterrors "github.com/vnykmshr/ticktask/pkg/common/errors"
	"github.com/vnykmshr/ticktask/pkg/common/validation"
)

// TimeReader is the part of a Redis client RedisSource needs.
// *redis.Client, *redis.ClusterClient and redis.UniversalClient all satisfy it.
type TimeReader interface {
	Time(ctx context.Context) *redis.TimeCmd
}

// RedisConfig holds configuration for a RedisSource.
type RedisConfig struct {
	// Client issues the TIME command.
	Client TimeReader

	// Timeout bounds each TIME round trip (default: 50ms).
	Timeout time.Duration

	// Logger receives read failures. If nil, failures are not logged.
	Logger *slog.Logger
}

// RedisSource implements Source using the Redis server clock, so every process
// reading the same server observes one shared timebase.
//
// The Source contract has no error return: when a read fails the previous
// successful reading is returned again (zero before the first success) and the
// failure is kept for Err.
type RedisSource struct {
	client  TimeReader
	timeout time.Duration
	logger  *slog.Logger

	mu   sync.Mutex
	last time.Time
	err  error
}

// NewRedisSource creates a RedisSource from cfg.
func NewRedisSource(cfg RedisConfig) (*RedisSource, error) {
	if err := validation.ValidateNotNil("tick", "client", cfg.Client); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 50 * time.Millisecond
	}
	if err := validation.ValidatePositiveDuration("tick", "timeout", timeout); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &RedisSource{
		client:  cfg.Client,
		timeout: timeout,
		logger:  logger,
		last:    time.Unix(0, 0),
	}, nil
}

// Millis returns the server clock in milliseconds, modulo 2^32.
func (r *RedisSource) Millis() Tick {
	return Tick(uint32(r.now("Millis").UnixMilli()))
}

// Micros returns the server clock in microseconds, modulo 2^32.
func (r *RedisSource) Micros() Tick {
	return Tick(uint32(r.now("Micros").UnixMicro()))
}

// Err returns the error of the most recent read, or nil if it succeeded.
func (r *RedisSource) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *RedisSource) now(op string) time.Time {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	t, err := r.client.Time(ctx).Result()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.err = tterrors.NewOperationError("tick", op, classify(err)).WithContext("redis TIME")
		r.logger.Warn("tick source read failed, reusing last reading",
			slog.Any("error", r.err),
			slog.Time("last", r.last))
		return r.last
	}

	r.err = nil
	r.last = t
	return t
}

// classify wraps timeouts in errors.ErrTimeout so callers can tell a slow
// server from a failed one with IsRetryable.
func classify(err error) error {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return fmt.Errorf("%w: %w", tterrors.ErrTimeout, err)
	}
	return err
}
