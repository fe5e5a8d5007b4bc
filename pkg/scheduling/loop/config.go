package loop

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	tterrors "github.com/vnykmshr/ticktask/pkg/common/errors"
	"github.com/vnykmshr/ticktask/pkg/common/validation"
)

// Config holds Runner configuration.
type Config struct {
	// Name labels log records and metrics.
	Name string `env:"TICKTASK_NAME" envDefault:"loop"`

	// MaxIdle is the longest wait between passes, also used when no task is active.
	MaxIdle time.Duration `env:"TICKTASK_MAX_IDLE" envDefault:"10ms"`

	// MinIdle is the shortest wait between passes. Zero lets the loop spin
	// while a task is due on every pass.
	MinIdle time.Duration `env:"TICKTASK_MIN_IDLE" envDefault:"0s"`
}

// ErrParsingConfig is returned when environment variables cannot be parsed.
var ErrParsingConfig = errors.New("failed to parse loop configuration")

var dotenvLoaded sync.Once

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	return Config{
		Name:    "loop",
		MaxIdle: 10 * time.Millisecond,
	}
}

// LoadConfig parses Config from environment variables. A .env file in the
// working directory is loaded first, once per process; its absence is not an error.
func LoadConfig() (Config, error) {
	dotenvLoaded.Do(func() {
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the idle bounds are usable.
func (c Config) Validate() error {
	if err := validation.ValidateNotEmpty("loop", "name", c.Name); err != nil {
		return err
	}
	if err := validation.ValidatePositiveDuration("loop", "max_idle", c.MaxIdle); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("loop", "min_idle", int64(c.MinIdle)); err != nil {
		return err
	}
	if c.MinIdle > c.MaxIdle {
		return tterrors.NewValidationError("loop", "min_idle", c.MinIdle, "exceeds max_idle").
			WithHint(fmt.Sprintf("use a value up to %v", c.MaxIdle))
	}
	return nil
}
