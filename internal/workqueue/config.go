package workqueue

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config groups all tunables. Values may be taken from environment variables
// with the prefix "REQUESTQA_POOL_", e.g. REQUESTQA_POOL_SHARDS=8.
type Config struct {
	Shards         int           `envconfig:"SHARDS"          default:"4"`
	QueueSize      int           `envconfig:"QUEUE_SIZE"      default:"128"`
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT" default:"100ms"`

	// ErrorHandler is called synchronously after a Job gives up with an error.
	ErrorHandler func(error) `envconfig:"-"`

	// Retryable decides whether a failed Job is attempted again. Nil retries
	// every error up to MaxAttempts.
	Retryable func(error) bool `envconfig:"-"`

	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" default:"1"`
	BaseBackoff time.Duration `envconfig:"BASE_BACKOFF" default:"100ms"`
	MaxInterval time.Duration `envconfig:"MAX_INTERVAL" default:"5s"`
}

// LoadConfig populates Config from environment variables (prefix REQUESTQA_POOL).
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process("REQUESTQA_POOL", &c)
}
