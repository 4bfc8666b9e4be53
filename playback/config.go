// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultBlockSize        = 16384
	DefaultIdleTimeout      = 5 * time.Second
	DefaultMinStartInterval = 30 * time.Millisecond
	DefaultStopTimeout      = 5 * time.Second
	DefaultStopPollInterval = 100 * time.Millisecond
)

// Config tunes a Pusher. Zero fields take the defaults above.
type Config struct {
	// BlockSize is the number of bytes pulled from the source per write.
	BlockSize int
	// IdleTimeout closes the line after this long without a Start.
	IdleTimeout time.Duration
	// MinStartInterval drops a Start that follows the previous one this
	// quickly. A negative value disables the check.
	MinStartInterval time.Duration
	// StopTimeout bounds how long Stop and Close wait for the worker.
	StopTimeout time.Duration
	// StopPollInterval is how often Stop rechecks the worker state.
	StopPollInterval time.Duration
	// Logger receives playback diagnostics. Nil discards them.
	Logger *zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.BlockSize <= 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.MinStartInterval < 0 {
		c.MinStartInterval = 0
	} else if c.MinStartInterval == 0 {
		c.MinStartInterval = DefaultMinStartInterval
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = DefaultStopTimeout
	}
	if c.StopPollInterval <= 0 {
		c.StopPollInterval = DefaultStopPollInterval
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	return c
}
