// Package sentry wires optional error reporting into the logger. It is
// disabled by default and a no-op without a DSN, so the CLI never depends
// on the network to function.
package sentry

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/oneshot2001/axisfinder/internal/config"
	"github.com/oneshot2001/axisfinder/internal/logger"
)

var (
	mu      sync.RWMutex
	enabled bool
)

// homePathRe strips user home prefixes from dataset paths before they
// leave the machine.
var homePathRe = regexp.MustCompile(`(/home/[^/\s]+|/Users/[^/\s]+)`)

// Initialize sets up the Sentry SDK from config. A disabled config or an
// empty DSN leaves reporting off without error.
func Initialize(cfg *config.Config, version string) error {
	if !cfg.Sentry.Enabled || cfg.Sentry.DSN == "" {
		logger.GetLogger().WithComponent("sentry").Debug().Msg("error reporting disabled")
		return nil
	}

	err := sentrygo.Init(sentrygo.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     version,
		SampleRate:  cfg.Sentry.SampleRate,
		BeforeSend: func(event *sentrygo.Event, hint *sentrygo.EventHint) *sentrygo.Event {
			return sanitizeEvent(event)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize error reporting: %w", err)
	}

	mu.Lock()
	enabled = true
	mu.Unlock()

	logger.AddHook(Hook{})
	return nil
}

// IsEnabled reports whether events are being sent.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// CaptureError reports an error with component/operation tags.
func CaptureError(err error, component, operation string) {
	if !IsEnabled() || err == nil {
		return
	}
	sentrygo.WithScope(func(scope *sentrygo.Scope) {
		scope.SetTag("component", component)
		scope.SetTag("operation", operation)
		sentrygo.CaptureException(err)
	})
}

// Flush waits up to timeout for buffered events to send.
func Flush(timeout time.Duration) {
	if IsEnabled() {
		sentrygo.Flush(timeout)
	}
}

// Close flushes and disables reporting.
func Close() {
	Flush(2 * time.Second)
	mu.Lock()
	enabled = false
	mu.Unlock()
}

// sanitizeEvent redacts filesystem paths that identify the user. Queries
// and model keys are product identifiers, not personal data, and pass
// through so reports stay debuggable.
func sanitizeEvent(event *sentrygo.Event) *sentrygo.Event {
	for i, ex := range event.Exception {
		event.Exception[i].Value = homePathRe.ReplaceAllString(ex.Value, "[HOME]")
	}
	event.Message = homePathRe.ReplaceAllString(event.Message, "[HOME]")
	return event
}

// Hook forwards error-level zerolog events to Sentry.
type Hook struct{}

// Run implements zerolog.Hook.
func (Hook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level < zerolog.ErrorLevel || !IsEnabled() {
		return
	}
	sentrygo.CaptureMessage(homePathRe.ReplaceAllString(msg, "[HOME]"))
}
