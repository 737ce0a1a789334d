// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can
// register hooks at startup to receive events about registry mutations,
// layout computation, and command broadcast/acknowledgment.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRegistryHooks(&myRegistryHooks{})
//	    observability.SetBroadcastHooks(&myBroadcastHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Registry().OnMutationStart(ctx, op, id)
//	// ... apply mutation ...
//	observability.Registry().OnMutationComplete(ctx, op, id, moved, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Registry Hooks
// =============================================================================

// RegistryHooks receives events from container registry mutations.
type RegistryHooks interface {
	// Mutation events. op is the operation name (create, delete,
	// modify, clear, resize, mode); moved is the number of sibling
	// containers repositioned as a side effect.
	OnMutationStart(ctx context.Context, op, containerID string)
	OnMutationComplete(ctx context.Context, op, containerID string, moved int, duration time.Duration, err error)

	// Layout events.
	OnLayoutStart(ctx context.Context, containerCount int)
	OnLayoutComplete(ctx context.Context, containerCount int, utilization float64, duration time.Duration)
}

// =============================================================================
// Broadcast Hooks
// =============================================================================

// BroadcastHooks receives events from command broadcast and
// acknowledgment reconciliation.
type BroadcastHooks interface {
	// OnBroadcast records an outbound command fan-out.
	OnBroadcast(ctx context.Context, commandType string, subscribers int)

	// OnSubscriberDropped records a pruned connection.
	OnSubscriberDropped(ctx context.Context, reason string)

	// OnAck records an acknowledgment result (success, error, mismatch).
	OnAck(ctx context.Context, commandType, status string, latency time.Duration)

	// OnSweep records a TTL sweep of stale pending commands.
	OnSweep(ctx context.Context, dropped int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRegistryHooks is a no-op implementation of RegistryHooks.
type NoopRegistryHooks struct{}

func (NoopRegistryHooks) OnMutationStart(context.Context, string, string) {}
func (NoopRegistryHooks) OnMutationComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopRegistryHooks) OnLayoutStart(context.Context, int)                             {}
func (NoopRegistryHooks) OnLayoutComplete(context.Context, int, float64, time.Duration)  {}

// NoopBroadcastHooks is a no-op implementation of BroadcastHooks.
type NoopBroadcastHooks struct{}

func (NoopBroadcastHooks) OnBroadcast(context.Context, string, int)               {}
func (NoopBroadcastHooks) OnSubscriberDropped(context.Context, string)            {}
func (NoopBroadcastHooks) OnAck(context.Context, string, string, time.Duration)   {}
func (NoopBroadcastHooks) OnSweep(context.Context, int)                           {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	registryHooks  RegistryHooks  = NoopRegistryHooks{}
	broadcastHooks BroadcastHooks = NoopBroadcastHooks{}
	hooksMu        sync.RWMutex
)

// SetRegistryHooks registers custom registry hooks.
// This should be called once at application startup before any registry operations.
func SetRegistryHooks(h RegistryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		registryHooks = h
	}
}

// SetBroadcastHooks registers custom broadcast hooks.
// This should be called once at application startup before any broadcast operations.
func SetBroadcastHooks(h BroadcastHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		broadcastHooks = h
	}
}

// Registry returns the registered registry hooks.
func Registry() RegistryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return registryHooks
}

// Broadcast returns the registered broadcast hooks.
func Broadcast() BroadcastHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return broadcastHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	registryHooks = NoopRegistryHooks{}
	broadcastHooks = NoopBroadcastHooks{}
}
