package hostapi

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrSetupFailed wraps any failure while constructing the overlay.
	ErrSetupFailed = errors.New("overlay setup failed")
	// ErrAlreadySetup is returned when the startup hook fires twice.
	ErrAlreadySetup = errors.New("overlay already set up")
)

// Plugin is the long-lived root object the host drives every frame.
type Plugin interface {
	// Update runs scans and per-frame recomputation.
	Update(now time.Duration)
	// Draw renders the overlay for the current frame.
	Draw(c Canvas, now time.Duration)
	// Shutdown releases every host resource the plugin spawned.
	Shutdown()
}

// Factory constructs the plugin against a host.
type Factory func(Host) (Plugin, error)

// Bootstrap adapts the host's process-wide lifecycle hooks to a Plugin.
// A failed setup leaves the bootstrap inactive; frames become no-ops.
type Bootstrap struct {
	version string
	factory Factory
	logger  *slog.Logger

	plugin Plugin
	setup  bool
}

// NewBootstrap creates a bootstrap. logger may be nil.
func NewBootstrap(version string, factory Factory, logger *slog.Logger) *Bootstrap {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bootstrap{version: version, factory: factory, logger: logger}
}

// Version returns the version string reported to the host.
func (b *Bootstrap) Version() string {
	return b.version
}

// OnAfterSetup is the startup hook. It never panics.
func (b *Bootstrap) OnAfterSetup(h Host) (err error) {
	if b.setup {
		return ErrAlreadySetup
	}
	b.setup = true

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrSetupFailed, r)
		}
		if err != nil {
			b.plugin = nil
			b.logger.Error("Overlay setup failed, feature disabled for this session", "error", err)
		}
	}()

	if b.factory == nil {
		return fmt.Errorf("%w: no factory", ErrSetupFailed)
	}
	if h == nil {
		return fmt.Errorf("%w: no host", ErrSetupFailed)
	}
	p, err := b.factory(h)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSetupFailed, err)
	}
	if p == nil {
		return fmt.Errorf("%w: factory returned nil plugin", ErrSetupFailed)
	}
	b.plugin = p
	b.logger.Info("Overlay initialised", "version", b.version)
	return nil
}

// Active reports whether a plugin is running.
func (b *Bootstrap) Active() bool {
	return b.plugin != nil
}

// Update forwards the frame update hook.
func (b *Bootstrap) Update(now time.Duration) {
	if b.plugin != nil {
		b.plugin.Update(now)
	}
}

// Draw forwards the frame draw hook.
func (b *Bootstrap) Draw(c Canvas, now time.Duration) {
	if b.plugin != nil && c != nil {
		b.plugin.Draw(c, now)
	}
}

// OnTeardown is the teardown hook.
func (b *Bootstrap) OnTeardown() {
	if b.plugin == nil {
		return
	}
	b.plugin.Shutdown()
	b.plugin = nil
	b.logger.Info("Overlay torn down")
}
