package model

import "sync"

// Process-wide registry used by CLI wiring. Command startup loads the
// configured registry once and installs it here; code that builds its
// own Registry never touches the global.
var (
	globalRegistry *Registry
	globalOnce     sync.Once
)

// Global returns the process-wide registry, creating the built-in
// default on first use when none was installed.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewDefaultRegistry()
	})
	return globalRegistry
}

// InitGlobal installs reg as the process-wide registry. The first call
// to InitGlobal or Global wins; later calls are no-ops.
func InitGlobal(reg *Registry) {
	globalOnce.Do(func() {
		globalRegistry = reg
	})
}

// ResetGlobal clears the installed registry so the next Global or
// InitGlobal call starts fresh. Test helper; not safe for concurrent
// use.
func ResetGlobal() {
	globalOnce = sync.Once{}
	globalRegistry = nil
}
