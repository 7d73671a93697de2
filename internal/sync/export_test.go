package sync

// Test-only exports for internal helper functions.

//nolint:gochecknoglobals // Test-only exports
var (
	ResolveSourceNames = resolveSourceNames
	ResolveOutputRoot  = resolveOutputRoot
	FallbackLabel      = fallbackLabel
)
