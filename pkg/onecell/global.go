package onecell

// defaultRegistry is the process-wide registry behind the package-level
// accessors. It is itself just a Registry; the exactly-once guarantee
// comes from its cell, not from package init order.
var defaultRegistry = NewRegistry()

// Default returns the package-level registry.
func Default() *Registry {
	return defaultRegistry
}

// GetOrInitialize calls GetOrInitialize on the default registry.
func GetOrInitialize(data string) *Instance {
	return defaultRegistry.GetOrInitialize(data)
}

// Get calls Get on the default registry.
func Get() (*Instance, error) {
	return defaultRegistry.Get()
}

// ResetDefault empties the default registry for testing purposes.
// Not safe against concurrent users of the default registry.
func ResetDefault() {
	defaultRegistry.Reset()
}
