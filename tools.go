//go:build tools

package tools

// The observation mocks are generated by mockery, which is used as an
// installed binary rather than a module dependency.
// Run: mockery (from the module root) to regenerate pkg/observation/mocks.
