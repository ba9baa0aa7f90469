//go:build tools

package tools

// Tool dependencies are not tracked here with blank imports. mockery v2 is
// used as an installed binary; run mockery from the repository root to
// regenerate pkg/*/mocks from .mockery.yaml.
