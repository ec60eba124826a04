package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponentName(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		expected string
	}{
		{"plain path", "/go/src/app/processor.go", "processor"},
		{"windows-style base", "source.go", "source"},
		{"no extension", "Makefile", "Makefile"},
		{"empty", "", "UNKNOWN"},
		{"whitespace only", "   ", "UNKNOWN"},
		{"extension only", ".go", "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, componentName(tt.file))
		})
	}
}

func TestComponentName_Idempotent(t *testing.T) {
	// Derivation is pure: the same source location always yields the same
	// component name.
	for i := 0; i < 3; i++ {
		assert.Equal(t, "reader", componentName("/pkg/consumer/reader.go"))
	}
}

func TestOperationName(t *testing.T) {
	tests := []struct {
		name     string
		fn       string
		expected string
	}{
		{"package function", "main.main", "main"},
		{"qualified method", "github.com/acme/app/pkg/pump.(*pump).run", "(*pump).run"},
		{"nested closure", "app/pkg/pump.(*pump).run.func1", "(*pump).run.func1"},
		{"empty", "", "UNKNOWN"},
		{"whitespace", "  ", "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, operationName(tt.fn))
		})
	}
}

func TestCallerIdentity(t *testing.T) {
	component, operation := callerIdentity(1)

	assert.Equal(t, "caller_test", component)
	assert.Equal(t, "TestCallerIdentity", operation)
}
