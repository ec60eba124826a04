package diagnostics

import (
	"fmt"
	"strings"
)

// ParseCategory maps a configuration name to its category bit.
func ParseCategory(name string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "requests":
		return CategoryRequests, nil
	case "serviceinitialization":
		return CategoryServiceInitialization, nil
	case "eventhub":
		return CategoryEventHub, nil
	default:
		return 0, fmt.Errorf("unknown event category %q", name)
	}
}

// ParseSeverity maps a configuration name to a severity.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "critical":
		return SeverityCritical, nil
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "informational", "info":
		return SeverityInformational, nil
	case "verbose":
		return SeverityVerbose, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", name)
	}
}
