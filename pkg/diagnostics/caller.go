package diagnostics

import (
	"path/filepath"
	"runtime"
	"strings"
)

// unknownCaller is the sentinel used when call-site metadata is unavailable.
const unknownCaller = "UNKNOWN"

// callerIdentity derives the originating component and operation names from
// the call site, skip frames above this function. Component and operation
// default to the sentinel independently, so a missing function name never
// hides an available file name.
func callerIdentity(skip int) (component, operation string) {
	component = unknownCaller
	operation = unknownCaller

	pc, file, _, ok := runtime.Caller(skip)
	if !ok {
		return component, operation
	}
	component = componentName(file)
	if fn := runtime.FuncForPC(pc); fn != nil {
		operation = operationName(fn.Name())
	}
	return component, operation
}

// componentName reduces a source file path to a short human-readable
// component name: the base name without extension.
func componentName(file string) string {
	if strings.TrimSpace(file) == "" {
		return unknownCaller
	}
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return unknownCaller
	}
	return base
}

// operationName strips the package qualifier from a fully-qualified function
// name, keeping method receivers readable ("(*pump).run" stays intact).
func operationName(fn string) string {
	if strings.TrimSpace(fn) == "" {
		return unknownCaller
	}
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		fn = fn[i+1:]
	}
	if i := strings.Index(fn, "."); i >= 0 {
		fn = fn[i+1:]
	}
	if fn == "" {
		return unknownCaller
	}
	return fn
}
