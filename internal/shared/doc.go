// Package shared holds helpers used by more than one package that belong to
// no single domain layer.
//
// The testutil subpackage provides:
//
//   - a capturing slog handler with assertion helpers
//   - dataset fixtures written into temporary directories
//   - in-memory and mock implementations of files.Sink
//
// It must not import other internal packages so that any package's tests
// can depend on it.
package shared
