package testutil

import (
	"bytes"
	"io"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MemorySink keeps written files in memory
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
	order []string
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// WriteFile stores the callback output under path only when it succeeds
func (s *MemorySink) WriteFile(path string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = buf.Bytes()
	s.order = append(s.order, path)
	return nil
}

// Get returns the content stored under path
func (s *MemorySink) Get(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[path]
	return b, ok
}

// Paths returns the stored paths sorted
func (s *MemorySink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Order returns paths in the order they were written
func (s *MemorySink) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// MockSink is a testify mock of files.Sink. When the expectation returns a
// nil error the callback is run against io.Discard so render errors still
// surface.
type MockSink struct {
	mock.Mock
}

// WriteFile implements files.Sink
func (m *MockSink) WriteFile(path string, write func(io.Writer) error) error {
	args := m.Called(path, write)
	if err := args.Error(0); err != nil {
		return err
	}
	return write(io.Discard)
}
