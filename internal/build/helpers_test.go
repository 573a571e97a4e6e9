package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docsite/internal/types"
)

var (
	errSimulatedMkdir = errors.New("simulated mkdir race")
	errSimulatedWrite = errors.New("simulated disk full")
	errSimulatedRead  = errors.New("simulated permission denied")
)

// faultyFs wraps an in-memory filesystem and injects failures per path.
type faultyFs struct {
	afero.Fs

	mu            sync.Mutex
	mkdirFailures map[string]int
	mkdirCalls    map[string]int
	writeFailures map[string]bool
	writeCalls    map[string]int
	readFailures  map[string]bool
}

func newFaultyFs() *faultyFs {
	return &faultyFs{
		Fs:            afero.NewMemMapFs(),
		mkdirFailures: make(map[string]int),
		mkdirCalls:    make(map[string]int),
		writeFailures: make(map[string]bool),
		writeCalls:    make(map[string]int),
		readFailures:  make(map[string]bool),
	}
}

func (f *faultyFs) failMkdir(dir string, times int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mkdirFailures[dir] = times
}

func (f *faultyFs) failWrite(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeFailures[path] = true
}

func (f *faultyFs) failRead(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readFailures[path] = true
}

func (f *faultyFs) mkdirCount(dir string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mkdirCalls[dir]
}

func (f *faultyFs) writeCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeCalls[path]
}

func (f *faultyFs) MkdirAll(path string, perm os.FileMode) error {
	f.mu.Lock()
	f.mkdirCalls[path]++
	if n := f.mkdirFailures[path]; n > 0 {
		f.mkdirFailures[path] = n - 1
		f.mu.Unlock()
		return &os.PathError{Op: "mkdir", Path: path, Err: errSimulatedMkdir}
	}
	f.mu.Unlock()
	return f.Fs.MkdirAll(path, perm)
}

func (f *faultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		f.mu.Lock()
		f.writeCalls[name]++
		fail := f.writeFailures[name]
		f.mu.Unlock()
		if fail {
			return nil, &os.PathError{Op: "open", Path: name, Err: errSimulatedWrite}
		}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *faultyFs) Open(name string) (afero.File, error) {
	f.mu.Lock()
	fail := f.readFailures[name]
	f.mu.Unlock()
	if fail {
		return nil, &os.PathError{Op: "open", Path: name, Err: errSimulatedRead}
	}
	return f.Fs.Open(name)
}

// stubRenderer renders predictable documents derived from the page fields.
type stubRenderer struct {
	mu       sync.Mutex
	failures map[string]error
	calls    []string
}

func newStubRenderer() *stubRenderer {
	return &stubRenderer{failures: make(map[string]error)}
}

func (s *stubRenderer) fail(reference string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[reference] = err
}

func (s *stubRenderer) rendered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubRenderer) Render(
	ctx context.Context,
	page *types.PageModel,
	routes []types.Route,
	rootPath string,
	mode types.Mode,
) ([]types.RenderTarget, error) {
	s.mu.Lock()
	s.calls = append(s.calls, page.Reference)
	err := s.failures[page.Reference]
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if mode == types.ModeFullDoc {
		if !page.HasURI() {
			return nil, nil
		}
		return []types.RenderTarget{{
			ID:            page.Reference,
			PageReference: page.Reference,
			URI:           page.URI(),
			HTML:          fmt.Sprintf("<html>doc %s: %s (%d routes)</html>", page.Reference, page.Header, len(routes)),
			Mode:          mode,
		}}, nil
	}

	targets := []types.RenderTarget{{
		ID:            page.Reference,
		PageReference: page.Reference,
		URI:           "example/" + page.Reference,
		HTML:          fmt.Sprintf("<html>example %s: %s</html>", page.Reference, page.Markup),
		Mode:          mode,
	}}
	for _, m := range page.Modifiers {
		id := page.Reference + m.Name
		targets = append(targets, types.RenderTarget{
			ID:            id,
			PageReference: page.Reference,
			URI:           "example/" + id,
			HTML:          fmt.Sprintf("<html>example %s: %s %s</html>", id, page.Markup, m.Class()),
			Mode:          mode,
		})
	}
	return targets, nil
}

func strPtr(s string) *string { return &s }

func docPage(reference, uri, header string) *types.PageModel {
	return &types.PageModel{
		Reference:    reference,
		ReferenceURI: strPtr(uri),
		Header:       header,
		Depth:        1,
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}
