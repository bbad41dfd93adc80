// Package registry implements the Handle Registry: the single place in the
// process that translates opaque file handles to sandboxed filesystem
// paths. No code outside this package may construct a handle from a path.
package registry

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/types"
)

// Config carries the sandbox roots and limits the registry enforces.
type Config struct {
	SourceRoots      []string
	TempRoot         string
	MaxFileSize      int64
	AllowedExtensions map[types.HandleClass][]string
}

// Registry is the process-local handle table. It is safe for concurrent
// use; writes are idempotent because a registered path always maps back to
// the same id (see register).
type Registry struct {
	cfg Config

	mu        sync.RWMutex
	byID      map[string]types.FileHandle
	byPath    map[string]string // absolute path -> id, for idempotent re-registration
}

// New constructs a Registry over the given sandbox configuration.
func New(cfg Config) *Registry {
	return &Registry{
		cfg:    cfg,
		byID:   make(map[string]types.FileHandle),
		byPath: make(map[string]string),
	}
}

// ListSourceFiles scans the configured source roots, registering (or
// reusing) a handle for every file whose extension is allowed for
// types.ClassSource and whose size is within the configured limit.
func (r *Registry) ListSourceFiles() ([]types.FileHandle, error) {
	var out []types.FileHandle

	for _, root := range r.cfg.SourceRoots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return nil, fmt.Errorf("%w: listing %s: %w", fault.ErrReadFailure, root, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.Name()), "."))
			if !extensionAllowed(r.cfg.AllowedExtensions[types.ClassSource], ext) {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				continue
			}

			if info.Size() > r.cfg.MaxFileSize {
				continue
			}

			path := filepath.Join(root, entry.Name())

			h, err := r.register(path, types.ClassSource, ext, info.Size())
			if err != nil {
				continue
			}

			out = append(out, h)
		}
	}

	return out, nil
}

// ListGeneratedFiles lists previously allocated generated/temp handles,
// most recently modified first.
func (r *Registry) ListGeneratedFiles() []types.FileHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.FileHandle, 0, len(r.byID))

	for _, h := range r.byID {
		if h.Class == types.ClassGenerated || h.Class == types.ClassTemp {
			out = append(out, h)
		}
	}

	modTime := func(h types.FileHandle) time.Time {
		if info, err := os.Stat(h.Path); err == nil {
			return info.ModTime()
		}

		return time.Time{}
	}

	sort.SliceStable(out, func(i, j int) bool { return modTime(out[i]).After(modTime(out[j])) })

	return out
}

// Resolve returns the sandboxed path for id, re-verifying existence,
// root-containment, and size on every call — handles are not trusted to
// remain valid once issued.
func (r *Registry) Resolve(id string) (string, error) {
	r.mu.RLock()
	h, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s: %s", fault.ErrNotFound, id, fault.ErrNotFound)
	}

	info, err := os.Stat(h.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", fault.ErrVanished, id)
		}

		return "", fmt.Errorf("%w: stat %s: %w", fault.ErrReadFailure, id, err)
	}

	if !r.withinSandbox(h.Path) {
		return "", fmt.Errorf("%w: %s escapes sandbox roots", fault.ErrSandbox, id)
	}

	if info.Size() > r.cfg.MaxFileSize {
		return "", fmt.Errorf("%w: %s exceeds max file size", fault.ErrSandbox, id)
	}

	return h.Path, nil
}

// Handle returns the registered FileHandle metadata for id without
// re-verifying the filesystem (use Resolve when the path will actually be
// read or passed to a subprocess).
func (r *Registry) Handle(id string) (types.FileHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.byID[id]

	return h, ok
}

// AllocateOutput generates a fresh path inside the temp root for a new
// operation output and registers it immediately under class.
func (r *Registry) AllocateOutput(extension string, class types.HandleClass) (types.FileHandle, error) {
	if class == types.ClassSource {
		return types.FileHandle{}, fmt.Errorf("%w: AllocateOutput cannot allocate ClassSource", fault.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	token, err := r.freshTokenLocked()
	if err != nil {
		return types.FileHandle{}, fmt.Errorf("%w: generating handle: %w", fault.ErrReadFailure, err)
	}

	name := token + "." + strings.TrimPrefix(extension, ".")
	path := filepath.Join(r.cfg.TempRoot, name)

	h := types.FileHandle{
		ID:        "file_" + token,
		Class:     class,
		Path:      path,
		Extension: strings.ToLower(extension),
	}

	r.byID[h.ID] = h
	r.byPath[path] = h.ID

	return h, nil
}

// CleanupTemp removes every registered ClassTemp handle whose file is older
// than olderThan (zero means "all of them") and drops their registry
// entries. It is idempotent: a second call with the same cutoff removes
// nothing further.
func (r *Registry) CleanupTemp(olderThan time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	removed := 0

	for id, h := range r.byID {
		if h.Class != types.ClassTemp {
			continue
		}

		info, err := os.Stat(h.Path)
		if err != nil {
			// Already gone: still drop the stale registry entry.
			delete(r.byID, id)
			delete(r.byPath, h.Path)

			continue
		}

		if olderThan > 0 && info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(h.Path); err != nil && !os.IsNotExist(err) {
			slog.Warn("registry.CleanupTemp", "id", id, "error", err)

			continue
		}

		delete(r.byID, id)
		delete(r.byPath, h.Path)
		removed++
	}

	return removed, nil
}

// Forget removes a single handle and its backing file, regardless of class
// or age. The Executor calls this to discard a just-allocated output after a
// failed or timed-out operation (spec.md section 4.C failure cleanup).
func (r *Registry) Forget(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.byID[id]
	if !ok {
		return nil
	}

	delete(r.byID, id)
	delete(r.byPath, h.Path)

	if err := os.Remove(h.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing %s: %w", fault.ErrReadFailure, id, err)
	}

	return nil
}

// register returns the existing handle for path if one was already issued
// (idempotent, same-path-same-id), or mints a new one.
func (r *Registry) register(path string, class types.HandleClass, ext string, size int64) (types.FileHandle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return types.FileHandle{}, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byPath[abs]; ok {
		return r.byID[id], nil
	}

	token, err := r.freshTokenLocked()
	if err != nil {
		return types.FileHandle{}, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	h := types.FileHandle{
		ID:        "file_" + token,
		Class:     class,
		Path:      abs,
		Extension: ext,
		Size:      size,
	}

	r.byID[h.ID] = h
	r.byPath[abs] = h.ID

	return h, nil
}

func (r *Registry) withinSandbox(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	roots := append(append([]string{}, r.cfg.SourceRoots...), r.cfg.TempRoot)

	for _, root := range roots {
		rootAbs, err := filepath.Abs(root)
		if err != nil {
			continue
		}

		rel, err := filepath.Rel(rootAbs, abs)
		if err != nil {
			continue
		}

		if rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel)) {
			return true
		}
	}

	return false
}

func extensionAllowed(allowed []string, ext string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}

	return false
}

// freshTokenLocked generates the 8-hex-character suffix of a handle id,
// regenerating on collision against already-issued ids. Callers must hold
// r.mu.
func (r *Registry) freshTokenLocked() (string, error) {
	for {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}

		token := hex.EncodeToString(buf)
		if _, exists := r.byID["file_"+token]; !exists {
			return token, nil
		}
	}
}
