package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileProvider reads one secret per file from a directory, the layout used
// by mounted Kubernetes secrets. Files must be mode 0600 or 0400.
//
// Values are cached after the first read. With watching enabled any write,
// create, remove or rename in the directory empties the cache.
type FileProvider struct {
	BasePath string
	Watch    bool

	mu      sync.RWMutex
	cache   map[string]string
	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

// NewFileProvider creates a provider rooted at basePath, which must be an
// existing directory.
func NewFileProvider(basePath string, watch bool) (*FileProvider, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("secrets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets directory %s is not a directory", basePath)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("secrets directory: %w", err)
	}

	p := &FileProvider{
		BasePath: abs,
		Watch:    watch,
		cache:    make(map[string]string),
		done:     make(chan struct{}),
	}

	if watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("create secrets watcher: %w", err)
		}
		if err := w.Add(abs); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watch secrets directory: %w", err)
		}
		p.watcher = w
		go p.watchLoop()
	}

	slog.Debug("file secret provider ready", "path", abs, "watch", watch)
	return p, nil
}

// GetSecret reads <BasePath>/<name>. Surrounding whitespace is trimmed.
func (p *FileProvider) GetSecret(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.RLock()
	value, ok := p.cache[name]
	p.mu.RUnlock()
	if ok {
		return value, nil
	}

	path, err := p.resolve(name)
	if err != nil {
		return "", err
	}

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", notFound(ProviderFile, name)
		}
		return "", fmt.Errorf("%s: stat %s: %w", ProviderFile, name, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s: %s is not a regular file", ProviderFile, name)
	}
	if perm := info.Mode().Perm(); perm != 0o600 && perm != 0o400 {
		return "", fmt.Errorf("%s: insecure permissions %o on %s (want 0600 or 0400)", ProviderFile, perm, name)
	}

	// #nosec G304 -- path is confined to BasePath by resolve.
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%s: read %s: %w", ProviderFile, name, err)
	}
	value = strings.TrimSpace(string(data))

	p.mu.Lock()
	p.cache[name] = value
	p.mu.Unlock()

	return value, nil
}

// ListSecrets returns the names of regular files in the directory.
func (p *FileProvider) ListSecrets(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.BasePath)
	if err != nil {
		return nil, fmt.Errorf("%s: list: %w", ProviderFile, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Provider returns "file".
func (p *FileProvider) Provider() string {
	return ProviderFile
}

// Supports reports whether a regular file named name exists.
func (p *FileProvider) Supports(name string) bool {
	path, err := p.resolve(name)
	if err != nil {
		return false
	}
	info, err := os.Lstat(path)
	return err == nil && info.Mode().IsRegular()
}

// Refresh empties the value cache.
func (p *FileProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.cache = make(map[string]string)
	p.mu.Unlock()
	return nil
}

// Close stops the watcher, if any. It is safe to call more than once.
func (p *FileProvider) Close() error {
	var err error
	p.once.Do(func() {
		close(p.done)
		if p.watcher != nil {
			err = p.watcher.Close()
		}
	})
	return err
}

// resolve joins name onto BasePath and rejects anything escaping it.
func (p *FileProvider) resolve(name string) (string, error) {
	if name == "" || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%s: invalid secret name %q", ProviderFile, name)
	}
	path := filepath.Join(p.BasePath, name)
	rel, err := filepath.Rel(p.BasePath, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: secret name %q escapes %s", ProviderFile, name, p.BasePath)
	}
	return path, nil
}

func (p *FileProvider) watchLoop() {
	const mask = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

	for {
		select {
		case ev, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&mask == 0 {
				continue
			}
			slog.Debug("secret file changed",
				"file", filepath.Base(ev.Name),
				"op", ev.Op.String(),
			)
			_ = p.Refresh(context.Background())

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("secret watcher error", "error", err)

		case <-p.done:
			return
		}
	}
}
