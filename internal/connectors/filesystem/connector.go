// Package filesystem implements the discovery walker over a local
// directory tree.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
	"github.com/docdex-labs/docdex-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Walker = (*Connector)(nil)

// Connector walks a root directory and yields supported files.
type Connector struct {
	rootPath string
	types    map[domain.FileType]struct{}
	watcher  *fsnotify.Watcher
}

// New creates a connector for the given root, yielding only files
// whose extension maps to one of the given format tags.
func New(rootPath string, types []domain.FileType) *Connector {
	allowed := make(map[domain.FileType]struct{}, len(types))
	for _, t := range types {
		if t.Supported() {
			allowed[t] = struct{}{}
		}
	}
	return &Connector{
		rootPath: filepath.Clean(rootPath),
		types:    allowed,
	}
}

// Type returns the walker type identifier.
func (c *Connector) Type() string {
	return "filesystem"
}

// Root returns the configured root path.
func (c *Connector) Root() string {
	return c.rootPath
}

// Validate checks the root exists, is a directory and is readable.
func (c *Connector) Validate(_ context.Context) error {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		return fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", c.rootPath)
	}
	f, err := os.Open(c.rootPath)
	if err != nil {
		return fmt.Errorf("open root: %w", err)
	}
	return f.Close()
}

// Scan walks the tree and yields one FileRef per supported file.
// Each call starts a fresh traversal; unreadable entries become
// *domain.AccessError on the error channel and the walk continues.
func (c *Connector) Scan(ctx context.Context) (<-chan domain.FileRef, <-chan error) {
	refs := make(chan domain.FileRef)
	errs := make(chan error, 1)

	go func() {
		defer close(refs)
		defer close(errs)

		walkErr := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				// Report and keep walking the rest of the tree.
				select {
				case errs <- &domain.AccessError{Path: path, Err: err}:
				case <-ctx.Done():
					return ctx.Err()
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			ref, ok, refErr := c.refFor(path, d)
			if refErr != nil {
				select {
				case errs <- refErr:
				case <-ctx.Done():
					return ctx.Err()
				}
				return nil
			}
			if !ok {
				return nil
			}

			select {
			case refs <- ref:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})

		if walkErr != nil && ctx.Err() == nil {
			errs <- walkErr
		}
	}()

	return refs, errs
}

// refFor builds the FileRef for a directory entry, filtering by
// extension. ok is false for unsupported extensions.
func (c *Connector) refFor(path string, d fs.DirEntry) (domain.FileRef, bool, error) {
	t := domain.FileTypeFromPath(path)
	if _, allowed := c.types[t]; !allowed {
		return domain.FileRef{}, false, nil
	}

	info, err := d.Info()
	if err != nil {
		return domain.FileRef{}, false, &domain.AccessError{Path: path, Err: err}
	}

	return domain.FileRef{
		Path:    path,
		Type:    t,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, true, nil
}

// Watch emits change events for supported files until the context is
// cancelled. New subdirectories are registered as they appear.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.FileEvent, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	c.watcher = watcher

	// Register the root and every existing subdirectory.
	addErr := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Watch skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if addErr != nil {
		watcher.Close()
		return nil, fmt.Errorf("register watches: %w", addErr)
	}

	events := make(chan domain.FileEvent)
	go func() {
		defer close(events)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				c.handleEvent(ctx, ev, events)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()

	return events, nil
}

// handleEvent translates one fsnotify event into a FileEvent.
func (c *Connector) handleEvent(ctx context.Context, ev fsnotify.Event, out chan<- domain.FileEvent) {
	path := filepath.Clean(ev.Name)

	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		if domain.FileTypeFromPath(path) == domain.FileTypeUnknown {
			return
		}
		select {
		case out <- domain.FileEvent{Type: domain.ChangeDeleted, Ref: domain.FileRef{Path: path}}:
		case <-ctx.Done():
		}
		return
	}

	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Debug("Watch stat %s: %v", path, err)
		return
	}

	// Newly created directories need their own watch.
	if info.IsDir() {
		if ev.Op.Has(fsnotify.Create) && c.watcher != nil {
			if err := c.watcher.Add(path); err != nil {
				logger.Warn("Watch add %s: %v", path, err)
			}
		}
		return
	}

	t := domain.FileTypeFromPath(path)
	if _, allowed := c.types[t]; !allowed {
		return
	}

	ref := domain.FileRef{
		Path:    path,
		Type:    t,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	select {
	case out <- domain.FileEvent{Type: domain.ChangeUpserted, Ref: ref}:
	case <-ctx.Done():
	}
}

// Close releases watcher resources.
func (c *Connector) Close() error {
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}
