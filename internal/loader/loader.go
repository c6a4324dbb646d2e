// Package loader reads and writes rules catalog files.
package loader

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lintindex/rules-index/internal/domain"
)

// CatalogLoader loads a catalog from some backing source
type CatalogLoader interface {
	// Load decodes the catalog; dropped records are reported, not fatal
	Load(ctx context.Context) (domain.Catalog, []domain.LoadError, error)
	// Source describes where the catalog comes from
	Source() string
	// GetLoadErrors returns errors from the last load operation
	GetLoadErrors() []domain.LoadError
}

// FileCatalogLoader loads a catalog file from disk
type FileCatalogLoader struct {
	path   string
	parser *Parser

	mu         sync.RWMutex
	loadErrors []domain.LoadError
	loadedAt   time.Time
}

// NewFileCatalogLoader creates a loader for the catalog at path
func NewFileCatalogLoader(path string, validator domain.Validator) *FileCatalogLoader {
	return &FileCatalogLoader{
		path:       path,
		parser:     NewParser(validator),
		loadErrors: make([]domain.LoadError, 0),
	}
}

// Load reads and decodes the catalog file
func (l *FileCatalogLoader) Load(ctx context.Context) (domain.Catalog, []domain.LoadError, error) {
	select {
	case <-ctx.Done():
		return domain.Catalog{}, nil, ctx.Err()
	default:
	}

	catalog, loadErrors, err := l.parser.ParseFile(l.path)
	if err != nil {
		return domain.Catalog{}, nil, err
	}

	for _, le := range loadErrors {
		log.Warn().Str("file", le.FilePath).Str("error", le.Error).Msg("Dropped catalog record")
	}

	l.mu.Lock()
	l.loadErrors = loadErrors
	l.loadedAt = time.Now()
	l.mu.Unlock()

	return catalog, loadErrors, nil
}

// Source returns the catalog file path
func (l *FileCatalogLoader) Source() string {
	return l.path
}

// GetLoadErrors returns errors from the last load operation
func (l *FileCatalogLoader) GetLoadErrors() []domain.LoadError {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]domain.LoadError, len(l.loadErrors))
	copy(result, l.loadErrors)
	return result
}

// LoadedAt returns when the catalog was last loaded successfully
func (l *FileCatalogLoader) LoadedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadedAt
}
