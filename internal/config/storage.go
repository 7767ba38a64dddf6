package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"httpdctl/pkg/logging"
)

// DefaultDataDir is where the controller persists its own state between
// invocations on the managed host.
const DefaultDataDir = "/var/lib/httpdctl"

// Storage provides generic YAML file storage for the controller's
// persisted entities, one subdirectory per entity type.
type Storage struct {
	mu       sync.RWMutex
	dataPath string // optional custom data path; DefaultDataDir otherwise
}

// NewStorage creates a Storage instance using the default data directory.
func NewStorage() *Storage {
	return &Storage{}
}

// NewStorageWithPath creates a Storage instance rooted at a custom path.
func NewStorageWithPath(dataPath string) *Storage {
	return &Storage{dataPath: dataPath}
}

func (ds *Storage) dataDir() string {
	if ds.dataPath != "" {
		return ds.dataPath
	}
	return DefaultDataDir
}

// Save stores data for the given entity type and name. Writes are flushed
// to disk before Save returns so a crash mid-pass leaves only fully
// committed entries behind.
func (ds *Storage) Save(entityType string, name string, data []byte) error {
	if entityType == "" {
		return fmt.Errorf("entityType cannot be empty")
	}
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	targetDir := filepath.Join(ds.dataDir(), entityType)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", targetDir, err)
	}

	filePath := filepath.Join(targetDir, ds.sanitizeFilename(name)+".yaml")

	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync file %s: %w", filePath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", filePath, err)
	}

	logging.Debug("Storage", "Saved %s/%s to %s", entityType, name, filePath)
	return nil
}

// Load retrieves data for the given entity type and name.
func (ds *Storage) Load(entityType string, name string) ([]byte, error) {
	if entityType == "" {
		return nil, fmt.Errorf("entityType cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	filePath := filepath.Join(ds.dataDir(), entityType, ds.sanitizeFilename(name)+".yaml")
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{EntityType: entityType, Name: name}
		}
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// Delete removes the stored entry for the given entity type and name.
func (ds *Storage) Delete(entityType string, name string) error {
	if entityType == "" {
		return fmt.Errorf("entityType cannot be empty")
	}
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	filePath := filepath.Join(ds.dataDir(), entityType, ds.sanitizeFilename(name)+".yaml")
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{EntityType: entityType, Name: name}
		}
		return fmt.Errorf("failed to delete file %s: %w", filePath, err)
	}

	logging.Debug("Storage", "Deleted %s/%s", entityType, name)
	return nil
}

// List returns the names of all stored entries for the entity type.
func (ds *Storage) List(entityType string) ([]string, error) {
	if entityType == "" {
		return nil, fmt.Errorf("entityType cannot be empty")
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	dir := filepath.Join(ds.dataDir(), entityType)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") {
			names = append(names, strings.TrimSuffix(name, ".yaml"))
		}
	}
	return names, nil
}

// sanitizeFilename strips path separators so entity names cannot escape
// the entity directory.
func (ds *Storage) sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	return name
}

// NotFoundError indicates a stored entity does not exist.
type NotFoundError struct {
	EntityType string
	Name       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entity %s/%s not found", e.EntityType, e.Name)
}
