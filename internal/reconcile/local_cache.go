package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cache mirrors remote documents on local disk so state survives the remote
// store being unreachable. Remote paths map to files under the cache
// directory with path separators flattened.
type Cache struct {
	directory string
}

func NewCache(directory string) *Cache {
	return &Cache{directory: directory}
}

func (c *Cache) filePath(remotePath string) string {
	name := strings.ReplaceAll(remotePath, "/", "_")
	return filepath.Join(c.directory, name)
}

// Read returns the cached contents for a remote path, reporting absence
// instead of an error.
func (c *Cache) Read(remotePath string) ([]byte, bool) {
	contents, err := os.ReadFile(c.filePath(remotePath))
	if err != nil {
		return nil, false
	}
	return contents, true
}

func (c *Cache) Write(remotePath string, contents []byte) error {
	if err := os.MkdirAll(c.directory, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}
	if err := os.WriteFile(c.filePath(remotePath), contents, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile > %w", err)
	}
	return nil
}
