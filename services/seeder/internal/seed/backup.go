package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/02loveslollipop/pollbooth/services/seeder/internal/models"
)

// WriteBackup dumps the assembly-name keyed records as indented JSON. The
// file is written to a temporary sibling first and renamed into place.
func WriteBackup(path string, blocks models.AssemblyBlocks) error {
	if blocks == nil {
		blocks = models.AssemblyBlocks{}
	}
	data, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod backup: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move backup into place: %w", err)
	}
	return nil
}
