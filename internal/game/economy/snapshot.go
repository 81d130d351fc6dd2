package economy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/oakmere/tradewinds/internal/record"
)

// SaveFile writes the engine snapshot to path, creating parent directories
// as needed. The write goes through a temp file so a crash never leaves a
// truncated snapshot behind.
func (e *Engine) SaveFile(path string) error {
	data, err := record.Marshal(e.Snapshot())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

// LoadFile restores the engine from a snapshot file. A missing file is not
// an error; the engine keeps its freshly seeded state.
func (e *Engine) LoadFile(path string, rng *rand.Rand) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	r, err := record.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	e.Restore(r, rng)
	return nil
}
