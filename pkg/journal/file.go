package journal

import (
	"fmt"
	"os"
	"sync"
)

// DefaultMaxSize is the size at which a FileJournal rotates (16 MiB).
const DefaultMaxSize int64 = 16 << 20

// FileConfig configures a FileJournal.
type FileConfig struct {
	// Path is the journal file. It is created with permissions 0644 and
	// appended to if it exists.
	Path string

	// MaxSize rotates the file to Path+".1" before an event would take it
	// past this many bytes (default: DefaultMaxSize). Only one rotated file
	// is kept. Negative disables rotation.
	MaxSize int64

	// NoSync disables the fsync after subscription, transition, command and
	// error events. Notifications are never synced.
	NoSync bool
}

// FileJournal appends events to a file for the lifetime of the daemon.
// It is safe for concurrent use from multiple goroutines.
type FileJournal struct {
	config FileConfig

	mu      sync.Mutex
	file    *os.File
	size    int64
	failed  int
	rotated int
	closed  bool
}

// NewFileJournal opens path with the default rotation and sync policy.
func NewFileJournal(path string) (*FileJournal, error) {
	return OpenFile(FileConfig{Path: path})
}

// OpenFile opens the journal described by cfg.
func OpenFile(cfg FileConfig) (*FileJournal, error) {
	if cfg.MaxSize == 0 {
		cfg.MaxSize = DefaultMaxSize
	}

	j := &FileJournal{config: cfg}
	if err := j.openLocked(); err != nil {
		return nil, err
	}
	return j, nil
}

// Log writes an event to the file. Failures are counted, never returned:
// the journal must not disrupt the bridge.
func (j *FileJournal) Log(event Event) {
	data, err := marshal(event)

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return
	}
	if err != nil {
		j.failed++
		return
	}
	if j.file == nil {
		// A failed rotation left no file open; try again on every event.
		if err := j.openLocked(); err != nil {
			j.failed++
			return
		}
	}

	if j.config.MaxSize > 0 && j.size > 0 && j.size+int64(len(data)) > j.config.MaxSize {
		if err := j.rotateLocked(); err != nil {
			j.failed++
			if j.file == nil {
				return
			}
		}
	}

	n, err := j.file.Write(data)
	j.size += int64(n)
	if err != nil {
		j.failed++
		return
	}

	if !j.config.NoSync && event.Category != CategoryNotification {
		if err := j.file.Sync(); err != nil {
			j.failed++
		}
	}
}

// FileStats reports write activity of a FileJournal.
type FileStats struct {
	// Size is the current file size in bytes.
	Size int64

	// Failed counts events that could not be written or synced.
	Failed int

	// Rotations counts how often the file was rotated.
	Rotations int
}

// Stats returns write counters.
func (j *FileJournal) Stats() FileStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	return FileStats{Size: j.size, Failed: j.failed, Rotations: j.rotated}
}

// Close closes the file. Subsequent Log calls are ignored.
// It is safe to call Close multiple times.
func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

func (j *FileJournal) openLocked() error {
	f, err := os.OpenFile(j.config.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	j.file = f
	j.size = info.Size()
	return nil
}

// rotateLocked moves the current file aside and starts a new one. If the
// rename fails the current file is kept and grows past MaxSize.
func (j *FileJournal) rotateLocked() error {
	if err := j.file.Close(); err != nil {
		j.file = nil
		return j.openLocked()
	}
	j.file = nil

	renameErr := os.Rename(j.config.Path, j.config.Path+".1")
	if err := j.openLocked(); err != nil {
		return err
	}
	if renameErr != nil {
		return fmt.Errorf("rotate journal: %w", renameErr)
	}
	j.rotated++
	return nil
}

// Compile-time interface satisfaction check.
var _ Journal = (*FileJournal)(nil)
