package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the history as a JSON array on disk.
type FileStore struct {
	filePath string
	mu       sync.Mutex
}

// NewFileStore creates a new JSON file store
func NewFileStore(filePath string) *FileStore {
	return &FileStore{filePath: filePath}
}

// rawEntry tolerates non-string dates so such entries are not lost.
type rawEntry struct {
	Title         string          `json:"title"`
	Link          string          `json:"link"`
	PublishedDate json.RawMessage `json:"published_date"`
}

// Load reads the history file. A missing or empty file is an empty history.
// Array elements that are not objects are skipped.
func (fs *FileStore) Load(_ context.Context) ([]Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, fs.filePath, err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			continue
		}
		var raw rawEntry
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		entries = append(entries, Entry{
			Title:         raw.Title,
			Link:          raw.Link,
			PublishedDate: rawDate(raw.PublishedDate),
		})
	}
	return entries, nil
}

func rawDate(msg json.RawMessage) string {
	if len(msg) == 0 || string(msg) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	return string(msg)
}

// Save replaces the file contents with entries (write to temp, then rename).
func (fs *FileStore) Save(_ context.Context, entries []Entry) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if dir := filepath.Dir(fs.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create history dir: %w", err)
		}
	}
	tmp := fs.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := os.Rename(tmp, fs.filePath); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}

func (fs *FileStore) Close() error { return nil }

func (fs *FileStore) String() string { return "file:" + fs.filePath }
