// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps all entries in a single checksummed JSON document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. Nothing is read or created
// until the first call.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Get implements Store. A missing file is not an error.
func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := loadDocument(s.path)
	if err != nil {
		return "", false, err
	}
	e, ok := doc.Entries[key]
	return e.Value, ok, nil
}

// Set implements Store. A corrupted document is replaced rather than
// merged into.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := loadDocument(s.path)
	if err != nil {
		doc = newDocument()
	}
	doc.Entries[key] = Entry{Value: value, UpdatedAt: time.Now().UTC()}
	return saveDocument(doc, s.path)
}

// Delete implements Store.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := loadDocument(s.path)
	if err != nil {
		return err
	}
	if _, ok := doc.Entries[key]; !ok {
		return nil
	}
	delete(doc.Entries, key)
	return saveDocument(doc, s.path)
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

func newDocument() *Document {
	return &Document{Version: CurrentVersion, Entries: map[string]Entry{}}
}

// saveDocument atomically writes doc using a write-to-temp-and-rename.
func saveDocument(doc *Document, path string) error {
	doc.Version = CurrentVersion
	doc.Checksum = ""

	checksum, err := calculateChecksum(doc)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	doc.Checksum = checksum

	if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755); mkdirErr != nil {
		return fmt.Errorf("failed to create state directory: %w", mkdirErr)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tempFile := path + ".tmp"
	f, err := os.OpenFile(tempFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// loadDocument reads and validates path. A missing file yields an empty
// document.
func loadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newDocument(), nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w (invalid JSON): %v", ErrCorrupt, err)
	}

	if doc.Version != CurrentVersion {
		return nil, fmt.Errorf("state file version (%d) is incompatible with current version (%d)",
			doc.Version, CurrentVersion)
	}

	saved := doc.Checksum
	calculated, err := calculateChecksum(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for validation: %w", err)
	}
	if saved != calculated {
		return nil, fmt.Errorf("%w (checksum mismatch)", ErrCorrupt)
	}
	doc.Checksum = saved

	if doc.Entries == nil {
		doc.Entries = map[string]Entry{}
	}
	return &doc, nil
}

// calculateChecksum hashes doc with the checksum field cleared.
// encoding/json sorts map keys, so the encoding is stable.
func calculateChecksum(doc *Document) (string, error) {
	c := *doc
	c.Checksum = ""

	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
