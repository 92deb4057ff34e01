/*
 * Copyright 2026 Bluekit Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore keeps entries in line-oriented text files, one file per
// adapter and kind (`<root>/<adapter>/<kind>`), each line holding
// `entry value`.
type FileStore struct {
	root string
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}

	return &FileStore{root: root}, nil
}

func (s *FileStore) filePath(adapter, kind string) string {
	// Adapter addresses contain colons; keep directory names plain.
	return filepath.Join(s.root, strings.ReplaceAll(adapter, ":", "-"), kind)
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	adapter, kind, entry, err := SplitKey(key)
	if err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.readLines(s.filePath(adapter, kind))
	if err != nil {
		return "", false, err
	}

	value, ok := lines[entry]

	return value, ok, nil
}

func (s *FileStore) Put(_ context.Context, key, value string) error {
	adapter, kind, entry, err := SplitKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.filePath(adapter, kind)

	lines, err := s.readLines(path)
	if err != nil {
		return err
	}

	lines[entry] = value

	return s.writeLines(path, lines)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	adapter, kind, entry, err := SplitKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.filePath(adapter, kind)

	lines, err := s.readLines(path)
	if err != nil {
		return err
	}

	if _, ok := lines[entry]; !ok {
		return nil
	}

	delete(lines, entry)

	return s.writeLines(path, lines)
}

func (s *FileStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string

	adapters, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read store root: %w", err)
	}

	for _, ad := range adapters {
		if !ad.IsDir() {
			continue
		}

		adapter := strings.ReplaceAll(ad.Name(), "-", ":")

		kinds, err := os.ReadDir(filepath.Join(s.root, ad.Name()))
		if err != nil {
			continue
		}

		for _, k := range kinds {
			if k.IsDir() {
				continue
			}

			lines, err := s.readLines(filepath.Join(s.root, ad.Name(), k.Name()))
			if err != nil {
				continue
			}

			for entry := range lines {
				key := adapter + "/" + k.Name() + "/" + entry
				if strings.HasPrefix(key, prefix) {
					keys = append(keys, key)
				}
			}
		}
	}

	sort.Strings(keys)

	return keys, nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) readLines(path string) (map[string]string, error) {
	lines := make(map[string]string)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return lines, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, value, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}

		lines[entry] = value
	}

	return lines, nil
}

func (s *FileStore) writeLines(path string, lines map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	entries := make([]string, 0, len(lines))
	for entry := range lines {
		entries = append(entries, entry)
	}

	sort.Strings(entries)

	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s %s\n", entry, lines[entry])
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}

	return os.Rename(tmp, path)
}
