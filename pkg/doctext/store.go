package doctext

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is an in-memory Provider. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]entry
}

type entry struct {
	text   Text
	source string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[Key]entry)}
}

// Set stores text under key, replacing any previous entry.
func (s *Store) Set(key Key, text Text) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[Key]entry)
	}
	s.entries[key] = entry{text: text}
}

// Describe implements Provider.
func (s *Store) Describe(key Key) (Text, bool) {
	if s == nil {
		return Text{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e.text, ok
}

// Len reports the number of stored descriptions.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns the stored keys in dotted-string order.
func (s *Store) Keys() []Key {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	keys := make([]Key, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	s.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// LoadFile parses a single JSON or YAML documentation file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("doctext: read %s: %w", path, err)
	}
	store := NewStore()
	if err := store.load(data, path); err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFS walks fsys and parses every JSON/YAML documentation file. A key
// defined by two files is an error. A nil fsys yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isDocumentFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("doctext: read %s: %w", path, err)
		}
		return store.load(data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

type documentFile struct {
	Format string               `json:"format" yaml:"format"`
	Groups map[string]groupFile `json:"groups" yaml:"groups"`
}

type groupFile struct {
	Description string                `json:"description" yaml:"description"`
	Format      string                `json:"format" yaml:"format"`
	Actions     map[string]actionFile `json:"actions" yaml:"actions"`
}

type actionFile struct {
	Description string            `json:"description" yaml:"description"`
	Format      string            `json:"format" yaml:"format"`
	Parameters  map[string]string `json:"parameters" yaml:"parameters"`
}

func (s *Store) load(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}
	base, err := ParseFormat(doc.Format)
	if err != nil {
		return fmt.Errorf("doctext: %s: %w", source, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[Key]entry)
	}

	for groupName, group := range doc.Groups {
		groupName = strings.TrimSpace(groupName)
		if groupName == "" {
			return fmt.Errorf("doctext: file %s defines an empty group name", source)
		}
		groupFormat, err := override(base, group.Format, source)
		if err != nil {
			return err
		}
		if err := s.put(GroupKey(groupName), group.Description, groupFormat, source); err != nil {
			return err
		}

		for actionName, action := range group.Actions {
			actionName = strings.TrimSpace(actionName)
			if actionName == "" {
				return fmt.Errorf("doctext: file %s group %q defines an empty action name", source, groupName)
			}
			actionFormat, err := override(groupFormat, action.Format, source)
			if err != nil {
				return err
			}
			if err := s.put(ActionKey(groupName, actionName), action.Description, actionFormat, source); err != nil {
				return err
			}
			for paramName, description := range action.Parameters {
				paramName = strings.TrimSpace(paramName)
				if paramName == "" {
					return fmt.Errorf("doctext: file %s action %q defines an empty parameter name", source, actionName)
				}
				key := ParameterKey(groupName, actionName, paramName)
				if err := s.put(key, description, actionFormat, source); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Store) put(key Key, description string, format Format, source string) error {
	if strings.TrimSpace(description) == "" {
		return nil
	}
	if existing, ok := s.entries[key]; ok {
		return fmt.Errorf("doctext: duplicate description %q (files %s and %s)", key, existing.source, source)
	}
	s.entries[key] = entry{text: Text{Source: description, Format: format}, source: source}
	return nil
}

func override(inherited Format, raw, source string) (Format, error) {
	if strings.TrimSpace(raw) == "" {
		return inherited, nil
	}
	format, err := ParseFormat(raw)
	if err != nil {
		return "", fmt.Errorf("doctext: %s: %w", source, err)
	}
	return format, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("doctext: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("doctext: parse %s: invalid JSON or YAML", source)
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
