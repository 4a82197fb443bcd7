// Package store persists generated projects: a JSON index of all
// projects plus one directory per project holding scripts, translations,
// audio, and a metadata descriptor.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	indexFile  = "project_index.json"
	scriptsDir = "scripts"
)

// IndexEntry is one row of the project index.
type IndexEntry struct {
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	ProjectPath string    `json:"project_path"` // relative to the data dir
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type index struct {
	Projects []IndexEntry `json:"projects"`
}

// Store manages a data directory.
type Store struct {
	dataDir string
}

func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// DataDir returns the root directory the store writes under.
func (s *Store) DataDir() string { return s.dataDir }

// Init creates the data directory layout.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Join(s.dataDir, scriptsDir), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

// NewID returns a fresh sortable project identifier.
func NewID() string {
	return ulid.Make().String()
}

// ListOptions narrows and orders the project listing.
type ListOptions struct {
	Search   string // case-insensitive title substring
	Category string // exact category match, empty = all
	Sort     string // "newest" (default) or "title"
}

// Projects returns index entries matching opts.
func (s *Store) Projects(opts ListOptions) ([]IndexEntry, error) {
	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	var out []IndexEntry
	for _, e := range idx.Projects {
		if opts.Search != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(opts.Search)) {
			continue
		}
		if opts.Category != "" && e.Category != opts.Category {
			continue
		}
		out = append(out, e)
	}

	switch opts.Sort {
	case "title":
		sort.Slice(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	default: // newest
		sort.Slice(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out, nil
}

// Entry returns the index entry for a project ID.
func (s *Store) Entry(projectID string) (IndexEntry, error) {
	idx, err := s.loadIndex()
	if err != nil {
		return IndexEntry{}, err
	}
	for _, e := range idx.Projects {
		if e.ProjectID == projectID {
			return e, nil
		}
	}
	return IndexEntry{}, fmt.Errorf("project %s not found", projectID)
}

// Delete removes a project directory and its index entry.
func (s *Store) Delete(projectID string) error {
	idx, err := s.loadIndex()
	if err != nil {
		return err
	}

	found := -1
	for i, e := range idx.Projects {
		if e.ProjectID == projectID {
			found = i
			break
		}
	}
	if found == -1 {
		return fmt.Errorf("project %s not found", projectID)
	}

	dir := filepath.Join(s.dataDir, idx.Projects[found].ProjectPath)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove project dir: %w", err)
	}

	idx.Projects = append(idx.Projects[:found], idx.Projects[found+1:]...)
	return s.saveIndex(idx)
}

func (s *Store) loadIndex() (*index, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, indexFile))
	if os.IsNotExist(err) {
		return &index{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read project index: %w", err)
	}
	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse project index: %w", err)
	}
	return &idx, nil
}

func (s *Store) saveIndex(idx *index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dataDir, indexFile), data, 0644); err != nil {
		return fmt.Errorf("write project index: %w", err)
	}
	return nil
}

// upsertEntry inserts or refreshes an index entry, keeping newest first.
func (s *Store) upsertEntry(e IndexEntry) error {
	idx, err := s.loadIndex()
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range idx.Projects {
		if existing.ProjectID == e.ProjectID {
			idx.Projects[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		idx.Projects = append([]IndexEntry{e}, idx.Projects...)
	}
	return s.saveIndex(idx)
}
