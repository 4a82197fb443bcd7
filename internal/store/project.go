package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mysomang/mytalk/internal/script"
)

const (
	metadataFile = "metadata.json"
	audioDir     = "audio"
)

// Metadata is the per-project descriptor.
type Metadata struct {
	ProjectID    string              `json:"project_id"`
	Title        string              `json:"title"`
	KoreanTitle  string              `json:"korean_title,omitempty"`
	Category     string              `json:"category"`
	InputMethod  string              `json:"input_method"`
	InputContent string              `json:"input_content"`
	Versions     []string            `json:"versions"`
	SavedFiles   map[string][]string `json:"saved_files"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Project is a loaded project: its descriptor plus the absolute
// directory it lives in.
type Project struct {
	Meta Metadata
	Dir  string
}

// Create allocates a new project directory and index entry.
func (s *Store) Create(title, koreanTitle, category, inputMethod, inputContent string) (*Project, error) {
	id := NewID()
	relPath := filepath.Join(scriptsDir, id+"_"+SanitizeTitle(title))
	dir := filepath.Join(s.dataDir, relPath)

	if err := os.MkdirAll(filepath.Join(dir, audioDir), 0755); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}

	now := time.Now()
	p := &Project{
		Meta: Metadata{
			ProjectID:    id,
			Title:        title,
			KoreanTitle:  koreanTitle,
			Category:     category,
			InputMethod:  inputMethod,
			InputContent: inputContent,
			SavedFiles:   map[string][]string{},
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		Dir: dir,
	}
	if err := s.saveMetadata(p); err != nil {
		return nil, err
	}

	if err := s.upsertEntry(IndexEntry{
		ProjectID:   id,
		Title:       title,
		Category:    category,
		ProjectPath: relPath,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads a project by ID.
func (s *Store) Load(projectID string) (*Project, error) {
	entry, err := s.Entry(projectID)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.dataDir, entry.ProjectPath)
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, fmt.Errorf("read project metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse project metadata: %w", err)
	}
	return &Project{Meta: meta, Dir: dir}, nil
}

// SaveVariant writes a script variant's text files into the project and
// records them in the metadata. Calling it again for the same variant
// overwrites the files; versions accumulate across variants.
func (s *Store) SaveVariant(p *Project, sc *script.Script) error {
	variant := string(sc.Variant)
	var files []string

	scriptPath := filepath.Join(p.Dir, variant+"_script.txt")
	if err := os.WriteFile(scriptPath, []byte(sc.Text), 0644); err != nil {
		return fmt.Errorf("write %s script: %w", variant, err)
	}
	files = append(files, filepath.Base(scriptPath))

	if sc.Translation != "" {
		trPath := filepath.Join(p.Dir, variant+"_korean_translation.txt")
		if err := os.WriteFile(trPath, []byte(sc.Translation), 0644); err != nil {
			return fmt.Errorf("write %s translation: %w", variant, err)
		}
		files = append(files, filepath.Base(trPath))
	}

	if !hasVersion(p.Meta.Versions, variant) {
		p.Meta.Versions = append(p.Meta.Versions, variant)
	}
	p.Meta.SavedFiles[variant] = files
	return s.touch(p)
}

// RecordAudio registers audio files produced for a variant.
func (s *Store) RecordAudio(p *Project, variant script.Variant, files []string) error {
	key := string(variant) + "_audio"
	rel := make([]string, 0, len(files))
	for _, f := range files {
		if r, err := filepath.Rel(p.Dir, f); err == nil {
			rel = append(rel, r)
		} else {
			rel = append(rel, f)
		}
	}
	p.Meta.SavedFiles[key] = rel
	return s.touch(p)
}

// NarrationPath is where a single-voice variant's audio lives.
func (p *Project) NarrationPath(v script.Variant) string {
	return filepath.Join(p.Dir, audioDir, string(v)+"_audio.mp3")
}

// MergedPath is where a dialogue variant's merged track lives.
func (p *Project) MergedPath(v script.Variant) string {
	return filepath.Join(p.Dir, audioDir, string(v)+"_merged_dialogue.mp3")
}

// SentencesDir is where a dialogue variant's per-turn clips live.
func (p *Project) SentencesDir(v script.Variant) string {
	return filepath.Join(p.Dir, audioDir, string(v)+"_sentences")
}

// touch persists metadata and refreshes the index timestamps.
func (s *Store) touch(p *Project) error {
	p.Meta.UpdatedAt = time.Now()
	if err := s.saveMetadata(p); err != nil {
		return err
	}

	entry, err := s.Entry(p.Meta.ProjectID)
	if err != nil {
		return err
	}
	entry.UpdatedAt = p.Meta.UpdatedAt
	entry.Title = p.Meta.Title
	return s.upsertEntry(entry)
}

func (s *Store) saveMetadata(p *Project) error {
	data, err := json.MarshalIndent(p.Meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(p.Dir, metadataFile), data, 0644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

func hasVersion(versions []string, v string) bool {
	for _, existing := range versions {
		if existing == v {
			return true
		}
	}
	return false
}
