package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mysomang/mytalk/internal/config"
	"github.com/mysomang/mytalk/internal/pipeline"
	"github.com/mysomang/mytalk/internal/script"
	"github.com/mysomang/mytalk/internal/store"
	"github.com/mysomang/mytalk/internal/tts"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := webFS.ReadFile("web/index.html")
	if err != nil {
		http.Error(w, "missing UI asset", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cur := s.currentSettings()
		writeJSON(w, map[string]any{
			"model":        cur.Model,
			"tts_provider": cur.TTSProvider,
			"voice1":       cur.Voice1,
			"voice2":       cur.Voice2,
			"category":     cur.Category,
			"models":       script.ModelNames(),
			"providers":    tts.ProviderNames(),
			"categories":   config.Categories(),
		})

	case http.MethodPost:
		var req struct {
			Model       string `json:"model"`
			TTSProvider string `json:"tts_provider"`
			Voice1      string `json:"voice1"`
			Voice2      string `json:"voice2"`
			Category    string `json:"category"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		s.mu.Lock()
		updated := s.settings
		if req.Model != "" {
			updated.Model = req.Model
		}
		if req.TTSProvider != "" {
			updated.TTSProvider = req.TTSProvider
		}
		if req.Voice1 != "" {
			updated.Voice1 = req.Voice1
		}
		if req.Voice2 != "" {
			updated.Voice2 = req.Voice2
		}
		if req.Category != "" {
			updated.Category = req.Category
		}
		if !script.IsValidModel(updated.Model) {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "unknown model "+updated.Model)
			return
		}
		if _, err := tts.AvailableVoices(updated.TTSProvider); err != nil {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "unknown TTS provider "+updated.TTSProvider)
			return
		}
		if !config.IsValidCategory(updated.Category) {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "unknown category "+updated.Category)
			return
		}
		s.settings = updated
		s.mu.Unlock()

		if err := config.Save(updated); err != nil {
			s.logger.Warn("persist settings failed", "error", err)
		}
		writeJSON(w, map[string]string{"status": "saved"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	entries, err := s.store.Projects(store.ListOptions{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []store.IndexEntry{}
	}
	writeJSON(w, map[string]any{"projects": entries})
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/projects/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.store.Load(id)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, p.Meta)

	case http.MethodDelete:
		if err := s.store.Delete(id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type generateScriptRequest struct {
	Input     string   `json:"input"`
	Variants  []string `json:"variants"`
	Category  string   `json:"category"`
	ProjectID string   `json:"project_id"`
}

func (s *Server) handleGenerateScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req generateScriptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}
	variants, err := parseVariants(req.Variants)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	settings := s.currentSettings()
	category := req.Category
	if category == "" {
		category = settings.Category
	}

	project, err := pipeline.Run(r.Context(), s.store, pipeline.Options{
		Input:      req.Input,
		Variants:   variants,
		Category:   category,
		ScriptOnly: true,
		ProjectID:  req.ProjectID,
		Settings:   settings,
		Logger:     s.logger,
		Generator:  s.generator,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, project.Meta)
}

type generateAudioRequest struct {
	ProjectID string   `json:"project_id"`
	Variants  []string `json:"variants"`
}

func (s *Server) handleGenerateAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req generateAudioRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	project, err := s.store.Load(req.ProjectID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	names := req.Variants
	if len(names) == 0 {
		names = project.Meta.Versions
	}
	if len(names) == 0 {
		writeError(w, http.StatusBadRequest, "project has no saved scripts")
		return
	}
	variants, err := parseVariants(names)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = pipeline.VoiceSaved(r.Context(), s.store, project, variants, pipeline.Options{
		Settings:  s.currentSettings(),
		Logger:    s.logger,
		Provider:  s.provider,
		Assembler: s.assembler,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	reloaded, err := s.store.Load(project.Meta.ProjectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, reloaded.Meta)
}

func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	provider := r.URL.Query().Get("provider")
	if provider == "" {
		provider = s.currentSettings().TTSProvider
	}
	voices, err := tts.AvailableVoices(provider)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, map[string]any{"provider": provider, "voices": voices})
}

func parseVariants(names []string) ([]script.Variant, error) {
	if len(names) == 0 {
		names = script.VariantNames()
	}
	variants := make([]script.Variant, 0, len(names))
	for _, n := range names {
		if !script.IsValidVariant(n) {
			return nil, &badVariantError{name: n}
		}
		variants = append(variants, script.Variant(n))
	}
	return variants, nil
}

type badVariantError struct{ name string }

func (e *badVariantError) Error() string {
	return "unknown variant " + e.name
}
