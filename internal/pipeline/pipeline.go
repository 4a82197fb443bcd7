// Package pipeline orchestrates the full run: ingest input, generate
// script variants, translate, synthesize audio, assemble dialogue
// tracks, and persist the project.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mysomang/mytalk/internal/assembly"
	"github.com/mysomang/mytalk/internal/config"
	"github.com/mysomang/mytalk/internal/dialogue"
	"github.com/mysomang/mytalk/internal/ingest"
	"github.com/mysomang/mytalk/internal/progress"
	"github.com/mysomang/mytalk/internal/script"
	"github.com/mysomang/mytalk/internal/store"
	"github.com/mysomang/mytalk/internal/tts"
)

// Options configures a pipeline run. Generator, Provider, and Assembler
// are built from Settings when nil; tests inject fakes through them.
type Options struct {
	Input           string
	Variants        []script.Variant
	Category        string
	ScriptOnly      bool
	SkipTranslation bool
	ProjectID       string // update this project instead of creating one
	Settings        config.Settings

	Generator script.Generator
	Provider  tts.Provider
	Assembler *assembly.FFmpegAssembler

	Progress progress.Callback
	Logger   *slog.Logger
}

// PipelineError wraps a failure with the stage it happened in.
type PipelineError struct {
	Stage   string
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run executes the pipeline and returns the saved project. A variant
// that fails to generate is skipped; translation and audio failures
// degrade the result without aborting it.
func Run(ctx context.Context, st *store.Store, opts Options) (*store.Project, error) {
	start := time.Now()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if opts.Progress == nil {
		opts.Progress = progress.NopCallback
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.Variants) == 0 {
		return nil, &PipelineError{Stage: "script", Message: "no variants selected"}
	}
	if err := st.Init(); err != nil {
		return nil, &PipelineError{Stage: "save", Message: "prepare data dir", Err: err}
	}

	gen := opts.Generator
	if gen == nil {
		var err error
		gen, err = script.NewGenerator(opts.Settings.Model)
		if err != nil {
			return nil, &PipelineError{Stage: "script", Message: "create generator", Err: err}
		}
	}

	opts.Progress(progress.NewEvent(progress.StageScript, "Reading input", 0, start))
	content, err := ingest.Ingest(ctx, opts.Input)
	if err != nil {
		return nil, &PipelineError{Stage: "script", Message: "read input", Err: err}
	}

	scripts, genErrs := generateVariants(ctx, gen, content, opts, start)
	if len(scripts) == 0 {
		return nil, &PipelineError{
			Stage:   "script",
			Message: fmt.Sprintf("all %d variants failed", len(opts.Variants)),
			Err:     genErrs,
		}
	}

	project, err := openProject(st, scripts[0], content, opts)
	if err != nil {
		return nil, &PipelineError{Stage: "save", Message: "open project", Err: err}
	}

	for _, sc := range scripts {
		if err := st.SaveVariant(project, sc); err != nil {
			return nil, &PipelineError{Stage: "save", Message: "save " + string(sc.Variant) + " script", Err: err}
		}
	}

	var audioDuration string
	if !opts.ScriptOnly {
		audioDuration, err = synthesizeAll(ctx, st, project, scripts, opts, start)
		if err != nil {
			return nil, err
		}
	}

	opts.Progress(progress.Event{
		Stage:      progress.StageComplete,
		Message:    "Done",
		Percent:    1,
		Elapsed:    time.Since(start),
		ProjectDir: project.Dir,
		Duration:   audioDuration,
	})
	return project, nil
}

// VoiceSaved synthesizes audio for script variants already saved in a
// project, reading the script text back from the project files.
func VoiceSaved(ctx context.Context, st *store.Store, project *store.Project, variants []script.Variant, opts Options) error {
	start := time.Now()
	if opts.Progress == nil {
		opts.Progress = progress.NopCallback
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var scripts []*script.Script
	for _, v := range variants {
		path := filepath.Join(project.Dir, string(v)+"_script.txt")
		data, err := os.ReadFile(path)
		if err != nil {
			return &PipelineError{Stage: "tts", Message: "read saved " + string(v) + " script", Err: err}
		}
		scripts = append(scripts, &script.Script{Variant: v, Text: string(data)})
	}
	_, err := synthesizeAll(ctx, st, project, scripts, opts, start)
	return err
}

// generateVariants produces each requested script. Failures are
// collected, logged, and skipped.
func generateVariants(ctx context.Context, gen script.Generator, content *ingest.Content, opts Options, start time.Time) ([]*script.Script, error) {
	var scripts []*script.Script
	var firstErr error

	for i, v := range opts.Variants {
		pct := float64(i) / float64(len(opts.Variants)) * 0.4
		opts.Progress(progress.NewEvent(progress.StageScript,
			fmt.Sprintf("Generating %s script", script.VariantLabel(v)), pct, start))

		sc, err := script.Generate(ctx, gen, v, content.Text, script.GenerateOptions{
			Category:    opts.Category,
			InputMethod: content.Method.String(),
		})
		if err != nil {
			if ctx.Err() != nil {
				return scripts, ctx.Err()
			}
			opts.Logger.Warn("variant generation failed, skipping", "variant", v, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if !opts.SkipTranslation {
			opts.Progress(progress.NewEvent(progress.StageTranslate,
				fmt.Sprintf("Translating %s script", script.VariantLabel(v)), pct+0.05, start))
			if err := script.Translate(ctx, gen, sc); err != nil {
				opts.Logger.Warn("translation failed, continuing without it", "variant", v, "error", err)
			}
		}

		scripts = append(scripts, sc)
	}
	return scripts, firstErr
}

// openProject loads the project named by ProjectID, or creates a fresh
// one titled after the first generated script.
func openProject(st *store.Store, first *script.Script, content *ingest.Content, opts Options) (*store.Project, error) {
	if opts.ProjectID != "" {
		return st.Load(opts.ProjectID)
	}
	return st.Create(first.Title, first.KoreanTitle, opts.Category, content.Method.String(), content.Text)
}

// synthesizeAll voices every generated script and assembles dialogue
// tracks. Failures leave the project in a degraded but saved state. The
// returned string is the last merged track's duration, "" if none.
func synthesizeAll(ctx context.Context, st *store.Store, project *store.Project, scripts []*script.Script, opts Options, start time.Time) (string, error) {
	provider := opts.Provider
	if provider == nil {
		var err error
		provider, err = tts.NewProvider(opts.Settings.TTSProvider, "", "")
		if err != nil {
			return "", &PipelineError{Stage: "tts", Message: "create TTS provider", Err: err}
		}
		defer provider.Close()
	}
	assembler := opts.Assembler
	if assembler == nil {
		assembler = assembly.NewFFmpegAssembler()
	}

	voices := providerVoices(provider, opts.Settings)

	tmpDir, err := os.MkdirTemp("", "mytalk-*")
	if err != nil {
		return "", &PipelineError{Stage: "assembly", Message: "create temp dir", Err: err}
	}
	defer os.RemoveAll(tmpDir)

	var duration string
	for i, sc := range scripts {
		pct := 0.5 + float64(i)/float64(len(scripts))*0.4
		opts.Progress(progress.NewEvent(progress.StageTTS,
			fmt.Sprintf("Voicing %s script", script.VariantLabel(sc.Variant)), pct, start))

		if sc.Variant.IsDialogue() {
			d, err := assembleDialogue(ctx, st, project, sc, provider, assembler, voices, tmpDir, opts, start)
			if err != nil {
				return duration, err
			}
			if d != "" {
				duration = d
			}
			continue
		}

		cleaned := dialogue.CleanForSpeech(sc.Text)
		path := project.NarrationPath(sc.Variant)
		if err := tts.SynthesizeText(ctx, provider, cleaned, voices.ForVariant(sc.Variant), path); err != nil {
			if ctx.Err() != nil {
				return duration, ctx.Err()
			}
			opts.Logger.Warn("narration synthesis failed, keeping text only", "variant", sc.Variant, "error", err)
			continue
		}
		if err := st.RecordAudio(project, sc.Variant, []string{path}); err != nil {
			return duration, &PipelineError{Stage: "save", Message: "record audio", Err: err}
		}
	}
	return duration, nil
}

// assembleDialogue runs the extract, per-turn synth, concat chain for
// one dialogue variant. It returns the merged track's duration.
func assembleDialogue(ctx context.Context, st *store.Store, project *store.Project, sc *script.Script, provider tts.Provider, assembler *assembly.FFmpegAssembler, voices tts.VoicePair, tmpDir string, opts Options, start time.Time) (string, error) {
	kind := dialogue.KindPodcast
	if sc.Variant == script.VariantDialog {
		kind = dialogue.KindDialog
	}
	turns := dialogue.ExtractTurns(sc.Text, kind)
	if len(turns) == 0 {
		opts.Logger.Warn("no voiceable turns in dialogue script", "variant", sc.Variant)
		return "", nil
	}

	sentencesDir := project.SentencesDir(sc.Variant)
	if err := os.MkdirAll(sentencesDir, 0755); err != nil {
		return "", &PipelineError{Stage: "tts", Message: "create sentences dir", Err: err}
	}

	results, err := tts.SynthesizeTurns(ctx, provider, turns, voices, sentencesDir, opts.Logger, func(done, total int) {
		opts.Progress(progress.Event{
			Stage:     progress.StageTTS,
			Message:   fmt.Sprintf("Voicing %s turns", script.VariantLabel(sc.Variant)),
			Percent:   0.5 + 0.4*float64(done)/float64(total),
			TurnNum:   done,
			TurnTotal: total,
			Elapsed:   time.Since(start),
		})
	})
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		opts.Logger.Warn("every turn failed to synthesize", "variant", sc.Variant)
		return "", nil
	}

	opts.Progress(progress.NewEvent(progress.StageAssembly,
		fmt.Sprintf("Merging %s track", script.VariantLabel(sc.Variant)), 0.92, start))

	files := make([]string, 0, len(results)+1)
	var duration string
	track, mergeErr := assembler.Assemble(ctx, results, tmpDir, project.MergedPath(sc.Variant), opts.Logger)
	if mergeErr != nil {
		opts.Logger.Warn("merge failed, keeping per-turn clips", "variant", sc.Variant, "error", mergeErr)
	}
	if track.Merged() {
		files = append(files, track.MergedPath)
		duration = assembler.Duration(track.MergedPath)
	}
	for _, r := range track.Results {
		files = append(files, r.Path)
	}

	if err := st.RecordAudio(project, sc.Variant, files); err != nil {
		return "", &PipelineError{Stage: "save", Message: "record audio", Err: err}
	}
	return duration, nil
}

// providerVoices applies configured voice overrides on top of the
// provider defaults. An override naming a voice the provider does not
// offer is ignored, so switching providers never carries a stale voice.
func providerVoices(p tts.Provider, s config.Settings) tts.VoicePair {
	voices := p.DefaultVoices()
	if v, ok := resolveVoice(p.Name(), s.Voice1); ok {
		voices.Voice1 = v
	}
	if v, ok := resolveVoice(p.Name(), s.Voice2); ok {
		voices.Voice2 = v
	}
	return voices
}

func resolveVoice(providerName, id string) (tts.Voice, bool) {
	if id == "" {
		return tts.Voice{}, false
	}
	catalog, err := tts.AvailableVoices(providerName)
	if err != nil {
		return tts.Voice{ID: id, Name: id}, true
	}
	for _, v := range catalog {
		if v.ID == id {
			return tts.Voice{ID: v.ID, Name: v.Name}, true
		}
	}
	return tts.Voice{}, false
}
