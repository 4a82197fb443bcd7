// Package cli implements the mytalk command tree.
package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mysomang/mytalk/internal/config"
	"github.com/mysomang/mytalk/internal/observability"
	"github.com/mysomang/mytalk/internal/pipeline"
	"github.com/mysomang/mytalk/internal/progress"
	"github.com/mysomang/mytalk/internal/script"
	"github.com/mysomang/mytalk/internal/store"
	"github.com/mysomang/mytalk/internal/tts"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mytalk",
	Short: "Turn any topic into English-learning scripts with voiced audio",
	RunE: func(cmd *cobra.Command, args []string) error {
		flagTUI = true
		return runGenerate(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mytalk %s\n", Version)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate script variants (and audio) from a topic, file, PDF, or URL",
	RunE:  runGenerate,
}

var listVoicesCmd = &cobra.Command{
	Use:   "list-voices",
	Short: "List available voices for all TTS providers",
	RunE:  runListVoices,
}

var (
	flagInput       string
	flagVariants    string
	flagCategory    string
	flagModel       string
	flagTTS         string
	flagVoice1      string
	flagVoice2      string
	flagScriptOnly  bool
	flagFromScript  bool
	flagNoTranslate bool
	flagProject     string
	flagDataDir     string
	flagVerbose     bool
	flagTUI         bool
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(listVoicesCmd)

	generateCmd.Flags().StringVarP(&flagInput, "input", "i", "", "Topic text, text/markdown file, PDF path, or URL")
	generateCmd.Flags().StringVarP(&flagVariants, "variants", "V", "", "Script variants to generate (comma-separated): original, basic, ted, podcast, dialog (default all)")
	generateCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "Topic category: General, Business, Travel, Education, Health, Technology, Culture, Sports")
	generateCmd.Flags().StringVarP(&flagModel, "model", "m", "", "Script generation model: gpt-4o-mini, gpt-4o, haiku, sonnet")
	generateCmd.Flags().StringVarP(&flagTTS, "tts", "T", "", "TTS provider: openai, elevenlabs, or google")
	generateCmd.Flags().StringVarP(&flagVoice1, "voice1", "1", "", "Voice for narration, Host, and A (provider voice ID)")
	generateCmd.Flags().StringVarP(&flagVoice2, "voice2", "2", "", "Voice for TED scripts, Guest, and B (provider voice ID)")
	generateCmd.Flags().BoolVarP(&flagScriptOnly, "script-only", "S", false, "Save scripts only, skip TTS and assembly")
	generateCmd.Flags().BoolVar(&flagFromScript, "from-script", false, "Voice the scripts already saved in --project instead of generating new ones")
	generateCmd.Flags().BoolVar(&flagNoTranslate, "no-translate", false, "Skip the Korean translation pass")
	generateCmd.Flags().StringVarP(&flagProject, "project", "p", "", "Add generated variants to an existing project ID")
	generateCmd.Flags().StringVarP(&flagDataDir, "data-dir", "D", "", "Data directory (default mytalk_data)")
	generateCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable detailed logging")
	generateCmd.Flags().BoolVarP(&flagTUI, "tui", "t", false, "Interactive setup wizard for generation options")
}

func Execute() error {
	return rootCmd.Execute()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(flagDataDir)
	if err != nil {
		return err
	}
	applyFlags(&settings)

	if flagTUI {
		done, err := runInteractiveSetup(&settings)
		if err != nil {
			return err
		}
		if !done {
			return nil
		}
	}

	if flagFromScript {
		return runVoiceSaved(cmd, settings)
	}

	if flagInput == "" {
		return fmt.Errorf("--input (-i) is required")
	}

	variants, err := parseVariantFlag(flagVariants)
	if err != nil {
		return err
	}

	if flagCategory != "" {
		settings.Category = flagCategory
	}

	if err := settings.Validate(); err != nil {
		return err
	}

	if !flagScriptOnly {
		if err := checkFFmpeg(); err != nil {
			return err
		}
	}

	logger := observability.NewLogger(flagVerbose)

	opts := pipeline.Options{
		Input:           flagInput,
		Variants:        variants,
		Category:        settings.Category,
		ScriptOnly:      flagScriptOnly,
		SkipTranslation: flagNoTranslate,
		ProjectID:       flagProject,
		Settings:        settings,
		Logger:          logger,
	}

	if !flagVerbose {
		r := progress.NewBarRenderer(os.Stdout)
		defer r.Finish()
		opts.Progress = r.Handle
	}

	st := store.New(settings.DataDir)
	_, err = pipeline.Run(cmd.Context(), st, opts)
	return err
}

// runVoiceSaved re-voices scripts already saved in a project without
// regenerating them.
func runVoiceSaved(cmd *cobra.Command, settings config.Settings) error {
	if flagProject == "" {
		return fmt.Errorf("--from-script requires --project (-p)")
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := checkFFmpeg(); err != nil {
		return err
	}

	st := store.New(settings.DataDir)
	project, err := st.Load(flagProject)
	if err != nil {
		return err
	}

	var variants []script.Variant
	if flagVariants == "" {
		for _, v := range project.Meta.Versions {
			variants = append(variants, script.Variant(v))
		}
		if len(variants) == 0 {
			return fmt.Errorf("project %s has no saved scripts", flagProject)
		}
	} else {
		variants, err = parseVariantFlag(flagVariants)
		if err != nil {
			return err
		}
	}

	logger := observability.NewLogger(flagVerbose)
	opts := pipeline.Options{Settings: settings, Logger: logger}
	if !flagVerbose {
		r := progress.NewBarRenderer(os.Stdout)
		defer r.Finish()
		opts.Progress = r.Handle
	}
	return pipeline.VoiceSaved(cmd.Context(), st, project, variants, opts)
}

// applyFlags lays explicit flag values over the loaded settings.
func applyFlags(s *config.Settings) {
	if flagModel != "" {
		s.Model = flagModel
	}
	if flagTTS != "" {
		s.TTSProvider = flagTTS
	}
	if flagVoice1 != "" {
		s.Voice1 = flagVoice1
	}
	if flagVoice2 != "" {
		s.Voice2 = flagVoice2
	}
}

func parseVariantFlag(value string) ([]script.Variant, error) {
	if value == "" || value == "all" {
		var all []script.Variant
		for _, n := range script.VariantNames() {
			all = append(all, script.Variant(n))
		}
		return all, nil
	}

	var variants []script.Variant
	for _, n := range strings.Split(value, ",") {
		n = strings.TrimSpace(n)
		if !script.IsValidVariant(n) {
			return nil, fmt.Errorf("invalid variant %q: must be one of %s", n, strings.Join(script.VariantNames(), ", "))
		}
		variants = append(variants, script.Variant(n))
	}
	return variants, nil
}

func runListVoices(cmd *cobra.Command, args []string) error {
	labels := map[string]string{
		"openai":     "OPENAI (tts-1)",
		"elevenlabs": "ELEVENLABS",
		"google":     "GOOGLE CLOUD TTS",
	}

	fmt.Println("\nAvailable voices:")

	for _, name := range tts.ProviderNames() {
		voices, err := tts.AvailableVoices(name)
		if err != nil {
			return err
		}

		fmt.Printf("\n  %s\n", labels[name])
		fmt.Printf("  %s\n", strings.Repeat("─", 50))
		fmt.Printf("  %-28s %-12s %-8s %s\n", "ID", "NAME", "GENDER", "DESCRIPTION")
		for _, v := range voices {
			def := ""
			if v.DefaultFor != "" {
				def = fmt.Sprintf(" (default %s)", v.DefaultFor)
			}
			fmt.Printf("  %-28s %-12s %-8s %s%s\n", v.ID, v.Name, v.Gender, v.Description, def)
		}
	}
	fmt.Println()
	return nil
}

func checkFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("FFmpeg not found: install it to generate audio, or pass --script-only")
	}
	return nil
}
