package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mysomang/mytalk/internal/config"
	"github.com/mysomang/mytalk/internal/script"
)

func TestParseVariantFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    []script.Variant
		wantErr bool
	}{
		{name: "empty means all", value: "", want: []script.Variant{
			script.VariantOriginal, script.VariantBasic, script.VariantTED,
			script.VariantPodcast, script.VariantDialog,
		}},
		{name: "all keyword", value: "all", want: []script.Variant{
			script.VariantOriginal, script.VariantBasic, script.VariantTED,
			script.VariantPodcast, script.VariantDialog,
		}},
		{name: "single", value: "podcast", want: []script.Variant{script.VariantPodcast}},
		{name: "list with spaces", value: "basic, dialog", want: []script.Variant{script.VariantBasic, script.VariantDialog}},
		{name: "unknown variant", value: "lecture", wantErr: true},
		{name: "one bad in list", value: "basic,lecture", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVariantFlag(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	defer func() {
		flagModel, flagTTS, flagVoice1, flagVoice2 = "", "", "", ""
	}()

	s := config.Defaults()
	flagModel = "sonnet"
	flagVoice2 = "shimmer"
	applyFlags(&s)

	assert.Equal(t, "sonnet", s.Model)
	assert.Equal(t, "shimmer", s.Voice2)
	assert.Equal(t, "openai", s.TTSProvider)
	assert.Equal(t, "alloy", s.Voice1)
}

func TestGenerateRejectsPersistedBadCategory(t *testing.T) {
	dir := t.TempDir()
	s := config.Defaults()
	s.DataDir = dir
	s.Category = "Gastronomy"
	require.NoError(t, config.Save(s))

	t.Setenv("OPENAI_API_KEY", "sk-test")
	flagDataDir = dir
	flagInput = "ordering coffee"
	flagScriptOnly = true
	defer func() {
		flagDataDir, flagInput = "", ""
		flagScriptOnly = false
	}()

	err := runGenerate(generateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid category")
}

func TestWizardSelectedVariantNames(t *testing.T) {
	settings := config.Defaults()
	m := newWizardModel(&settings)

	assert.Equal(t, "all", m.selectedVariantNames())

	m.variants["ted"] = false
	m.variants["podcast"] = false
	assert.Equal(t, "original,basic,dialog", m.selectedVariantNames())

	for _, n := range script.VariantNames() {
		m.variants[n] = false
	}
	assert.Equal(t, "", m.selectedVariantNames())
}

func TestWizardDefaultsFromSettings(t *testing.T) {
	settings := config.Defaults()
	settings.Model = "haiku"
	settings.Category = "Travel"

	m := newWizardModel(&settings)
	assert.Equal(t, "haiku", m.items[idxModel].value)
	assert.Equal(t, "Travel", m.items[idxCategory].value)
	assert.Equal(t, "all", m.items[idxVariants].value)
	assert.Equal(t, "scripts + audio", m.items[idxScriptOnly].value)
}
