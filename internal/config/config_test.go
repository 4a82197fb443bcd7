package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", s.Model)
	assert.Equal(t, "openai", s.TTSProvider)
	assert.Equal(t, "alloy", s.Voice1)
	assert.Equal(t, "nova", s.Voice2)
	assert.Equal(t, dir, s.DataDir)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := Defaults()
	s.DataDir = dir
	s.Model = "haiku"
	s.Voice1 = "onyx"
	require.NoError(t, Save(s))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "haiku", loaded.Model)
	assert.Equal(t, "onyx", loaded.Voice1)
	assert.Equal(t, "nova", loaded.Voice2)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()

	s := Defaults()
	s.DataDir = dir
	s.Model = "gpt-4o"
	require.NoError(t, Save(s))

	t.Setenv("MYTALK_MODEL", "sonnet")
	t.Setenv("MYTALK_VOICE2", "shimmer")

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sonnet", loaded.Model)
	assert.Equal(t, "shimmer", loaded.Voice2)
}

func TestEnvDataDirReadsItsSettingsFile(t *testing.T) {
	dir := t.TempDir()

	s := Defaults()
	s.DataDir = dir
	s.Model = "sonnet"
	require.NoError(t, Save(s))

	t.Setenv("MYTALK_DATA_DIR", dir)

	loaded, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, dir, loaded.DataDir)
	assert.Equal(t, "sonnet", loaded.Model)
}

func TestExplicitDataDirBeatsEnv(t *testing.T) {
	flagDir := t.TempDir()
	envDir := t.TempDir()

	s := Defaults()
	s.DataDir = flagDir
	s.Model = "gpt-4o"
	require.NoError(t, Save(s))

	t.Setenv("MYTALK_DATA_DIR", envDir)

	loaded, err := Load(flagDir)
	require.NoError(t, err)
	assert.Equal(t, flagDir, loaded.DataDir)
	assert.Equal(t, "gpt-4o", loaded.Model)
}

func TestSecretsNotPersisted(t *testing.T) {
	dir := t.TempDir()

	s := Defaults()
	s.DataDir = dir
	s.OpenAIKey = "sk-secret"
	require.NoError(t, Save(s))

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-secret")
}

func TestValidate(t *testing.T) {
	valid := Defaults()
	valid.OpenAIKey = "sk-x"
	require.NoError(t, valid.Validate())

	badModel := valid
	badModel.Model = "gpt-9"
	assert.Error(t, badModel.Validate())

	badProvider := valid
	badProvider.TTSProvider = "espeak"
	assert.Error(t, badProvider.Validate())

	badCategory := valid
	badCategory.Category = "Gastronomy"
	err := badCategory.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid category")

	noKey := Defaults()
	err = noKey.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	claude := Defaults()
	claude.Model = "haiku"
	claude.OpenAIKey = "sk-x"
	require.NoError(t, claude.Validate())
	claude.OpenAIKey = ""
	claude.TTSProvider = "google"
	err = claude.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")

	eleven := Defaults()
	eleven.TTSProvider = "elevenlabs"
	eleven.OpenAIKey = "sk-x"
	err = eleven.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ELEVENLABS_API_KEY")
}

func TestCategories(t *testing.T) {
	cats := Categories()
	assert.Contains(t, cats, "General")
	assert.Contains(t, cats, "Travel")
	assert.Len(t, cats, 8)
}
