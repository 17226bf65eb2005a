package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("LOOM_HOME", tmp)

	paths, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, tmp, paths.Base)
	assert.Equal(t, filepath.Join(tmp, "config.yaml"), paths.Config)
	assert.Contains(t, paths.Data, "data")
}

func TestEnsureDirs(t *testing.T) {
	t.Setenv("LOOM_HOME", t.TempDir())

	paths, err := ResolvePaths()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())

	for _, d := range []string{paths.Base, paths.Data, paths.Logs} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestDatabasePath(t *testing.T) {
	t.Setenv("LOOM_HOME", t.TempDir())
	paths, err := ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(paths.Data, "loom.db"), paths.DatabasePath(StoreConfig{}))
	assert.Equal(t, "/tmp/custom.db", paths.DatabasePath(StoreConfig{Path: "/tmp/custom.db"}))
}

func TestParseConfigPath(t *testing.T) {
	tests := []struct {
		input   string
		want    []string
		wantErr bool
	}{
		{"logging.level", []string{"logging", "level"}, false},
		{"providers.anthropic.apiKey", []string{"providers", "anthropic", "apiKey"}, false},
		{"", nil, true},
		{"a..b", nil, true},
		{"__proto__.x", nil, true},
		{"x.constructor", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseConfigPath(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestGetSetValueAtPath(t *testing.T) {
	root := map[string]any{
		"logging": map[string]any{
			"level": "info",
		},
	}

	val, ok := GetValueAtPath(root, []string{"logging", "level"})
	assert.True(t, ok)
	assert.Equal(t, "info", val)

	_, ok = GetValueAtPath(root, []string{"logging", "missing"})
	assert.False(t, ok)

	SetValueAtPath(root, []string{"logging", "level"}, "debug")
	val, ok = GetValueAtPath(root, []string{"logging", "level"})
	assert.True(t, ok)
	assert.Equal(t, "debug", val)

	SetValueAtPath(root, []string{"providers", "anthropic", "apiKey"}, "sk-test")
	val, ok = GetValueAtPath(root, []string{"providers", "anthropic", "apiKey"})
	assert.True(t, ok)
	assert.Equal(t, "sk-test", val)
}

func TestUnsetValueAtPath(t *testing.T) {
	root := map[string]any{
		"logging": map[string]any{
			"level": "info",
			"file":  "/tmp/loom.log",
		},
	}

	ok := UnsetValueAtPath(root, []string{"logging", "level"})
	assert.True(t, ok)

	_, exists := GetValueAtPath(root, []string{"logging", "level"})
	assert.False(t, exists)

	val, exists := GetValueAtPath(root, []string{"logging", "file"})
	assert.True(t, exists)
	assert.Equal(t, "/tmp/loom.log", val)

	ok = UnsetValueAtPath(root, []string{"logging", "nonexistent"})
	assert.False(t, ok)
}
