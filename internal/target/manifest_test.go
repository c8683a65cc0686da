package target

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crosscheck.cue")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
target: "go"
documents: ["specs/**/*.yaml", "extra/*.yml"]
history: "runs.db"
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "go", m.Target)
	assert.Equal(t, []string{"specs/**/*.yaml", "extra/*.yml"}, m.Documents)
	assert.Equal(t, "runs.db", m.History)
}

func TestLoadManifest_HistoryIsOptional(t *testing.T) {
	path := writeManifest(t, `
target: "go"
documents: ["specs/*.yaml"]
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Empty(t, m.History)
}

func TestLoadManifest_Errors(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want string
	}{
		{"syntax error", "target: )", "failed to compile"},
		{"wrong type", `target: 42
documents: ["specs/*.yaml"]`, "failed to decode"},
		{"missing target", `documents: ["specs/*.yaml"]`, "target is required"},
		{"missing documents", `target: "go"`, "documents list is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadManifest(writeManifest(t, tc.text))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read manifest")
}

func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest()
	assert.Equal(t, "go", m.Target)
	assert.NotEmpty(t, m.Documents)
	assert.Empty(t, m.History)
}
