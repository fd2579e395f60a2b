package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitStdout(t *testing.T) {
	stdout, _, err := execute(t, "emit", "testdata/classify.yaml")
	require.NoError(t, err)

	assert.Contains(t, stdout, "package classify")
	assert.Contains(t, stdout, "func Classify(s any) any {")
	assert.Contains(t, stdout, "switch s {")
	assert.Contains(t, stdout, `case "a":`)
	assert.NotContains(t, stdout, "goto")
}

func TestEmitPackageAndOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "restored.go")

	stdout, _, err := execute(t, "emit", "testdata/classify.yaml", "--package", "restored", "-o", out)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+out+" (package restored)\n", stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package restored")
}

func TestEmitMissingFile(t *testing.T) {
	_, stderr, err := execute(t, "emit", "testdata/absent.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error [E002]")
}
