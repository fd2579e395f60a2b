package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

type rewriteEnvelope struct {
	Status string        `json:"status"`
	Data   RewriteResult `json:"data"`
	Error  *CLIError     `json:"error"`
}

func TestRewriteText(t *testing.T) {
	stdout, _, err := execute(t, "rewrite", "testdata/classify.yaml")
	require.NoError(t, err)
	golden(t).Assert(t, "rewrite_classify", []byte(stdout))
}

func TestRewriteJSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "rewrite", "testdata/classify.yaml")
	require.NoError(t, err)

	var resp rewriteEnvelope
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Data.RunID)
	assert.True(t, resp.Data.Changed)
	assert.Equal(t, 1, resp.Data.Restored)
	assert.Equal(t, 0, resp.Data.Aborted)
	assert.NotEqual(t, resp.Data.HashBefore, resp.Data.HashAfter)
	assert.Equal(t, "classify", resp.Data.Module["name"])
	assert.Equal(t, "1.0.0", resp.Data.Module["ir_version"])
}

func TestRewriteOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "restored.txt")

	stdout, _, err := execute(t, "rewrite", "testdata/classify.yaml", "--output", out)
	require.NoError(t, err)
	assert.Equal(t, "testdata/classify.yaml: restored 1, aborted 0 -> "+out+"\n", stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	golden(t).Assert(t, "rewrite_classify", data)
}

func TestRewriteOutputFileJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "restored.json")

	_, _, err := execute(t, "--format", "json", "rewrite", "testdata/classify.yaml", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "classify", doc["name"])
	assert.Len(t, doc["functions"], 1)
}

func TestRewriteErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		code string
		exit int
	}{
		{"missing file", "testdata/absent.yaml", ErrCodeNotFound, ExitCommandError},
		{"decode error", "testdata/broken.yaml", ErrCodeDecode, ExitCommandError},
		{"unsupported version", "testdata/future.yaml", ErrCodeVersion, ExitCommandError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, "rewrite", tt.file)
			require.Error(t, err)
			assert.Equal(t, tt.exit, GetExitCode(err))
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Error ["+tt.code+"]")
		})
	}
}

func TestRewriteDecodeErrorJSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "rewrite", "testdata/broken.yaml")
	require.Error(t, err)

	var resp rewriteEnvelope
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeDecode, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, `line 6:9: missing required field "condition"`)
}

func TestRewriteWithConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "deswitch.cue")
	require.NoError(t, os.WriteFile(cfg, []byte(`deswitch: lookup_method: "TryGetValue"`), 0o644))

	stdout, _, err := execute(t, "--format", "json", "--config", cfg, "rewrite", "testdata/try_get_value.yaml")
	require.NoError(t, err)
	var resp rewriteEnvelope
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, 1, resp.Data.Restored)

	stdout, _, err = execute(t, "--format", "json", "rewrite", "testdata/try_get_value.yaml")
	require.NoError(t, err)
	resp = rewriteEnvelope{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, 0, resp.Data.Restored)
	assert.False(t, resp.Data.Changed)
}

func TestRewriteBadConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "deswitch.cue")
	require.NoError(t, os.WriteFile(cfg, []byte(`deswitch: verify: "often"`), 0o644))

	_, stderr, err := execute(t, "--config", cfg, "rewrite", "testdata/classify.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error [E005]")
}

func TestRewriteVerboseLogsToStderr(t *testing.T) {
	stdout, stderr, err := execute(t, "-v", "rewrite", "testdata/classify.yaml")
	require.NoError(t, err)
	golden(t).Assert(t, "rewrite_classify", []byte(stdout))
	assert.Contains(t, stderr, "restored 1, aborted 0")
	assert.Contains(t, stderr, "switch restored")
}

func TestWatchFileRerunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "module.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 10)
	done := make(chan error, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() {
		done <- watchFile(ctx, path, logger, func() error {
			runs <- struct{}{}
			return nil
		})
	}()

	waitRun := func() {
		t.Helper()
		select {
		case <-runs:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for run")
		}
	}

	waitRun()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))
	waitRun()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchFileMissingDirectory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "nope", "m.yaml"), logger, func() error { return nil })
	require.Error(t, err)
}
