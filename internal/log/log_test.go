package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/rust-ffi-checker/crateval/internal/log"
	"github.com/rust-ffi-checker/crateval/internal/model"
	"github.com/stretchr/testify/require"
)

func TestContextAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf, false)

	ctx := log.ContextAttrs(context.Background(), slog.String("run", "r1"))
	a := log.ContextAttrs(ctx, slog.String("job", "a"))
	b := log.ContextAttrs(ctx, slog.String("job", "b"))

	logger.InfoContext(a, "first")
	logger.InfoContext(b, "second")
	logger.DebugContext(a, "hidden")

	dec := json.NewDecoder(&buf)
	var first, second map[string]any
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	require.False(t, dec.More())

	require.Equal(t, "r1", first["run"])
	require.Equal(t, "a", first["job"])
	require.Equal(t, "r1", second["run"])
	require.Equal(t, "b", second["job"])
}

func TestOutput(t *testing.T) {
	t.Parallel()

	w, c, err := log.Output(model.LogDiscard)
	require.NoError(t, err)
	require.Equal(t, io.Discard, w)
	require.NoError(t, c.Close())

	w, _, err = log.Output(model.LogStderr)
	require.NoError(t, err)
	require.Equal(t, os.Stderr, w)

	w, _, err = log.Output(model.LogStdout)
	require.NoError(t, err)
	require.Equal(t, os.Stdout, w)

	path := filepath.Join(t.TempDir(), "logs", "crateval.log")
	w, c, err = log.Output(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, c.Close())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(b))
}
