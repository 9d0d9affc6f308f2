package model_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rust-ffi-checker/crateval/internal/model"
	"github.com/stretchr/testify/require"
)

func TestLoadJobs(t *testing.T) {
	t.Parallel()

	list := "libc-0.2.150\n  ring-0.17.8  \n\nzstd-sys-2.0.9\n"
	jobs, err := model.LoadJobs(strings.NewReader(list), "/crates")
	require.NoError(t, err)
	require.Equal(t, []model.Job{
		{ID: "libc-0.2.150", Dir: filepath.Join("/crates", "libc-0.2.150")},
		{ID: "ring-0.17.8", Dir: filepath.Join("/crates", "ring-0.17.8")},
		{ID: "zstd-sys-2.0.9", Dir: filepath.Join("/crates", "zstd-sys-2.0.9")},
	}, jobs)
}

func TestLoadJobs_Fail(t *testing.T) {
	t.Parallel()

	t.Run("duplicate", func(t *testing.T) {
		_, err := model.LoadJobs(strings.NewReader("a\nb\na\n"), "/crates")
		require.ErrorIs(t, err, model.ErrDuplicateJob)
		require.Contains(t, err.Error(), "line 3")
	})
	t.Run("empty", func(t *testing.T) {
		_, err := model.LoadJobs(strings.NewReader("\n \n"), "/crates")
		require.ErrorIs(t, err, model.ErrNoJobs)
	})
}

func TestOutcomeStatus(t *testing.T) {
	t.Parallel()

	var testCases = []struct {
		scenario string
		given    model.Outcome
		then     model.Status
	}{
		{"ok", model.Outcome{Succeeded: true}, model.StatusOK},
		{"failed", model.Outcome{}, model.StatusFailed},
		{"timeout", model.Outcome{TimedOut: true}, model.StatusTimeout},
		{"malformed", model.Outcome{Err: model.ErrMalformedUsage}, model.StatusMalformed},
	}
	for _, tt := range testCases {
		t.Run(tt.scenario, func(t *testing.T) {
			require.Equal(t, tt.then, tt.given.Status())
		})
	}

	o := model.Outcome{PeakMemoryKB: 1536}
	require.Equal(t, 1.5, o.PeakMemoryMB())
}

func TestListJobs(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	for _, name := range []string{"zlib-sys-1.1.0", "0-first", "libgit2-sys-0.16.2"} {
		require.NoError(t, os.Mkdir(filepath.Join(base, name), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(base, "README"), nil, 0o644))

	jobs, err := model.ListJobs(base)
	require.NoError(t, err)
	var ids []string
	for _, j := range jobs {
		ids = append(ids, j.ID)
		require.Equal(t, filepath.Join(base, j.ID), j.Dir)
	}
	require.Equal(t, []string{"0-first", "libgit2-sys-0.16.2", "zlib-sys-1.1.0"}, ids)

	_, err = model.ListJobs(t.TempDir())
	require.ErrorIs(t, err, model.ErrNoJobs)
}
