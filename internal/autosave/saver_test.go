package autosave

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/looplj/mediahub/internal/gen"
	"github.com/looplj/mediahub/internal/httpclient"
)

// urlDoer serves canned bodies by URL and fails everything else.
type urlDoer struct {
	bodies map[string][]byte
	calls  int
}

func (d *urlDoer) Do(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	d.calls++

	body, ok := d.bodies[req.URL]
	if !ok {
		return nil, &httpclient.Error{
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: http.StatusNotFound,
			Status:     http.StatusText(http.StatusNotFound),
		}
	}

	return &httpclient.Response{StatusCode: http.StatusOK, Body: body}, nil
}

func TestPermission(t *testing.T) {
	ctx := context.Background()

	t.Run("missing directory prompts", func(t *testing.T) {
		s := New(afero.NewMemMapFs(), &urlDoer{}, Config{DirectoryName: "generations"})
		require.Equal(t, PermissionPrompt, s.Permission(ctx))
	})

	t.Run("existing writable directory is granted", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("generations", 0o755))

		s := New(fs, &urlDoer{}, Config{DirectoryName: "generations"})
		require.Equal(t, PermissionGranted, s.Permission(ctx))
	})

	t.Run("read-only backend is denied", func(t *testing.T) {
		base := afero.NewMemMapFs()
		require.NoError(t, base.MkdirAll("generations", 0o755))

		s := New(afero.NewReadOnlyFs(base), &urlDoer{}, Config{DirectoryName: "generations"})
		require.Equal(t, PermissionDenied, s.Permission(ctx))
	})

	t.Run("request creates the directory and grants", func(t *testing.T) {
		s := New(afero.NewMemMapFs(), &urlDoer{}, Config{DirectoryName: "generations"})

		require.Equal(t, PermissionPrompt, s.Permission(ctx))
		require.Equal(t, PermissionGranted, s.Request(ctx))
		require.Equal(t, PermissionGranted, s.Permission(ctx))
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	result := &gen.Result{
		Images: []gen.Image{
			{URL: "https://cdn/a.png"},
			{URL: "https://cdn/b.jpg?token=abc"},
		},
	}

	t.Run("saves every image", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		doer := &urlDoer{bodies: map[string][]byte{
			"https://cdn/a.png":           []byte("aaa"),
			"https://cdn/b.jpg?token=abc": []byte("bbb"),
		}}

		s := New(fs, doer, Config{DirectoryName: "generations"})

		report, err := s.Save(ctx, "", "req-1", result)
		require.NoError(t, err)
		require.True(t, report.Saved)
		require.Equal(t, []string{
			"generations/req-1/01.png",
			"generations/req-1/02.jpg",
		}, report.SavedFiles)

		data, err := afero.ReadFile(fs, "generations/req-1/02.jpg")
		require.NoError(t, err)
		require.Equal(t, "bbb", string(data))
	})

	t.Run("partial failure keeps the files that made it", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		doer := &urlDoer{bodies: map[string][]byte{
			"https://cdn/a.png": []byte("aaa"),
		}}

		s := New(fs, doer, Config{DirectoryName: "generations"})

		report, err := s.Save(ctx, "", "req-2", result)
		require.Error(t, err)

		var persistErr *gen.PersistenceError

		require.ErrorAs(t, err, &persistErr)
		require.True(t, report.Attempted)
		require.False(t, report.Saved)
		require.Equal(t, []string{"generations/req-2/01.png"}, report.SavedFiles)
	})

	t.Run("caller directory overrides the default", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		doer := &urlDoer{bodies: map[string][]byte{
			"https://cdn/a.png":           []byte("aaa"),
			"https://cdn/b.jpg?token=abc": []byte("bbb"),
		}}

		s := New(fs, doer, Config{DirectoryName: "generations"})

		report, err := s.Save(ctx, "my-art", "req-3", result)
		require.NoError(t, err)

		for _, f := range report.SavedFiles {
			require.True(t, strings.HasPrefix(f, "my-art/"), f)
		}
	})

	t.Run("video gets an mp4 fallback extension", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		videoResult := &gen.Result{Video: &gen.Video{URL: "https://cdn/clip"}}
		doer := &urlDoer{bodies: map[string][]byte{
			"https://cdn/clip": []byte("vvv"),
		}}

		s := New(fs, doer, Config{DirectoryName: "generations"})

		report, err := s.Save(ctx, "", "req-4", videoResult)
		require.NoError(t, err)
		require.Equal(t, []string{"generations/req-4/01.mp4"}, report.SavedFiles)
	})

	t.Run("nothing to save", func(t *testing.T) {
		s := New(afero.NewMemMapFs(), &urlDoer{}, Config{DirectoryName: "generations"})

		report, err := s.Save(ctx, "", "req-5", &gen.Result{})
		require.NoError(t, err)
		require.True(t, report.Attempted)
		require.False(t, report.Saved)
		require.Equal(t, "nothing to save", report.Reason)
	})
}
