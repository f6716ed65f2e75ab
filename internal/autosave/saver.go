// Package autosave persists generated media to a configured storage
// backend after a successful generation. Saving is strictly best
// effort: every failure path here ends in a report and a warning, never
// in a failed generation.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/looplj/mediahub/internal/gen"
	"github.com/looplj/mediahub/internal/httpclient"
	"github.com/looplj/mediahub/internal/log"
)

// Permission is the observed write-permission state of the save target.
type Permission string

const (
	// PermissionGranted means a probe write succeeded.
	PermissionGranted Permission = "granted"

	// PermissionPrompt means the target does not exist yet; creating it
	// needs an explicit Request.
	PermissionPrompt Permission = "prompt"

	// PermissionDenied means the backend refused the probe write.
	PermissionDenied Permission = "denied"
)

const probeName = ".mediahub-probe"

// Saver downloads generated media and writes it to the configured
// filesystem.
type Saver struct {
	fs      afero.Fs
	fetcher httpclient.Doer
	config  Config
}

// New creates a Saver writing to fs and downloading through fetcher.
func New(fs afero.Fs, fetcher httpclient.Doer, config Config) *Saver {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = DefaultConfig().MaxConcurrent
	}

	if config.FetchTimeout <= 0 {
		config.FetchTimeout = DefaultConfig().FetchTimeout
	}

	return &Saver{fs: fs, fetcher: fetcher, config: config}
}

// Permission probes the save target without creating anything.
func (s *Saver) Permission(ctx context.Context) Permission {
	return s.probe(ctx, s.config.DirectoryName)
}

// Request tries to create the save target and re-probes. This is the
// "user said yes" path after a prompt.
func (s *Saver) Request(ctx context.Context) Permission {
	if err := s.fs.MkdirAll(s.config.DirectoryName, 0o755); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return PermissionDenied
		}

		log.Warn(ctx, "failed to create save directory",
			log.String("directory", s.config.DirectoryName),
			log.Cause(err),
		)

		return PermissionPrompt
	}

	return s.probe(ctx, s.config.DirectoryName)
}

func (s *Saver) probe(ctx context.Context, dir string) Permission {
	if _, err := s.fs.Stat(dir); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return PermissionDenied
		}

		return PermissionPrompt
	}

	name := path.Join(dir, probeName)

	if err := afero.WriteFile(s.fs, name, []byte{}, 0o644); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return PermissionDenied
		}

		log.Debug(ctx, "save directory probe failed", log.String("directory", dir), log.Cause(err))

		return PermissionPrompt
	}

	_ = s.fs.Remove(name)

	return PermissionGranted
}

// Save downloads every media URL in result and writes it under
// directoryName/requestID. Downloads run concurrently with a bound, and
// every failure is collected; partial saves still report the files that
// made it.
func (s *Saver) Save(ctx context.Context, directoryName, requestID string, result *gen.Result) (*gen.PersistenceReport, error) {
	report := &gen.PersistenceReport{Attempted: true}

	if directoryName == "" {
		directoryName = s.config.DirectoryName
	}

	urls := mediaURLs(result)
	if len(urls) == 0 {
		report.Reason = "nothing to save"
		return report, nil
	}

	dir := path.Join(directoryName, requestID)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		report.Reason = "save directory unavailable"
		return report, &gen.PersistenceError{Reason: report.Reason, Err: err}
	}

	files := make([]string, len(urls))
	failures := make([]error, len(urls))

	// Each download records its own failure slot so one bad URL never
	// cancels the others.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrent)

	for i, u := range urls {
		g.Go(func() error {
			name := path.Join(dir, fmt.Sprintf("%02d%s", i+1, extensionFor(u, result)))

			if err := s.fetchOne(gctx, u, name); err != nil {
				failures[i] = fmt.Errorf("failed to save %s: %w", name, err)
				return nil
			}

			files[i] = name

			return nil
		})
	}

	_ = g.Wait()

	errs := multierr.Combine(failures...)

	for _, f := range files {
		if f != "" {
			report.SavedFiles = append(report.SavedFiles, f)
		}
	}

	report.Saved = errs == nil && len(report.SavedFiles) == len(urls)

	if errs != nil {
		report.Reason = "one or more downloads failed"
		return report, &gen.PersistenceError{Reason: report.Reason, Err: errs}
	}

	return report, nil
}

func (s *Saver) fetchOne(ctx context.Context, url, name string) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.FetchTimeout)
	defer cancel()

	resp, err := s.fetcher.Do(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    url,
	})
	if err != nil {
		return err
	}

	return afero.WriteFile(s.fs, name, resp.Body, 0o644)
}

func mediaURLs(result *gen.Result) []string {
	if result == nil {
		return nil
	}

	urls := make([]string, 0, len(result.Images)+1)

	for _, img := range result.Images {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}

	if result.Video != nil && result.Video.URL != "" {
		urls = append(urls, result.Video.URL)
	}

	return urls
}

// extensionFor picks a file extension from the URL, falling back to the
// media kind when the URL does not carry one.
func extensionFor(url string, result *gen.Result) string {
	trimmed := url
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}

	if ext := path.Ext(trimmed); ext != "" && len(ext) <= 5 {
		return ext
	}

	if result != nil && result.Video != nil && result.Video.URL == url {
		return ".mp4"
	}

	return ".png"
}
