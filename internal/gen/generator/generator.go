// Package generator runs the full generation pipeline: registry lookup,
// request shaping, the remote call, response unification, and the
// best-effort follow-ups (preference capture and auto-save).
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplj/mediahub/internal/autosave"
	"github.com/looplj/mediahub/internal/gen"
	"github.com/looplj/mediahub/internal/gen/normalizer"
	"github.com/looplj/mediahub/internal/gen/registry"
	"github.com/looplj/mediahub/internal/gen/unifier"
	"github.com/looplj/mediahub/internal/httpclient"
	"github.com/looplj/mediahub/internal/log"
	"github.com/looplj/mediahub/internal/prefs"
)

// Generator coordinates one generation end to end.
type Generator struct {
	registry   *registry.Registry
	normalizer *normalizer.Normalizer
	transport  httpclient.Doer

	// saver and store are optional; without them the pipeline stops at
	// the unified result.
	saver *autosave.Saver
	store *prefs.Store

	autoSaveDefault bool
}

// Options wires the pipeline's collaborators.
type Options struct {
	Registry   *registry.Registry
	Normalizer *normalizer.Normalizer
	Transport  httpclient.Doer

	Saver *autosave.Saver
	Prefs *prefs.Store

	// AutoSaveDefault applies when the user has no stored preference.
	AutoSaveDefault bool
}

// New creates a Generator. Registry, normalizer and transport are
// required; saver and prefs are not.
func New(opts Options) (*Generator, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}

	if opts.Normalizer == nil {
		return nil, fmt.Errorf("normalizer is required")
	}

	if opts.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}

	return &Generator{
		registry:        opts.Registry,
		normalizer:      opts.Normalizer,
		transport:       opts.Transport,
		saver:           opts.Saver,
		store:           opts.Prefs,
		autoSaveDefault: opts.AutoSaveDefault,
	}, nil
}

// Models lists the available model descriptors for mode, in catalog
// order.
func (g *Generator) Models(mode gen.Mode) []registry.Descriptor {
	return g.registry.ListByMode(mode)
}

// Generate runs one generation. Local failures (unknown model, invalid
// input, bad credential) are raised before any network traffic. After
// the remote call succeeds, preference capture and auto-save run as
// best-effort steps that can only annotate the result, never fail it.
func (g *Generator) Generate(ctx context.Context, req *gen.Request) (*gen.Result, error) {
	d, err := g.registry.Lookup(req.ModelID)
	if err != nil {
		return nil, err
	}

	httpReq, err := g.normalizer.BuildRequest(req, d)
	if err != nil {
		return nil, err
	}

	resp, err := g.transport.Do(ctx, httpReq)
	if err != nil {
		var httpErr *httpclient.Error
		if errors.As(err, &httpErr) {
			return nil, &gen.RemoteServiceError{
				StatusCode: httpErr.StatusCode,
				Body:       httpErr.Body,
			}
		}

		return nil, fmt.Errorf("failed to call generation service: %w", err)
	}

	width, height := g.registry.ClampDimensions(d, req.Width, req.Height)

	result, err := unifier.Unify(resp.Body, unifier.Context{
		Width:          width,
		Height:         height,
		Seed:           req.Seed,
		Video:          d.VideoDefaults,
		CopyUsage:      d.Credential != nil,
		PricePerOutput: d.PricePerOutput,
	})
	if err != nil {
		return nil, err
	}

	g.captureSeed(ctx, result)
	g.save(ctx, req, result)

	return result, nil
}

// captureSeed remembers the seed that produced this result so the next
// session can reuse it.
func (g *Generator) captureSeed(ctx context.Context, result *gen.Result) {
	if g.store == nil || result.Seed == nil {
		return
	}

	if err := g.store.Write(ctx, prefs.KeyLastUsedSeed, *result.Seed); err != nil {
		log.Warn(ctx, "failed to remember last used seed", log.Cause(err))
	}
}

// save runs the auto-save when enabled. Every failure here downgrades
// to a warning plus a report on the result.
func (g *Generator) save(ctx context.Context, req *gen.Request, result *gen.Result) {
	if g.saver == nil || !g.autoSaveEnabled() {
		return
	}

	directoryName := ""
	if g.store != nil {
		directoryName = g.store.String(prefs.KeyPreferredDirectoryName, "")
	}

	report, err := g.saver.Save(ctx, directoryName, req.RequestID, result)
	if err != nil {
		log.Warn(ctx, "auto-save failed",
			log.String("request_id", req.RequestID),
			log.Cause(err),
		)
	}

	result.Persistence = report
}

func (g *Generator) autoSaveEnabled() bool {
	if g.store == nil {
		return g.autoSaveDefault
	}

	return g.store.Bool(prefs.KeyAutoSaveEnabled, g.autoSaveDefault)
}
