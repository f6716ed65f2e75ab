// Package dependencies wires the shared collaborators of the server:
// transport, model catalog, generation pipeline, auto-save and the
// preference store.
package dependencies

import (
	"context"

	"github.com/spf13/afero"
	"github.com/zhenzou/executors"
	"go.uber.org/fx"

	"github.com/looplj/mediahub/internal/autosave"
	"github.com/looplj/mediahub/internal/gen/generator"
	"github.com/looplj/mediahub/internal/gen/normalizer"
	"github.com/looplj/mediahub/internal/gen/registry"
	"github.com/looplj/mediahub/internal/httpclient"
	"github.com/looplj/mediahub/internal/log"
	"github.com/looplj/mediahub/internal/prefs"
)

var Module = fx.Module("dependencies",
	fx.Provide(NewDoer),
	fx.Provide(registry.Default),
	fx.Provide(normalizer.New),
	fx.Provide(NewSaver),
	fx.Provide(NewPrefsStore),
	fx.Provide(NewGenerator),
	fx.Provide(NewExecutors),
	fx.Invoke(scheduleStoragePermissionProbe),
	fx.Invoke(func(lc fx.Lifecycle, executor executors.ScheduledExecutor) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return executor.Shutdown(ctx)
			},
		})
	}),
)

func NewDoer() httpclient.Doer {
	return httpclient.New()
}

func NewSaver(config autosave.Config, doer httpclient.Doer) (*autosave.Saver, error) {
	fs, err := autosave.NewFs(context.Background(), config)
	if err != nil {
		return nil, err
	}

	return autosave.New(fs, doer, config), nil
}

func NewPrefsStore(lc fx.Lifecycle, config prefs.Config) (*prefs.Store, error) {
	store, err := prefs.Open(context.Background(), afero.NewOsFs(), config)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

func NewGenerator(
	reg *registry.Registry,
	norm *normalizer.Normalizer,
	doer httpclient.Doer,
	saver *autosave.Saver,
	store *prefs.Store,
	saveConfig autosave.Config,
) (*generator.Generator, error) {
	return generator.New(generator.Options{
		Registry:        reg,
		Normalizer:      norm,
		Transport:       doer,
		Saver:           saver,
		Prefs:           store,
		AutoSaveDefault: saveConfig.Enabled,
	})
}

// scheduleStoragePermissionProbe re-checks the save target every few
// minutes so a backend that degrades after startup shows up in the logs
// before the next save silently fails.
func scheduleStoragePermissionProbe(executor executors.ScheduledExecutor, saver *autosave.Saver) {
	_, err := executor.ScheduleFuncAtCronRate(
		func(ctx context.Context) {
			if p := saver.Permission(ctx); p != autosave.PermissionGranted {
				log.Warn(ctx, "save target is not writable", log.String("permission", string(p)))
			}
		},
		executors.CRONRule{Expr: "*/5 * * * *"},
	)
	if err != nil {
		log.Error(context.Background(), "failed to schedule storage permission probe", log.Cause(err))
	}
}
