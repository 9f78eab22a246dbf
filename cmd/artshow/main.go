package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/genricoloni/artshow/internal/config"
	"github.com/genricoloni/artshow/internal/display"
	"github.com/genricoloni/artshow/internal/domain"
	"github.com/genricoloni/artshow/internal/engine"
	"github.com/genricoloni/artshow/internal/inhibit"
	"github.com/genricoloni/artshow/internal/loader"
	"github.com/genricoloni/artshow/internal/metadata"
	"github.com/genricoloni/artshow/internal/playlist"
	"github.com/genricoloni/artshow/internal/processor"
	"github.com/genricoloni/artshow/internal/slideshow"
	"github.com/genricoloni/artshow/internal/ui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Preparing the first slide decodes and blurs a full image before the window opens
const startTimeout = time.Minute

// Flags are the command line switches
type Flags struct {
	Verbose  bool
	Windowed bool
}

// AppOptions is the application dependency graph, minus the folder and flags
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		newOverrides,
		fx.Annotate(config.NewAppConfig, fx.As(new(domain.Config))),
		display.NewScreenResolution,
		fx.Annotate(playlist.New, fx.As(new(domain.Playlist))),
		fx.Annotate(loader.NewFileLoader, fx.As(new(domain.ImageLoader))),
		fx.Annotate(metadata.NewSidecarResolver, fx.As(new(domain.MetadataResolver))),
		fx.Annotate(processor.NewScaler, fx.As(new(domain.Placer))),
		fx.Annotate(processor.NewBlurEngine, fx.As(new(domain.BackgroundRenderer))),
		fx.Annotate(processor.NewSlidePreparer, fx.As(new(domain.Preparer))),
		fx.Annotate(engine.NewEngine,
			fx.As(fx.Self()),
			fx.As(new(slideshow.Source)),
			fx.As(new(ui.Resizer))),
		slideshow.NewPlayer,
		ui.NewWindow,
		inhibit.NewScreenSaverInhibitor,
	),
	fx.Invoke(registerHooks),
)

func newRootCmd() *cobra.Command {
	var flags Flags

	cmd := &cobra.Command{
		Use:   "artshow [--verbose] [--windowed] <folder>",
		Short: "Fullscreen slideshow of a folder of artwork",
		Long: `Shows every image in a folder, one at a time, centered over a blurred and
darkened copy of itself. Title, artist and year come from a <name>.json file
next to each image.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable development logging")
	cmd.Flags().BoolVarP(&flags.Windowed, "windowed", "w", false, "Start in a window instead of fullscreen")
	return cmd
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run builds the graph, prepares the first slide and hands the main goroutine to the window
func run(ctx context.Context, folder string, flags Flags) error {
	var window *ui.Window

	app := fx.New(
		AppOptions,
		fx.Supply(playlist.Folder(folder), flags),
		fx.Populate(&window),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.StartTimeout(startTimeout),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancelStart := context.WithTimeout(ctx, app.StartTimeout())
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	runErr := window.Run(ctx)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	return multierr.Append(runErr, app.Stop(stopCtx))
}

// newLogger creates a new zap logger instance
func newLogger(flags Flags) (*zap.Logger, error) {
	if flags.Verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newOverrides(flags Flags) config.Overrides {
	return config.Overrides{Windowed: flags.Windowed}
}

// registerHooks sets up application lifecycle hooks
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	eng *engine.Engine,
	player *slideshow.Player,
	inh *inhibit.ScreenSaverInhibitor,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Artshow starting")
			return eng.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return eng.Stop(ctx)
		},
	})

	// Separate hook so a failed first slide still stops the engine
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			first, err := eng.Await(ctx)
			if err != nil {
				return fmt.Errorf("failed to prepare the first slide: %w", err)
			}
			player.Show(first, time.Now())

			if err := inh.Acquire(ctx); err != nil {
				logger.Warn("Screensaver stays active", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := inh.Release(ctx)
			logger.Info("Shutting down")
			return err
		},
	})
}
