package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"karolbroda.com/adaptiveaccents/internal/host"
	"karolbroda.com/adaptiveaccents/internal/logger"
	"karolbroda.com/adaptiveaccents/internal/pipeline"
	"karolbroda.com/adaptiveaccents/internal/player"
	"karolbroda.com/adaptiveaccents/internal/settings"
	"karolbroda.com/adaptiveaccents/internal/terminal"
	"karolbroda.com/adaptiveaccents/internal/ui"
)

var (
	// flags for run
	noPreview  bool
	allowStale bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "start the accent daemon",
	Long: `follows the mpris player and rewrites the accent stylesheet on every track change.
send SIGHUP to reload settings changed with 'adaptiveaccents config set'.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)

	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().BoolVar(&noPreview, "no-preview", false, "run headless, logging to stderr")
		c.Flags().BoolVar(&allowStale, "allow-stale", false, "let a slow older track overwrite a newer one")
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig(cmd)

	// no preview without a terminal to draw it on
	headless := noPreview || !term.IsTerminal(int(os.Stdout.Fd()))

	var log *zap.Logger
	if headless {
		log = logger.New(cfg.LogLevel, cfg.Development)
	} else {
		// the preview owns the terminal
		log = logger.New(cfg.LogLevel, cfg.Development, cfg.LogFile)
	}
	defer log.Sync()

	eng, err := newEngine(cfg, log)
	if err != nil {
		return err
	}

	bus, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer bus.Close()

	playerService, err := player.NewService(bus, cfg.MprisService, log)
	if err != nil {
		return fmt.Errorf("failed to create player service: %w", err)
	}

	displays := host.Multi{host.NewCSSFile(cfg.StylesheetPath)}
	opts := pipeline.DefaultOptions()
	opts.DropStale = !allowStale

	var orchestrator *pipeline.Orchestrator
	var preview *ui.Program
	if !headless {
		defer terminal.Reset()
		preview = ui.NewProgram(ui.NewModel(ui.ModelConfig{
			Loader: eng.loader,
			Status: func() pipeline.State { return orchestrator.State() },
		}), tea.WithAltScreen())
		displays = append(displays, preview)
		opts.OnResult = preview.OnResult
	}

	orchestrator = pipeline.New(eng.store, eng.fetcher, eng.selector, displays, log, opts)

	log.Info("[main][runDaemon] starting",
		zap.String("service", cfg.MprisService),
		zap.String("stylesheet", cfg.StylesheetPath),
		zap.String("storefront", eng.fetcher.Storefront()),
		zap.String("appearance", cfg.Appearance),
	)

	g, gctx := errgroup.WithContext(ctx)
	ready := host.NewGate()

	g.Go(func() error {
		if err := playerService.Start(gctx, ready); err != nil {
			return err
		}
		defer playerService.Stop()
		return orchestrator.Run(gctx, playerService.Events())
	})

	g.Go(func() error {
		return watchSettings(gctx, eng.store, log)
	})

	if preview != nil {
		g.Go(func() error {
			err := preview.Run()
			stop()
			if err != nil {
				return fmt.Errorf("error running bubble tea: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			preview.Quit()
			return nil
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchSettings reloads the settings file on SIGHUP and logs the result.
func watchSettings(ctx context.Context, store *settings.Store, log *zap.Logger) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	changes := store.Subscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			if err := store.Reload(); err != nil {
				log.Warn("[main][watchSettings] reload failed", zap.Error(err))
			}
		case c := <-changes:
			log.Info("[main][watchSettings] settings changed",
				zap.Bool("frozen", c.Frozen),
				zap.String("algorithm", string(c.Algorithm)),
				zap.String("keyColor", c.KeyColor),
				zap.String("musicKeyColor", c.MusicKeyColor),
				zap.String("scheme", string(c.Scheme)),
			)
		}
	}
}
