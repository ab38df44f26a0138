// Package cli implements the atlastool commands.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/xatlas-go/internal/config"
	"github.com/Faultbox/xatlas-go/internal/logger"
	"github.com/Faultbox/xatlas-go/pkg/xatlas/abi"
)

// App carries what the commands share. The zero value uses the registered
// engine and the process's standard streams.
type App struct {
	// Engine overrides the registered xatlas engine.
	Engine abi.Engine

	Stdout io.Writer
	Stderr io.Writer

	flags config.Flags
	cfg   *config.Config
	log   *zap.Logger
}

// New returns the root command for the default App.
func New() *cobra.Command {
	return NewWithApp(&App{})
}

// NewWithApp returns the root command bound to app.
func NewWithApp(app *App) *cobra.Command {
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}

	rootCmd := &cobra.Command{
		Use:   "atlastool",
		Short: "Unwrap meshes into texture atlases with xatlas",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
			return app.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync(app.log)
		},
	}
	rootCmd.SetOut(app.Stdout)
	rootCmd.SetErr(app.Stderr)

	app.flags.Bind(rootCmd.PersistentFlags())

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(
		app.newUnwrapCmd(),
		app.newInfoCmd(),
		app.newConfigCmd(),
	)
	return rootCmd
}

func (app *App) setup() error {
	cfg, err := config.Load(&app.flags)
	if err != nil {
		return err
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.FileConfig{
			Path:       cfg.Logging.LogFile,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
	}
	log, err := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Console: app.Stderr,
		File:    fileCfg,
	})
	if err != nil {
		return err
	}

	app.cfg = cfg
	app.log = log
	return nil
}
