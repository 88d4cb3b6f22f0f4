package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/dennisklein/memtally/internal/alloc"
	"github.com/dennisklein/memtally/internal/config"
	"github.com/dennisklein/memtally/internal/logger"
)

// appFs is the filesystem the config file is read from.
var appFs = afero.NewOsFs()

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "memtally",
		Short:         "Track live allocations and render byte sizes",
		Long:          `memtally counts the bytes allocated through its tracking allocator and renders byte counts in decimal (kB, MB, ...) or binary (KiB, MiB, ...) units.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	cmd.PersistentFlags().StringP("log-level", "l", "info", "Log level [off|error|warn|info|debug|trace]")
	cmd.PersistentFlags().StringP("config-path", "c", config.DefaultPath, "Config file path (default file will be created if it does not exist)")

	cmd.AddCommand(newFormatCmd())
	cmd.AddCommand(newStressCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads or creates the config file and initializes logging. An
// explicit --log-level wins over the config file.
func setup(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config-path")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get --config-path flag: %w", err)
	}

	cfg, err := config.NewStore(appFs).LoadOrInit(path)
	if err != nil {
		return config.Config{}, err
	}

	level := cfg.Log.Level
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		level = f.Value.String()
	}

	err = logger.Init(logger.Options{
		Level:  level,
		Out:    cmd.ErrOrStderr(),
		Color:  cfg.Log.Color,
		Binary: cfg.Binary(),
	})
	if err != nil {
		return config.Config{}, err
	}

	logger.WithTarget(logrus.StandardLogger(), "config").
		WithField("path", path).
		Debugf("loaded config version %s", cfg.Version)

	return cfg, nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	log := logger.WithTarget(logrus.StandardLogger(), "main")
	log.WithField("unit", cfg.Log.Unit).Info("memtally ready")

	log.Debugf("live allocations: %s (%d bytes)", alloc.Bytes(), alloc.Load())

	return nil
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
