package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iEmiya/ruaddress/config"
	"github.com/iEmiya/ruaddress/internal/engine"
	"github.com/iEmiya/ruaddress/internal/logger"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	envFile    string
	dataDir    string

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	rootCmd := newRootCmd()
	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "ruaddress",
		Short:         "Russian address classifier index",
		Long:          `Builds a searchable index of the KLADR address classifier and answers code, postal index and free-text queries over it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "ruaddress.yaml", "path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	rootCmd.PersistentFlags().StringVarP(&a.dataDir, "data-dir", "d", "", "directory of the address store (overrides the configuration)")

	rootCmd.AddCommand(createServeCmd(a))
	rootCmd.AddCommand(createBuildCmd(a))
	rootCmd.AddCommand(createSearchCmd(a))
	rootCmd.AddCommand(createCodeCmd(a))
	rootCmd.AddCommand(createPostalCmd(a))
	rootCmd.AddCommand(createLevelCmd(a))
	rootCmd.AddCommand(createChildrenCmd(a))
	rootCmd.AddCommand(createReductionCmd(a))

	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	if a.envFile != "" {
		// a missing dotenv file is fine
		_ = godotenv.Load(a.envFile)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	a.cfg = cfg
	a.logger = logger.New(cfg.Log, cmd.ErrOrStderr())
	return nil
}

// openEngine creates a facade without cache or metrics for one-shot commands.
func (a *app) openEngine() *engine.Engine {
	return engine.NewEngine(a.cfg, a.logger)
}
