// Package main implements the codequest CLI, a narrative coding practice game.
//
// Challenges are listed, described and attempted from the command line or
// played interactively through the terminal UI:
//
//	codequest tutorial
//	codequest list
//	codequest show two-sum
//	codequest attempt two-sum --file solution.go --character Ada
//	codequest play --character Ada
package main

import (
	"fmt"
	"os"

	"codequest/internal/config"
	"codequest/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Set up by the root command before any subcommand runs
	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "codequest",
	Short: "Code Quest - learn to code by questing",
	Long: `Code Quest turns coding practice into an adventure.

Create a character, pick challenges in the areas you have unlocked and
submit Go solutions. Every solution is run against the challenge's test
cases; passing earns experience, skills and new areas of the world.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration %s: %w", configPath, err)
		}
		if err := logging.Initialize(cfg.LoggingConfig()); err != nil {
			logger.Warn("Category logging unavailable", zap.Error(err))
		}
		if logging.IsDebugMode() {
			logger.Debug("Category logs enabled", zap.String("dir", cfg.LogDir()))
		}
		logging.Boot("codequest %s starting (config %s)", cfg.Version, configPath)
		logger.Debug("Configuration loaded",
			zap.String("path", configPath),
			zap.String("save_dir", cfg.Game.SaveDir))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "codequest.yaml", "Configuration file")

	listCmd.Flags().StringVar(&listArea, "area", "", "Only list challenges of this area")
	listCmd.Flags().StringVar(&heroName, "character", "", "Mark challenges this character completed")

	hintCmd.Flags().IntVarP(&hintLevel, "level", "l", -1, "Show the challenge's hint at this level (from 0)")
	hintCmd.Flags().IntVarP(&hintCount, "count", "n", 0, "Number of hints to generate (default from config)")

	attemptCmd.Flags().StringVarP(&solutionFile, "file", "f", "", "Solution source file, or - for stdin")
	attemptCmd.Flags().StringVar(&heroName, "character", "", "Character who earns the rewards")
	attemptCmd.MarkFlagRequired("file")

	historyCmd.Flags().StringVar(&historyChallenge, "challenge", "", "Only show attempts at this challenge")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of attempts")

	mapCmd.Flags().StringVar(&heroName, "character", "", "Show the map as this character sees it")

	playCmd.Flags().StringVar(&heroName, "character", "", "Character to play as")
	playCmd.MarkFlagRequired("character")

	characterNewCmd.Flags().StringVar(&heroClass, "class", "Fullstack Bard", "Character class")
	characterCmd.AddCommand(characterNewCmd)
	characterCmd.AddCommand(characterShowCmd)
	characterCmd.AddCommand(characterListCmd)
	characterCmd.AddCommand(characterDeleteCmd)

	tutorialCmd.Flags().IntVarP(&tutorialPage, "page", "p", 0, "Show only this page (from 1)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(hintCmd)
	rootCmd.AddCommand(attemptCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(tutorialCmd)
}

func main() {
	if os.Getenv(workerEnv) == "1" {
		os.Exit(workerMain())
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
