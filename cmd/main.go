package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/brettbedarf/fileshell/config"
	"github.com/brettbedarf/fileshell/internal/util"
	"github.com/brettbedarf/fileshell/session"
	"github.com/brettbedarf/fileshell/shell"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "settings.ini"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		workdir    string
		prompt     string
		verbose    int
	)

	cmd := &cobra.Command{
		Use:   "fileshell",
		Short: "Interactive shell confined to a single working directory",
		Long: "fileshell lets you create, read, copy, move and delete files and directories\n" +
			"inside the configured working directory. Paths that would leave it are refused.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			override, err := loadOverride(configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			// CLI flags take precedence over the config file
			if cmd.Flags().Changed("workdir") {
				override.WorkingDirectory = &workdir
			}
			if cmd.Flags().Changed("prompt") {
				override.PromptName = &prompt
			}
			if cmd.Flags().Changed("verbose") || override.LogLvl == nil {
				override.LogLvl = &verbose
			}
			return run(cmd.Context(), config.NewConfig(override))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to an .ini, .yaml or .json config file")
	cmd.Flags().StringVarP(&workdir, "workdir", "w", "", "Working directory; overrides working_directory from the config file")
	cmd.Flags().StringVar(&prompt, "prompt", config.DefaultPromptName, "Name shown in the prompt")
	cmd.Flags().IntVarP(&verbose, "verbose", "v", config.WarnVerbose,
		"Log verbosity level between 1 (error) and 5 (trace). Default is 2 (warn).")
	return cmd
}

// loadOverride reads the config file. The default file is optional; an
// explicitly requested one must exist.
func loadOverride(path string, required bool) (*config.ConfigOverride, error) {
	override, err := config.LoadConfigOverrideFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return &config.ConfigOverride{}, nil
		}
		util.InitializeLogger(util.ErrorLevel, os.Stderr)
		logger := util.GetLogger("main")
		logger.Error().Err(err).Str("config", path).Msg("Failed to load config file")
		return nil, err
	}
	return override, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	util.InitializeLogger(cfg.LogLvl, os.Stderr)
	logger := util.GetLogger("main")

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid working directory")
	}
	logger.Info().Str("workdir", cfg.WorkingDirectory).Msg("fileshell starting")

	mgr, err := session.NewManager(cfg.WorkingDirectory, cfg.PromptName)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open working directory")
	}
	sess, err := mgr.Open()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open session")
	}
	defer mgr.Close(sess.ID)

	if cfg.ListOnOpen {
		if _, err := sess.Exec("ls", nil, os.Stdout); err != nil {
			shell.PrintError(os.Stdout, err)
		}
	}

	repl := shell.NewREPL(sess, os.Stdin, os.Stdout)
	if err := repl.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to read input")
		return err
	}
	logger.Info().Msg("fileshell exiting")
	return nil
}
