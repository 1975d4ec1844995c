package main

import (
	"github.com/spf13/cobra"

	"codetyper/internal/config"
	"codetyper/internal/errors"
	"codetyper/internal/log"
	"codetyper/internal/pipeline"
	"codetyper/internal/reveal"
	"codetyper/internal/selector"
	"codetyper/internal/source"
	"codetyper/internal/terminal"
)

var version = "dev"

type rootOptions struct {
	local      string
	configFile string
	repo       string
	include    []string
	exclude    []string
	debug      bool
	logFile    string
	logJSON    bool
}

// NewRootCmd creates the codetyper command on the process terminal
func NewRootCmd() *cobra.Command {
	return newRootCmd(func() reveal.Terminal { return terminal.Open() })
}

func newRootCmd(openTerminal func() reveal.Terminal) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "codetyper",
		Short: "Pretend to type real code",
		Long: `codetyper picks a random file from a GitHub repository or a local
directory and reveals it a few characters per keypress. Press Escape to quit.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(opts)
			defer log.Close()

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			src, err := buildSource(cfg, opts)
			if err != nil {
				return err
			}

			_, err = pipeline.Run(cmd.Context(), pipeline.Options{
				Source:   src,
				Selector: selector.New(nil),
				Terminal: openTerminal(),
				Reveal: reveal.Options{
					ChunkSize:    cfg.Reveal.ChunkSize,
					PollInterval: cfg.Reveal.PollInterval,
				},
				Out:    cmd.OutOrStdout(),
				Banner: renderBanner,
			})
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.local, "local", "l", "", "pick from a local directory instead of GitHub")
	flags.StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.config/codetyper/config.yaml)")
	flags.StringVar(&opts.repo, "repo", "", "GitHub repository as OWNER/REPO")
	flags.StringArrayVar(&opts.include, "include", nil, "only consider files matching this glob (repeatable)")
	flags.StringArrayVar(&opts.exclude, "exclude", nil, "skip files matching this glob (repeatable)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON")

	return cmd
}

func configureLogging(opts *rootOptions) {
	logOpts := []log.Option{log.WithLevel("warn")}
	if opts.debug {
		logOpts = append(logOpts, log.WithLevel("debug"))
	}
	if opts.logFile != "" {
		logOpts = append(logOpts, log.WithFile(opts.logFile))
	}
	if opts.logJSON {
		logOpts = append(logOpts, log.WithJSON())
	}
	log.Configure(logOpts...)
	log.SetDebug(opts.debug)
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(opts *rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadConfigFile(opts.configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.LoadConfig()
		if err != nil {
			if errors.IsInvalidConfig(err) {
				return nil, err
			}
			log.LogWithError(err).Warn("Could not load config, using defaults")
			cfg = config.New()
		}
	}

	if opts.repo != "" {
		if err := cfg.SetRepository(opts.repo); err != nil {
			return nil, err
		}
	}
	cfg.Filter.Include = append(cfg.Filter.Include, opts.include...)
	cfg.Filter.Exclude = append(cfg.Filter.Exclude, opts.exclude...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildSource picks the local or remote backend and applies the filters
func buildSource(cfg *config.Config, opts *rootOptions) (source.Source, error) {
	var src source.Source
	if opts.local != "" {
		src = source.NewLocal(opts.local)
	} else {
		src = source.NewRemote(source.RemoteConfig{
			APIBase:   cfg.Remote.APIBase,
			Owner:     cfg.Remote.Owner,
			Repo:      cfg.Remote.Repo,
			UserAgent: cfg.Remote.UserAgent,
			Timeout:   cfg.Remote.Timeout,
		})
	}

	src, err := source.NewFiltered(src, cfg.Filter.Include, cfg.Filter.Exclude)
	if err != nil {
		return nil, err
	}
	log.LogWithFields(log.F("source", src.Name())).Debug("Source ready")
	return src, nil
}
