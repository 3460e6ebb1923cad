package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/killallgit/podcast-runtime/internal/logging"
	"github.com/killallgit/podcast-runtime/internal/services/census"
	"github.com/killallgit/podcast-runtime/internal/services/credentials"
	"github.com/killallgit/podcast-runtime/internal/services/resolver"
	"github.com/killallgit/podcast-runtime/internal/services/spotify"
	"github.com/killallgit/podcast-runtime/pkg/config"
	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the command tree. Flags are bound to the current viper
// instance, so tests build a fresh tree after viper.Reset.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "podcast-runtime PODCAST_URL_OR_ID",
		Short: "Total the runtime of every episode of a Spotify podcast",
		Long: `podcast-runtime lists every episode of a Spotify show with its duration
and totals the runtime.

The show can be given as a share URL (https://open.spotify.com/show/ID),
a spotify:show:ID URI or a bare show ID. Rows are written as CSV with a
trailing "<n> episodes, totaling <h> hours, <m> minutes" line.

Spotify app credentials are read from PODRUNTIME_SPOTIFY_CLIENT_ID and
PODRUNTIME_SPOTIFY_CLIENT_SECRET, the config file, the system keyring
(see 'auth login') or an interactive prompt, in that order.`,
		Example: `  podcast-runtime https://open.spotify.com/show/4rOoJ6Egrf8K2IrywzwOMk
  podcast-runtime 4rOoJ6Egrf8K2IrywzwOMk -o runtime.csv
  podcast-runtime spotify:show:4rOoJ6Egrf8K2IrywzwOMk --stdout -l 100`,
		Args:          exactlyOneShow,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCensus,
	}

	flags := rootCmd.Flags()
	flags.StringP("out", "o", "", "write the report to this file (default: derived from the show name)")
	flags.IntP("limit", "l", 0, "stop after the page that reaches this many episodes (0 = all)")
	flags.IntP("pagesize", "p", 50, "episodes requested per page (1-50)")
	flags.Bool("stdout", false, "write the report to standard output")
	flags.String("market", "US", "market code used to list episodes")
	lo.Must0(viper.BindPFlag(config.KeyFetchPageSize, flags.Lookup("pagesize")))
	lo.Must0(viper.BindPFlag(config.KeySpotifyMarket, flags.Lookup("market")))

	persistent := rootCmd.PersistentFlags()
	persistent.String("config", "", "config file (default: $XDG_CONFIG_HOME/podcast-runtime/config.yaml)")
	persistent.String("log-level", "warn", "log level (debug, info, warn, error)")
	persistent.Bool("json-logs", false, "enable JSON formatted logs")
	lo.Must0(viper.BindPFlag(config.KeyLoggingLevel, persistent.Lookup("log-level")))
	lo.Must0(viper.BindPFlag(config.KeyLoggingJSON, persistent.Lookup("json-logs")))

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "invalid flags")
	})

	rootCmd.AddCommand(newVersionCmd(), newAuthCmd())
	return rootCmd
}

// Execute runs the CLI and exits with a status that reflects the error kind.
// This is called by main.main().
func Execute() {
	rootCmd := NewRootCmd()

	// Help styling is decided before flags are parsed, so only env and the
	// default config file can turn it off
	if err := config.Init(""); err != nil || config.GetBool(config.KeyCLIColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(apperrors.ExitCode(err))
}

func exactlyOneShow(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return apperrors.Newf(apperrors.ErrCodeInvalidInput,
			"expected exactly one podcast URL or ID, got %d arguments", len(args))
	}
	return nil
}

// setup loads configuration and configures logging for a command
func setup(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	if err := config.Init(configFile); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "loading configuration")
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "loading configuration")
	}

	logging.Setup(logging.Options{
		Level:  cfg.Logging.Level,
		JSON:   cfg.Logging.JSON,
		Output: cmd.ErrOrStderr(),
	})

	return cfg, nil
}

func runCensus(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	limit := lo.Must(flags.GetInt("limit"))
	pageSize := lo.Must(flags.GetInt("pagesize"))
	toStdout := lo.Must(flags.GetBool("stdout"))
	outPath := lo.Must(flags.GetString("out"))

	if limit < 0 {
		return apperrors.Newf(apperrors.ErrCodeInvalidInput, "--limit must not be negative, got %d", limit)
	}
	if flags.Changed("pagesize") && pageSize <= 0 {
		return apperrors.Newf(apperrors.ErrCodeInvalidInput, "--pagesize must be positive, got %d", pageSize)
	}

	// Fail on a bad reference before asking for credentials
	if _, err := resolver.Resolve(args[0]); err != nil {
		return err
	}

	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	creds, err := credentials.Resolve(credentials.Credentials{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
	}, promptFor(cmd, false))
	if err != nil {
		return err
	}

	client := spotify.NewClient(spotify.Config{
		BaseURL:   cfg.Spotify.BaseURL,
		Market:    cfg.Spotify.Market,
		UserAgent: cfg.Spotify.UserAgent,
		Timeout:   cfg.Spotify.Timeout,
		RateLimit: cfg.Spotify.RateLimit,
		Tokens: spotify.NewClientCredentials(
			cfg.Spotify.TokenURL, creds.ClientID, creds.ClientSecret, cfg.Spotify.Timeout),
	})

	runner := census.NewRunner(client, afero.NewOsFs(), cmd.OutOrStdout())
	if isTerminal(cmd.ErrOrStderr()) {
		runner.Progress = cmd.ErrOrStderr()
	}

	result, err := runner.Run(cmd.Context(), census.Options{
		ShowRef:  args[0],
		OutPath:  outPath,
		Stdout:   toStdout,
		Limit:    limit,
		PageSize: cfg.Fetch.PageSize,
	})
	if err != nil {
		if result != nil && result.Summary.Episodes > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d episodes retrieved before the failure were written to %s\n",
				result.Summary.Episodes, result.Destination)
		}
		return err
	}

	if !toStdout {
		out := cmd.ErrOrStderr()
		fmt.Fprintln(out, result.Summary.String())
		fmt.Fprintf(out, "written to %s\n", result.Destination)
	}
	return nil
}

// promptFor picks how missing credentials are asked for. Piped input is
// only read when lines is set, as for 'auth login'.
func promptFor(cmd *cobra.Command, lines bool) credentials.PromptFunc {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		if prompt := credentials.TerminalPrompt(f, cmd.ErrOrStderr()); prompt != nil {
			return prompt
		}
	}
	if lines {
		return credentials.LinePrompt(in, cmd.ErrOrStderr())
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
