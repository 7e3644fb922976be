package cmd

import (
	"context"
	"io"
	"os"

	"github.com/jtyocum/groupstool/cmd/groupstool/internal/client"
	"github.com/jtyocum/groupstool/cmd/groupstool/internal/config"
	"github.com/jtyocum/groupstool/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/jtyocum/groupstool/cmd/groupstool/cmd.defaultAPI=..."
var (
	defaultAPI = ""
	version    = "dev"
	commit     = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	ran, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return exitOK
	}
	return reportError(ran, err, stdout, stderr)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "groupstool",
		Short: "Groups service CLI",
		Long: `groupstool queries and edits group memberships in the groups web service.
Every request authenticates with a TLS client certificate: pass a PEM file
holding the certificate followed by its private key.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(cmd.Flags(), defaultAPI)
			if err != nil {
				return &configError{err: err}
			}

			logger := newLogger(settings.Debug, cmd.ErrOrStderr())
			provider := client.NewProvider(settings.APIURL,
				client.WithTimeout(settings.Timeout),
				client.WithCABundle(settings.CACert),
				client.WithLogger(logger),
			)

			cmd.SetContext(config.InjectConfig(cmd.Context(), &config.GlobalConfig{
				Settings:       *settings,
				Logger:         logger,
				ClientProvider: provider,
			}))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(config.FlagAPI, "", "Groups service base URL (env: GROUPS_API)")
	flags.Duration(config.FlagTimeout, sdk.DefaultTimeout, "Request timeout (env: GROUPS_TIMEOUT)")
	flags.String(config.FlagCACert, "", "PEM bundle of CAs trusted for the service certificate (env: GROUPS_CA_BUNDLE)")
	flags.StringP(config.FlagOutput, "o", config.OutputText, "Output format: text or json (env: GROUPS_OUTPUT)")
	flags.Bool(config.FlagDebug, false, "Log requests to stderr (env: GROUPS_DEBUG=1)")
	flags.StringP(config.FlagProfile, "p", "", "Profile from ~/.groupstool/config.yaml (env: GROUPS_PROFILE)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.AddCommand(newGroupsByMemberCmd())
	rootCmd.AddCommand(newListMembersCmd())
	rootCmd.AddCommand(newAddMemberCmd())
	rootCmd.AddCommand(newRemoveMemberCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newLogger(debug bool, w io.Writer) *pterm.Logger {
	level := pterm.LogLevelWarn
	if debug {
		level = pterm.LogLevelDebug
	}
	return pterm.DefaultLogger.WithLevel(level).WithWriter(w)
}

// sdkClient returns the groups client for this invocation, authenticated
// with the certificate bundle at certPath.
func sdkClient(ctx context.Context, certPath string) (*sdk.Client, error) {
	cfg := config.MustFromContext(ctx)
	cfg.ClientProvider.SetCredential(sdk.Credential{Path: certPath})
	return cfg.ClientProvider.SDKClient()
}
