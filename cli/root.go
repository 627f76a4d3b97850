// Package cli wires the credential store and the uploader into the upcli
// command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-git/go-billy/v5"
	"github.com/spf13/cobra"

	"github.com/service-sdk/upcli/credential"
	"github.com/service-sdk/upcli/operation"
	log "github.com/service-sdk/upcli/x/log.v7"
	"github.com/service-sdk/upcli/x/rpc.v7"
)

const Version = "1.0.0"

// App holds the collaborators the commands run against.
type App struct {
	Store      *credential.Store
	NewService func(c *operation.Config) operation.Service
	// Filesystem overrides where files are read from; nil means the host.
	Filesystem billy.Basic
}

// NewApp returns the production wiring: the default token directory and the
// HTTP upload service.
func NewApp() *App {
	return &App{
		Store:      credential.NewDefaultStore(),
		NewService: operation.NewHTTPService,
	}
}

// reportedError marks a failure whose message was already printed for the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func NewRootCommand(app *App) *cobra.Command {
	var (
		configPath string
		verbose    bool
		keepGoing  bool
	)

	rootCmd := &cobra.Command{
		Use:           "upcli <files...>",
		Short:         "Upload files to hosted file storage",
		Version:       Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger := log.NewLogger()
				logger.SetLevel(log.LevelDebug)
				operation.SetLogger(logger)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.upload(cmd, args, configPath, keepGoing)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.toml or .json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log staging and upload details to stderr")
	rootCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "skip unreadable files instead of aborting the batch")

	rootCmd.AddCommand(newLoginCommand(app))
	return rootCmd
}

// Run executes the command line and returns the process exit status.
func Run(ctx context.Context, app *App, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func Execute() {
	rpc.UserAgent = "upcli/" + Version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, NewApp(), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
