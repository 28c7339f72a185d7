// Command harvest-extract mirrors Greenhouse Harvest records into a local file cache.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/target/harvest-extract/internal/bootstrap"
	"github.com/target/harvest-extract/internal/domain/model"
	"github.com/target/harvest-extract/internal/report"
	"github.com/target/harvest-extract/internal/service"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries a non-usage exit status out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func failure(err error) error { return &exitError{code: exitFailure, err: err} }

var commandDescriptions = map[string]string{
	service.CommandActivityFeeds: "Fetch the activity feed of every cached candidate",
	service.CommandAttachments:   "Download attachments of every cached candidate",
	service.CommandCheck:         "Verify the cache is internally consistent",
	service.CommandStats:         "Count what the cache holds",
	service.CommandReferences:    "Report cross-entity references that do not resolve",
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	// httpClient overrides the Harvest transport.
	httpClient *http.Client

	createdAfter  string
	createdBefore string
	refresh       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := (&app{stdout: os.Stdout, stderr: os.Stderr}).run(ctx, os.Args[1:])
	stop()
	os.Exit(code) //nolint:forbidigo // CLI must propagate command status to shell scripts
}

// run executes one invocation and returns the process exit status.
func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			_ = writef(a.stderr, "Error: %v\n", exitErr.err)
		}
		return exitErr.code
	}

	_ = writef(a.stderr, "Error: %v\n\n%s", err, root.UsageString())
	return exitUsage
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "harvest-extract <command>",
		Short:         "Mirror Greenhouse Harvest records into a local cache",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return errors.New("a command is required")
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVarP(&a.createdAfter, "created_after", "a", "",
		"only records created at or after this ISO-8601 date")
	root.PersistentFlags().StringVarP(&a.createdBefore, "created_before", "b", "",
		"only records created before this ISO-8601 date")

	for _, name := range service.Commands() {
		root.AddCommand(a.subcommand(name))
	}
	return root
}

func (a *app) subcommand(name string) *cobra.Command {
	short, ok := commandDescriptions[name]
	if !ok {
		short = fmt.Sprintf("Fetch %s into the cache", name)
	}
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.execute(cmd.Context(), name)
		},
	}
	switch name {
	case string(model.EntityProspectPools):
		cmd.Aliases = []string{"pools"}
	case service.CommandActivityFeeds:
		cmd.Flags().BoolVar(&a.refresh, "refresh", false, "re-fetch feeds that are already cached")
	}
	return cmd
}

func (a *app) execute(ctx context.Context, command string) error {
	filter, err := model.ParseDateFilter(a.createdAfter, a.createdBefore)
	if err != nil {
		return err
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return failure(err)
	}
	if err := cfg.Validate(); err != nil {
		return failure(fmt.Errorf("invalid configuration: %w", err))
	}

	logger := bootstrap.InitLogger(a.stderr, cfg.Log).With("run_id", uuid.NewString())

	container, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:     &cfg,
		Logger:     logger,
		HTTPClient: a.httpClient,
	})
	if err != nil {
		return failure(err)
	}
	defer func() {
		if cerr := container.Close(); cerr != nil {
			logger.Warn("close metrics client failed", "error", cerr)
		}
	}()

	out, err := container.Orchestrator.Run(ctx, command, service.RunOptions{Filter: filter, Refresh: a.refresh})
	if err != nil {
		logger.ErrorContext(ctx, "command failed", "command", command, "error", err)
		return failure(err)
	}

	if err := report.Render(a.stdout, out); err != nil {
		return failure(err)
	}
	if out.Failed() {
		return &exitError{code: exitFailure}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
