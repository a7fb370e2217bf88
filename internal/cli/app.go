// Package cli implements the cobra command tree of the timetable console.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/example/timetable-console/internal/application"
	"github.com/example/timetable-console/internal/config"
	"github.com/example/timetable-console/internal/timetable"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// SnapshotReader serves cached data when the console runs offline.
type SnapshotReader interface {
	Headers(ctx context.Context, instituteID string) ([]application.TimetableHeader, error)
	Details(ctx context.Context, headerID string) ([]timetable.Cell, error)
}

// Services bundles the application services the commands run against.
type Services struct {
	Headers *application.HeaderService
	Editor  *application.EditorService
	Lookups *application.LookupService
	Profile *application.ProfileService
}

// App holds the CLI application state.
type App struct {
	config    *config.Config
	services  Services
	snapshots SnapshotReader
	out       io.Writer
	root      *cobra.Command
}

// NewApp creates a new CLI application. The snapshot reader may be nil when
// no offline cache is configured; offline flags then fail with a clear error.
func NewApp(cfg *config.Config, services Services, snapshots SnapshotReader, out io.Writer) *App {
	if out == nil {
		out = os.Stdout
	}
	a := &App{config: cfg, services: services, snapshots: snapshots, out: out}

	a.root = &cobra.Command{
		Use:   "timetable",
		Short: "Manage an institute's generated timetables",
		Long: `Timetable is the admin console for an institute's timetable backend.

It lists generated timetables, renders them as a weekly grid, and performs
scripted edits: moving and swapping cells, assigning courses, and
regenerating the time axis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var noColor bool
	a.root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color output")
	a.root.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if noColor {
			disableColor()
		}
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.headersCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.profileCmd())
	a.root.AddCommand(a.passwdCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "timetable %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// ExecuteArgs runs the CLI with explicit arguments, used by tests.
func (a *App) ExecuteArgs(args []string) error {
	a.root.SetArgs(args)
	return a.root.Execute()
}

func (a *App) instituteID() string {
	if a.config == nil {
		return ""
	}
	return a.config.Backend.InstituteID
}

// findHeader resolves a header ID against the live header list.
func (a *App) findHeader(ctx context.Context, headerID string) (application.TimetableHeader, error) {
	headers, err := a.services.Headers.ListHeaders(ctx, a.instituteID())
	if err != nil {
		return application.TimetableHeader{}, err
	}
	for _, header := range headers {
		if header.ID == headerID {
			return header, nil
		}
	}
	return application.TimetableHeader{}, fmt.Errorf("timetable %q: %w", headerID, application.ErrNotFound)
}

// FormatError turns service errors into terminal friendly messages. Field
// errors are listed one per line in a stable order.
func FormatError(err error) string {
	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		fields := make([]string, 0, len(vErr.FieldErrors))
		for field := range vErr.FieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		msg := "invalid input:"
		for _, field := range fields {
			msg += fmt.Sprintf("\n  %s: %s", field, vErr.FieldErrors[field])
		}
		return msg
	}
	return err.Error()
}
