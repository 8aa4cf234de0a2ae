package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"gradereport/internal/app"
	apperrors "gradereport/internal/errors"
	"gradereport/internal/infrastructure"
	"gradereport/internal/report"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one report request and returns the process exit code:
// 0 for a data report, 2 for the error page, 1 for fatal errors.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("gradereport", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "configuration file (defaults to gradereport.yaml or configs/gradereport.yaml)")
	dataPath := flags.String("data", "", "dataset file, .csv or .xlsx (overrides paths.dataset)")
	outPath := flags.String("out", "", "HTML output file (overrides paths.output)")
	chartPath := flags.String("chart", "", "histogram PNG file (overrides paths.histogram)")
	mode := flags.String("mode", "", "s for a student report, c for a course report (skips the prompt)")
	id := flags.String("id", "", "student or course id (skips the prompt)")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })

	ctx = infrastructure.WithTraceID(ctx, infrastructure.GenerateTraceID())
	failed := color.New(color.FgRed)
	defer func() { _ = infrastructure.CloseLogFile() }()

	application, err := app.NewApplication(ctx, app.Options{
		ConfigPath: *configPath,
		Dataset:    *dataPath,
		Output:     *outPath,
		Histogram:  *chartPath,
	})
	if err != nil {
		infrastructure.GetLogger().ErrorContext(ctx, "Startup failed", slog.String("error", err.Error()))
		failed.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		if err := application.Close(ctx); err != nil {
			application.Logger.WarnContext(ctx, "Shutdown incomplete", slog.String("error", err.Error()))
		}
	}()

	req, err := collectRequest(NewPrompter(stdin, stdout), *mode, *id, set["mode"], set["id"])
	if err != nil {
		failed.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	outcome, err := application.Run(ctx, req)
	if err != nil {
		application.Logger.ErrorContext(ctx, "Run failed", slog.String("error", err.Error()))
		failed.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	printStatus(stdout, application.Config.Paths.Output, outcome)
	return outcome.ExitCode()
}

// printStatus reports the run on w. output is the HTML path as configured,
// before resolution against the base directory.
func printStatus(w io.Writer, output string, outcome app.Outcome) {
	fmt.Fprintf(w, "Output written to file: %s\n", output)

	switch outcome.Kind {
	case report.KindStudent:
		color.New(color.FgGreen).Fprintln(w, "Student details processed")
	case report.KindCourse:
		color.New(color.FgGreen).Fprintln(w, "Course details processed")
	default:
		if errors.Is(outcome.Reason, apperrors.ErrInvalidMode) {
			color.New(color.FgYellow).Fprintln(w, "Invalid option")
		}
	}
}
