package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/JaimeStill/esgdash/internal/config"
	dash "github.com/JaimeStill/esgdash/internal/dashboard"
	"github.com/JaimeStill/esgdash/internal/filesapi"
	"github.com/JaimeStill/esgdash/internal/infrastructure"
	"github.com/JaimeStill/esgdash/internal/registry"
	"github.com/JaimeStill/esgdash/internal/validation"
	"github.com/JaimeStill/esgdash/pkg/pdftext"
)

const usage = `usage: esgctl [-config path] [-v] <command> [args]

commands:
  validate [-workers n] <file>...   check files against the ESG report rules
  list [-sort field] [-order dir]   list every file (field: date|name|size, dir: desc|asc)
  used                              list files marked for visualization
  upload <file>                     validate and upload a report
  toggle <id>                       flip a file's visualization flag
  rm [-yes] <id>                    delete a file`

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  *bufio.Reader
	stdout io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("esgctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprintln(stderr, usage) }

	var (
		configPath = fs.String("config", config.BaseConfigFile, "Path to the base config file")
		verbose    = fs.Bool("v", false, "Log at the configured level instead of warn")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		return err
	}

	logging := cfg.Logging
	if !*verbose {
		logging.Level = "warn"
	}

	a := &app{
		cfg:    cfg,
		logger: infrastructure.NewLogger(&logging, stderr),
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "validate":
		return a.validate(ctx, rest)
	case "list":
		return a.list(ctx, rest)
	case "used":
		return a.used(ctx)
	case "upload":
		return a.upload(ctx, rest)
	case "toggle":
		return a.toggle(ctx, rest)
	case "rm":
		return a.remove(ctx, rest)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) validator() validation.Validator {
	return validation.New(&a.cfg.Validation, pdftext.New(), nil, a.logger)
}

func (a *app) client() *filesapi.Client {
	return filesapi.New(&a.cfg.Client, nil, a.logger)
}

// dashboard mounts a dashboard over the API so commands share its
// validation, confirmation, and notice behavior.
func (a *app) dashboard(ctx context.Context) (*dash.Dashboard, error) {
	d := dash.New(
		a.validator(),
		registry.New(a.client(), a.logger),
		dash.NotifyFunc(func(_ context.Context, msg string) {
			fmt.Fprintln(a.stdout, msg)
		}),
		a.cfg.Dashboard.LocaleTag(),
		a.logger,
	)
	if err := d.Mount(ctx); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// confirm asks prompt on stdout and accepts y or yes from stdin.
func (a *app) confirm(_ context.Context, prompt string) bool {
	fmt.Fprintf(a.stdout, "%s [y/N] ", prompt)
	line, err := a.stdin.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
