package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	dash "github.com/JaimeStill/esgdash/internal/dashboard"
	"github.com/JaimeStill/esgdash/internal/registry"
	"github.com/JaimeStill/esgdash/internal/validation"
)

var errRejected = errors.New("one or more files were rejected")

type verdict struct {
	name string
	err  error
}

func (a *app) validate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	workers := fs.Int("workers", runtime.NumCPU(), "Maximum files checked concurrently")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("validate: no files given")
	}

	v := a.validator()
	paths := fs.Args()
	verdicts := make([]verdict, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, *workers))

	for i, path := range paths {
		g.Go(func() error {
			c, err := readCandidate(path)
			if err != nil {
				return err
			}
			verdicts[i] = verdict{name: path, err: v.Check(gctx, c)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	rejected := 0
	for _, vd := range verdicts {
		if vd.err == nil {
			fmt.Fprintf(w, "OK\t%s\t\n", vd.name)
			continue
		}
		rejected++
		fmt.Fprintf(w, "REJECT\t%s\t%s\n", vd.name, validation.ReasonOf(vd.err))
	}
	w.Flush()

	if rejected > 0 {
		return errRejected
	}
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	field := fs.String("sort", string(registry.DefaultSort.Field), "Sort field: date, name, or size")
	order := fs.String("order", string(registry.DefaultSort.Order), "Sort order: desc or asc")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := registry.ParseSortField(*field)
	if err != nil {
		return err
	}
	o, err := registry.ParseSortOrder(*order)
	if err != nil {
		return err
	}

	records, err := a.client().ListAll(ctx)
	if err != nil {
		return err
	}

	sorted := registry.SortedViewIn(a.cfg.Dashboard.LocaleTag(), records, registry.SortSpec{Field: f, Order: o})
	a.printRecords(sorted)
	return nil
}

func (a *app) used(ctx context.Context) error {
	records, err := a.client().ListUsed(ctx)
	if err != nil {
		return err
	}
	a.printRecords(records)
	return nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("upload: expected one file")
	}

	c, err := readCandidate(args[0])
	if err != nil {
		return err
	}

	d, err := a.dashboard(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Stage(ctx, c); err != nil {
		return err
	}
	return d.Upload(ctx)
}

func (a *app) toggle(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	d, err := a.dashboard(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	return d.ToggleUsed(ctx, id)
}

func (a *app) remove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Delete without asking")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	d, err := a.dashboard(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	confirm := dash.ConfirmFunc(a.confirm)
	if *yes {
		confirm = func(context.Context, string) bool { return true }
	}

	err = d.Remove(ctx, id, confirm)
	if errors.Is(err, dash.ErrNotConfirmed) {
		fmt.Fprintln(a.stdout, "aborted")
		return nil
	}
	return err
}

func (a *app) printRecords(records []registry.FileRecord) {
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSED\tUPLOADED\tNAME")
	for _, r := range records {
		used := ""
		if r.IsUsed {
			used = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, used, dash.FormatKST(r.UploadedAt.Time), r.OriginalName)
	}
	w.Flush()
}

// readCandidate loads a local file. The media type is sniffed since the
// filesystem carries none.
func readCandidate(path string) (validation.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return validation.Candidate{}, err
	}
	return validation.Candidate{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected one file id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid file id %q", args[0])
	}
	return id, nil
}
