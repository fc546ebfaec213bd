package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/matinspect/document"
	"github.com/katalvlaran/matinspect/engine"
	"github.com/katalvlaran/matinspect/gallery"
	"github.com/katalvlaran/matinspect/inspect"
	"github.com/katalvlaran/matinspect/report"
	"github.com/katalvlaran/matinspect/workspace"
)

var (
	errNoInput   = errors.New("no document: give a path or -load")
	errNoGallery = errors.New("-gallery is required")
)

func run(ctx context.Context, opts options, stdout io.Writer, logger *slog.Logger) (err error) {
	var store *gallery.SQLiteStore
	if opts.gallery != "" {
		if store, err = gallery.NewSQLiteStore(opts.gallery); err != nil {
			return err
		}
		defer func() {
			if cerr := store.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	} else if opts.list || opts.load != "" || opts.save != "" {
		return errNoGallery
	}

	if opts.list {
		if err = list(ctx, store, stdout); err != nil {
			return err
		}
		if opts.input == "" && opts.load == "" {
			return nil
		}
	}

	doc, err := source(ctx, opts, store)
	if err != nil {
		return err
	}
	ws := workspace.New(workspace.WithLogger(logger))
	res, err := ws.Import(ctx, doc)
	if err != nil {
		return err
	}
	if res, err = override(ctx, ws, opts, res); err != nil {
		return err
	}

	summary(stdout, ws, res)
	if err = show(stdout, ws, opts); err != nil {
		return err
	}
	if err = evaluate(stdout, ws, opts.exprs); err != nil {
		return err
	}
	if err = write(ctx, ws, opts, store); err != nil {
		return err
	}
	if opts.metrics {
		return metrics(stdout)
	}

	return nil
}

func list(ctx context.Context, store gallery.Store, stdout io.Writer) error {
	entries, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		_, _ = fmt.Fprintf(stdout, "%s\t%s\t%dx%d\t%s\n",
			e.Name, e.Timestamp.Format(time.RFC3339), e.Dimensions.Rows, e.Dimensions.Cols, e.Formula)
	}

	return nil
}

// source reads the document named by the flags.
func source(ctx context.Context, opts options, store gallery.Store) (*document.Document, error) {
	switch {
	case opts.load != "" && opts.input != "":
		return nil, errors.New("give either a path or -load, not both")
	case opts.load != "":
		return store.Load(ctx, opts.load)
	case opts.input == "":
		return nil, errNoInput
	}
	f, err := document.FormatFromPath(opts.input)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(opts.input)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	return document.Decode(data, f)
}

// override applies -formula and -iterations and recomputes when either is set.
func override(ctx context.Context, ws *workspace.Workspace, opts options, res *engine.Result) (*engine.Result, error) {
	if opts.formula == "" && opts.iterations == 0 {
		return res, nil
	}
	if opts.formula != "" {
		if err := ws.SetFormula(opts.formula); err != nil {
			return nil, err
		}
	}
	if opts.iterations != 0 {
		if err := ws.SetIterations(opts.iterations); err != nil {
			return nil, err
		}
	}

	return ws.Recompute(ctx)
}

func summary(stdout io.Writer, ws *workspace.Workspace, res *engine.Result) {
	c := ws.Config()
	_, _ = fmt.Fprintf(stdout, "formula: %s (%s, %dx%d)\n", ws.Formula(), res.Mode, c.Rows, c.Cols)
	if len(res.Produced) > 0 {
		_, _ = fmt.Fprintf(stdout, "produced: %s\n", strings.Join(res.Produced, ", "))
	}
	for _, e := range res.Errors {
		_, _ = fmt.Fprintf(stdout, "error: %v\n", e)
	}
}

func show(stdout io.Writer, ws *workspace.Workspace, opts options) error {
	name := opts.show
	if name == "-" {
		return nil
	}
	if name == "" {
		name = ws.Output()
	}
	m, err := ws.Dense(name)
	if errors.Is(err, workspace.ErrUnknownMatrix) && opts.show == "" {
		return nil
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "%s =\n%s\n", name, m)

	if opts.cell == "" {
		return nil
	}
	row, col, err := parseCell(opts.cell)
	if err != nil {
		return err
	}
	c, ok := ws.Element(name, row, col)
	if !ok {
		return fmt.Errorf("%w: %s(%d,%d)", workspace.ErrOutOfRange, name, row, col)
	}
	_, _ = fmt.Fprintf(stdout, "%s(%d,%d) = %g from [%s]\n", name, row, col, c.Value, strings.Join(c.Dependencies, " "))

	return nil
}

func parseCell(s string) (row, col int, err error) {
	r, c, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("cell %q: want row,col", s)
	}
	if row, err = strconv.Atoi(strings.TrimSpace(r)); err != nil {
		return 0, 0, fmt.Errorf("cell %q: %w", s, err)
	}
	if col, err = strconv.Atoi(strings.TrimSpace(c)); err != nil {
		return 0, 0, fmt.Errorf("cell %q: %w", s, err)
	}

	return row, col, nil
}

func evaluate(stdout io.Writer, ws *workspace.Workspace, exprs []string) error {
	if len(exprs) == 0 {
		return nil
	}
	env, err := inspect.FromWorkspace(ws)
	if err != nil {
		return err
	}
	in := inspect.New()
	for _, e := range exprs {
		v, err := in.Eval(e, env)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "%s = %v\n", e, v)
	}

	return nil
}

func write(ctx context.Context, ws *workspace.Workspace, opts options, store gallery.Store) error {
	if opts.xlsx != "" {
		sheets, err := report.FromWorkspace(ws)
		if err != nil {
			return err
		}
		if err = report.SaveWorkbook(opts.xlsx, sheets); err != nil {
			return err
		}
	}
	if opts.out != "" {
		f, err := document.FormatFromPath(opts.out)
		if err != nil {
			return err
		}
		data, err := document.Encode(ws.Export(), f)
		if err != nil {
			return err
		}
		if err = os.WriteFile(opts.out, data, 0o600); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
	}
	if opts.save != "" {
		return store.Save(ctx, opts.save, ws.Export())
	}

	return nil
}

// metrics prints the recompute metrics gathered during this run.
func metrics(stdout io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "matinspect_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				v = float64(m.GetHistogram().GetSampleCount())
			}
			_, _ = fmt.Fprintf(stdout, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), v)
		}
	}

	return nil
}
