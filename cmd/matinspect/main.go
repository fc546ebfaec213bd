// Command matinspect loads a saved matrix workspace, recomputes it and
// reports the result.
//
//	matinspect [flags] document.(json|yaml)
//	matinspect -gallery g.db -load name [flags]
//	matinspect -gallery g.db -list
//
// The output matrix is printed, optionally with the provenance of one cell.
// Expressions (-expr, repeatable) are evaluated over the computed matrices.
// The workspace can be written back as a current-version document (-out),
// as an XLSX workbook (-xlsx) or into a gallery (-save).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var exitFunc = os.Exit

// exprList collects repeated -expr flags.
type exprList []string

func (e *exprList) String() string { return strings.Join(*e, "; ") }

func (e *exprList) Set(v string) error {
	*e = append(*e, v)
	return nil
}

type options struct {
	input      string
	formula    string
	iterations int
	show       string
	cell       string
	exprs      exprList
	xlsx       string
	out        string
	gallery    string
	save       string
	load       string
	list       bool
	metrics    bool
}

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("matinspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		opts     options
		logLevel string
	)
	fs.StringVar(&opts.formula, "formula", "", "replace the document formula")
	fs.IntVar(&opts.iterations, "iterations", 0, "replace the iteration count of an iterative formula")
	fs.StringVar(&opts.show, "show", "", "matrix to print (default the output matrix, \"-\" for none)")
	fs.StringVar(&opts.cell, "cell", "", "print the provenance of output cell \"row,col\"")
	fs.Var(&opts.exprs, "expr", "expression to evaluate over the computed matrices (repeatable)")
	fs.StringVar(&opts.xlsx, "xlsx", "", "write an XLSX workbook to this path")
	fs.StringVar(&opts.out, "out", "", "write the workspace document to this path (.json, .yaml)")
	fs.StringVar(&opts.gallery, "gallery", "", "SQLite gallery database")
	fs.StringVar(&opts.save, "save", "", "save the workspace to the gallery under this name")
	fs.StringVar(&opts.load, "load", "", "load the document saved in the gallery under this name")
	fs.BoolVar(&opts.list, "list", false, "list gallery entries")
	fs.BoolVar(&opts.metrics, "metrics", false, "print recompute metrics on exit")
	fs.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		_, _ = fmt.Fprintln(stderr, "matinspect: at most one document path")
		return 2
	}
	opts.input = fs.Arg(0)

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		_, _ = fmt.Fprintf(stderr, "matinspect: %v\n", err)
		return 2
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), opts, stdout, logger); err != nil {
		_, _ = fmt.Fprintf(stderr, "matinspect: %v\n", err)
		return 1
	}

	return 0
}
