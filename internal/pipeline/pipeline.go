// Package pipeline chains one codetyper run: enumerate the source, pick a
// file, load it and hand it to the reveal engine. Any stage failing ends the
// run with that stage's error.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"codetyper/internal/errors"
	"codetyper/internal/loader"
	"codetyper/internal/log"
	"codetyper/internal/reveal"
	"codetyper/internal/selector"
	"codetyper/internal/source"
)

// Options wires the stages together
type Options struct {
	Source   source.Source
	Selector *selector.Selector
	Terminal reveal.Terminal
	Reveal   reveal.Options
	// Out receives the selection banner; nil discards it
	Out io.Writer
	// Banner formats the banner line; nil prints it plain
	Banner func(id string) string
}

// Result describes a finished run
type Result struct {
	File    string
	Files   int
	Outcome reveal.Outcome
}

// Run executes the pipeline once
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Source == nil {
		return nil, errors.ErrNoSource
	}
	if opts.Terminal == nil {
		return nil, errors.New("no terminal provided")
	}

	logger := log.LogWithFields(log.F("source", opts.Source.Name()))

	start := time.Now()
	files, err := opts.Source.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	logger.With(log.F("files", len(files)), log.F("duration", time.Since(start).String())).
		Debug("Enumeration finished")

	id, err := opts.Selector.Select(files)
	if err != nil {
		return nil, err
	}
	printBanner(opts, id)

	content, err := loader.Load(ctx, opts.Source, id)
	if err != nil {
		return nil, err
	}

	outcome, err := reveal.New(opts.Terminal, opts.Reveal).Reveal(ctx, content)
	if err != nil {
		return nil, err
	}

	logger.With(log.F("file", id), log.F("outcome", outcome.String())).Info("Run complete")
	return &Result{File: id, Files: len(files), Outcome: outcome}, nil
}

func printBanner(opts Options, id string) {
	if opts.Out == nil {
		return
	}
	line := "Selected file: " + id
	if opts.Banner != nil {
		line = opts.Banner(id)
	}
	fmt.Fprintln(opts.Out, line)
}
