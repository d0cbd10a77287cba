// Command sectree parses a single document into a section tree and
// prints it as JSON. With -flat it emits one JSON object per flattened
// node instead, suitable for piping into indexing tools.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mglynch/sectree/internal/ocrfix"
	"github.com/mglynch/sectree/internal/parser"
	"github.com/mglynch/sectree/internal/section"
)

func main() {
	var (
		output  = flag.String("o", "", "write output to file instead of stdout")
		format  = flag.String("format", "", "input format override (txt, md, html, pdf, docx, csv); default from extension")
		pretty  = flag.Bool("pretty", false, "indent JSON output")
		flat    = flag.Bool("flat", false, "emit flattened nodes as JSON lines instead of a tree")
		fixOCR  = flag.Bool("fix-ocr", false, "repair OCR heading markup before parsing (text input)")
		title   = flag.String("title", "", "override document title")
		verbose = flag.Bool("v", false, "log progress to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [file]\n\nReads from stdin when no file is given.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(flag.Arg(0), *output, *format, *title, *pretty, *flat, *fixOCR, log); err != nil {
		log.Error("sectree failed", "error", err)
		os.Exit(1)
	}
}

func run(input, output, format, title string, pretty, flat, fixOCR bool, log *slog.Logger) error {
	var data []byte
	var err error
	filename := "stdin.txt"
	if input == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
		filename = input
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if format != "" {
		// Dispatch is by extension, so an override just renames the input.
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + "." + strings.TrimPrefix(format, ".")
	}

	if fixOCR {
		data = []byte(ocrfix.Clean(string(data)))
		// Heading repair emits Markdown.
		if ext := strings.ToLower(filename); strings.HasSuffix(ext, ".txt") {
			filename = strings.TrimSuffix(filename, ".txt") + ".md"
		}
		log.Info("applied OCR heading repair")
	}

	p, err := parser.ForFile(filename, parser.Options{PDFFallbackPdftotext: true})
	if err != nil {
		return err
	}

	tree, err := p.Parse(strings.NewReader(string(data)), filename)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if title != "" {
		tree.Title = title
	}
	if err := section.ValidateTree(tree); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	log.Info("parsed document", "title", tree.Title, "sections", len(tree.Sections))

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if flat {
		enc := json.NewEncoder(out)
		for _, node := range section.Flatten(tree) {
			if err := enc.Encode(node); err != nil {
				return fmt.Errorf("encode node: %w", err)
			}
		}
		return nil
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return nil
}
