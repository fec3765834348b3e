// Package main provides the remap command line tool.
//
// remap works with raw mapping data without compiling target types:
//   - lint validates YAML mapping profiles
//   - get resolves a dotted/bracketed path against a JSON document
//   - csv converts a CSV file into JSON-lines source maps
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"remap"
	"remap/config"
	"remap/csvio"
	"remap/objpath"
	"remap/profile"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error

	switch os.Args[1] {
	case "lint":
		err = runLint(os.Args[2:])
	case "get":
		err = runGet(os.Args[2:])
	case "csv":
		err = runCSV(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: remap <command> [arguments]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  lint <profile.yaml>...       validate mapping profiles")
	fmt.Fprintln(os.Stderr, "  get <path> [document.json]   resolve a source path against a JSON document")
	fmt.Fprintln(os.Stderr, "  csv [-config file] <file>    convert CSV records to JSON-lines source maps")
}

func runLint(args []string) error {
	fs := flag.NewFlagSet("lint", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return fmt.Errorf("lint needs at least one profile path")
	}

	failed := false

	for _, path := range fs.Args() {
		if _, err := profile.LoadFile(path); err != nil {
			failed = true

			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)

			continue
		}

		fmt.Printf("%s: ok\n", path)
	}

	if failed {
		return fmt.Errorf("one or more profiles are invalid")
	}

	return nil
}

func runGet(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("get needs a path argument")
	}

	p, err := objpath.Parse(fs.Arg(0))
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin

	if fs.NArg() > 1 {
		f, err := os.Open(fs.Arg(1))
		if err != nil {
			return err
		}
		defer f.Close()

		in = f
	}

	var doc map[string]any
	if err := json.NewDecoder(in).Decode(&doc); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	lookup := p.Lookup(doc)
	if !lookup.Found {
		return fmt.Errorf("%s", lookup.Describe())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(lookup.Value)
}

func runCSV(args []string) error {
	fs := flag.NewFlagSet("csv", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML configuration file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("csv needs exactly one file argument")
	}

	opts := csvio.Options{}
	log := zap.NewNop()

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}

		opts.EmptyAsMissing = cfg.CSV.EmptyAsMissing

		if log, err = remap.NewLogger(cfg.Logging); err != nil {
			return err
		}
	}

	defer func() { _ = log.Sync() }()

	rows, err := csvio.DecodeFile(fs.Arg(0), opts)
	if err != nil {
		log.Error("csv decode failed", zap.String("file", fs.Arg(0)), zap.Error(err))

		return err
	}

	log.Info("decoded csv records", zap.String("file", fs.Arg(0)), zap.Int("records", len(rows)))

	enc := json.NewEncoder(os.Stdout)

	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}

	return nil
}
