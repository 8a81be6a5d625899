package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-richdoc"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("render: %v", err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("render", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		filePath   = flags.String("file", "-", "Editor JSON document to render (- reads stdin)")
		format     = flags.String("format", "", "Output format: gfm or html (defaults to the config value)")
		configPath = flags.String("config", "", "Optional YAML config file")
		preview    = flags.Bool("preview", false, "Render GFM and convert it to HTML with goldmark")
		maxDepth   = flags.Int("max-depth", 0, "Override the maximum document depth")
		warnings   = flags.Bool("warnings", false, "Report unknown node and mark types on stderr")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg := richdoc.DefaultConfig()
	if *configPath != "" {
		loaded, err := richdoc.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *maxDepth > 0 {
		cfg.Transform.MaxDepth = *maxDepth
	}

	data, err := readInput(*filePath, stdin)
	if err != nil {
		return err
	}

	module, err := richdoc.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	if *preview {
		root, err := richdoc.DecodeDocument(data)
		if err != nil {
			return err
		}
		html, err := module.Preview().Document(ctx, root)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, string(html))
		return err
	}

	result, err := module.RenderJSON(ctx, data, *format)
	if err != nil {
		return err
	}
	if *warnings {
		for _, warning := range result.Warnings {
			fmt.Fprintf(stderr, "warning: %s %q seen %d time(s)\n", warning.Type, warning.Tag, warning.Count)
		}
	}
	_, err = io.WriteString(stdout, result.Output)
	return err
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		if stdin == nil {
			return nil, errors.New("no input: pass --file or pipe a document on stdin")
		}
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
