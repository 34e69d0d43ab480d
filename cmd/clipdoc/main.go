package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/clipdoc/clipdoc/converter"
	"github.com/clipdoc/clipdoc/render"
)

const (
	formatMarkdown = "markdown"
	formatHTML     = "html"
	formatJSON     = "json"
)

func main() {
	format := flag.String("format", formatMarkdown, "Output format: markdown|html|json")
	baseURL := flag.String("base", "", "Base URL for resolving relative references")
	preserve := flag.Bool("preserve-html", false, "Keep unknown elements as raw markup")
	manifest := flag.Bool("manifest", false, "Print the asset manifest as JSON to stderr")
	quiet := flag.Bool("quiet", false, "Suppress conversion warnings")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: clipdoc [options] <input-file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}
	inputFile := args[0]

	data, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	conv, err := converter.New(converter.Config{
		BaseURL:             *baseURL,
		PreserveUnknownHTML: *preserve,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	result, err := conv.Convert(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting file: %v\n", err)
		os.Exit(1)
	}

	if !*quiet {
		for _, warning := range result.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", warning.Type, warning.Message)
		}
	}

	if *manifest {
		pretty, err := json.MarshalIndent(result.Assets, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting manifest: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, string(pretty))
	}

	switch strings.ToLower(strings.TrimSpace(*format)) {
	case formatMarkdown:
		fmt.Print(render.Markdown(result.Document, result.Assets, render.Options{}))
	case formatHTML:
		out, err := render.HTML(result.Document, result.Assets, render.Options{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering HTML: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	case formatJSON:
		pretty, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting result: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(pretty))
	default:
		fmt.Fprintf(os.Stderr, "Unknown format %q (allowed: markdown, html, json)\n", *format)
		os.Exit(1)
	}
}
