// Command pcresyntax parses PCRE patterns and prints their syntax trees.
//
//	pcresyntax '(?<year>\d{4})-(\d\d)'
//	pcresyntax -f dot -g year '(?<year>\d{4})' | dot -Tpng > tree.png
//	pcresyntax --file patterns.txt --counts
package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v2"

	"github.com/auvred/pcresyntax"
)

type config struct {
	format   string
	group    string
	file     string
	jobs     int
	counts   bool
	patterns []string
}

func newApp(cfg *config) *kingpin.Application {
	app := kingpin.New("pcresyntax", "Parse PCRE patterns and print their syntax trees.")
	app.Flag("format", "Output format.").
		Short('f').
		Default("ascii").
		Envar("PCRESYNTAX_FORMAT").
		EnumVar(&cfg.format, "ascii", "dot", "lisp", "yaml")
	app.Flag("group", "Render only this capture group (number or name).").
		Short('g').
		StringVar(&cfg.group)
	app.Flag("file", "Read patterns from a file, one per line.").
		ExistingFileVar(&cfg.file)
	app.Flag("jobs", "Number of patterns parsed in parallel.").
		Short('j').
		Default(strconv.Itoa(runtime.GOMAXPROCS(0))).
		IntVar(&cfg.jobs)
	app.Flag("counts", "Print group counts after each tree.").
		BoolVar(&cfg.counts)
	app.Arg("pattern", "Patterns to parse.").
		StringsVar(&cfg.patterns)
	return app
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "pcresyntax: ", 0)

	var cfg config
	app := newApp(&cfg)
	app.UsageWriter(stdout)
	app.ErrorWriter(stderr)
	exited := false
	app.Terminate(func(int) { exited = true })
	if _, err := app.Parse(args); err != nil {
		logger.Printf("%v", err)
		return 2
	}
	if exited {
		return 0
	}

	patterns := cfg.patterns
	if cfg.file != "" {
		fromFile, err := readPatterns(cfg.file)
		if err != nil {
			logger.Printf("reading %s: %v", cfg.file, err)
			return 1
		}
		patterns = append(patterns, fromFile...)
	}
	if len(patterns) == 0 {
		logger.Printf("no patterns given")
		return 2
	}

	outputs, err := renderAll(context.Background(), cfg, patterns)
	if err != nil {
		logger.Printf("%v", err)
		return 1
	}

	status := 0
	for i, out := range outputs {
		if out.err != nil {
			logger.Printf("%s: %v", strconv.Quote(patterns[i]), out.err)
			status = 1
			continue
		}
		if _, err := stdout.Write(out.text); err != nil {
			logger.Printf("writing output: %v", err)
			return 1
		}
	}
	return status
}

func readPatterns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, sc.Err()
}

type output struct {
	text []byte
	err  error
}

// renderAll parses and renders patterns concurrently. Failures of single
// patterns are reported per output; the returned error is reserved for
// cancellation.
func renderAll(ctx context.Context, cfg config, patterns []string) ([]output, error) {
	outputs := make([]output, len(patterns))
	g, gctx := errgroup.WithContext(ctx)
	if cfg.jobs > 0 {
		g.SetLimit(cfg.jobs)
	}
	for i, src := range patterns {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := render(cfg, src)
			outputs[i] = output{text: text, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func render(cfg config, src string) ([]byte, error) {
	p, err := pcresyntax.Parse(src)
	if err != nil {
		return nil, err
	}
	node, err := selectGroup(p, cfg.group)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch cfg.format {
	case "dot":
		if err := node.WriteDOT(&buf); err != nil {
			return nil, err
		}
	case "lisp":
		buf.WriteString(node.String())
		buf.WriteByte('\n')
	case "yaml":
		var doc []byte
		if cfg.group == "" {
			doc, err = p.YAML()
		} else {
			doc, err = yaml.Marshal(node)
		}
		if err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
		buf.Write(doc)
	default:
		buf.WriteString(node.ASCIITree())
	}
	if cfg.counts {
		fmt.Fprintf(&buf, "groups: %d, named groups: %d\n", p.GroupCount(), p.NamedGroupCount())
	}
	return buf.Bytes(), nil
}

func selectGroup(p *pcresyntax.Pattern, group string) (*pcresyntax.Node, error) {
	if group == "" {
		return p.Root(), nil
	}
	if n, err := strconv.Atoi(group); err == nil {
		return p.Group(n)
	}
	return p.NamedGroup(group)
}
