// Package main is the entry point for the folio layout painter CLI.
//
// It decodes a measured layout document, paints it into an in-memory
// tree, and either emits a normalized geometry snapshot (the regression
// format) or opens a terminal preview of the painted pages.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/dshills/folio/internal/config"
	"github.com/dshills/folio/internal/decor"
	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/painter"
	"github.com/dshills/folio/internal/painter/snapshot"
	"github.com/dshills/folio/internal/painter/target"
	"github.com/dshills/folio/internal/painter/termview"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	layoutPath string
	configPath string
	outPath    string
	headerText string
	footerText string
	luaScript  string
	mode       string
	view       bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, ok := parseFlags()
	if !ok {
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	data, err := os.ReadFile(opts.layoutPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading layout: %v\n", err)
		return 1
	}
	doc, err := layout.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	popts := painter.DefaultOptions()
	popts.Virtual = cfg.VirtualOptions()
	popts.Theme = cfg.ResolveTheme()
	popts.LinkPolicy = painter.SchemeLinkPolicy(cfg.Links.AllowedSchemes)
	if opts.mode == "all" || opts.view {
		// The preview walks every page; snapshots of a window would be
		// misleading for regression comparison too.
		popts.Mode = painter.ModeAll
	}

	tree := target.NewTree()
	p, err := painter.New(tree, popts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	blocks, measures := splitLookup(doc.Blocks)
	if err := p.SetData(blocks, measures, nil, nil, nil, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := setProviders(p, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := p.Paint(doc.Layout, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: paint: %v\n", err)
		return 1
	}

	if opts.view {
		return runView(p, doc.Layout, tree)
	}
	return writeSnapshot(p, opts.outPath)
}

// splitLookup flattens the decoded block lookup into the parallel slices
// the painter ingests, in stable id order.
func splitLookup(lookup layout.BlockLookup) ([]*layout.Block, []*layout.Measure) {
	ids := make([]string, 0, len(lookup))
	for id := range lookup {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	blocks := make([]*layout.Block, len(ids))
	measures := make([]*layout.Measure, len(ids))
	for i, id := range ids {
		entry := lookup[id]
		blocks[i] = entry.Block
		measures[i] = entry.Measure
	}
	return blocks, measures
}

func setProviders(p *painter.Painter, opts options) error {
	var header, footer decor.Provider

	if opts.luaScript != "" {
		script, err := os.ReadFile(opts.luaScript)
		if err != nil {
			return fmt.Errorf("reading script: %w", err)
		}
		lp, err := decor.NewLuaProvider(string(script))
		if err != nil {
			return err
		}
		header = lp.Provider()
	} else if opts.headerText != "" {
		header = decor.Static(&decor.Decoration{Text: opts.headerText, Height: 24})
	}
	if opts.footerText != "" {
		footer = decor.Static(&decor.Decoration{Text: opts.footerText, Height: 24})
	}

	if header != nil || footer != nil {
		p.SetProviders(header, footer)
	}
	return nil
}

func writeSnapshot(p *painter.Painter, outPath string) int {
	snap, err := p.Snapshot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: snapshot: %v\n", err)
		return 1
	}
	data, err := snap.JSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	data, err = snapshot.Normalize(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if outPath == "" || outPath == "-" {
		fmt.Println(string(data))
		return 0
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runView(p *painter.Painter, l *layout.Layout, tree *target.Tree) int {
	viewer, err := termview.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := viewer.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer viewer.Close()

	viewer.OnScroll(p.OnScroll)
	err = viewer.Run(func() target.Node { return tree.Root() })
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (options, bool) {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.layoutPath, "layout", "", "Path to measured layout JSON (required)")
	flag.StringVar(&opts.configPath, "config", "folio.toml", "Path to configuration file")
	flag.StringVar(&opts.outPath, "o", "", "Snapshot output path (default stdout)")
	flag.StringVar(&opts.headerText, "header", "", "Static header text")
	flag.StringVar(&opts.footerText, "footer", "", "Static footer text")
	flag.StringVar(&opts.luaScript, "decorate", "", "Path to a Lua decoration script")
	flag.StringVar(&opts.mode, "mode", "flowing", "Page mode: flowing or all")
	flag.BoolVar(&opts.view, "view", false, "Open a terminal preview instead of emitting a snapshot")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("folio %s (%s)\n", version, commit)
		return opts, false
	}
	if opts.layoutPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -layout is required")
		flag.Usage()
		return opts, false
	}
	if opts.mode != "flowing" && opts.mode != "all" {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", opts.mode)
		return opts, false
	}
	return opts, true
}
