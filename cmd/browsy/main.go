// Command browsy parses HTML documents into spatial DOMs for
// agent-oriented, pixel-free browsing. It reads a file (or stdin) and
// prints the compact or JSON form, a delta between two documents, or
// the detected action recipes.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/GhostPeony/browsy/config"
	"github.com/GhostPeony/browsy/engine"
	"github.com/GhostPeony/browsy/spatial"
)

func main() {
	root := &cli.Command{
		Name:  "browsy",
		Usage: "convert HTML into an agent-readable spatial DOM",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "configuration file (YAML)"},
			&cli.StringFlag{Name: "viewport", Value: "", Usage: "viewport as WxH, e.g. 1280x720"},
			&cli.StringFlag{Name: "base-url", Usage: "base URL for href resolution"},
			&cli.StringSliceFlag{Name: "css", Usage: "extra stylesheet file (repeatable)"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "parse a document and print its spatial DOM",
				ArgsUsage: "[file|-]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "structured JSON output instead of compact"},
				},
				Action: runRender,
			},
			{
				Name:      "diff",
				Usage:     "print the compact delta between two documents",
				ArgsUsage: "old.html new.html",
				Action:    runDiff,
			},
			{
				Name:      "actions",
				Usage:     "print the suggested action recipes of a document",
				ArgsUsage: "[file|-]",
				Action:    runActions,
			},
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "browsy: %v\n", err)
		os.Exit(1)
	}
}

// setup resolves config, logging and engine options from global flags.
func setup(cmd *cli.Command) (engine.Options, *zap.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return engine.Options{}, nil, err
	}
	if cmd.Bool("debug") {
		cfg.Logging.Level = "debug"
	}
	log, err := cfg.Logging.Prepare()
	if err != nil {
		return engine.Options{}, nil, fmt.Errorf("unable to prepare logs: %w", err)
	}

	opts := engine.Options{
		ViewportWidth:  cfg.Viewport.Width,
		ViewportHeight: cfg.Viewport.Height,
		BaseURL:        cmd.String("base-url"),
		Log:            log,
	}
	if vp := cmd.String("viewport"); vp != "" {
		w, h, err := parseViewport(vp)
		if err != nil {
			return engine.Options{}, nil, err
		}
		opts.ViewportWidth, opts.ViewportHeight = w, h
	}
	for _, path := range cmd.StringSlice("css") {
		data, err := os.ReadFile(path)
		if err != nil {
			return engine.Options{}, nil, fmt.Errorf("unable to read stylesheet: %w", err)
		}
		opts.ExtraCSS = append(opts.ExtraCSS, string(data))
	}
	return opts, log, nil
}

func parseViewport(s string) (int, int, error) {
	wText, hText, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		return 0, 0, fmt.Errorf("viewport must be WxH, got %q", s)
	}
	w, errW := strconv.Atoi(wText)
	h, errH := strconv.Atoi(hText)
	if err := multierr.Append(errW, errH); err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("viewport must be WxH with positive sizes, got %q", s)
	}
	return w, h, nil
}

func readInput(cmd *cli.Command, index int) (string, error) {
	name := cmd.Args().Get(index)
	if name == "" || name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("unable to read document: %w", err)
	}
	return string(data), nil
}

func parseArg(cmd *cli.Command, index int, opts engine.Options) (*spatial.Dom, error) {
	html, err := readInput(cmd, index)
	if err != nil {
		return nil, err
	}
	return engine.Parse(html, opts)
}

func runRender(_ context.Context, cmd *cli.Command) error {
	opts, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	d, err := parseArg(cmd, 0, opts)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Print(engine.Compact(d))
	return nil
}

func runDiff(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 2 {
		return fmt.Errorf("diff needs two documents")
	}
	opts, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	oldDom, err := parseArg(cmd, 0, opts)
	if err != nil {
		return err
	}
	newDom, err := parseArg(cmd, 1, opts)
	if err != nil {
		return err
	}
	fmt.Print(engine.CompactDelta(engine.Diff(oldDom, newDom)))
	return nil
}

func runActions(_ context.Context, cmd *cli.Command) error {
	opts, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	d, err := parseArg(cmd, 0, opts)
	if err != nil {
		return err
	}
	out := struct {
		PageType spatial.PageType `json:"page_type"`
		Actions  []spatial.Action `json:"suggested_actions"`
		Captcha  *spatial.Captcha `json:"captcha,omitempty"`
	}{d.PageType, d.SuggestedActions, d.Captcha}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
