// Package engine wires the pipeline: HTML and a viewport in, a spatial
// DOM out. Parsing is a pure function; nothing is shared across parses
// except caller-owned options.
package engine

import (
	"go.uber.org/zap"

	"github.com/GhostPeony/browsy/css"
	"github.com/GhostPeony/browsy/dom"
	"github.com/GhostPeony/browsy/intel"
	"github.com/GhostPeony/browsy/layout"
	"github.com/GhostPeony/browsy/spatial"
)

// DefaultViewportWidth and DefaultViewportHeight apply when the caller
// leaves the viewport unset.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// Options configures a parse. The zero value is usable.
type Options struct {
	ViewportWidth  int
	ViewportHeight int

	// URL is the document URL recorded on the output; it doubles as the
	// base for href resolution when BaseURL is empty.
	URL string
	// BaseURL overrides the href resolution base.
	BaseURL string

	// ExtraCSS carries external stylesheets the caller has already
	// fetched (linked sheets). They apply ahead of the document's own
	// <style> blocks.
	ExtraCSS []string

	Log *zap.Logger
}

func (o *Options) viewport() css.Viewport {
	vp := css.Viewport{Width: o.ViewportWidth, Height: o.ViewportHeight}
	if vp.Width <= 0 {
		vp.Width = DefaultViewportWidth
	}
	if vp.Height <= 0 {
		vp.Height = DefaultViewportHeight
	}
	return vp
}

func (o *Options) base() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}
	return o.URL
}

// Parse runs the full pipeline over one HTML document. Malformed input
// degrades, it never fails; the only error source is the reader side of
// the HTML parser, which cannot trigger on an in-memory string.
func Parse(html string, opts Options) (*spatial.Dom, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	vp := opts.viewport()

	root, err := dom.ParseString(html)
	if err != nil {
		return nil, err
	}

	sheets := collectStylesheets(root, opts.ExtraCSS, log)
	styled := css.NewEngine(log).ComputeStyles(root, vp, sheets)
	boxes := layout.New(log).Layout(styled, vp)

	sdom := spatial.Generate(boxes, spatial.GenerateOptions{
		Viewport: vp,
		URL:      opts.URL,
		BaseURL:  opts.base(),
		Title:    root.Title(),
		Log:      log,
	})

	sdom.Captcha = intel.DetectCaptcha(root)
	sdom.PageType = intel.Classify(sdom)
	sdom.SuggestedActions = intel.DetectActions(sdom)

	log.Debug("parse complete",
		zap.Int("elements", len(sdom.Els)),
		zap.String("pageType", string(sdom.PageType)),
		zap.Int("actions", len(sdom.SuggestedActions)))
	return sdom, nil
}

// collectStylesheets parses caller-provided sheets followed by the
// document's <style> blocks in document order.
func collectStylesheets(root *dom.Node, extra []string, log *zap.Logger) []*css.Stylesheet {
	parser := css.NewParser(log)
	var sheets []*css.Stylesheet
	for _, src := range extra {
		sheets = append(sheets, parser.Parse([]byte(src), "extra"))
	}
	root.Walk(func(n *dom.Node) bool {
		if n.IsElement("style") {
			sheets = append(sheets, parser.Parse([]byte(n.RawText()), "style-block"))
			return false
		}
		return true
	})
	return sheets
}

// Diff compares two parses by content identity.
func Diff(oldDom, newDom *spatial.Dom) *spatial.Delta {
	return spatial.Diff(oldDom, newDom)
}

// Compact renders the one-line-per-element form.
func Compact(d *spatial.Dom) string { return spatial.Compact(d) }

// CompactDelta renders a delta in compact form.
func CompactDelta(delta *spatial.Delta) string { return spatial.CompactDelta(delta) }
