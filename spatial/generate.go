package spatial

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/GhostPeony/browsy/css"
	"github.com/GhostPeony/browsy/dom"
	"github.com/GhostPeony/browsy/layout"
)

// GenerateOptions configures spatial DOM generation.
type GenerateOptions struct {
	Viewport css.Viewport
	URL      string // document URL recorded on the output
	BaseURL  string // base for href resolution; empty leaves hrefs verbatim
	Title    string
	Log      *zap.Logger
}

// Generate walks the laid-out tree depth-first, left to right, and
// emits the spatial DOM. Element IDs are positional, starting at 1.
func Generate(root *layout.Box, opts GenerateOptions) *Dom {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	g := &generator{
		dom: &Dom{
			URL:      opts.URL,
			Title:    opts.Title,
			Viewport: [2]int{opts.Viewport.Width, opts.Viewport.Height},
			PageType: PageOther,
		},
		log: log.Named("spatial"),
	}
	if opts.BaseURL != "" {
		if u, err := url.Parse(opts.BaseURL); err == nil && u.IsAbs() {
			g.base = u
		}
	}
	g.collectLabels(root.Node())
	g.visit(root, false, false)
	g.assignPositionSuffixes()
	g.dom.RebuildIndex()
	g.log.Debug("spatial dom generated", zap.Int("elements", len(g.dom.Els)))
	return g.dom
}

type generator struct {
	dom      *Dom
	base     *url.URL
	labelFor map[string]string
	log      *zap.Logger
}

// collectLabels maps HTML id attributes to the text of the first
// <label for=...> referencing them.
func (g *generator) collectLabels(root *dom.Node) {
	g.labelFor = make(map[string]string)
	root.Walk(func(n *dom.Node) bool {
		if n.IsElement("label") {
			if target, ok := n.Attr("for"); ok && target != "" {
				if _, seen := g.labelFor[target]; !seen {
					g.labelFor[target] = n.Text()
				}
			}
		}
		return true
	})
}

// visit decides, for one box, between emit, skip (walk through) and
// drop (do not traverse).
func (g *generator) visit(box *layout.Box, ancestorHidden, textConsumed bool) {
	n := box.Node()
	if n.Type != dom.ElementNode {
		for _, c := range box.Children {
			g.visit(c, ancestorHidden, textConsumed)
		}
		return
	}
	if _, dropped := droppedTags[n.Tag]; dropped || n.Tag == "head" {
		return
	}

	hidden := ancestorHidden || isHiddenBox(box)
	x, y, w, h := box.Bounds()
	zeroSize := w == 0 && h == 0
	// A hidden element is never dropped for zero size; a visible one is.
	emittable := hidden || !zeroSize
	rect := Rect{X: x, Y: y, W: w, H: h}

	if IsLandmark(n) {
		if emittable {
			// Landmarks carry role only: no collected text, no label.
			g.emit(&Element{Tag: n.Tag, Bounds: rect, Role: RoleOf(n), Hidden: hidden})
		}
		for _, c := range box.Children {
			g.visit(c, hidden, textConsumed)
		}
		return
	}

	if n.Tag == "svg" {
		// SVG subtrees collapse to a single image-ish element when the
		// <title> child carries text.
		if title := svgTitle(n); title != "" && emittable {
			el := &Element{Tag: "svg", Bounds: rect, Role: "img", Text: title, Hidden: hidden}
			g.applyAlert(el, n)
			g.emit(el)
		}
		return
	}

	if n.Tag == "img" {
		if alt := n.AttrOr("alt", ""); alt != "" && emittable {
			el := &Element{Tag: "img", Bounds: rect, Role: "img", Text: dom.CollapseSpace(alt), Hidden: hidden}
			g.emit(el)
		}
		return
	}

	if IsInteractive(n) {
		if emittable {
			g.emitInteractive(n, rect, hidden)
		}
		if n.Tag == "select" {
			// Options were captured onto the select; the boxes below are
			// not part of the page surface.
			return
		}
		// Text inside is captured on the element itself.
		return
	}

	// Container: maybe a text element, then walk through.
	consumed := textConsumed
	if !textConsumed && emittable {
		if text, full := g.textContent(n); text != "" {
			el := &Element{Tag: n.Tag, Bounds: rect, Hidden: hidden, Text: text}
			if r := RoleOf(n); r != "" {
				el.Role = r
			}
			g.applyAlert(el, n)
			g.emit(el)
			consumed = full
		}
	}
	for _, c := range box.Children {
		g.visit(c, hidden, consumed)
	}
}

// textContent decides whether a container element carries emit-worthy
// text. Returns the text and whether it covers the whole subtree (so
// descendants must not re-emit it).
func (g *generator) textContent(n *dom.Node) (text string, full bool) {
	_, isTextTag := textTags[n.Tag]
	hasInteractive := n.Find(IsInteractive) != nil

	if isTextTag {
		if hasInteractive {
			// Emit only the text the interactive children do not cover.
			return n.OwnText(), false
		}
		return n.Text(), true
	}
	// A generic element is a text container only for its direct text.
	own := n.OwnText()
	if len([]rune(own)) > 1 {
		return own, false
	}
	return "", false
}

// emitInteractive builds the full element record for an interactive
// node.
func (g *generator) emitInteractive(n *dom.Node, rect Rect, hidden bool) {
	el := &Element{Tag: n.Tag, Bounds: rect, Role: RoleOf(n), Hidden: hidden}

	el.Text = g.interactiveText(n)
	el.Name = n.AttrOr("name", "")
	el.Placeholder = n.AttrOr("placeholder", "")
	el.Value = n.AttrOr("value", "")

	if n.Tag == "input" {
		el.InputType = n.AttrOr("type", "text")
	}
	if n.Tag == "a" {
		el.Href = g.resolveHref(n.AttrOr("href", ""))
	}
	if n.Tag == "select" {
		el.Options = selectOptions(n)
	}

	el.Checked = n.HasAttr("checked") || n.AttrOr("aria-checked", "") == "true"
	el.Disabled = n.HasAttr("disabled") || n.AttrOr("aria-disabled", "") == "true"
	el.Required = n.HasAttr("required") || n.AttrOr("aria-required", "") == "true"
	el.Selected = n.HasAttr("selected") || n.AttrOr("aria-selected", "") == "true"
	el.Expanded = n.AttrOr("aria-expanded", "") == "true" || (n.Tag == "summary" && summaryOpen(n))

	el.Label = g.labelText(n)
	el.SizeHint = g.sizeHint(n, rect)
	g.applyAlert(el, n)
	g.emit(el)
}

// interactiveText collects the element's text, falling back through
// aria-label, title, a descendant img alt and a descendant svg title.
func (g *generator) interactiveText(n *dom.Node) string {
	if t := n.Text(); t != "" {
		return t
	}
	if v := n.AttrOr("aria-label", ""); v != "" {
		return dom.CollapseSpace(v)
	}
	if v := n.AttrOr("title", ""); v != "" {
		return dom.CollapseSpace(v)
	}
	if img := n.Find(func(c *dom.Node) bool { return c.IsElement("img") && c.AttrOr("alt", "") != "" }); img != nil {
		return dom.CollapseSpace(img.AttrOr("alt", ""))
	}
	if svg := n.Find(func(c *dom.Node) bool { return c.IsElement("svg") }); svg != nil {
		if t := svgTitle(svg); t != "" {
			return t
		}
	}
	return ""
}

// labelText associates a form control with its label: <label for=id>
// first, then an enclosing <label>.
func (g *generator) labelText(n *dom.Node) string {
	switch n.Tag {
	case "input", "textarea", "select":
	default:
		return ""
	}
	if id := n.ID(); id != "" {
		if text, ok := g.labelFor[id]; ok && text != "" {
			return text
		}
	}
	if parent := n.Ancestor(func(p *dom.Node) bool { return p.IsElement("label") }); parent != nil {
		return parent.Text()
	}
	return ""
}

// sizeHint annotates form controls relative to the viewport width.
func (g *generator) sizeHint(n *dom.Node, rect Rect) string {
	switch n.Tag {
	case "input", "textarea", "select":
	default:
		return ""
	}
	vpW := g.dom.Viewport[0]
	if vpW <= 0 || rect.W <= 0 {
		return ""
	}
	ratio := float64(rect.W) / float64(vpW)
	switch {
	case ratio > 0.9:
		return "full"
	case ratio > 0.5:
		return "wide"
	case ratio < 0.15:
		return "narrow"
	default:
		return ""
	}
}

// applyAlert classifies alert-ish elements from the ARIA role or from
// compound class names. Bare class names like "error" are ignored to
// avoid false positives.
func (g *generator) applyAlert(el *Element, n *dom.Node) {
	switch n.AttrOr("role", "") {
	case "alert":
		el.AlertType = "alert"
		return
	case "status":
		el.AlertType = "status"
		return
	}
	for _, cls := range n.Classes() {
		lower := strings.ToLower(cls)
		prefix, suffix, found := strings.Cut(lower, "-")
		if !found {
			prefix, suffix, found = strings.Cut(lower, "_")
		}
		if !found {
			continue
		}
		switch prefix {
		case "alert", "msg", "message", "flash", "notification", "toast":
		default:
			continue
		}
		switch suffix {
		case "error", "danger":
			el.AlertType = "error"
			return
		case "success":
			el.AlertType = "success"
			return
		case "warning", "warn":
			el.AlertType = "warning"
			return
		}
	}
}

func (g *generator) emit(el *Element) {
	el.ID = uint32(len(g.dom.Els) + 1)
	g.dom.Els = append(g.dom.Els, el)
}

// resolveHref makes hrefs absolute against the base URL. Fragment-only
// references and non-HTTP schemes are preserved verbatim.
func (g *generator) resolveHref(href string) string {
	if href == "" || g.base == nil {
		return href
	}
	if strings.HasPrefix(href, "#") {
		return href
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return href
		}
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return g.base.ResolveReference(ref).String()
}

// assignPositionSuffixes disambiguates duplicate (tag, text) pairs with
// a fold-aware 3x3 grid suffix.
func (g *generator) assignPositionSuffixes() {
	counts := make(map[string]int)
	key := func(el *Element) string { return el.Tag + "\x00" + el.Text }
	for _, el := range g.dom.Els {
		counts[key(el)]++
	}
	vpW, vpH := g.dom.Viewport[0], g.dom.Viewport[1]
	for _, el := range g.dom.Els {
		if counts[key(el)] < 2 {
			continue
		}
		el.PosSuffix = positionSuffix(el.Bounds, vpW, vpH)
	}
}

// positionSuffix names the viewport region of a box centre; boxes whose
// top edge is past the fold get @below.
func positionSuffix(r Rect, vpW, vpH int) string {
	if vpH > 0 && r.Y >= vpH {
		return "@below"
	}
	if vpW <= 0 || vpH <= 0 {
		return "@mid"
	}
	col := clampCell(r.CenterX() * 3 / vpW)
	row := clampCell(r.CenterY() * 3 / vpH)
	rowName := [3]string{"top", "mid", "bot"}[row]
	colName := [3]string{"-L", "", "-R"}[col]
	return fmt.Sprintf("@%s%s", rowName, colName)
}

func clampCell(v int) int {
	if v < 0 {
		return 0
	}
	if v > 2 {
		return 2
	}
	return v
}

// isHiddenBox checks the four hiding mechanisms on the element itself.
func isHiddenBox(box *layout.Box) bool {
	n := box.Node()
	if n.HasAttr("hidden") || n.AttrOr("aria-hidden", "") == "true" {
		return true
	}
	s := box.Style()
	return s.Display == css.DisplayNone || s.Visibility != css.VisibilityVisible
}

// svgTitle returns the text of a direct <title> child of an svg node.
func svgTitle(svg *dom.Node) string {
	if t := svg.FirstChildElement("title"); t != nil {
		return t.Text()
	}
	return ""
}

// selectOptions collects the option values of a select, preferring the
// value attribute and falling back to the option text.
func selectOptions(sel *dom.Node) []string {
	var out []string
	sel.Walk(func(n *dom.Node) bool {
		if n.IsElement("option") {
			if v := n.AttrOr("value", ""); v != "" {
				out = append(out, v)
			} else if t := n.Text(); t != "" {
				out = append(out, t)
			}
			return false
		}
		return true
	})
	return out
}

// summaryOpen reports whether the enclosing details element is open.
func summaryOpen(summary *dom.Node) bool {
	details := summary.Ancestor(func(p *dom.Node) bool { return p.IsElement("details") })
	return details != nil && details.HasAttr("open")
}
