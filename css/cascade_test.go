package css_test

import (
	"testing"

	"github.com/GhostPeony/browsy/css"
	"github.com/GhostPeony/browsy/dom"
)

func styleTree(t *testing.T, html, stylesheet string, vp css.Viewport) *css.StyledNode {
	t.Helper()
	root, err := dom.ParseString(html)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	p := css.NewParser(nil)
	sheet := p.Parse([]byte(stylesheet))
	return css.NewEngine(nil).ComputeStyles(root, vp, []*css.Stylesheet{sheet})
}

func findStyled(sn *css.StyledNode, tag string) *css.StyledNode {
	if sn.Node.IsElement(tag) {
		return sn
	}
	for _, c := range sn.Children {
		if got := findStyled(c, tag); got != nil {
			return got
		}
	}
	return nil
}

var vp = css.Viewport{Width: 1280, Height: 720}

func TestCascade_SpecificityOrder(t *testing.T) {
	sn := styleTree(t,
		`<div id="x" class="a">text</div>`,
		`div { width: 10px; } .a { width: 20px; } #x { width: 30px; }`,
		vp)
	div := findStyled(sn, "div")
	if div.Style.Width.Px != 30 {
		t.Errorf("id selector should win, width = %v", div.Style.Width.Px)
	}
}

func TestCascade_LaterRuleWinsOnTie(t *testing.T) {
	sn := styleTree(t,
		`<p>x</p>`,
		`p { width: 10px; } p { width: 20px; }`,
		vp)
	if got := findStyled(sn, "p").Style.Width.Px; got != 20 {
		t.Errorf("later rule should win, width = %v", got)
	}
}

func TestCascade_InlineStyleOutranksSheets(t *testing.T) {
	sn := styleTree(t,
		`<div id="x" style="width: 5px">x</div>`,
		`#x { width: 99px; }`,
		vp)
	if got := findStyled(sn, "div").Style.Width.Px; got != 5 {
		t.Errorf("inline style should win, width = %v", got)
	}
}

func TestCascade_EmResolvesAgainstOwnFontSize(t *testing.T) {
	sn := styleTree(t,
		`<div><p>x</p></div>`,
		`div { font-size: 20px; } p { font-size: 2em; padding-left: 1em; }`,
		vp)
	p := findStyled(sn, "p")
	if p.Style.FontSize != 40 {
		t.Errorf("font-size = %v, want 40 (2em of parent 20px)", p.Style.FontSize)
	}
	if p.Style.PaddingLeft.Px != 40 {
		t.Errorf("padding-left = %v, want 40 (1em of own 40px)", p.Style.PaddingLeft.Px)
	}
}

func TestCascade_RemResolvesAgainstRoot(t *testing.T) {
	sn := styleTree(t,
		`<html><body><p>x</p></body></html>`,
		`html { font-size: 10px; } p { margin-top: 2rem; }`,
		vp)
	if got := findStyled(sn, "p").Style.MarginTop.Px; got != 20 {
		t.Errorf("margin-top = %v, want 20 (2rem of 10px root)", got)
	}
}

func TestCascade_VarWithFallback(t *testing.T) {
	sn := styleTree(t,
		`<div class="box"><span class="inner">x</span></div>`,
		`.box { --w: 120px; } .box .inner { width: var(--w); height: var(--nope, 7px); display: block; }`,
		vp)
	inner := findStyled(sn, "span")
	if inner.Style.Width.Px != 120 {
		t.Errorf("var width = %v, want 120", inner.Style.Width.Px)
	}
	if inner.Style.Height.Px != 7 {
		t.Errorf("fallback height = %v, want 7", inner.Style.Height.Px)
	}
}

func TestCascade_VisibilityInherits(t *testing.T) {
	sn := styleTree(t,
		`<div class="hide"><p>x</p></div>`,
		`.hide { visibility: hidden; }`,
		vp)
	if got := findStyled(sn, "p").Style.Visibility; got != css.VisibilityHidden {
		t.Errorf("visibility should inherit, got %v", got)
	}
}

func TestCascade_MediaRulesRespectViewport(t *testing.T) {
	stylesheet := `
		div { width: 10px; }
		@media (max-width: 600px) { div { width: 99px; } }`
	wide := styleTree(t, `<div>x</div>`, stylesheet, css.Viewport{Width: 1280, Height: 720})
	if got := findStyled(wide, "div").Style.Width.Px; got != 10 {
		t.Errorf("wide viewport width = %v, want 10", got)
	}
	narrow := styleTree(t, `<div>x</div>`, stylesheet, css.Viewport{Width: 400, Height: 720})
	if got := findStyled(narrow, "div").Style.Width.Px; got != 99 {
		t.Errorf("narrow viewport width = %v, want 99", got)
	}
}

func TestCascade_MalformedValueDropsDeclarationOnly(t *testing.T) {
	sn := styleTree(t,
		`<div>x</div>`,
		`div { width: banana; height: 40px; }`,
		vp)
	div := findStyled(sn, "div")
	if !div.Style.Width.IsAuto() {
		t.Errorf("malformed width should stay auto, got %+v", div.Style.Width)
	}
	if div.Style.Height.Px != 40 {
		t.Errorf("height = %v, want 40", div.Style.Height.Px)
	}
}

func TestCascade_DefaultDisplayTypes(t *testing.T) {
	sn := styleTree(t, `<div>a<span>b</span><script>x()</script></div>`, ``, vp)
	if got := findStyled(sn, "div").Style.Display; got != css.DisplayBlock {
		t.Errorf("div display = %v", got)
	}
	if got := findStyled(sn, "span").Style.Display; got != css.DisplayInline {
		t.Errorf("span display = %v", got)
	}
	if got := findStyled(sn, "script").Style.Display; got != css.DisplayNone {
		t.Errorf("script display = %v", got)
	}
}

func TestCascade_ShorthandExpansion(t *testing.T) {
	sn := styleTree(t,
		`<div>x</div>`,
		`div { margin: 1px 2px; padding: 5px; margin-left: 9px; }`,
		vp)
	s := findStyled(sn, "div").Style
	if s.MarginTop.Px != 1 || s.MarginRight.Px != 2 {
		t.Errorf("margin = %+v %+v", s.MarginTop, s.MarginRight)
	}
	if s.MarginLeft.Px != 9 {
		t.Errorf("longhand after shorthand should win, margin-left = %v", s.MarginLeft.Px)
	}
	if s.PaddingBottom.Px != 5 {
		t.Errorf("padding-bottom = %v", s.PaddingBottom.Px)
	}
}

func TestCascade_TextNodesInheritParentStyle(t *testing.T) {
	sn := styleTree(t, `<p>hello</p>`, `p { font-size: 24px; }`, vp)
	p := findStyled(sn, "p")
	if len(p.Children) != 1 || !p.Children[0].IsText() {
		t.Fatalf("expected one text child, got %d", len(p.Children))
	}
	if got := p.Children[0].Style.FontSize; got != 24 {
		t.Errorf("text font-size = %v, want 24", got)
	}
}
