package layout_test

import (
	"testing"

	"github.com/GhostPeony/browsy/css"
	"github.com/GhostPeony/browsy/dom"
	"github.com/GhostPeony/browsy/layout"
)

var vp = css.Viewport{Width: 1000, Height: 800}

func lay(t *testing.T, html, stylesheet string) *layout.Box {
	t.Helper()
	root, err := dom.ParseString(html)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	sheet := css.NewParser(nil).Parse([]byte(stylesheet))
	styled := css.NewEngine(nil).ComputeStyles(root, vp, []*css.Stylesheet{sheet})
	return layout.New(nil).Layout(styled, vp)
}

func findBox(b *layout.Box, tag string) *layout.Box {
	var found *layout.Box
	b.Walk(func(c *layout.Box) bool {
		if found != nil {
			return false
		}
		if c.Node().IsElement(tag) {
			found = c
			return false
		}
		return true
	})
	return found
}

func findBoxByID(b *layout.Box, id string) *layout.Box {
	var found *layout.Box
	b.Walk(func(c *layout.Box) bool {
		if found != nil {
			return false
		}
		if c.Node().Type == dom.ElementNode && c.Node().ID() == id {
			found = c
			return false
		}
		return true
	})
	return found
}

func TestLayout_BlockFillsContainingWidth(t *testing.T) {
	root := lay(t, `<div><p>hello</p></div>`, ``)
	div := findBox(root, "div")
	x, _, w, _ := div.Bounds()
	if x != 0 || w != 1000 {
		t.Errorf("div bounds x=%d w=%d, want 0, 1000", x, w)
	}
}

func TestLayout_SpecifiedWidthAndHeight(t *testing.T) {
	root := lay(t, `<div id="box">x</div>`, `#box { width: 300px; height: 120px; }`)
	b := findBoxByID(root, "box")
	_, _, w, h := b.Bounds()
	if w != 300 || h != 120 {
		t.Errorf("bounds = %dx%d, want 300x120", w, h)
	}
}

func TestLayout_PercentWidth(t *testing.T) {
	root := lay(t, `<div id="outer"><div id="inner">x</div></div>`,
		`#outer { width: 500px; } #inner { width: 50%; height: 10px; }`)
	b := findBoxByID(root, "inner")
	_, _, w, _ := b.Bounds()
	if w != 250 {
		t.Errorf("inner width = %d, want 250", w)
	}
}

func TestLayout_BlockStackingAndMargins(t *testing.T) {
	root := lay(t, `<div><p id="a">x</p><p id="b">y</p></div>`,
		`p { height: 50px; margin-top: 10px; margin-bottom: 10px; }`)
	a := findBoxByID(root, "a")
	b := findBoxByID(root, "b")
	_, ay, _, _ := a.Bounds()
	_, by, _, _ := b.Bounds()
	if ay != 10 {
		t.Errorf("first paragraph y = %d, want 10", ay)
	}
	if by != 80 { // 10 + 50 + 10 + 10
		t.Errorf("second paragraph y = %d, want 80", by)
	}
}

func TestLayout_BorderBoxSizing(t *testing.T) {
	root := lay(t, `<div id="box">x</div>`,
		`#box { box-sizing: border-box; width: 200px; height: 100px; padding: 20px; }`)
	b := findBoxByID(root, "box")
	_, _, w, h := b.Bounds()
	if w != 200 || h != 100 {
		t.Errorf("border-box bounds = %dx%d, want 200x100", w, h)
	}
}

func TestLayout_ContentBoxAddsPadding(t *testing.T) {
	root := lay(t, `<div id="box">x</div>`,
		`#box { width: 200px; height: 100px; padding: 20px; }`)
	b := findBoxByID(root, "box")
	_, _, w, h := b.Bounds()
	if w != 240 || h != 140 {
		t.Errorf("content-box bounds = %dx%d, want 240x140", w, h)
	}
}

func TestLayout_DisplayNoneIsZero(t *testing.T) {
	root := lay(t, `<div><p id="gone">x</p></div>`, `#gone { display: none; }`)
	b := findBoxByID(root, "gone")
	if b == nil {
		t.Fatal("display:none box should still exist")
	}
	_, _, w, h := b.Bounds()
	if w != 0 || h != 0 {
		t.Errorf("display:none bounds = %dx%d, want 0x0", w, h)
	}
}

func TestLayout_FlexRowDistribution(t *testing.T) {
	root := lay(t, `<div id="c"><div id="a"></div><div id="b"></div></div>`,
		`#c { display: flex; width: 600px; }
		 #a { flex-grow: 1; height: 40px; }
		 #b { flex-grow: 2; height: 40px; }`)
	a := findBoxByID(root, "a")
	b := findBoxByID(root, "b")
	_, _, aw, _ := a.Bounds()
	bx, _, bw, _ := b.Bounds()
	if aw != 200 || bw != 400 {
		t.Errorf("flex widths = %d, %d, want 200, 400", aw, bw)
	}
	if bx != 200 {
		t.Errorf("second item x = %d, want 200", bx)
	}
}

func TestLayout_FlexColumnStacks(t *testing.T) {
	root := lay(t, `<div id="c"><div id="a">x</div><div id="b">y</div></div>`,
		`#c { display: flex; flex-direction: column; gap: 10px; }
		 #a { height: 30px; } #b { height: 50px; }`)
	b := findBoxByID(root, "b")
	_, by, _, _ := b.Bounds()
	if by != 40 { // 30 + 10 gap
		t.Errorf("column second item y = %d, want 40", by)
	}
}

func TestLayout_FlexJustifyCenter(t *testing.T) {
	root := lay(t, `<div id="c"><div id="a">x</div></div>`,
		`#c { display: flex; width: 500px; justify-content: center; }
		 #a { width: 100px; height: 10px; }`)
	a := findBoxByID(root, "a")
	ax, _, _, _ := a.Bounds()
	if ax != 200 {
		t.Errorf("centered item x = %d, want 200", ax)
	}
}

func TestLayout_GridColumns(t *testing.T) {
	root := lay(t, `<div id="g"><div id="a">x</div><div id="b">y</div><div id="c2">z</div></div>`,
		`#g { display: grid; grid-template-columns: 100px 1fr; width: 400px; }
		 #g div { height: 20px; }`)
	a := findBoxByID(root, "a")
	b := findBoxByID(root, "b")
	c := findBoxByID(root, "c2")
	_, _, aw, _ := a.Bounds()
	bx, _, bw, _ := b.Bounds()
	_, cy, _, _ := c.Bounds()
	if aw != 100 || bw != 300 {
		t.Errorf("grid track widths = %d, %d, want 100, 300", aw, bw)
	}
	if bx != 100 {
		t.Errorf("second column x = %d, want 100", bx)
	}
	if cy != 20 {
		t.Errorf("wrapped item y = %d, want 20 (second row)", cy)
	}
}

func TestLayout_AbsolutePositioning(t *testing.T) {
	root := lay(t, `<div id="abs">x</div>`,
		`#abs { position: absolute; top: 50px; left: 70px; width: 10px; height: 10px; }`)
	b := findBoxByID(root, "abs")
	x, y, _, _ := b.Bounds()
	if x != 70 || y != 50 {
		t.Errorf("absolute position = (%d,%d), want (70,50)", x, y)
	}
}

func TestLayout_FixedPositionsAgainstViewport(t *testing.T) {
	root := lay(t, `<div><div id="f">x</div></div>`,
		`#f { position: fixed; bottom: 0; right: 0; width: 100px; height: 40px; }`)
	b := findBoxByID(root, "f")
	x, y, _, _ := b.Bounds()
	if x != 900 || y != 760 {
		t.Errorf("fixed position = (%d,%d), want (900,760)", x, y)
	}
}

func TestLayout_InputIntrinsicSize(t *testing.T) {
	root := lay(t, `<form><input type="text" name="q"></form>`, ``)
	b := findBox(root, "input")
	_, _, w, h := b.Bounds()
	if w == 0 || h == 0 {
		t.Errorf("input should have intrinsic size, got %dx%d", w, h)
	}
}

func TestLayout_ZeroViewportSafe(t *testing.T) {
	rootNode, _ := dom.ParseString(`<p>x</p>`)
	styled := css.NewEngine(nil).ComputeStyles(rootNode, css.Viewport{}, nil)
	box := layout.New(nil).Layout(styled, css.Viewport{})
	if box == nil {
		t.Fatal("layout returned nil")
	}
}
