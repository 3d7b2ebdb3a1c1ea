package dom_test

import (
	"strings"
	"testing"

	"github.com/GhostPeony/browsy/dom"
)

func mustParse(t *testing.T, src string) *dom.Node {
	t.Helper()
	n, err := dom.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n
}

func TestParse_NormalizesTagAndAttrNames(t *testing.T) {
	root := mustParse(t, `<DIV CLASS="Box" Data-X="1">hi</DIV>`)
	div := root.Find(func(n *dom.Node) bool { return n.IsElement("div") })
	if div == nil {
		t.Fatal("expected div element")
	}
	if v, ok := div.Attr("class"); !ok || v != "Box" {
		t.Errorf("class = %q, %v", v, ok)
	}
	if v, ok := div.Attr("DATA-X"); !ok || v != "1" {
		t.Errorf("data-x lookup should be case-insensitive, got %q, %v", v, ok)
	}
}

func TestParse_DuplicateAttrFirstWins(t *testing.T) {
	root := mustParse(t, `<p id="a" id="b">x</p>`)
	p := root.Find(func(n *dom.Node) bool { return n.IsElement("p") })
	if p.ID() != "a" {
		t.Errorf("expected first id to win, got %q", p.ID())
	}
}

func TestParse_MalformedNeverErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"<div><p>unclosed",
		"</b></b></b>",
		"<table><div>misnested</table>",
		"<<<>>>",
	} {
		if _, err := dom.ParseString(src); err != nil {
			t.Errorf("ParseString(%q) = %v, want nil error", src, err)
		}
	}
}

func TestText_CollapsesWhitespaceAndSkipsScript(t *testing.T) {
	root := mustParse(t, "<div>  Hello\n\t world <script>var x=1;</script><span>again</span></div>")
	div := root.Find(func(n *dom.Node) bool { return n.IsElement("div") })
	if got := div.Text(); got != "Hello world again" {
		t.Errorf("Text() = %q", got)
	}
}

func TestOwnText_IgnoresChildElements(t *testing.T) {
	root := mustParse(t, `<li> note <a href="/x">link</a></li>`)
	li := root.Find(func(n *dom.Node) bool { return n.IsElement("li") })
	if got := li.OwnText(); got != "note" {
		t.Errorf("OwnText() = %q", got)
	}
}

func TestTitleAndBody(t *testing.T) {
	root := mustParse(t, `<html><head><title> My  Page </title></head><body><p>x</p></body></html>`)
	if got := root.Title(); got != "My Page" {
		t.Errorf("Title() = %q", got)
	}
	if root.Body() == nil {
		t.Error("Body() = nil")
	}
}

func TestClasses(t *testing.T) {
	root := mustParse(t, `<div class="a  b c">x</div>`)
	div := root.Find(func(n *dom.Node) bool { return n.IsElement("div") })
	cls := div.Classes()
	if len(cls) != 3 || cls[0] != "a" || cls[2] != "c" {
		t.Errorf("Classes() = %v", cls)
	}
	if !div.HasClass("b") || div.HasClass("d") {
		t.Error("HasClass mismatch")
	}
}

func TestParse_CharsetReader(t *testing.T) {
	// windows-1251 encoded "Привет" declared via meta.
	raw := []byte("<html><head><meta charset=\"windows-1251\"></head><body><p>\xcf\xf0\xe8\xe2\xe5\xf2</p></body></html>")
	n, err := dom.Parse(strings.NewReader(string(raw)), "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := n.Find(func(c *dom.Node) bool { return c.IsElement("p") })
	if p == nil || p.Text() != "Привет" {
		t.Errorf("expected decoded cyrillic text, got %q", p.Text())
	}
}
