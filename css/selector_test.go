package css_test

import (
	"testing"

	"github.com/GhostPeony/browsy/css"
	"github.com/GhostPeony/browsy/dom"
)

func findEl(t *testing.T, src, tag string) *dom.Node {
	t.Helper()
	root, err := dom.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	n := root.Find(func(c *dom.Node) bool { return c.IsElement(tag) })
	if n == nil {
		t.Fatalf("no <%s> in %q", tag, src)
	}
	return n
}

func mustSel(t *testing.T, s string) css.Selector {
	t.Helper()
	sel, err := css.ParseSelector(s)
	if err != nil {
		t.Fatalf("ParseSelector(%q): %v", s, err)
	}
	return sel
}

func TestSelector_Matching(t *testing.T) {
	doc := `<div id="root" class="outer dark">
		<section data-kind="intro" lang="en-US">
			<p class="lead big">text</p>
		</section>
	</div>`
	p := findEl(t, doc, "p")
	section := findEl(t, doc, "section")

	tests := []struct {
		sel   string
		node  *dom.Node
		match bool
	}{
		{"p", p, true},
		{"*", p, true},
		{".lead", p, true},
		{".lead.big", p, true},
		{".missing", p, false},
		{"#root p", p, true},
		{"#other p", p, false},
		{"div p", p, true},
		{"div > p", p, false},
		{"section > p", p, true},
		{"div > section", section, true},
		{"[data-kind]", section, true},
		{"[data-kind=intro]", section, true},
		{"[data-kind=outro]", section, false},
		{`[class~="lead"]`, p, true},
		{`[lang|="en"]`, section, true},
		{`[data-kind^="in"]`, section, true},
		{`[data-kind$="tro"]`, section, true},
		{`[data-kind*="ntr"]`, section, true},
		{"p:hover", p, true}, // pseudo-classes parsed but ignored
	}
	for _, tt := range tests {
		sel, err := css.ParseSelector(tt.sel)
		if err != nil {
			t.Errorf("ParseSelector(%q): %v", tt.sel, err)
			continue
		}
		if got := sel.Matches(tt.node); got != tt.match {
			t.Errorf("%q matches <%s> = %v, want %v", tt.sel, tt.node.Tag, got, tt.match)
		}
	}
}

func TestSelector_Specificity(t *testing.T) {
	tests := []struct {
		sel  string
		want int
	}{
		{"p", 1},
		{"*", 1},
		{".a", 10},
		{"p.a", 11},
		{"#x", 100},
		{"#x .a p", 111},
		{"[href]", 10},
		{"a:hover", 11},
		{"div > p.note", 12},
	}
	for _, tt := range tests {
		if got := mustSel(t, tt.sel).Specificity(); got != tt.want {
			t.Errorf("Specificity(%q) = %d, want %d", tt.sel, got, tt.want)
		}
	}
}

func TestSelector_UnsupportedForms(t *testing.T) {
	for _, s := range []string{"p + p", "p ~ span", "p:not(.x)", ":nth-child(2)", ""} {
		if _, err := css.ParseSelector(s); err == nil {
			t.Errorf("ParseSelector(%q) succeeded, want error", s)
		}
	}
}
