package engine_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/GhostPeony/browsy/engine"
	"github.com/GhostPeony/browsy/spatial"
)

func parse(t *testing.T, html string, opts engine.Options) *spatial.Dom {
	t.Helper()
	d, err := engine.Parse(html, opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func action[T spatial.Action](d *spatial.Dom) (T, bool) {
	for _, a := range d.SuggestedActions {
		if t, ok := a.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

func byTag(d *spatial.Dom, tag string) []*spatial.Element {
	var out []*spatial.Element
	for _, el := range d.Els {
		if el.Tag == tag {
			out = append(out, el)
		}
	}
	return out
}

// Scenario: login page.
func TestScenario_LoginPage(t *testing.T) {
	html := `<html><head><title>Sign in</title></head><body>
		<form>
			<input type="text" name="login">
			<input type="password" name="password">
			<button>Sign in</button>
		</form>
	</body></html>`
	d := parse(t, html, engine.Options{})

	if d.PageType != spatial.PageLogin {
		t.Errorf("page type = %v, want Login", d.PageType)
	}
	login, ok := action[*spatial.Login](d)
	if !ok {
		t.Fatalf("no Login action, actions = %+v", d.SuggestedActions)
	}
	text := byTag(d, "input")[0]
	var pwd *spatial.Element
	for _, el := range byTag(d, "input") {
		if el.InputType == "password" {
			pwd = el
		}
	}
	button := byTag(d, "button")[0]
	if login.UsernameID != text.ID || login.PasswordID != pwd.ID || login.SubmitID != button.ID {
		t.Errorf("login = %+v (text=%d pwd=%d btn=%d)", login, text.ID, pwd.ID, button.ID)
	}

	compact := engine.Compact(d)
	found := false
	for _, line := range strings.Split(compact, "\n") {
		if strings.Contains(line, ":button") && strings.HasSuffix(line, `"Sign in"]`) {
			found = true
		}
	}
	if !found {
		t.Errorf("compact button line missing:\n%s", compact)
	}
}

// Scenario: listing page with many links and pagination.
func TestScenario_Listing(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<html><head><title>Top Stories</title></head><body><ol>`)
	for i := 0; i < 12; i++ {
		sb.WriteString(`<li><a href="/item">Story number `)
		sb.WriteByte(byte('a' + i))
		sb.WriteString(`</a></li>`)
	}
	sb.WriteString(`</ol><a href="/news?p=2">More</a></body></html>`)
	d := parse(t, sb.String(), engine.Options{})

	if d.PageType != spatial.PageList {
		t.Errorf("page type = %v, want List", d.PageType)
	}
	if _, ok := action[*spatial.Login](d); ok {
		t.Error("unexpected Login action")
	}
	if _, ok := action[*spatial.Search](d); ok {
		t.Error("unexpected Search action")
	}
	p, ok := action[*spatial.Paginate](d)
	if !ok {
		t.Fatal("expected Paginate for the More link")
	}
	if p.NextID == 0 {
		t.Errorf("paginate = %+v", p)
	}
}

// Scenario: 2FA code entry with six narrow inputs.
func TestScenario_TwoFactor(t *testing.T) {
	html := `<html><head><title>Verify</title></head><body>
		<h1>Enter verification code</h1>
		<input type="text" style="width:40px">
		<input type="text" style="width:40px">
		<input type="text" style="width:40px">
		<input type="text" style="width:40px">
		<input type="text" style="width:40px">
		<input type="text" style="width:40px">
		<button>Verify</button>
	</body></html>`
	d := parse(t, html, engine.Options{})

	if d.PageType != spatial.PageTwoFactorAuth {
		t.Errorf("page type = %v, want TwoFactorAuth", d.PageType)
	}
	code, ok := action[*spatial.EnterCode](d)
	if !ok {
		t.Fatalf("no EnterCode action, got %+v", d.SuggestedActions)
	}
	if code.CodeLength != 6 {
		t.Errorf("code_length = %d, want 6", code.CodeLength)
	}
	if code.InputID != byTag(d, "input")[0].ID {
		t.Errorf("input_id = %d", code.InputID)
	}
	if code.SubmitID != byTag(d, "button")[0].ID {
		t.Errorf("submit_id = %d", code.SubmitID)
	}
}

// Scenario: duplicate nav links disambiguated by position.
func TestScenario_DuplicateLinks(t *testing.T) {
	html := `<html><body>
		<a href="/about" style="position:absolute;top:20px;left:20px">About</a>
		<a href="/about2" style="position:absolute;top:1000px;left:1820px">About</a>
	</body></html>`
	d := parse(t, html, engine.Options{ViewportWidth: 1920, ViewportHeight: 1080})

	links := byTag(d, "a")
	if len(links) != 2 {
		t.Fatalf("links = %d", len(links))
	}
	if links[0].PosSuffix != "@top-L" || links[1].PosSuffix != "@bot-R" {
		t.Errorf("suffixes = %q, %q", links[0].PosSuffix, links[1].PosSuffix)
	}
}

// Scenario: hidden dropdown keeps its links, wrappers collapse.
func TestScenario_HiddenDropdown(t *testing.T) {
	html := `<html><body><nav>
		<ul hidden>
			<li><a href="/one">First entry</a></li>
			<li><a href="/two">Second entry</a></li>
			<li><a href="/three">Third entry</a></li>
		</ul>
	</nav></body></html>`
	d := parse(t, html, engine.Options{})

	navs := byTag(d, "nav")
	if len(navs) != 1 || navs[0].Role != "navigation" || navs[0].Text != "" {
		t.Errorf("nav = %+v", navs)
	}
	if n := len(byTag(d, "li")); n != 0 {
		t.Errorf("li wrappers must collapse, got %d", n)
	}
	links := byTag(d, "a")
	if len(links) != 3 {
		t.Fatalf("links = %d, want 3", len(links))
	}
	for _, l := range links {
		if !l.Hidden {
			t.Errorf("link %q not hidden", l.Text)
		}
	}
}

// Scenario: delta across a navigation.
func TestScenario_Delta(t *testing.T) {
	oldHTML := `<html><body>
		<h1>Welcome here</h1>
		<a href="/a">Link alpha</a>
		<a href="/b">Link beta</a>
		<a href="/c">Link gamma</a>
	</body></html>`
	newHTML := `<html><body>
		<h1>Welcome here</h1>
		<h2>Fresh section heading</h2>
	</body></html>`
	oldDom := parse(t, oldHTML, engine.Options{})
	newDom := parse(t, newHTML, engine.Options{})

	delta := engine.Diff(oldDom, newDom)
	if len(delta.Changed) != 1 || delta.Changed[0].Text != "Fresh section heading" {
		t.Errorf("changed = %+v", delta.Changed)
	}
	if len(delta.Removed) != 3 {
		t.Errorf("removed = %v, want the three links", delta.Removed)
	}

	compact := engine.CompactDelta(delta)
	if !strings.Contains(compact, "-[") || !strings.Contains(compact, "[+") {
		t.Errorf("compact delta:\n%s", compact)
	}
}

// Law: re-parsing identical input is byte-identical.
func TestLaw_Idempotence(t *testing.T) {
	html := `<html><head><title>Stable</title></head><body>
		<nav><a href="/x">Duplicate</a><a href="/y">Duplicate</a></nav>
		<p>Some paragraph content that is long enough to matter.</p>
		<input type="text" name="q" placeholder="Search the site">
	</body></html>`
	opts := engine.Options{URL: "https://example.com/page"}

	a := parse(t, html, opts)
	b := parse(t, html, opts)

	aj, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	bj, _ := json.Marshal(b)
	if string(aj) != string(bj) {
		t.Error("structured output differs across identical parses")
	}
	if engine.Compact(a) != engine.Compact(b) {
		t.Error("compact output differs across identical parses")
	}
}

// Boundary: empty body.
func TestBoundary_EmptyBody(t *testing.T) {
	d := parse(t, `<html><body></body></html>`, engine.Options{})
	if len(d.Els) != 0 {
		t.Errorf("els = %d, want 0", len(d.Els))
	}
	if d.PageType != spatial.PageOther {
		t.Errorf("page type = %v, want Other", d.PageType)
	}
	if len(d.SuggestedActions) != 0 {
		t.Errorf("actions = %+v, want none", d.SuggestedActions)
	}
}

// Boundary: a single password input.
func TestBoundary_BarePassword(t *testing.T) {
	d := parse(t, `<input type="password"><button>Go</button>`, engine.Options{})
	if d.PageType != spatial.PageLogin {
		t.Errorf("page type = %v", d.PageType)
	}
	login, ok := action[*spatial.Login](d)
	if !ok {
		t.Fatal("no Login action")
	}
	if login.UsernameID != 0 {
		t.Errorf("username_id should be absent, got %d", login.UsernameID)
	}
	if login.SubmitID != byTag(d, "button")[0].ID {
		t.Errorf("submit_id = %d", login.SubmitID)
	}
}

func TestEngine_StyleBlocksApply(t *testing.T) {
	html := `<html><head><style>a { display: none; }</style></head><body>
		<a href="/x">Invisible link</a><p>Visible paragraph text</p>
	</body></html>`
	d := parse(t, html, engine.Options{})
	links := byTag(d, "a")
	if len(links) != 1 || !links[0].Hidden {
		t.Errorf("styled-away link = %+v", links)
	}
}

func TestEngine_ExtraCSSApplies(t *testing.T) {
	d := parse(t, `<html><body><a href="/x">Link text</a></body></html>`,
		engine.Options{ExtraCSS: []string{"a { visibility: hidden; }"}})
	links := byTag(d, "a")
	if len(links) != 1 || !links[0].Hidden {
		t.Errorf("extra-css hidden link = %+v", links)
	}
}

func TestSession_OverlayAndActions(t *testing.T) {
	s := engine.NewSession(engine.Options{})
	d, err := s.Load(`<html><head><title>Sign in</title></head><body>
		<input type="text" name="login">
		<input type="password" name="password">
		<button>Sign in</button>
	</body></html>`, "https://example.com/login")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	login, err := s.Action("Login")
	if err != nil {
		t.Fatalf("Action(Login): %v", err)
	}
	l := login.(*spatial.Login)
	if err := s.Type(l.UsernameID, "agent"); err != nil {
		t.Fatalf("Type: %v", err)
	}
	if err := s.Type(l.PasswordID, "hunter2"); err != nil {
		t.Fatalf("Type password: %v", err)
	}

	current := s.Current()
	if el, _ := current.Get(l.UsernameID); el.Value != "agent" {
		t.Errorf("overlay value = %q", el.Value)
	}
	if el, _ := d.Get(l.UsernameID); el.Value != "" {
		t.Error("parsed DOM mutated by overlay")
	}

	if _, err := s.Action("Search"); !errors.Is(err, spatial.ErrActionNotApplicable) {
		t.Errorf("missing action err = %v", err)
	}

	// Navigation clears the overlay.
	if _, err := s.Load(`<html><body><p>done and gone</p></body></html>`, "https://example.com/home"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cur := s.Current(); len(cur.Els) == 0 {
		t.Error("expected elements after reload")
	}
}
