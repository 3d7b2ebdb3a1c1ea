package intel_test

import (
	"fmt"
	"testing"

	"github.com/GhostPeony/browsy/intel"
	"github.com/GhostPeony/browsy/spatial"
)

func makeDom(title string, els ...*spatial.Element) *spatial.Dom {
	d := &spatial.Dom{Title: title, Viewport: [2]int{1280, 720}, PageType: spatial.PageOther}
	for i, el := range els {
		el.ID = uint32(i + 1)
		if el.Bounds.W == 0 && el.Bounds.H == 0 && !el.Hidden {
			el.Bounds = spatial.Rect{X: 0, Y: i * 30, W: 100, H: 20}
		}
		d.Els = append(d.Els, el)
	}
	d.RebuildIndex()
	return d
}

func links(n int) []*spatial.Element {
	var out []*spatial.Element
	for i := 0; i < n; i++ {
		out = append(out, &spatial.Element{Tag: "a", Role: "link", Text: fmt.Sprintf("Item %d", i), Href: fmt.Sprintf("/%d", i)})
	}
	return out
}

func passwordInput() *spatial.Element {
	return &spatial.Element{Tag: "input", InputType: "password", Role: "textbox", Name: "password"}
}

func TestClassify_Error(t *testing.T) {
	d := makeDom("Oops", &spatial.Element{Tag: "div", Text: "It broke very badly here", AlertType: "error"})
	if got := intel.Classify(d); got != spatial.PageError {
		t.Errorf("Classify = %v", got)
	}
	d = makeDom("404 Not Found", &spatial.Element{Tag: "p", Text: "nothing here"})
	if got := intel.Classify(d); got != spatial.PageError {
		t.Errorf("Classify 404 = %v", got)
	}
}

func TestClassify_CaptchaBeatsLogin(t *testing.T) {
	d := makeDom("Just a moment", passwordInput())
	if got := intel.Classify(d); got != spatial.PageCaptcha {
		t.Errorf("Classify = %v, want Captcha (priority over Login)", got)
	}
}

func TestClassify_CaptchaFromDetector(t *testing.T) {
	d := makeDom("Any page", &spatial.Element{Tag: "p", Text: "please verify"})
	d.Captcha = &spatial.Captcha{Type: spatial.CaptchaReCaptcha}
	if got := intel.Classify(d); got != spatial.PageCaptcha {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_Login(t *testing.T) {
	d := makeDom("Sign in", passwordInput(), &spatial.Element{Tag: "button", Role: "button", Text: "Sign in"})
	if got := intel.Classify(d); got != spatial.PageLogin {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_HiddenPasswordIsNotLogin(t *testing.T) {
	pwd := passwordInput()
	pwd.Hidden = true
	d := makeDom("Welcome", pwd)
	if got := intel.Classify(d); got == spatial.PageLogin {
		t.Error("hidden password input must not classify as Login")
	}
}

func TestClassify_TwoFactor(t *testing.T) {
	d := makeDom("Anything",
		&spatial.Element{Tag: "h1", Text: "Enter verification code"},
		&spatial.Element{Tag: "input", InputType: "text", Role: "textbox"},
		&spatial.Element{Tag: "button", Role: "button", Text: "Verify"},
	)
	if got := intel.Classify(d); got != spatial.PageTwoFactorAuth {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_OAuthConsent(t *testing.T) {
	d := makeDom("Authorize application",
		&spatial.Element{Tag: "button", Role: "button", Text: "Allow"},
	)
	if got := intel.Classify(d); got != spatial.PageOAuthConsent {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_Inbox(t *testing.T) {
	d := makeDom("Inbox (3) - Mail", links(12)...)
	if got := intel.Classify(d); got != spatial.PageInbox {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_EmailBody(t *testing.T) {
	d := makeDom("Message",
		&spatial.Element{Tag: "p", Text: "From: alice@example.com"},
		&spatial.Element{Tag: "p", Text: "To: bob@example.com"},
		&spatial.Element{Tag: "p", Text: "Subject: lunch"},
	)
	if got := intel.Classify(d); got != spatial.PageEmailBody {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_Dashboard(t *testing.T) {
	d := makeDom("Dashboard",
		&spatial.Element{Tag: "nav", Role: "navigation"},
		&spatial.Element{Tag: "main", Role: "main"},
		&spatial.Element{Tag: "h1", Text: "Overview"},
	)
	if got := intel.Classify(d); got != spatial.PageDashboard {
		t.Errorf("Classify = %v", got)
	}
}

func longParagraph(i int) *spatial.Element {
	text := ""
	for len(text) <= 110 {
		text += fmt.Sprintf("sentence %d keeps going and going ", i)
	}
	return &spatial.Element{Tag: "p", Text: text}
}

func TestClassify_Article(t *testing.T) {
	els := []*spatial.Element{
		{Tag: "h1", Text: "The Deep Headline"},
		{Tag: "h2", Text: "Subhead one"},
		{Tag: "h2", Text: "Subhead two"},
	}
	for i := 0; i < 4; i++ {
		els = append(els, longParagraph(i))
	}
	d := makeDom("A story", els...)
	if got := intel.Classify(d); got != spatial.PageArticle {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_LinkHeavyPageNeedsMoreParagraphs(t *testing.T) {
	els := []*spatial.Element{
		{Tag: "h1", Text: "Index"},
		{Tag: "h2", Text: "Section"},
		{Tag: "h2", Text: "More"},
	}
	for i := 0; i < 4; i++ {
		els = append(els, longParagraph(i))
	}
	els = append(els, links(25)...)
	d := makeDom("Untitled", els...)
	if got := intel.Classify(d); got == spatial.PageArticle {
		t.Error("4 long paragraphs with 25 links must not be an Article")
	}
}

func TestClassify_SearchResults(t *testing.T) {
	els := append(links(9),
		&spatial.Element{Tag: "input", InputType: "search", Role: "searchbox", Name: "q"})
	d := makeDom("Results for golang", els...)
	if got := intel.Classify(d); got != spatial.PageSearchResults {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_SearchResultsByURL(t *testing.T) {
	els := append(links(9),
		&spatial.Element{Tag: "input", InputType: "search", Role: "searchbox", Name: "q"})
	d := makeDom("Example", els...)
	d.URL = "https://example.com/find?q=golang"
	if got := intel.Classify(d); got != spatial.PageSearchResults {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_List(t *testing.T) {
	d := makeDom("Hacker News", links(15)...)
	if got := intel.Classify(d); got != spatial.PageList {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_Search(t *testing.T) {
	d := makeDom("Home",
		&spatial.Element{Tag: "input", InputType: "text", Role: "textbox", Name: "q"},
		&spatial.Element{Tag: "button", Role: "button", Text: "Go"},
	)
	if got := intel.Classify(d); got != spatial.PageSearch {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_SparsePageWithHiddenSearch(t *testing.T) {
	hidden := &spatial.Element{Tag: "input", InputType: "search", Role: "searchbox", Hidden: true}
	d := makeDom("Minimal", hidden, &spatial.Element{Tag: "p", Text: "welcome"})
	if got := intel.Classify(d); got != spatial.PageSearch {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_Form(t *testing.T) {
	d := makeDom("Apply",
		&spatial.Element{Tag: "input", InputType: "text", Role: "textbox", Name: "first"},
		&spatial.Element{Tag: "input", InputType: "email", Role: "textbox", Name: "mail"},
		&spatial.Element{Tag: "button", Role: "button", Text: "Send"},
	)
	if got := intel.Classify(d); got != spatial.PageForm {
		t.Errorf("Classify = %v", got)
	}
}

func TestClassify_Other(t *testing.T) {
	d := makeDom("Totally plain", &spatial.Element{Tag: "p", Text: "hello there friend"})
	if got := intel.Classify(d); got != spatial.PageOther {
		t.Errorf("Classify = %v", got)
	}
}
