package spatial

import "github.com/GhostPeony/browsy/dom"

// interactiveRoles are the ARIA roles that make any element interactive
// regardless of its tag.
var interactiveRoles = map[string]struct{}{
	"button": {}, "link": {}, "checkbox": {}, "radio": {}, "textbox": {},
	"searchbox": {}, "combobox": {}, "listbox": {}, "option": {},
	"menuitem": {}, "menuitemcheckbox": {}, "menuitemradio": {},
	"slider": {}, "spinbutton": {}, "switch": {}, "tab": {},
}

// landmarkRoles are the ARIA roles that make any element a landmark.
var landmarkRoles = map[string]struct{}{
	"navigation": {}, "banner": {}, "contentinfo": {}, "complementary": {},
	"region": {}, "main": {}, "form": {},
}

// ImplicitRole returns the implicit ARIA role of an element, or "".
// The explicit role attribute always wins over this mapping.
func ImplicitRole(n *dom.Node) string {
	switch n.Tag {
	case "a":
		if n.HasAttr("href") {
			return "link"
		}
		return ""
	case "button", "summary":
		return "button"
	case "textarea":
		return "textbox"
	case "select":
		if n.HasAttr("multiple") {
			return "listbox"
		}
		return "combobox"
	case "option":
		return "option"
	case "input":
		return inputRole(n.AttrOr("type", "text"))
	case "nav":
		return "navigation"
	case "header":
		return "banner"
	case "footer":
		return "contentinfo"
	case "main":
		return "main"
	case "aside":
		return "complementary"
	case "form":
		return "form"
	case "section":
		if n.AttrOr("aria-label", "") != "" {
			return "region"
		}
		return ""
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "heading"
	case "img":
		return "img"
	case "table":
		return "table"
	case "ul", "ol":
		return "list"
	case "li":
		return "listitem"
	default:
		return ""
	}
}

func inputRole(typ string) string {
	switch typ {
	case "checkbox":
		return "checkbox"
	case "radio":
		return "radio"
	case "search":
		return "searchbox"
	case "range":
		return "slider"
	case "number":
		return "spinbutton"
	case "submit", "button", "reset", "image":
		return "button"
	case "hidden":
		return ""
	default:
		// text, email, password, tel, url, date and friends all expose
		// a text-editing box.
		return "textbox"
	}
}

// RoleOf resolves the element's role: explicit attribute first, then
// the implicit mapping.
func RoleOf(n *dom.Node) string {
	if r, ok := n.Attr("role"); ok && r != "" {
		return r
	}
	return ImplicitRole(n)
}

// interactiveTags are tags that are interactive by nature.
var interactiveTags = map[string]struct{}{
	"a": {}, "button": {}, "input": {}, "textarea": {}, "select": {},
	"option": {}, "summary": {},
}

// IsInteractive reports whether the element belongs to the interactive
// emission category.
func IsInteractive(n *dom.Node) bool {
	if _, ok := interactiveTags[n.Tag]; ok {
		return true
	}
	if r, ok := n.Attr("role"); ok {
		if _, ok := interactiveRoles[r]; ok {
			return true
		}
	}
	return false
}

// landmarkTags are always landmarks. section is excluded: it only
// becomes a landmark with an aria-label or explicit landmark role.
var landmarkTags = map[string]struct{}{
	"nav": {}, "header": {}, "footer": {}, "main": {}, "aside": {}, "form": {},
}

// IsLandmark reports whether the element belongs to the landmark
// emission category.
func IsLandmark(n *dom.Node) bool {
	if r, ok := n.Attr("role"); ok {
		if _, ok := landmarkRoles[r]; ok {
			return true
		}
	}
	if _, ok := landmarkTags[n.Tag]; ok {
		return true
	}
	return n.Tag == "section" && n.AttrOr("aria-label", "") != ""
}

// textTags are emitted as text elements when they carry text.
var textTags = map[string]struct{}{
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"p": {}, "li": {}, "dt": {}, "dd": {}, "blockquote": {}, "pre": {},
	"code": {}, "label": {},
}

// droppedTags are never emitted and never traversed.
var droppedTags = map[string]struct{}{
	"script": {}, "style": {}, "meta": {}, "link": {}, "noscript": {},
	"template": {},
}
