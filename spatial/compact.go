package spatial

import (
	"fmt"
	"strconv"
	"strings"
)

// Compact renders the DOM one line per element:
//
//	title: Example
//	url: https://example.com/
//	vp: 1280x720
//	els: 3
//	---
//	[1:nav navigation]
//	[2:a "Home" ->https://example.com/ @top-L]
//	[!3:input:password [password] [*]]
//
// Hidden elements carry a ! prefix, non-text input types follow the tag,
// the form name sits in [brackets], [v] marks checked, [*] required,
// [=value] the current value, then size hints, quoted text, ->href and
// the position suffix.
func Compact(d *Dom) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "title: %s\n", d.Title)
	fmt.Fprintf(&sb, "url: %s\n", d.URL)
	fmt.Fprintf(&sb, "vp: %dx%d\n", d.Viewport[0], d.Viewport[1])
	fmt.Fprintf(&sb, "els: %d\n", len(d.Els))
	sb.WriteString("---\n")
	for _, el := range d.Els {
		sb.WriteString(compactLine(el, ""))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// CompactDelta renders a delta: a -[id,id,...] removal line followed by
// one [+id:tag ...] line per added or changed element.
func CompactDelta(delta *Delta) string {
	var sb strings.Builder
	if len(delta.Removed) > 0 {
		parts := make([]string, len(delta.Removed))
		for i, id := range delta.Removed {
			parts[i] = strconv.FormatUint(uint64(id), 10)
		}
		fmt.Fprintf(&sb, "-[%s]\n", strings.Join(parts, ","))
	}
	for _, el := range delta.Changed {
		sb.WriteString(compactLine(el, "+"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func compactLine(el *Element, prefix string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(prefix)
	if el.Hidden {
		sb.WriteByte('!')
	}
	fmt.Fprintf(&sb, "%d:%s", el.ID, el.Tag)
	if el.InputType != "" && el.InputType != "text" {
		sb.WriteByte(':')
		sb.WriteString(el.InputType)
	}
	if el.Role != "" && el.Role != compactImplicitRole(el) {
		sb.WriteByte(' ')
		sb.WriteString(el.Role)
	}
	if el.Name != "" {
		fmt.Fprintf(&sb, " [%s]", el.Name)
	}
	if el.Checked {
		sb.WriteString(" [v]")
	}
	if el.Required {
		sb.WriteString(" [*]")
	}
	if el.Disabled {
		sb.WriteString(" [x]")
	}
	if el.Value != "" {
		fmt.Fprintf(&sb, " [=%s]", el.Value)
	}
	if el.SizeHint != "" {
		sb.WriteByte(' ')
		sb.WriteString(el.SizeHint)
	}
	if el.Placeholder != "" && el.Text == "" {
		fmt.Fprintf(&sb, " ph=%q", el.Placeholder)
	}
	if el.Text != "" {
		fmt.Fprintf(&sb, " %q", el.Text)
	}
	if el.AlertType != "" {
		fmt.Fprintf(&sb, " !%s", el.AlertType)
	}
	if el.Href != "" {
		sb.WriteString(" ->")
		sb.WriteString(el.Href)
	}
	if el.PosSuffix != "" {
		sb.WriteByte(' ')
		sb.WriteString(el.PosSuffix)
	}
	sb.WriteByte(']')
	return sb.String()
}

// compactImplicitRole mirrors the implicit role mapping well enough to
// suppress redundant role tokens in compact output.
func compactImplicitRole(el *Element) string {
	switch el.Tag {
	case "a":
		if el.Href != "" {
			return "link"
		}
	case "button", "summary":
		return "button"
	case "textarea":
		return "textbox"
	case "select":
		return "combobox"
	case "option":
		return "option"
	case "input":
		return inputRole(orText(el.InputType))
	case "img", "svg":
		return "img"
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "heading"
	case "ul", "ol":
		return "list"
	case "li":
		return "listitem"
	case "table":
		return "table"
	}
	return ""
}

func orText(t string) string {
	if t == "" {
		return "text"
	}
	return t
}
