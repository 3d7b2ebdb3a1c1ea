// Package intel is the deterministic page-intelligence layer: page-type
// classification, CAPTCHA detection and suggested-action recipes over a
// completed spatial DOM. Same DOM in, same output out.
package intel

import (
	"strings"

	"github.com/GhostPeony/browsy/spatial"
)

func isHeading(el *spatial.Element) bool {
	switch el.Tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return el.Role == "heading"
}

func headings(d *spatial.Dom) []*spatial.Element {
	var out []*spatial.Element
	for _, el := range d.Els {
		if isHeading(el) && !el.Hidden {
			out = append(out, el)
		}
	}
	return out
}

// containsAny reports whether the lowercased text contains any keyword.
func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// titleOrHeadingContains checks the page title and every visible
// heading against the keyword list.
func titleOrHeadingContains(d *spatial.Dom, keywords []string) bool {
	if containsAny(d.Title, keywords) {
		return true
	}
	for _, h := range headings(d) {
		if containsAny(h.Text, keywords) {
			return true
		}
	}
	return false
}

func visibleLinks(d *spatial.Dom) []*spatial.Element {
	var out []*spatial.Element
	for _, el := range d.Els {
		if !el.Hidden && (el.Tag == "a" || el.Role == "link") {
			out = append(out, el)
		}
	}
	return out
}

func isInput(el *spatial.Element, types ...string) bool {
	if el.Tag != "input" {
		return false
	}
	for _, t := range types {
		if el.InputType == t {
			return true
		}
	}
	return false
}

func passwordInputs(d *spatial.Dom, includeHidden bool) []*spatial.Element {
	var out []*spatial.Element
	for _, el := range d.Els {
		if isInput(el, "password") && (includeHidden || !el.Hidden) {
			out = append(out, el)
		}
	}
	return out
}

// textEntryInput matches text/number/tel style code-entry inputs.
func textEntryInput(el *spatial.Element) bool {
	return isInput(el, "text", "number", "tel")
}

// dataEntryInput matches generic data-entry controls: input of any type
// except the control-ish ones, plus textarea and select.
func dataEntryInput(el *spatial.Element) bool {
	switch el.Tag {
	case "textarea", "select":
		return true
	case "input":
		switch el.InputType {
		case "checkbox", "radio", "hidden", "submit", "button", "image":
			return false
		}
		return true
	}
	return false
}

func dataEntryInputs(d *spatial.Dom) []*spatial.Element {
	var out []*spatial.Element
	for _, el := range d.Els {
		if !el.Hidden && dataEntryInput(el) {
			out = append(out, el)
		}
	}
	return out
}

// isSearchInput matches input type search, role searchbox, name "q" or
// a name/placeholder mentioning search.
func isSearchInput(el *spatial.Element) bool {
	if el.Tag != "input" && el.Role != "searchbox" {
		return false
	}
	if el.Tag == "input" {
		switch el.InputType {
		case "checkbox", "radio", "hidden", "submit", "button", "image", "password":
			return false
		}
	}
	if el.InputType == "search" || el.Role == "searchbox" || el.Name == "q" {
		return true
	}
	return containsAny(el.Name, []string{"search"}) ||
		containsAny(el.Placeholder, []string{"search"})
}

func searchInput(d *spatial.Dom, includeHidden bool) *spatial.Element {
	for _, el := range d.Els {
		if !isSearchInput(el) {
			continue
		}
		if includeHidden || !el.Hidden {
			return el
		}
	}
	return nil
}

// isSubmitButton matches buttons able to submit a form.
func isSubmitButton(el *spatial.Element) bool {
	if el.Hidden {
		return false
	}
	if el.Tag == "button" {
		return true
	}
	if isInput(el, "submit", "image") {
		return true
	}
	return el.Role == "button"
}

// nearestBelow returns the matching element with the smallest vertical
// distance at or below the anchor; when none sits below, the nearest
// match anywhere.
func nearestBelow(d *spatial.Dom, anchor *spatial.Element, match func(*spatial.Element) bool) *spatial.Element {
	var below, any *spatial.Element
	bestBelow, bestAny := int(^uint(0)>>1), int(^uint(0)>>1)
	for _, el := range d.Els {
		if el == anchor || !match(el) {
			continue
		}
		dy := el.Bounds.Y - anchor.Bounds.Y
		if dy >= 0 && dy < bestBelow {
			below, bestBelow = el, dy
		}
		if a := abs(dy); a < bestAny {
			any, bestAny = el, a
		}
	}
	if below != nil {
		return below
	}
	return any
}

// nearestWithin returns the matching element with the smallest absolute
// vertical distance to the anchor, capped at maxDy.
func nearestWithin(d *spatial.Dom, anchor *spatial.Element, maxDy int, match func(*spatial.Element) bool) *spatial.Element {
	var best *spatial.Element
	bestDy := maxDy + 1
	for _, el := range d.Els {
		if el == anchor || !match(el) {
			continue
		}
		if dy := abs(el.Bounds.Y - anchor.Bounds.Y); dy < bestDy {
			best, bestDy = el, dy
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// pageText concatenates every element text for whole-page keyword scans.
func pageText(d *spatial.Dom) string {
	var sb strings.Builder
	for _, el := range d.Els {
		if el.Text != "" {
			sb.WriteString(el.Text)
			sb.WriteByte('\n')
		}
	}
	return strings.ToLower(sb.String())
}

func hasLandmark(d *spatial.Dom, role string) bool {
	for _, el := range d.Els {
		if el.Role == role {
			return true
		}
	}
	return false
}

// longParagraphCount counts visible paragraphs longer than the
// threshold.
func longParagraphCount(d *spatial.Dom, minLen int) int {
	count := 0
	for _, el := range d.Els {
		if el.Hidden || el.Tag != "p" {
			continue
		}
		if len(el.Text) > minLen {
			count++
		}
	}
	return count
}

func visibleCount(d *spatial.Dom) int {
	count := 0
	for _, el := range d.Els {
		if !el.Hidden {
			count++
		}
	}
	return count
}
