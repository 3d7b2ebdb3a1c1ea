package spatial

import (
	"regexp"
	"strconv"
	"strings"
)

// codeKeywords mark text that introduces a verification code.
var codeKeywords = []string{
	"verification code", "security code", "your code", "otp", "passcode",
	"one-time",
}

// codeProximityPx: elements this close vertically to a keyword-bearing
// element also count as near the keyword.
const codeProximityPx = 100

var digitRun = regexp.MustCompile(`[0-9]+`)

// FindCodes extracts 4-8 digit verification codes from element texts
// near code keywords. Four-digit sequences in 1900-2099 are rejected as
// likely years.
func (d *Dom) FindCodes() []string {
	var keywordYs []int
	hasKeyword := func(text string) bool {
		lower := strings.ToLower(text)
		for _, kw := range codeKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}
	for _, el := range d.Els {
		if el.Text != "" && hasKeyword(el.Text) {
			keywordYs = append(keywordYs, el.Bounds.Y)
		}
	}

	nearKeyword := func(el *Element) bool {
		if hasKeyword(el.Text) {
			return true
		}
		for _, y := range keywordYs {
			if abs(el.Bounds.Y-y) <= codeProximityPx {
				return true
			}
		}
		return false
	}

	var codes []string
	seen := make(map[string]struct{})
	for _, el := range d.Els {
		if el.Text == "" || !nearKeyword(el) {
			continue
		}
		for _, run := range digitRun.FindAllString(el.Text, -1) {
			if len(run) < 4 || len(run) > 8 {
				continue
			}
			if len(run) == 4 {
				if year, err := strconv.Atoi(run); err == nil && year >= 1900 && year <= 2099 {
					continue
				}
			}
			if _, dup := seen[run]; dup {
				continue
			}
			seen[run] = struct{}{}
			codes = append(codes, run)
		}
	}
	return codes
}
