package intel

import (
	"strings"

	"github.com/GhostPeony/browsy/spatial"
)

// longParagraphLen is the "long paragraph" threshold in bytes.
const longParagraphLen = 100

var (
	errorKeywords = []string{"404", "500", "403", "not found", "error"}

	captchaTitleKeywords = []string{
		"captcha", "verify you're human", "verify you are human", "robot",
		"security check", "just a moment", "attention required",
	}
	captchaHeadingKeywords = []string{
		"captcha", "security check", "complete the challenge",
		"human verification", "are you human",
	}

	twoFactorKeywords = []string{
		"verification", "enter code", "security code", "2fa", "two-factor",
		"otp", "one-time", "passcode",
	}

	oauthKeywords = []string{
		"authorize", "allow access", "grant permission", "oauth", "consent",
	}

	inboxKeywords = []string{"inbox", "mail", "messages"}

	emailMarkers = []string{"from:", "to:", "subject:", "date:"}

	dashboardKeywords = []string{"dashboard", "welcome back", "overview"}

	searchResultKeywords = []string{"search results", "results for", "search"}

	searchURLMarkers = []string{"?q=", "?query=", "?s=", "?search=", "/search"}
)

// Classify determines the page type. Rules are evaluated in priority
// order; the first match wins and Other is the fallback. The captcha
// descriptor must already be attached to the DOM (it comes from the raw
// node tree, ahead of spatial generation).
func Classify(d *spatial.Dom) spatial.PageType {
	switch {
	case isErrorPage(d):
		return spatial.PageError
	case isCaptchaPage(d):
		return spatial.PageCaptcha
	case len(passwordInputs(d, false)) > 0:
		return spatial.PageLogin
	case isTwoFactorPage(d):
		return spatial.PageTwoFactorAuth
	case titleOrHeadingContains(d, oauthKeywords):
		return spatial.PageOAuthConsent
	case containsAny(d.Title, inboxKeywords) && len(visibleLinks(d)) >= 10:
		return spatial.PageInbox
	case isEmailBody(d):
		return spatial.PageEmailBody
	case isDashboard(d):
		return spatial.PageDashboard
	case isArticle(d):
		return spatial.PageArticle
	case isSearchResults(d):
		return spatial.PageSearchResults
	case len(visibleLinks(d)) >= 10:
		return spatial.PageList
	case isSearchPage(d):
		return spatial.PageSearch
	case len(dataEntryInputs(d)) >= 2:
		return spatial.PageForm
	default:
		return spatial.PageOther
	}
}

func isErrorPage(d *spatial.Dom) bool {
	for _, el := range d.Alerts() {
		if el.AlertType == "error" {
			return true
		}
	}
	return titleOrHeadingContains(d, errorKeywords)
}

func isCaptchaPage(d *spatial.Dom) bool {
	if d.Captcha != nil {
		return true
	}
	if containsAny(d.Title, captchaTitleKeywords) {
		return true
	}
	for _, h := range headings(d) {
		if containsAny(h.Text, captchaHeadingKeywords) {
			return true
		}
	}
	return false
}

func isTwoFactorPage(d *spatial.Dom) bool {
	if !titleOrHeadingContains(d, twoFactorKeywords) {
		return false
	}
	if len(passwordInputs(d, true)) > 0 {
		return false
	}
	for _, el := range d.Els {
		if !el.Hidden && textEntryInput(el) {
			return true
		}
	}
	return false
}

func isEmailBody(d *spatial.Dom) bool {
	text := pageText(d)
	found := 0
	for _, marker := range emailMarkers {
		if strings.Contains(text, marker) {
			found++
		}
	}
	return found >= 3
}

func isDashboard(d *spatial.Dom) bool {
	return titleOrHeadingContains(d, dashboardKeywords) &&
		hasLandmark(d, "navigation") && hasLandmark(d, "main")
}

// isArticle wants several headings plus enough long paragraphs; link-
// and heading-heavy pages need proportionally more body text so index
// pages do not masquerade as articles.
func isArticle(d *spatial.Dom) bool {
	hs := len(headings(d))
	if hs < 3 {
		return false
	}
	longPs := longParagraphCount(d, longParagraphLen)
	required := 3
	if len(visibleLinks(d)) >= 20 && required < 10 {
		required = 10
	}
	if longPs < required {
		return false
	}
	if hs >= 15 && float64(longPs)/float64(hs) < 0.8 {
		return false
	}
	return true
}

func isSearchResults(d *spatial.Dom) bool {
	if searchInput(d, true) == nil {
		return false
	}
	if len(visibleLinks(d)) < 8 {
		return false
	}
	if titleOrHeadingContains(d, searchResultKeywords) {
		return true
	}
	lowerURL := strings.ToLower(d.URL)
	for _, marker := range searchURLMarkers {
		if strings.Contains(lowerURL, marker) {
			return true
		}
	}
	return false
}

func isSearchPage(d *spatial.Dom) bool {
	if searchInput(d, false) != nil {
		return true
	}
	// A sparse page with only a hidden search input still reads as a
	// search page.
	return visibleCount(d) < 5 && searchInput(d, true) != nil
}
