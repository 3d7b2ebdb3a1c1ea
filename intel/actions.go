package intel

import (
	"strings"

	"github.com/GhostPeony/browsy/spatial"
)

// narrowCodeInputPx: inputs narrower than this count as single-digit
// code cells.
const narrowCodeInputPx = 60

var (
	loginKeywords    = []string{"login", "log in", "sign in", "signin"}
	registerKeywords = []string{
		"register", "sign up", "signup", "create account", "join", "new account",
	}

	contactKeywords = []string{"contact", "get in touch", "feedback", "write to us"}

	approveTexts = []string{"allow", "authorize", "approve", "accept", "grant", "continue", "yes"}
	denyTexts    = []string{"deny", "cancel", "decline", "refuse", "reject", "no"}

	cookieAcceptTexts = []string{
		"accept all", "accept cookies", "allow cookies", "allow all", "agree",
		"got it", "i understand", "i agree",
	}
	cookieRejectTexts = []string{
		"reject all", "reject", "decline", "refuse", "necessary only",
		"only necessary",
	}

	nextTexts = []string{"next", "next page", ">", ">>", "›", "»", "→", "more", "older"}
	prevTexts = []string{"prev", "previous", "<", "<<", "‹", "«", "←", "newer"}

	downloadExtensions = []string{
		".zip", ".tar.gz", ".dmg", ".exe", ".msi", ".deb", ".rpm", ".pkg",
		".appimage", ".pdf", ".csv", ".xlsx",
	}

	verifyTexts = []string{"verify", "submit", "continue"}
)

// DetectActions runs the suggested-action detectors in their fixed
// order over the classified DOM. Multiple recipes can co-exist; the
// result order is deterministic.
func DetectActions(d *spatial.Dom) []spatial.Action {
	var actions []spatial.Action
	formActionSeen := false
	add := func(a spatial.Action, isForm bool) {
		if a == nil {
			return
		}
		actions = append(actions, a)
		if isForm {
			formActionSeen = true
		}
	}

	add(detectRegisterOrLogin(d), true)
	add(detectEnterCode(d), true)
	add(detectConsent(d), false)
	add(detectContact(d), true)
	add(detectSearch(d), true)
	add(detectSelectFromList(d), false)
	add(detectCookieConsent(d), false)
	add(detectPaginate(d), false)
	if !formActionSeen {
		add(detectFillForm(d), true)
	}
	add(detectDownload(d), false)
	add(detectCaptchaChallenge(d), false)
	return actions
}

// detectRegisterOrLogin resolves the login/register ambiguity: with
// registration context present, Login still wins whenever a login
// keyword shows in the title, a visible heading or a button's text.
func detectRegisterOrLogin(d *spatial.Dom) spatial.Action {
	pwds := passwordInputs(d, false)
	if len(pwds) == 0 {
		return nil
	}
	pwd := pwds[0]

	registerContext := len(pwds) > 1 || titleOrHeadingContains(d, registerKeywords)
	loginContext := titleOrHeadingContains(d, loginKeywords) || buttonTextContains(d, loginKeywords)

	if registerContext && !loginContext {
		return buildRegister(d, pwds)
	}
	return buildLogin(d, pwd)
}

func buildLogin(d *spatial.Dom, pwd *spatial.Element) spatial.Action {
	a := &spatial.Login{PasswordID: pwd.ID}
	user := nearestWithin(d, pwd, 500, func(el *spatial.Element) bool {
		return !el.Hidden && isInput(el, "text", "email")
	})
	if user != nil {
		a.UsernameID = user.ID
	}
	if submit := nearestBelow(d, pwd, isSubmitButton); submit != nil {
		a.SubmitID = submit.ID
	}
	remember := nearestWithin(d, pwd, 500, func(el *spatial.Element) bool {
		if el.Hidden || !isInput(el, "checkbox") {
			return false
		}
		return containsAny(el.Label, []string{"remember"}) ||
			containsAny(el.Name, []string{"remember"})
	})
	if remember != nil {
		a.RememberMeID = remember.ID
	}
	return a
}

func buildRegister(d *spatial.Dom, pwds []*spatial.Element) spatial.Action {
	a := &spatial.Register{PasswordID: pwds[0].ID}
	if len(pwds) > 1 {
		a.ConfirmPasswordID = pwds[1].ID
	}
	for _, el := range d.Els {
		if el.Hidden || el.Tag != "input" {
			continue
		}
		meta := strings.ToLower(el.Name + " " + el.Label + " " + el.Placeholder)
		switch {
		case el.InputType == "email" || strings.Contains(meta, "email"):
			if a.EmailID == 0 {
				a.EmailID = el.ID
			}
		case strings.Contains(meta, "user") || strings.Contains(meta, "login"):
			if a.UsernameID == 0 && el.InputType == "text" {
				a.UsernameID = el.ID
			}
		case strings.Contains(meta, "name"):
			if a.NameID == 0 && el.InputType == "text" {
				a.NameID = el.ID
			}
		}
	}
	if submit := nearestBelow(d, pwds[len(pwds)-1], isSubmitButton); submit != nil {
		a.SubmitID = submit.ID
	}
	return a
}

func detectEnterCode(d *spatial.Dom) spatial.Action {
	if !titleOrHeadingContains(d, twoFactorKeywords) {
		return nil
	}
	if len(passwordInputs(d, true)) > 0 {
		return nil
	}
	var narrow []*spatial.Element
	var first *spatial.Element
	for _, el := range d.Els {
		if el.Hidden || !textEntryInput(el) {
			continue
		}
		if first == nil {
			first = el
		}
		if el.Bounds.W > 0 && el.Bounds.W < narrowCodeInputPx {
			narrow = append(narrow, el)
		}
	}
	if first == nil {
		return nil
	}
	a := &spatial.EnterCode{InputID: first.ID}
	if len(narrow) >= 4 && len(narrow) <= 8 {
		a.InputID = narrow[0].ID
		a.CodeLength = len(narrow)
	}
	anchor, _ := d.Get(a.InputID)
	if submit := nearestBelow(d, anchor, isSubmitButton); submit != nil {
		a.SubmitID = submit.ID
	}
	return a
}

func detectConsent(d *spatial.Dom) spatial.Action {
	if !titleOrHeadingContains(d, oauthKeywords) {
		return nil
	}
	a := &spatial.Consent{}
	for _, el := range d.Els {
		if !isSubmitButton(el) {
			continue
		}
		text := strings.ToLower(el.Text)
		switch {
		case matchesAnyWord(text, approveTexts):
			a.ApproveIDs = append(a.ApproveIDs, el.ID)
		case matchesAnyWord(text, denyTexts):
			a.DenyIDs = append(a.DenyIDs, el.ID)
		}
	}
	if len(a.ApproveIDs) == 0 && len(a.DenyIDs) == 0 {
		return nil
	}
	return a
}

func detectContact(d *spatial.Dom) spatial.Action {
	if !titleOrHeadingContains(d, contactKeywords) {
		return nil
	}
	var textarea *spatial.Element
	for _, el := range d.Els {
		if !el.Hidden && el.Tag == "textarea" {
			textarea = el
			break
		}
	}
	if textarea == nil {
		return nil
	}
	a := &spatial.Contact{MessageID: textarea.ID}
	for _, el := range d.Els {
		if el.Hidden || el.Tag != "input" {
			continue
		}
		meta := strings.ToLower(el.Name + " " + el.Label + " " + el.Placeholder)
		switch {
		case el.InputType == "email" || strings.Contains(meta, "email"):
			if a.EmailID == 0 {
				a.EmailID = el.ID
			}
		case strings.Contains(meta, "name"):
			if a.NameID == 0 {
				a.NameID = el.ID
			}
		}
	}
	if submit := nearestBelow(d, textarea, isSubmitButton); submit != nil {
		a.SubmitID = submit.ID
	}
	return a
}

func detectSearch(d *spatial.Dom) spatial.Action {
	input := searchInput(d, false)
	if input == nil {
		return nil
	}
	a := &spatial.Search{InputID: input.ID}
	if submit := nearestWithin(d, input, 200, isSubmitButton); submit != nil {
		a.SubmitID = submit.ID
	}
	return a
}

// detectSelectFromList groups visible links into rows (30px vertical
// tolerance) and offers the first link of each row when five or more
// rows exist.
func detectSelectFromList(d *spatial.Dom) spatial.Action {
	links := visibleLinks(d)
	if len(links) < 5 {
		return nil
	}
	type row struct {
		y     int
		first *spatial.Element
	}
	var rows []*row
	for _, link := range links {
		var target *row
		for _, r := range rows {
			if abs(r.y-link.Bounds.Y) <= 30 {
				target = r
				break
			}
		}
		if target == nil {
			rows = append(rows, &row{y: link.Bounds.Y, first: link})
		}
	}
	if len(rows) < 5 {
		return nil
	}
	a := &spatial.SelectFromList{}
	for _, r := range rows {
		a.Items = append(a.Items, r.first.ID)
	}
	return a
}

func detectCookieConsent(d *spatial.Dom) spatial.Action {
	mentionsCookies := false
	for _, el := range d.Els {
		if el.Hidden || len(el.Text) <= 30 {
			continue
		}
		if containsAny(el.Text, []string{"cookie", "gdpr"}) {
			mentionsCookies = true
			break
		}
	}
	if !mentionsCookies {
		return nil
	}
	a := &spatial.CookieConsent{}
	for _, el := range d.Els {
		if !isSubmitButton(el) && el.Tag != "a" {
			continue
		}
		if el.Hidden {
			continue
		}
		text := strings.ToLower(el.Text)
		if a.AcceptID == 0 && containsAny(text, cookieAcceptTexts) {
			a.AcceptID = el.ID
			continue
		}
		if a.RejectID == 0 && containsAny(text, cookieRejectTexts) {
			a.RejectID = el.ID
		}
	}
	if a.AcceptID == 0 {
		return nil
	}
	return a
}

func detectPaginate(d *spatial.Dom) spatial.Action {
	a := &spatial.Paginate{}
	for _, el := range d.Els {
		if el.Hidden || (el.Tag != "a" && !isSubmitButton(el)) {
			continue
		}
		text := strings.ToLower(strings.TrimSpace(el.Text))
		if a.NextID == 0 && matchesPagination(text, nextTexts) {
			a.NextID = el.ID
			continue
		}
		if a.PrevID == 0 && matchesPagination(text, prevTexts) {
			a.PrevID = el.ID
		}
	}
	if a.NextID == 0 && a.PrevID == 0 {
		return nil
	}
	return a
}

func detectFillForm(d *spatial.Dom) spatial.Action {
	inputs := dataEntryInputs(d)
	if len(inputs) < 2 {
		return nil
	}
	a := &spatial.FillForm{}
	for _, el := range inputs {
		a.Fields = append(a.Fields, spatial.FormField{
			ID:        el.ID,
			Label:     el.Label,
			Name:      el.Name,
			InputType: el.InputType,
		})
	}
	if submit := nearestBelow(d, inputs[len(inputs)-1], isSubmitButton); submit != nil {
		a.SubmitID = submit.ID
	}
	return a
}

func detectDownload(d *spatial.Dom) spatial.Action {
	a := &spatial.Download{}
	for _, el := range d.Els {
		if el.Hidden || (el.Tag != "a" && !isSubmitButton(el)) {
			continue
		}
		text := strings.ToLower(el.Text)
		href := strings.ToLower(el.Href)
		match := strings.HasPrefix(text, "download")
		if !match {
			for _, ext := range downloadExtensions {
				if strings.HasSuffix(href, ext) {
					match = true
					break
				}
			}
		}
		if match {
			a.Items = append(a.Items, spatial.DownloadItem{ID: el.ID, Text: el.Text, Href: el.Href})
		}
	}
	if len(a.Items) == 0 {
		return nil
	}
	return a
}

func detectCaptchaChallenge(d *spatial.Dom) spatial.Action {
	if d.Captcha == nil && d.PageType != spatial.PageCaptcha {
		return nil
	}
	a := &spatial.CaptchaChallenge{CaptchaType: spatial.CaptchaUnknown}
	if d.Captcha != nil {
		a.CaptchaType = d.Captcha.Type
		a.Sitekey = d.Captcha.Sitekey
	}
	for _, el := range d.Els {
		if isSubmitButton(el) && containsAny(el.Text, verifyTexts) {
			a.SubmitID = el.ID
			break
		}
	}
	if a.SubmitID == 0 {
		for _, el := range d.Els {
			if isSubmitButton(el) {
				a.SubmitID = el.ID
				break
			}
		}
	}
	if a.CaptchaType == spatial.CaptchaUnknown && imageButtonCount(d) >= 4 {
		a.CaptchaType = spatial.CaptchaImageGrid
	}
	if d.Captcha != nil && a.SubmitID != 0 {
		d.Captcha.SubmitID = a.SubmitID
	}
	return a
}

// imageButtonCount counts image-like clickable elements: image inputs
// and emitted images.
func imageButtonCount(d *spatial.Dom) int {
	count := 0
	for _, el := range d.Els {
		if el.Hidden {
			continue
		}
		if isInput(el, "image") || el.Tag == "img" || el.Tag == "svg" {
			count++
		}
	}
	return count
}

// buttonTextContains checks every visible button's text.
func buttonTextContains(d *spatial.Dom, keywords []string) bool {
	for _, el := range d.Els {
		if isSubmitButton(el) && containsAny(el.Text, keywords) {
			return true
		}
	}
	return false
}

// matchesAnyWord requires the whole (trimmed) text to equal a keyword
// or start with it as a word.
func matchesAnyWord(text string, words []string) bool {
	text = strings.TrimSpace(text)
	for _, w := range words {
		if text == w || strings.HasPrefix(text, w+" ") {
			return true
		}
	}
	return false
}

// matchesPagination matches exact arrow glyphs and next/prev words.
func matchesPagination(text string, words []string) bool {
	for _, w := range words {
		if text == w {
			return true
		}
	}
	// "next ›" and similar compounds.
	for _, w := range []string{"next", "prev", "previous", "older", "newer", "more"} {
		if strings.HasPrefix(text, w+" ") || strings.HasSuffix(text, " "+w) {
			for _, cand := range words {
				if cand == w {
					return true
				}
			}
		}
	}
	return false
}
