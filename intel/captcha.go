package intel

import (
	"strings"

	"github.com/GhostPeony/browsy/dom"
	"github.com/GhostPeony/browsy/spatial"
)

// DetectCaptcha scans the raw node tree (ahead of spatial generation)
// for CAPTCHA service markers: script/iframe sources, well-known widget
// classes and ids, and data-sitekey attributes. Returns nil when no
// service is present.
func DetectCaptcha(root *dom.Node) *spatial.Captcha {
	var found *spatial.Captcha
	set := func(t spatial.CaptchaType) {
		if found == nil {
			found = &spatial.Captcha{Type: t}
			return
		}
		// A concrete service beats Unknown.
		if found.Type == spatial.CaptchaUnknown && t != spatial.CaptchaUnknown {
			found.Type = t
		}
	}

	root.Walk(func(n *dom.Node) bool {
		if n.Type != dom.ElementNode {
			return true
		}
		switch n.Tag {
		case "script", "iframe":
			src := strings.ToLower(n.AttrOr("src", ""))
			switch {
			case strings.Contains(src, "google.com/recaptcha"), strings.Contains(src, "recaptcha"):
				if src != "" {
					set(spatial.CaptchaReCaptcha)
				}
			case strings.Contains(src, "hcaptcha.com"):
				set(spatial.CaptchaHCaptcha)
			case strings.Contains(src, "challenges.cloudflare.com/turnstile"):
				set(spatial.CaptchaTurnstile)
			}
		case "div":
			for _, cls := range n.Classes() {
				switch cls {
				case "g-recaptcha":
					set(spatial.CaptchaReCaptcha)
				case "h-captcha":
					set(spatial.CaptchaHCaptcha)
				case "cf-turnstile":
					set(spatial.CaptchaTurnstile)
				}
			}
			switch n.ID() {
			case "challenge-running", "cf-challenge":
				set(spatial.CaptchaCloudflare)
			}
		}
		if key, ok := n.Attr("data-sitekey"); ok && key != "" {
			set(spatial.CaptchaUnknown)
			if found.Sitekey == "" {
				found.Sitekey = key
			}
		}
		return true
	})
	return found
}
