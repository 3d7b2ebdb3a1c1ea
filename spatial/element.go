package spatial

import (
	"encoding/json"
	"fmt"
)

// Rect is an element bounding box in document-origin integer pixels.
// It serializes as the four-element array [x, y, w, h].
type Rect struct {
	X, Y, W, H int
}

// MarshalJSON emits the compact array form.
func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{r.X, r.Y, r.W, r.H})
}

// UnmarshalJSON accepts the array form.
func (r *Rect) UnmarshalJSON(data []byte) error {
	var a [4]int
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	r.X, r.Y, r.W, r.H = a[0], a[1], a[2], a[3]
	return nil
}

// CenterX returns the horizontal centre of the box.
func (r Rect) CenterX() int { return r.X + r.W/2 }

// CenterY returns the vertical centre of the box.
func (r Rect) CenterY() int { return r.Y + r.H/2 }

// Element is one addressable entry of a spatial DOM. IDs are assigned
// in depth-first emission order starting at 1 and are not stable across
// parses. Optional fields are omitted from serialized output when unset.
type Element struct {
	ID     uint32 `json:"id"`
	Tag    string `json:"tag"`
	Bounds Rect   `json:"b"`

	Role        string `json:"role,omitempty"`
	Text        string `json:"text,omitempty"`
	Href        string `json:"href,omitempty"`
	Placeholder string `json:"ph,omitempty"`
	Value       string `json:"val,omitempty"`
	Name        string `json:"name,omitempty"`
	Label       string `json:"label,omitempty"`
	InputType   string `json:"input_type,omitempty"`

	Hidden   bool `json:"hidden,omitempty"`
	Checked  bool `json:"checked,omitempty"`
	Disabled bool `json:"disabled,omitempty"`
	Expanded bool `json:"expanded,omitempty"`
	Selected bool `json:"selected,omitempty"`
	Required bool `json:"required,omitempty"`

	AlertType string   `json:"alert_type,omitempty"`
	Options   []string `json:"options,omitempty"`

	// PosSuffix disambiguates elements sharing a (tag, text) pair by
	// viewport region ("@top-L" ... "@below").
	PosSuffix string `json:"pos,omitempty"`
	// SizeHint annotates form controls: narrow, wide or full.
	SizeHint string `json:"size_hint,omitempty"`
}

// IsFormControl reports whether the element accepts form state.
func (el *Element) IsFormControl() bool {
	switch el.Tag {
	case "input", "textarea", "select", "option":
		return true
	}
	switch el.Role {
	case "textbox", "searchbox", "checkbox", "radio", "combobox", "listbox",
		"option", "switch", "slider", "spinbutton":
		return true
	}
	return false
}

// IsTextInput reports whether a typed-text overlay applies.
func (el *Element) IsTextInput() bool {
	switch el.Tag {
	case "textarea":
		return true
	case "input":
		switch el.InputType {
		case "checkbox", "radio", "submit", "button", "reset", "image", "file", "hidden", "range":
			return false
		}
		return true
	}
	switch el.Role {
	case "textbox", "searchbox", "combobox", "spinbutton":
		return true
	}
	return false
}

// IsCheckable reports whether a checked overlay applies.
func (el *Element) IsCheckable() bool {
	if el.Tag == "input" && (el.InputType == "checkbox" || el.InputType == "radio") {
		return true
	}
	switch el.Role {
	case "checkbox", "radio", "switch", "menuitemcheckbox", "menuitemradio":
		return true
	}
	return false
}

// PageType classifies the page for agent routing. The values are
// stable identifier strings.
type PageType string

const (
	PageOther         PageType = "Other"
	PageError         PageType = "Error"
	PageCaptcha       PageType = "Captcha"
	PageLogin         PageType = "Login"
	PageTwoFactorAuth PageType = "TwoFactorAuth"
	PageOAuthConsent  PageType = "OAuthConsent"
	PageInbox         PageType = "Inbox"
	PageEmailBody     PageType = "EmailBody"
	PageDashboard     PageType = "Dashboard"
	PageArticle       PageType = "Article"
	PageSearchResults PageType = "SearchResults"
	PageList          PageType = "List"
	PageSearch        PageType = "Search"
	PageForm          PageType = "Form"
)

// CaptchaType identifies the detected CAPTCHA service.
type CaptchaType string

const (
	CaptchaReCaptcha  CaptchaType = "ReCaptcha"
	CaptchaHCaptcha   CaptchaType = "HCaptcha"
	CaptchaTurnstile  CaptchaType = "Turnstile"
	CaptchaCloudflare CaptchaType = "CloudflareChallenge"
	CaptchaImageGrid  CaptchaType = "ImageGrid"
	CaptchaText       CaptchaType = "TextCaptcha"
	CaptchaUnknown    CaptchaType = "Unknown"
)

// Captcha describes a detected challenge.
type Captcha struct {
	Type     CaptchaType `json:"captcha_type"`
	Sitekey  string      `json:"sitekey,omitempty"`
	SubmitID uint32      `json:"submit_id,omitempty"`
}

// Dom is the complete spatial DOM of one parsed page.
type Dom struct {
	URL      string `json:"url,omitempty"`
	Title    string `json:"title,omitempty"`
	Viewport [2]int `json:"vp"`
	Scroll   [2]int `json:"scroll"`

	Els []*Element `json:"els"`

	PageType         PageType `json:"page_type,omitempty"`
	SuggestedActions []Action `json:"suggested_actions,omitempty"`
	Captcha          *Captcha `json:"captcha,omitempty"`

	idIndex map[uint32]int
}

// MarshalJSON omits page_type when it is Other.
func (d *Dom) MarshalJSON() ([]byte, error) {
	type alias Dom
	a := (*alias)(d)
	if d.PageType == PageOther {
		clone := *a
		clone.PageType = ""
		return json.Marshal(&clone)
	}
	return json.Marshal(a)
}

// RebuildIndex reconstructs the id → position index. Every operation
// that mutates Els must call this (or maintain the index itself).
func (d *Dom) RebuildIndex() {
	d.idIndex = make(map[uint32]int, len(d.Els))
	for i, el := range d.Els {
		d.idIndex[el.ID] = i
	}
}

// Get returns the element with the given ID.
func (d *Dom) Get(id uint32) (*Element, error) {
	if d.idIndex == nil {
		d.RebuildIndex()
	}
	i, ok := d.idIndex[id]
	if !ok {
		return nil, notFound(id)
	}
	return d.Els[i], nil
}

// Visible returns all elements not flagged hidden.
func (d *Dom) Visible() []*Element {
	var out []*Element
	for _, el := range d.Els {
		if !el.Hidden {
			out = append(out, el)
		}
	}
	return out
}

// AboveFold returns the visible elements whose top edge is within the
// viewport height.
func (d *Dom) AboveFold() []*Element {
	var out []*Element
	for _, el := range d.Els {
		if !el.Hidden && el.Bounds.Y < d.Viewport[1] {
			out = append(out, el)
		}
	}
	return out
}

// BelowFold returns the visible elements whose top edge is at or past
// the viewport height.
func (d *Dom) BelowFold() []*Element {
	var out []*Element
	for _, el := range d.Els {
		if !el.Hidden && el.Bounds.Y >= d.Viewport[1] {
			out = append(out, el)
		}
	}
	return out
}

// FilterAboveFold returns a copy of the DOM reduced to above-fold
// elements, with a consistent index.
func (d *Dom) FilterAboveFold() *Dom {
	clone := *d
	clone.Els = d.AboveFold()
	clone.idIndex = nil
	clone.RebuildIndex()
	return &clone
}

// Clone deep-copies the DOM (elements included).
func (d *Dom) Clone() *Dom {
	clone := *d
	clone.Els = make([]*Element, len(d.Els))
	for i, el := range d.Els {
		cp := *el
		if el.Options != nil {
			cp.Options = append([]string(nil), el.Options...)
		}
		clone.Els[i] = &cp
	}
	clone.idIndex = nil
	clone.RebuildIndex()
	return &clone
}

// Validate checks the structural invariants: IDs strictly increasing
// from 1 and every action/captcha reference resolvable.
func (d *Dom) Validate() error {
	for i, el := range d.Els {
		if el.ID != uint32(i+1) {
			return fmt.Errorf("element at position %d has id %d, want %d", i, el.ID, i+1)
		}
	}
	check := func(id uint32) error {
		if id == 0 {
			return nil
		}
		if _, err := d.Get(id); err != nil {
			return fmt.Errorf("dangling reference to element %d", id)
		}
		return nil
	}
	for _, a := range d.SuggestedActions {
		for _, id := range a.ReferencedIDs() {
			if err := check(id); err != nil {
				return err
			}
		}
	}
	if d.Captcha != nil {
		if err := check(d.Captcha.SubmitID); err != nil {
			return err
		}
	}
	return nil
}
