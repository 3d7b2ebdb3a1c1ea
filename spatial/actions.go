package spatial

import "encoding/json"

// Action is one suggested action recipe. Each variant names an agent
// workflow and carries the element IDs needed to execute it. The JSON
// form carries the variant name in the "action" discriminator.
type Action interface {
	ActionType() string
	// ReferencedIDs returns every element ID the recipe embeds, zero
	// IDs excluded, for invariant checking.
	ReferencedIDs() []uint32
}

// ids filters out zero (absent) references.
func ids(v ...uint32) []uint32 {
	out := make([]uint32, 0, len(v))
	for _, id := range v {
		if id != 0 {
			out = append(out, id)
		}
	}
	return out
}

// Login fills and submits a sign-in form.
type Login struct {
	UsernameID   uint32 `json:"username_id,omitempty"`
	PasswordID   uint32 `json:"password_id"`
	SubmitID     uint32 `json:"submit_id,omitempty"`
	RememberMeID uint32 `json:"remember_me_id,omitempty"`
}

func (a *Login) ActionType() string { return "Login" }
func (a *Login) ReferencedIDs() []uint32 {
	return ids(a.UsernameID, a.PasswordID, a.SubmitID, a.RememberMeID)
}
func (a *Login) MarshalJSON() ([]byte, error) { type alias Login; return tag(a, (*alias)(a)) }

// Register fills and submits an account-creation form.
type Register struct {
	EmailID           uint32 `json:"email_id,omitempty"`
	UsernameID        uint32 `json:"username_id,omitempty"`
	PasswordID        uint32 `json:"password_id"`
	ConfirmPasswordID uint32 `json:"confirm_password_id,omitempty"`
	NameID            uint32 `json:"name_id,omitempty"`
	SubmitID          uint32 `json:"submit_id,omitempty"`
}

func (a *Register) ActionType() string { return "Register" }
func (a *Register) ReferencedIDs() []uint32 {
	return ids(a.EmailID, a.UsernameID, a.PasswordID, a.ConfirmPasswordID, a.NameID, a.SubmitID)
}
func (a *Register) MarshalJSON() ([]byte, error) { type alias Register; return tag(a, (*alias)(a)) }

// EnterCode types a one-time verification code.
type EnterCode struct {
	InputID    uint32 `json:"input_id"`
	SubmitID   uint32 `json:"submit_id,omitempty"`
	CodeLength int    `json:"code_length,omitempty"`
}

func (a *EnterCode) ActionType() string       { return "EnterCode" }
func (a *EnterCode) ReferencedIDs() []uint32  { return ids(a.InputID, a.SubmitID) }
func (a *EnterCode) MarshalJSON() ([]byte, error) { type alias EnterCode; return tag(a, (*alias)(a)) }

// Search types a query into the page's search input.
type Search struct {
	InputID  uint32 `json:"input_id"`
	SubmitID uint32 `json:"submit_id,omitempty"`
}

func (a *Search) ActionType() string       { return "Search" }
func (a *Search) ReferencedIDs() []uint32  { return ids(a.InputID, a.SubmitID) }
func (a *Search) MarshalJSON() ([]byte, error) { type alias Search; return tag(a, (*alias)(a)) }

// Consent approves or denies an OAuth-style authorization prompt.
type Consent struct {
	ApproveIDs []uint32 `json:"approve_ids"`
	DenyIDs    []uint32 `json:"deny_ids"`
}

func (a *Consent) ActionType() string { return "Consent" }
func (a *Consent) ReferencedIDs() []uint32 {
	return append(append([]uint32(nil), a.ApproveIDs...), a.DenyIDs...)
}
func (a *Consent) MarshalJSON() ([]byte, error) { type alias Consent; return tag(a, (*alias)(a)) }

// CookieConsent dismisses a cookie banner.
type CookieConsent struct {
	AcceptID uint32 `json:"accept_id"`
	RejectID uint32 `json:"reject_id,omitempty"`
}

func (a *CookieConsent) ActionType() string      { return "CookieConsent" }
func (a *CookieConsent) ReferencedIDs() []uint32 { return ids(a.AcceptID, a.RejectID) }
func (a *CookieConsent) MarshalJSON() ([]byte, error) {
	type alias CookieConsent
	return tag(a, (*alias)(a))
}

// Contact fills a contact/message form.
type Contact struct {
	NameID    uint32 `json:"name_id,omitempty"`
	EmailID   uint32 `json:"email_id,omitempty"`
	MessageID uint32 `json:"message_id"`
	SubmitID  uint32 `json:"submit_id,omitempty"`
}

func (a *Contact) ActionType() string { return "Contact" }
func (a *Contact) ReferencedIDs() []uint32 {
	return ids(a.NameID, a.EmailID, a.MessageID, a.SubmitID)
}
func (a *Contact) MarshalJSON() ([]byte, error) { type alias Contact; return tag(a, (*alias)(a)) }

// FormField is one labeled input of a generic form.
type FormField struct {
	ID        uint32 `json:"id"`
	Label     string `json:"label,omitempty"`
	Name      string `json:"name,omitempty"`
	InputType string `json:"input_type,omitempty"`
}

// FillForm fills a generic data-entry form.
type FillForm struct {
	Fields   []FormField `json:"fields"`
	SubmitID uint32      `json:"submit_id,omitempty"`
}

func (a *FillForm) ActionType() string { return "FillForm" }
func (a *FillForm) ReferencedIDs() []uint32 {
	out := make([]uint32, 0, len(a.Fields)+1)
	for _, f := range a.Fields {
		out = append(out, f.ID)
	}
	return append(out, ids(a.SubmitID)...)
}
func (a *FillForm) MarshalJSON() ([]byte, error) { type alias FillForm; return tag(a, (*alias)(a)) }

// SelectFromList picks one entry from a list of rows.
type SelectFromList struct {
	Items []uint32 `json:"items"`
}

func (a *SelectFromList) ActionType() string      { return "SelectFromList" }
func (a *SelectFromList) ReferencedIDs() []uint32 { return a.Items }
func (a *SelectFromList) MarshalJSON() ([]byte, error) {
	type alias SelectFromList
	return tag(a, (*alias)(a))
}

// Paginate moves through paged listings.
type Paginate struct {
	NextID uint32 `json:"next_id,omitempty"`
	PrevID uint32 `json:"prev_id,omitempty"`
}

func (a *Paginate) ActionType() string       { return "Paginate" }
func (a *Paginate) ReferencedIDs() []uint32  { return ids(a.NextID, a.PrevID) }
func (a *Paginate) MarshalJSON() ([]byte, error) { type alias Paginate; return tag(a, (*alias)(a)) }

// DownloadItem is one downloadable target.
type DownloadItem struct {
	ID   uint32 `json:"id"`
	Text string `json:"text,omitempty"`
	Href string `json:"href,omitempty"`
}

// Download lists downloadable files on the page.
type Download struct {
	Items []DownloadItem `json:"items"`
}

func (a *Download) ActionType() string { return "Download" }
func (a *Download) ReferencedIDs() []uint32 {
	out := make([]uint32, 0, len(a.Items))
	for _, it := range a.Items {
		out = append(out, it.ID)
	}
	return out
}
func (a *Download) MarshalJSON() ([]byte, error) { type alias Download; return tag(a, (*alias)(a)) }

// CaptchaChallenge points at a challenge that blocks progress.
type CaptchaChallenge struct {
	CaptchaType CaptchaType `json:"captcha_type"`
	Sitekey     string      `json:"sitekey,omitempty"`
	SubmitID    uint32      `json:"submit_id,omitempty"`
}

func (a *CaptchaChallenge) ActionType() string      { return "CaptchaChallenge" }
func (a *CaptchaChallenge) ReferencedIDs() []uint32 { return ids(a.SubmitID) }
func (a *CaptchaChallenge) MarshalJSON() ([]byte, error) {
	type alias CaptchaChallenge
	return tag(a, (*alias)(a))
}

// tag serializes an action variant with its discriminator.
func tag(a Action, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	name, _ := json.Marshal(a.ActionType())
	m["action"] = name
	return json.Marshal(m)
}
