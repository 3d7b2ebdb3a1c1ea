package spatial

import (
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

type overlayKind int

const (
	overlayText overlayKind = iota
	overlayChecked
	overlaySelected
)

type overlayValue struct {
	kind    overlayKind
	text    string
	checked bool
}

// Overlay is a per-session map of form state the agent has entered but
// the underlying document does not carry. It never mutates the emitted
// element sequence; reads copy elements and apply the stored values.
// Overlays persist until the next parse. Not safe for concurrent use;
// callers synchronize externally.
type Overlay struct {
	// SessionID ties the overlay to its browsing session in logs.
	SessionID string

	values map[uint32]overlayValue
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{
		SessionID: uuid.NewString(),
		values:    make(map[uint32]overlayValue),
	}
}

// Clear drops all stored state, typically after a navigation.
func (o *Overlay) Clear() {
	o.values = make(map[uint32]overlayValue)
}

// Len returns the number of overlaid elements.
func (o *Overlay) Len() int { return len(o.values) }

// SetText records typed text for a text-accepting control.
func (o *Overlay) SetText(d *Dom, id uint32, value string) error {
	el, err := d.Get(id)
	if err != nil {
		return err
	}
	if !el.IsTextInput() {
		return wrongKind(id, "cannot type into "+el.Tag)
	}
	o.values[id] = overlayValue{kind: overlayText, text: value}
	return nil
}

// SetChecked records a checkbox/radio toggle.
func (o *Overlay) SetChecked(d *Dom, id uint32, checked bool) error {
	el, err := d.Get(id)
	if err != nil {
		return err
	}
	if !el.IsCheckable() {
		return wrongKind(id, "cannot check "+el.Tag)
	}
	o.values[id] = overlayValue{kind: overlayChecked, checked: checked}
	return nil
}

// SelectOption records a chosen option of a select element. The value
// must be one of the element's options.
func (o *Overlay) SelectOption(d *Dom, id uint32, value string) error {
	el, err := d.Get(id)
	if err != nil {
		return err
	}
	if el.Tag != "select" && el.Role != "combobox" && el.Role != "listbox" {
		return wrongKind(id, "cannot select in "+el.Tag)
	}
	found := false
	for _, opt := range el.Options {
		if opt == value {
			found = true
			break
		}
	}
	if !found {
		return invalidValue(id, "option "+value+" not present")
	}
	o.values[id] = overlayValue{kind: overlaySelected, text: value}
	return nil
}

// SetTexts applies several typed values, collecting every failure.
func (o *Overlay) SetTexts(d *Dom, values map[uint32]string) error {
	var err error
	for id, v := range values {
		err = multierr.Append(err, o.SetText(d, id, v))
	}
	return err
}

// Apply returns a copy of the DOM with the overlay folded into val,
// checked and selected. Unknown IDs are skipped: they belong to a
// previous parse.
func (o *Overlay) Apply(d *Dom) *Dom {
	if len(o.values) == 0 {
		return d
	}
	clone := d.Clone()
	for id, v := range o.values {
		el, err := clone.Get(id)
		if err != nil {
			continue
		}
		switch v.kind {
		case overlayText:
			el.Value = v.text
		case overlayChecked:
			el.Checked = v.checked
		case overlaySelected:
			el.Value = v.text
			el.Selected = true
		}
	}
	return clone
}
