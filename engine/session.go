package engine

import (
	"go.uber.org/zap"

	"github.com/GhostPeony/browsy/spatial"
)

// Session holds the state an agent accumulates against one page: the
// last parsed spatial DOM plus the form-state overlay. Reads return a
// copy with the overlay applied; the parsed DOM itself is never
// mutated. A session is not safe for concurrent use.
type Session struct {
	opts    Options
	log     *zap.Logger
	current *spatial.Dom
	overlay *spatial.Overlay
}

// NewSession creates an empty session.
func NewSession(opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		opts:    opts,
		log:     log.Named("session"),
		overlay: spatial.NewOverlay(),
	}
}

// Load parses a new document into the session. The overlay is cleared:
// typed state does not survive navigation.
func (s *Session) Load(html string, url string) (*spatial.Dom, error) {
	opts := s.opts
	opts.URL = url
	opts.Log = s.log
	d, err := Parse(html, opts)
	if err != nil {
		return nil, err
	}
	s.current = d
	s.overlay.Clear()
	s.log.Debug("document loaded",
		zap.String("url", url),
		zap.String("session", s.overlay.SessionID),
		zap.Int("elements", len(d.Els)))
	return d, nil
}

// Current returns the spatial DOM with the overlay applied.
func (s *Session) Current() *spatial.Dom {
	if s.current == nil {
		return nil
	}
	return s.overlay.Apply(s.current)
}

// Type records typed text into an input.
func (s *Session) Type(id uint32, text string) error {
	if s.current == nil {
		return spatial.ErrElementNotFound
	}
	return s.overlay.SetText(s.current, id, text)
}

// Check toggles a checkbox or radio.
func (s *Session) Check(id uint32, checked bool) error {
	if s.current == nil {
		return spatial.ErrElementNotFound
	}
	return s.overlay.SetChecked(s.current, id, checked)
}

// Select chooses an option of a select element.
func (s *Session) Select(id uint32, value string) error {
	if s.current == nil {
		return spatial.ErrElementNotFound
	}
	return s.overlay.SelectOption(s.current, id, value)
}

// Action returns the suggested action of the given type, or an
// ActionNotApplicable error when the current DOM carries no such
// recipe.
func (s *Session) Action(actionType string) (spatial.Action, error) {
	if s.current == nil {
		return nil, &spatial.Error{Kind: spatial.ErrActionNotApplicable, Detail: actionType}
	}
	for _, a := range s.current.SuggestedActions {
		if a.ActionType() == actionType {
			return a, nil
		}
	}
	return nil, &spatial.Error{Kind: spatial.ErrActionNotApplicable, Detail: actionType}
}

// Diff compares the previous DOM with a freshly loaded one.
func (s *Session) Diff(previous *spatial.Dom) *spatial.Delta {
	return spatial.Diff(previous, s.current)
}
