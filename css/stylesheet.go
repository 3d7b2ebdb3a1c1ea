package css

// Declaration is a single property declaration with its raw value text.
// Values stay raw until cascade time because var() substitution is
// element-scoped. The !important suffix is stripped during parsing and
// recorded; the cascade ignores it.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Rule is a ruleset with its parsed selectors. A rule listing several
// comma-separated selectors keeps them together; each selector carries
// its own specificity.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// MediaBlock is an @media block with its query list and nested rules.
type MediaBlock struct {
	Query MediaQueryList
	Rules []Rule
}

// StylesheetItem is a single top-level stylesheet item. Exactly one of
// Rule or MediaBlock is non-nil.
type StylesheetItem struct {
	Rule       *Rule
	MediaBlock *MediaBlock
}

// Stylesheet is a parsed CSS stylesheet. Items preserve source order;
// Warnings collect constructs that were dropped.
type Stylesheet struct {
	Items    []StylesheetItem
	Warnings []string
}

// Rules returns every rule in the sheet that applies under the given
// viewport, in source order. Rules inside non-matching @media blocks are
// excluded.
func (s *Stylesheet) Rules(vp Viewport) []Rule {
	var out []Rule
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			out = append(out, *item.Rule)
		case item.MediaBlock != nil:
			if item.MediaBlock.Query.Evaluate(vp) {
				out = append(out, item.MediaBlock.Rules...)
			}
		}
	}
	return out
}
