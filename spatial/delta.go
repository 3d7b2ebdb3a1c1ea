package spatial

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Delta captures the difference between two spatial DOMs. Changed holds
// elements of the new DOM with no content-identity match in the old;
// Removed holds the old IDs whose identity disappeared.
type Delta struct {
	Changed  []*Element `json:"changed"`
	Removed  []uint32   `json:"removed"`
	Viewport [2]int     `json:"vp"`
}

// identity is the content-identity tuple used to match elements across
// parses. IDs are positional and never participate.
type identity struct {
	tag         string
	text        string
	placeholder string
	href        string
	inputType   string
	bounds      Rect
}

func identityOf(el *Element) identity {
	return identity{
		tag:         el.Tag,
		text:        el.Text,
		placeholder: el.Placeholder,
		href:        el.Href,
		inputType:   el.InputType,
		bounds:      el.Bounds,
	}
}

// Diff compares two spatial DOMs by content identity.
func Diff(oldDom, newDom *Dom) *Delta {
	oldSet := mapset.NewThreadUnsafeSetWithSize[identity](len(oldDom.Els))
	for _, el := range oldDom.Els {
		oldSet.Add(identityOf(el))
	}
	newSet := mapset.NewThreadUnsafeSetWithSize[identity](len(newDom.Els))
	for _, el := range newDom.Els {
		newSet.Add(identityOf(el))
	}

	delta := &Delta{Viewport: newDom.Viewport}
	for _, el := range newDom.Els {
		if !oldSet.Contains(identityOf(el)) {
			delta.Changed = append(delta.Changed, el)
		}
	}
	for _, el := range oldDom.Els {
		if !newSet.Contains(identityOf(el)) {
			delta.Removed = append(delta.Removed, el.ID)
		}
	}
	return delta
}
