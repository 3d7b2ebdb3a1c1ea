package css

import (
	"strconv"
	"strings"
)

// parseDimension parses one CSS length/percentage value. fontSize and
// rootFontSize resolve em/rem. Returns ok=false for values that are not
// lengths (keywords other than auto, unsupported units).
func parseDimension(value string, fontSize, rootFontSize float64) (Dimension, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "auto", "none", "normal", "initial", "inherit", "unset", "min-content",
		"max-content", "fit-content":
		return Auto(), v == "auto" || v == "none"
	case "0":
		return Px(0), true
	}

	if inner, ok := cutFunc(v, "calc"); ok {
		d, err := parseCalc(inner, fontSize, rootFontSize)
		if err != nil {
			return Auto(), false
		}
		return d, true
	}

	numEnd := 0
	for i := 0; i < len(v); i++ {
		b := v[i]
		if b >= '0' && b <= '9' || b == '.' || (i == 0 && (b == '-' || b == '+')) {
			numEnd = i + 1
			continue
		}
		break
	}
	if numEnd == 0 {
		return Auto(), false
	}
	n, err := strconv.ParseFloat(v[:numEnd], 64)
	if err != nil {
		return Auto(), false
	}
	switch unit := v[numEnd:]; unit {
	case "px", "":
		return Px(n), true
	case "%":
		return Percent(n), true
	case "em":
		return Px(n * fontSize), true
	case "rem":
		return Px(n * rootFontSize), true
	case "pt":
		return Px(n * 96.0 / 72.0), true
	default:
		return Auto(), false
	}
}

// cutFunc returns the argument text of fn( ... ) when value is exactly
// one such function call.
func cutFunc(value, fn string) (string, bool) {
	if !strings.HasPrefix(value, fn+"(") || !strings.HasSuffix(value, ")") {
		return "", false
	}
	inner, rest, ok := matchParens(value[len(fn)+1:])
	if !ok || strings.TrimSpace(rest) != "" {
		return "", false
	}
	return inner, true
}

// parseNumber parses a bare float (flex-grow, flex-shrink, unitless
// line-height multipliers).
func parseNumber(value string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return n, err == nil
}

// splitValues splits a multi-value property on whitespace at paren
// depth 0 so calc() expressions stay intact.
func splitValues(value string) []string {
	var out []string
	depth := 0
	start := -1
	for i := 0; i < len(value); i++ {
		switch b := value[i]; {
		case b == '(':
			depth++
		case b == ')':
			if depth > 0 {
				depth--
			}
		case (b == ' ' || b == '\t') && depth == 0:
			if start >= 0 {
				out = append(out, value[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, value[start:])
	}
	return out
}

// expandShorthand rewrites shorthand declarations into their longhand
// components, preserving declaration order. Non-shorthands pass through.
func expandShorthand(d Declaration) []Declaration {
	switch d.Property {
	case "margin":
		return expandBox(d, "margin-top", "margin-right", "margin-bottom", "margin-left")
	case "padding":
		return expandBox(d, "padding-top", "padding-right", "padding-bottom", "padding-left")
	case "border-width":
		return expandBox(d, "border-top-width", "border-right-width", "border-bottom-width", "border-left-width")
	case "gap":
		parts := splitValues(d.Value)
		switch len(parts) {
		case 1:
			return []Declaration{
				{Property: "row-gap", Value: parts[0], Important: d.Important},
				{Property: "column-gap", Value: parts[0], Important: d.Important},
			}
		case 2:
			return []Declaration{
				{Property: "row-gap", Value: parts[0], Important: d.Important},
				{Property: "column-gap", Value: parts[1], Important: d.Important},
			}
		}
		return nil
	case "flex":
		return expandFlex(d)
	case "border":
		// Only the width component affects layout; it is the first
		// length-looking part when present.
		for _, part := range splitValues(d.Value) {
			if _, ok := parseDimension(part, DefaultFontSize, DefaultFontSize); ok {
				return expandBox(Declaration{Property: "border-width", Value: part, Important: d.Important},
					"border-top-width", "border-right-width", "border-bottom-width", "border-left-width")
			}
			if part == "thin" {
				return expandBox(Declaration{Property: "border-width", Value: "1px", Important: d.Important},
					"border-top-width", "border-right-width", "border-bottom-width", "border-left-width")
			}
			if part == "medium" {
				return expandBox(Declaration{Property: "border-width", Value: "3px", Important: d.Important},
					"border-top-width", "border-right-width", "border-bottom-width", "border-left-width")
			}
			if part == "thick" {
				return expandBox(Declaration{Property: "border-width", Value: "5px", Important: d.Important},
					"border-top-width", "border-right-width", "border-bottom-width", "border-left-width")
			}
		}
		return nil
	default:
		return []Declaration{d}
	}
}

// expandBox applies the CSS 1/2/3/4-value box expansion.
func expandBox(d Declaration, top, right, bottom, left string) []Declaration {
	parts := splitValues(d.Value)
	var t, r, b, l string
	switch len(parts) {
	case 1:
		t, r, b, l = parts[0], parts[0], parts[0], parts[0]
	case 2:
		t, r, b, l = parts[0], parts[1], parts[0], parts[1]
	case 3:
		t, r, b, l = parts[0], parts[1], parts[2], parts[1]
	case 4:
		t, r, b, l = parts[0], parts[1], parts[2], parts[3]
	default:
		return nil
	}
	return []Declaration{
		{Property: top, Value: t, Important: d.Important},
		{Property: right, Value: r, Important: d.Important},
		{Property: bottom, Value: b, Important: d.Important},
		{Property: left, Value: l, Important: d.Important},
	}
}

// expandFlex handles the flex shorthand: none | [grow shrink? basis?].
func expandFlex(d Declaration) []Declaration {
	v := strings.ToLower(strings.TrimSpace(d.Value))
	switch v {
	case "none":
		return []Declaration{
			{Property: "flex-grow", Value: "0", Important: d.Important},
			{Property: "flex-shrink", Value: "0", Important: d.Important},
			{Property: "flex-basis", Value: "auto", Important: d.Important},
		}
	case "auto":
		return []Declaration{
			{Property: "flex-grow", Value: "1", Important: d.Important},
			{Property: "flex-shrink", Value: "1", Important: d.Important},
			{Property: "flex-basis", Value: "auto", Important: d.Important},
		}
	}
	parts := splitValues(v)
	out := make([]Declaration, 0, 3)
	grow, shrink, basis := "", "", ""
	for _, part := range parts {
		if _, ok := parseNumber(part); ok {
			if grow == "" {
				grow = part
			} else if shrink == "" {
				shrink = part
			}
			continue
		}
		if basis == "" {
			basis = part
		}
	}
	if grow != "" {
		out = append(out, Declaration{Property: "flex-grow", Value: grow, Important: d.Important})
		if basis == "" && shrink == "" {
			// Single-number form implies basis 0.
			basis = "0"
		}
	}
	if shrink != "" {
		out = append(out, Declaration{Property: "flex-shrink", Value: shrink, Important: d.Important})
	}
	if basis != "" {
		out = append(out, Declaration{Property: "flex-basis", Value: basis, Important: d.Important})
	}
	return out
}

// parseGridTracks parses grid-template-columns / grid-template-rows.
// Supports lengths, percentages, fr units and repeat(n, ...).
func parseGridTracks(value string, fontSize, rootFontSize float64) []GridTrack {
	var tracks []GridTrack
	for _, part := range splitValues(strings.ToLower(value)) {
		if inner, ok := cutFunc(part, "repeat"); ok {
			countText, trackText, found := cutTopLevelComma(inner)
			if !found {
				continue
			}
			count, err := strconv.Atoi(strings.TrimSpace(countText))
			if err != nil || count <= 0 || count > 1000 {
				continue
			}
			unit := parseGridTracks(strings.TrimSpace(trackText), fontSize, rootFontSize)
			for i := 0; i < count; i++ {
				tracks = append(tracks, unit...)
			}
			continue
		}
		if n, ok := strings.CutSuffix(part, "fr"); ok {
			if f, ok := parseNumber(n); ok && f > 0 {
				tracks = append(tracks, GridTrack{Fr: f})
				continue
			}
		}
		if part == "auto" || part == "min-content" || part == "max-content" {
			tracks = append(tracks, GridTrack{Fr: 1})
			continue
		}
		if d, ok := parseDimension(part, fontSize, rootFontSize); ok && !d.IsAuto() {
			tracks = append(tracks, GridTrack{Size: d})
		}
	}
	return tracks
}

// parseGridPlacement parses grid-column / grid-row: "n", "n / m",
// "span n", "n / span m".
func parseGridPlacement(value string) GridPlacement {
	var gp GridPlacement
	startText, endText, hasEnd := strings.Cut(value, "/")
	gp.Start, gp.Span = parseGridLine(startText)
	if hasEnd {
		end, span := parseGridLine(endText)
		if span > 0 {
			gp.Span = span
		} else {
			gp.End = end
		}
	}
	return gp
}

func parseGridLine(s string) (line, span int) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "auto" {
		return 0, 0
	}
	if rest, ok := strings.CutPrefix(s, "span"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil || n <= 0 {
			return 0, 0
		}
		return 0, n
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0
	}
	return n, 0
}
