package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	tcss "github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into structured rules. Unknown
// properties and unsupported constructs are dropped with a warning;
// parsing never fails.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. The optional source parameter
// identifies what is being parsed for debug logging.
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("parsing stylesheet", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := tcss.NewParser(input, false)

	// Comma-separated selectors arrive as QualifiedRuleGrammar events
	// ahead of the BeginRulesetGrammar carrying the final selector.
	var pending []string

	for {
		gt, _, data := parser.Next()

		switch gt {
		case tcss.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("css parse stopped", zap.Error(err))
			}
			return sheet

		case tcss.BeginAtRuleGrammar:
			atRule := string(data)
			if atRule == "@media" {
				query := ParseMediaQueryList(tokensText(parser.Values()))
				rules := p.parseMediaBlockRules(parser, sheet)
				p.log.Debug("parsed @media block", zap.String("query", query.Raw), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, StylesheetItem{
					MediaBlock: &MediaBlock{Query: query, Rules: rules},
				})
			} else {
				p.skipAtRuleBlock(parser)
				sheet.Warnings = append(sheet.Warnings, "skipped at-rule: "+atRule)
				p.log.Debug("skipping at-rule", zap.String("rule", atRule))
			}
			pending = nil

		case tcss.AtRuleGrammar:
			// Simple @-rule without block (@import, @charset); none affect layout.
			sheet.Warnings = append(sheet.Warnings, "skipped at-rule: "+string(data))

		case tcss.QualifiedRuleGrammar:
			pending = append(pending, tokensText(parser.Values()))

		case tcss.BeginRulesetGrammar:
			selList := append(pending, string(data)+tokensText(parser.Values()))
			pending = nil
			decls := p.parseDeclarations(parser)
			if rule := p.buildRule(selList, decls, sheet); rule != nil {
				sheet.Items = append(sheet.Items, StylesheetItem{Rule: rule})
			}
		}
	}
}

// buildRule parses the selector list and pairs it with declarations.
// Rules whose every selector fails to parse are dropped.
func (p *Parser) buildRule(selTexts []string, decls []Declaration, sheet *Stylesheet) *Rule {
	var sels []Selector
	for _, part := range selTexts {
		for _, s := range splitSelectorList(part) {
			sel, err := ParseSelector(s)
			if err != nil {
				sheet.Warnings = append(sheet.Warnings, "unsupported selector: "+s)
				p.log.Debug("skipping selector", zap.String("selector", s), zap.Error(err))
				continue
			}
			sels = append(sels, sel)
		}
	}
	if len(sels) == 0 {
		return nil
	}
	return &Rule{Selectors: sels, Declarations: decls}
}

// parseDeclarations consumes declarations until the end of the ruleset.
func (p *Parser) parseDeclarations(parser *tcss.Parser) []Declaration {
	var decls []Declaration
	for {
		gt, _, data := parser.Next()
		switch gt {
		case tcss.ErrorGrammar, tcss.EndRulesetGrammar:
			return decls

		case tcss.DeclarationGrammar, tcss.CustomPropertyGrammar:
			prop := strings.ToLower(strings.TrimSpace(string(data)))
			value := strings.TrimSpace(tokensText(parser.Values()))
			decl := Declaration{Property: prop, Value: value}
			if v, ok := strings.CutSuffix(decl.Value, "!important"); ok {
				decl.Value = strings.TrimSpace(v)
				decl.Important = true
			}
			if decl.Value != "" {
				decls = append(decls, decl)
			}
		}
	}
}

// parseMediaBlockRules parses rules inside an @media block.
func (p *Parser) parseMediaBlockRules(parser *tcss.Parser, sheet *Stylesheet) []Rule {
	var rules []Rule
	var pending []string
	for {
		gt, _, data := parser.Next()
		switch gt {
		case tcss.ErrorGrammar, tcss.EndAtRuleGrammar:
			return rules

		case tcss.QualifiedRuleGrammar:
			pending = append(pending, tokensText(parser.Values()))

		case tcss.BeginRulesetGrammar:
			selList := append(pending, string(data)+tokensText(parser.Values()))
			pending = nil
			decls := p.parseDeclarations(parser)
			if rule := p.buildRule(selList, decls, sheet); rule != nil {
				rules = append(rules, *rule)
			}
		}
	}
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *tcss.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case tcss.ErrorGrammar:
			return
		case tcss.BeginAtRuleGrammar, tcss.BeginRulesetGrammar:
			depth++
		case tcss.EndAtRuleGrammar, tcss.EndRulesetGrammar:
			depth--
		}
	}
}

// tokensText reassembles token data into a single string, collapsing
// whitespace tokens to single spaces.
func tokensText(tokens []tcss.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.TokenType == tcss.WhitespaceToken {
			sb.WriteByte(' ')
			continue
		}
		sb.Write(t.Data)
	}
	return sb.String()
}

// splitSelectorList splits a selector list on top-level commas. Commas
// inside attribute selectors or parentheses do not split.
func splitSelectorList(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(':
			depth++
		case ']', ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					out = append(out, part)
				}
				start = i + 1
			}
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		out = append(out, part)
	}
	return out
}

// ParseInlineStyle parses a style attribute value into declarations.
func ParseInlineStyle(value string) []Declaration {
	var decls []Declaration
	for _, part := range strings.Split(value, ";") {
		prop, val, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		decl := Declaration{
			Property: strings.ToLower(strings.TrimSpace(prop)),
			Value:    strings.TrimSpace(val),
		}
		if v, ok := strings.CutSuffix(decl.Value, "!important"); ok {
			decl.Value = strings.TrimSpace(v)
			decl.Important = true
		}
		if decl.Property != "" && decl.Value != "" {
			decls = append(decls, decl)
		}
	}
	return decls
}
