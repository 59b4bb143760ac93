package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/outline"
)

func TestTokenizer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []TokenType
	}{
		{
			input:  "grace",
			tokens: []TokenType{TokenText, TokenEOF},
		},
		{
			input:  "grace peace",
			tokens: []TokenType{TokenText, TokenText, TokenEOF},
		},
		{
			input:  "grace | peace",
			tokens: []TokenType{TokenText, TokenOr, TokenText, TokenEOF},
		},
		{
			input:  "grace +peace",
			tokens: []TokenType{TokenText, TokenAnd, TokenText, TokenEOF},
		},
		{
			input:  "-grace",
			tokens: []TokenType{TokenNot, TokenText, TokenEOF},
		},
		{
			input:  "h:<=2",
			tokens: []TokenType{TokenFilter, TokenEOF},
		},
		{
			input:  "-h:1",
			tokens: []TokenType{TokenNot, TokenFilter, TokenEOF},
		},
		{
			input:  "-a:draft",
			tokens: []TokenType{TokenFilter, TokenEOF},
		},
		{
			input:  "(grace | peace)",
			tokens: []TokenType{TokenLParen, TokenText, TokenOr, TokenText, TokenRParen, TokenEOF},
		},
		{
			input:  `"opening prayer"`,
			tokens: []TokenType{TokenText, TokenEOF},
		},
		{
			input:  `p:"opening prayer" w:>2`,
			tokens: []TokenType{TokenFilter, TokenFilter, TokenEOF},
		},
		{
			input:  "~opnpr",
			tokens: []TokenType{TokenFilter, TokenEOF},
		},
		{
			input:  "/^Lord/",
			tokens: []TokenType{TokenRegex, TokenEOF},
		},
		{
			input:  "and/or",
			tokens: []TokenType{TokenText, TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := NewTokenizer(tt.input).AllTokens()

			if len(tokens) != len(tt.tokens) {
				t.Fatalf("expected %d tokens, got %d", len(tt.tokens), len(tokens))
			}

			for i, expectedType := range tt.tokens {
				if tokens[i].Type != expectedType {
					t.Errorf("token %d: expected %d, got %d", i, expectedType, tokens[i].Type)
				}
			}
		})
	}
}

func TestParser(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "always-match"},
		{"grace", `text("grace")`},
		{"grace peace", `(and text("grace") text("peace"))`},
		{"grace | peace", `(or text("grace") text("peace"))`},
		{"a | b c", `(or text("a") (and text("b") text("c")))`},
		{"-grace", `(not text("grace"))`},
		{"h:1", "heading(=1)"},
		{"h:>=2 li:0", "(and heading(>=2) list(=0))"},
		{"w:!=3", "words(!=3)"},
		{"is:Collapsed", "is(collapsed)"},
		{"~opn", `fuzzy("opn")`},
		{"/^Lord/", "regex(/^Lord/)"},
		{"p:h:1", "parent(heading(=1))"},
		{`a:"main point"`, `ancestor(some text("main point"))`},
		{"-a:draft", `ancestor(none text("draft"))`},
		{"+a:h:1", "ancestor(all heading(=1))"},
		{"(a | b) -c", `(and (or text("a") text("b")) (not text("c")))`},
		{"x:1", `text("x:1")`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := ParseQuery(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := expr.String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParserErrors(t *testing.T) {
	for _, input := range []string{
		"(grace",
		"grace)",
		"h:abc",
		"h:>=",
		"is:shiny",
		"/[a-/",
		"p:",
		"-",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseQuery(input)
			assert.Error(t, err)
		})
	}
}

// sermonDoc builds the outline
//
//	H1 Introduction
//	  Welcome to the service
//	  H2 Opening prayer
//	    1. Lord we thank you
//	      * for this day
//	H1 Main point
//	  Grace abounds in every season
//	  H2 Draft notes (collapsed)
//	    (empty)
func sermonDoc(t *testing.T) (*model.Document, []*model.Node) {
	t.Helper()
	doc := model.NewDocument()
	eng := outline.New(doc)
	var blocks []*model.Node
	add := func(tag, text string) *model.Node {
		b := doc.NewBlock(tag, text)
		doc.Append(doc.Root(), b)
		blocks = append(blocks, b)
		return b
	}
	add(model.TagH1, "Introduction")
	add(model.TagP, "Welcome to the service")
	add(model.TagH2, "Opening prayer")
	lord := add(model.TagP, "Lord we thank you")
	eng.SetListLevel(lord, 1)
	doc.SetFlag(lord, model.AttrAltA, true)
	eng.SetListLevel(add(model.TagP, "for this day"), 2)
	add(model.TagH1, "Main point")
	add(model.TagP, "Grace abounds in every season")
	draft := add(model.TagH2, "Draft notes")
	add(model.TagP, "")
	eng.Hide(draft)
	eng.RecountAll()
	doc.TakeRecords()
	return doc, blocks
}

func texts(nodes []*model.Node) []string {
	out := []string{}
	for _, n := range nodes {
		out = append(out, n.TextContent())
	}
	return out
}

func TestFind(t *testing.T) {
	doc, _ := sermonDoc(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"lord", []string{"Lord we thank you"}},
		{`"the service"`, []string{"Welcome to the service"}},
		{"h:1", []string{"Introduction", "Main point"}},
		{"h:>1", []string{"Opening prayer", "Draft notes"}},
		{"li:>0", []string{"Lord we thank you", "for this day"}},
		{"li:2", []string{"for this day"}},
		{"is:numbered", []string{"Lord we thank you"}},
		{"is:collapsed", []string{"Draft notes"}},
		{"is:hidden", []string{""}},
		{"is:empty", []string{""}},
		{"is:para", []string{"Welcome to the service", "Grace abounds in every season", ""}},
		{"w:>4", []string{"Introduction", "Opening prayer", "Main point", "Grace abounds in every season"}},
		{"w:>4 -is:heading", []string{"Grace abounds in every season"}},
		{"h:1 w:>=7", []string{"Introduction"}},
		{"p:~opnpr", []string{"Lord we thank you"}},
		{`a:"opening prayer"`, []string{"Lord we thank you", "for this day"}},
		{"is:list -a:intro", []string{}},
		{"is:heading +a:h:1", []string{"Opening prayer", "Draft notes"}},
		{"/^[GW]/", []string{"Welcome to the service", "Grace abounds in every season"}},
		{"intro | main", []string{"Introduction", "Main point"}},
		{"-is:heading -is:list -is:empty", []string{"Welcome to the service", "Grace abounds in every season"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			found, err := Find(doc, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, texts(found))
		})
	}
}

func TestFindInvalidQuery(t *testing.T) {
	doc, _ := sermonDoc(t)
	_, err := Find(doc, "(unclosed")
	assert.Error(t, err)
}

func TestRankHeadings(t *testing.T) {
	doc, blocks := sermonDoc(t)

	matches := RankHeadings(doc, "pt")
	require.Len(t, matches, 1)
	assert.Same(t, blocks[5], matches[0].Node)
	assert.Equal(t, "Main point", matches[0].Title)

	matches = RankHeadings(doc, "o")
	require.NotEmpty(t, matches)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].Distance, matches[i].Distance)
	}

	assert.Empty(t, RankHeadings(doc, "zzz"))
}
