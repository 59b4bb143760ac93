package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/outline"
)

// FilterExpr represents a filter expression that can match blocks
type FilterExpr interface {
	Matches(n *model.Node) bool
	String() string // For debug output
}

// Quantifier represents how many ancestors must match an ancestor filter
type Quantifier int

const (
	QuantifierSome Quantifier = iota // At least one must match (default)
	QuantifierAll                    // All must match
	QuantifierNone                   // None must match
)

func (q Quantifier) String() string {
	switch q {
	case QuantifierSome:
		return "some"
	case QuantifierAll:
		return "all"
	case QuantifierNone:
		return "none"
	default:
		return "unknown"
	}
}

// blockText is the text of a block with runs of whitespace collapsed
func blockText(n *model.Node) string {
	return strings.Join(strings.Fields(n.TextContent()), " ")
}

// TextExpr matches blocks whose text contains the search term (case-insensitive)
type TextExpr struct {
	term string
}

func NewTextExpr(term string) *TextExpr {
	return &TextExpr{term: strings.ToLower(term)}
}

func (e *TextExpr) Matches(n *model.Node) bool {
	return strings.Contains(strings.ToLower(blockText(n)), e.term)
}

func (e *TextExpr) String() string {
	return fmt.Sprintf("text(%q)", e.term)
}

// FuzzyExpr matches blocks whose text fuzzy-matches the search term (case-insensitive)
type FuzzyExpr struct {
	term string
}

func NewFuzzyExpr(term string) *FuzzyExpr {
	return &FuzzyExpr{term: strings.ToLower(term)}
}

func (e *FuzzyExpr) Matches(n *model.Node) bool {
	return fuzzy.MatchFold(e.term, blockText(n))
}

func (e *FuzzyExpr) String() string {
	return fmt.Sprintf("fuzzy(%q)", e.term)
}

// RegexExpr matches blocks whose text matches a regular expression pattern
type RegexExpr struct {
	pattern string
	re      *regexp.Regexp
}

func NewRegexExpr(pattern string) (*RegexExpr, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return &RegexExpr{pattern: pattern, re: re}, nil
}

func (e *RegexExpr) Matches(n *model.Node) bool {
	return e.re.MatchString(blockText(n))
}

func (e *RegexExpr) String() string {
	return fmt.Sprintf("regex(/%s/)", e.pattern)
}

// AlwaysMatchExpr matches all blocks (for empty queries)
type AlwaysMatchExpr struct{}

func NewAlwaysMatchExpr() *AlwaysMatchExpr {
	return &AlwaysMatchExpr{}
}

func (e *AlwaysMatchExpr) Matches(n *model.Node) bool {
	return true
}

func (e *AlwaysMatchExpr) String() string {
	return "always-match"
}

// AndExpr matches if both left and right match
type AndExpr struct {
	left  FilterExpr
	right FilterExpr
}

func NewAndExpr(left, right FilterExpr) *AndExpr {
	return &AndExpr{left: left, right: right}
}

func (e *AndExpr) Matches(n *model.Node) bool {
	return e.left.Matches(n) && e.right.Matches(n)
}

func (e *AndExpr) String() string {
	return fmt.Sprintf("(and %s %s)", e.left.String(), e.right.String())
}

// OrExpr matches if either left or right matches
type OrExpr struct {
	left  FilterExpr
	right FilterExpr
}

func NewOrExpr(left, right FilterExpr) *OrExpr {
	return &OrExpr{left: left, right: right}
}

func (e *OrExpr) Matches(n *model.Node) bool {
	return e.left.Matches(n) || e.right.Matches(n)
}

func (e *OrExpr) String() string {
	return fmt.Sprintf("(or %s %s)", e.left.String(), e.right.String())
}

// NotExpr matches if the wrapped expression does not match
type NotExpr struct {
	expr FilterExpr
}

func NewNotExpr(expr FilterExpr) *NotExpr {
	return &NotExpr{expr: expr}
}

func (e *NotExpr) Matches(n *model.Node) bool {
	return !e.expr.Matches(n)
}

func (e *NotExpr) String() string {
	return fmt.Sprintf("(not %s)", e.expr.String())
}

// HeadingFilter matches headings by rank, h:1 being the top level
type HeadingFilter struct {
	op    ComparisonOp
	value int
}

func (e *HeadingFilter) Matches(n *model.Node) bool {
	if !n.IsHeading() {
		return false
	}
	return compare(model.LevelOf(n)+1, e.op, e.value)
}

func (e *HeadingFilter) String() string {
	return fmt.Sprintf("heading(%s%d)", e.op, e.value)
}

// ListDepthFilter matches paragraphs by list depth. Plain paragraphs have
// depth 0.
type ListDepthFilter struct {
	op    ComparisonOp
	value int
}

func (e *ListDepthFilter) Matches(n *model.Node) bool {
	if n.IsHeading() {
		return false
	}
	return compare(n.IndentLevel(), e.op, e.value)
}

func (e *ListDepthFilter) String() string {
	return fmt.Sprintf("list(%s%d)", e.op, e.value)
}

// WordsFilter compares word counts: the own words of a paragraph, or the
// cached section total of a heading
type WordsFilter struct {
	op    ComparisonOp
	value int
}

func (e *WordsFilter) Matches(n *model.Node) bool {
	words := n.ChildWords()
	if !n.IsHeading() {
		words = outline.CountWords(n)
	}
	return compare(words, e.op, e.value)
}

func (e *WordsFilter) String() string {
	return fmt.Sprintf("words(%s%d)", e.op, e.value)
}

// StateFilter matches blocks by kind or state, e.g. is:collapsed
type StateFilter struct {
	state string
	match func(n *model.Node) bool
}

var states = map[string]func(n *model.Node) bool{
	"heading":   (*model.Node).IsHeading,
	"para":      func(n *model.Node) bool { return !n.IsHeading() && !n.ListItem() },
	"list":      (*model.Node).ListItem,
	"collapsed": (*model.Node).Hidden,
	"hidden":    func(n *model.Node) bool { return n.HiddenByParent() || n.BelowThreshold() },
	"numbered":  func(n *model.Node) bool { return n.ListItem() && n.AltA() },
	"alt":       func(n *model.Node) bool { return n.ListItem() && n.AltB() },
	"empty":     func(n *model.Node) bool { return strings.TrimSpace(n.TextContent()) == "" },
}

func NewStateFilter(state string) (*StateFilter, error) {
	state = strings.ToLower(state)
	match, ok := states[state]
	if !ok {
		return nil, fmt.Errorf("unknown state: %s", state)
	}
	return &StateFilter{state: state, match: match}, nil
}

func (e *StateFilter) Matches(n *model.Node) bool {
	return e.match(n)
}

func (e *StateFilter) String() string {
	return fmt.Sprintf("is(%s)", e.state)
}

// ParentFilter matches blocks whose outline parent matches the inner expression
type ParentFilter struct {
	expr FilterExpr
}

func NewParentFilter(expr FilterExpr) *ParentFilter {
	return &ParentFilter{expr: expr}
}

func (e *ParentFilter) Matches(n *model.Node) bool {
	parent := model.ParentOf(n)
	return parent != nil && e.expr.Matches(parent)
}

func (e *ParentFilter) String() string {
	return fmt.Sprintf("parent(%s)", e.expr.String())
}

// AncestorFilter matches blocks by their outline ancestors
type AncestorFilter struct {
	expr       FilterExpr
	quantifier Quantifier
}

func NewAncestorFilter(expr FilterExpr, quantifier Quantifier) *AncestorFilter {
	return &AncestorFilter{expr: expr, quantifier: quantifier}
}

func (e *AncestorFilter) Matches(n *model.Node) bool {
	count, matched := 0, 0
	for a := range model.AncestorsOf(n) {
		count++
		if e.expr.Matches(a) {
			matched++
		}
	}
	switch e.quantifier {
	case QuantifierAll:
		return count > 0 && matched == count
	case QuantifierNone:
		return matched == 0
	default:
		return matched > 0
	}
}

func (e *AncestorFilter) String() string {
	return fmt.Sprintf("ancestor(%s %s)", e.quantifier, e.expr.String())
}

func compare(actual int, op ComparisonOp, expected int) bool {
	switch op {
	case OpEqual:
		return actual == expected
	case OpNotEqual:
		return actual != expected
	case OpGreater:
		return actual > expected
	case OpGreaterEqual:
		return actual >= expected
	case OpLess:
		return actual < expected
	case OpLessEqual:
		return actual <= expected
	default:
		return false
	}
}
