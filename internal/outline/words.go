package outline

import (
	"log"
	"unicode"

	"github.com/pstuifzand/sermonedit/internal/model"
)

// WordDelta is the result of refreshing the word count of one block.
type WordDelta struct {
	HadValidCache bool
	Delta         int
}

// CountWords counts the whitespace separated runs in the inline content of
// n. Words split across inline wrappers count once.
func CountWords(n *model.Node) int {
	count := 0
	inWord := false
	for t := range model.TextLeaves(n) {
		for _, r := range t.Data() {
			if unicode.IsSpace(r) {
				inWord = false
				continue
			}
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}

// countsOwnWords reports whether a block adds its own words to the totals
// of its ancestors. Headings only carry the totals of their children.
func countsOwnWords(n *model.Node) bool {
	return model.LevelOf(n) >= model.PLevel
}

// WordCount returns the cached word count of n, filling the cache first
// when it is missing.
func (e *Engine) WordCount(n *model.Node) int {
	if words := n.NodeWords(); words != model.NoValue {
		return words
	}
	words := CountWords(n)
	e.doc.Cache(n, model.AttrNodeWords, words)
	return words
}

// RefreshWordCount recounts the words of n and reports the change.
func (e *Engine) RefreshWordCount(n *model.Node) WordDelta {
	old := n.NodeWords()
	words := CountWords(n)
	if old == model.NoValue {
		e.doc.Cache(n, model.AttrNodeWords, words)
		return WordDelta{HadValidCache: false, Delta: words}
	}
	e.doc.SetAttr(n, model.AttrNodeWords, words)
	return WordDelta{HadValidCache: true, Delta: words - old}
}

// contribution is what n adds to the total of its parent.
func (e *Engine) contribution(n *model.Node) int {
	total := max(n.ChildWords(), 0)
	if countsOwnWords(n) {
		total += e.WordCount(n)
	}
	return total
}

// PropagateDelta adds delta to the child word count of every ancestor of n.
// With stopAtHidden it stops after the first collapsed ancestor. When an
// ancestor has no valid count the whole document is recounted instead, and
// PropagateDelta returns false.
func (e *Engine) PropagateDelta(n *model.Node, delta int, stopAtHidden bool) bool {
	if delta == 0 {
		return true
	}
	handled := model.LevelOf(n)
	for cur := n.PreviousSibling(); cur != nil && handled > 0; cur = cur.PreviousSibling() {
		if !cur.IsElement() {
			continue
		}
		lvl := model.LevelOf(cur)
		if lvl >= handled {
			continue
		}
		words := cur.ChildWords()
		if words == model.NoValue {
			log.Printf("outline: missing child word count on %s, recounting", cur.Tag)
			e.RecountAll()
			return false
		}
		e.doc.SetAttr(cur, model.AttrChildWords, words+delta)
		if stopAtHidden && cur.Hidden() {
			break
		}
		handled = lvl
	}
	return true
}

// RecountAll recomputes every child word count in one backward pass.
// Collapsed blocks keep the totals of their subtree but do not pass them on.
func (e *Engine) RecountAll() {
	acc := make([]int, model.PLevel+model.MaxIndent+2)
	for n := range e.doc.AllBlocksReversed() {
		lvl := max(model.LevelOf(n), 0)
		if lvl+1 >= len(acc) {
			acc = append(acc, make([]int, lvl+2-len(acc))...)
		}

		sum := 0
		for i := lvl + 1; i < len(acc); i++ {
			sum += acc[i]
			acc[i] = 0
		}
		e.doc.SetAttr(n, model.AttrChildWords, sum)

		if n.Hidden() {
			continue
		}
		total := sum
		if countsOwnWords(n) {
			total += e.WordCount(n)
		}
		acc[lvl] += total
	}
}

// TotalWords returns the number of words visible at the top of the
// outline: the sum of every top-level contribution.
func (e *Engine) TotalWords() int {
	total := 0
	shallowest := -1
	for n := range e.doc.AllBlocks() {
		lvl := model.LevelOf(n)
		if shallowest >= 0 && lvl > shallowest {
			continue
		}
		shallowest = lvl
		if !n.Hidden() {
			total += e.contribution(n)
		}
	}
	return total
}
