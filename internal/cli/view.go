package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/sermonedit/internal/export"
	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/search"
)

func newShowCmd(g *Globals) *cobra.Command {
	var opts export.Options
	var depth int

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print the outline of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, _, err := g.openEditor(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("depth") {
				ed.SetShowingDepth(depth)
			}
			return export.WriteOutline(cmd.OutOrStdout(), ed.Outline(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Width, "width", "w", 0, "Limit lines to this many columns")
	cmd.Flags().BoolVar(&opts.Wrap, "wrap", false, "Wrap long paragraphs instead of truncating them")
	cmd.Flags().BoolVarP(&opts.WordCounts, "counts", "c", false, "Show word counts under headings")
	cmd.Flags().BoolVarP(&opts.ShowHidden, "all", "a", false, "Include collapsed sections")
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "Showing depth, overriding the config")
	return cmd
}

func newStatsCmd(g *Globals) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Print block and word counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, _, err := g.openEditor(args[0])
			if err != nil {
				return err
			}
			return export.WriteStats(cmd.OutOrStdout(), export.ComputeStats(ed.Outline()), width)
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 60, "Width of the section table")
	return cmd
}

func newFindCmd(g *Globals) *cobra.Command {
	var headings bool

	cmd := &cobra.Command{
		Use:   "find <file> <query>...",
		Short: "List the blocks matching a query",
		Long: strings.TrimSpace(`
Terms must all match. Combine them with | (or), - (not) and parentheses.

  grace               text contains "grace"
  "opening prayer"    phrase
  ~opnpr              fuzzy match
  /^Lord/             regular expression
  h:<=2               headings of level 1 or 2
  li:>0               list items, li:2 for depth 2
  w:>50               more than 50 words (a heading counts its section)
  is:collapsed        also heading, para, list, hidden, numbered, alt, empty
  p:intro             the parent matches
  a:intro             some ancestor matches, -a: none, +a: all

With --headings the query is fuzzy-matched against heading titles and the
closest come first.
`),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, _, err := g.openEditor(args[0])
			if err != nil {
				return err
			}
			doc := ed.Document()
			query := strings.Join(args[1:], " ")
			out := cmd.OutOrStdout()

			index := make(map[*model.Node]int)
			for i, b := range doc.Blocks() {
				index[b] = i
			}

			if headings {
				for _, m := range search.RankHeadings(doc, query) {
					fmt.Fprintf(out, "%d: %s\n", index[m.Node], m.Title)
				}
				return nil
			}

			found, err := search.Find(doc, query)
			if err != nil {
				return err
			}
			for _, n := range found {
				fmt.Fprintf(out, "%d: %s %s\n", index[n], blockKind(n), strings.Join(strings.Fields(n.TextContent()), " "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&headings, "headings", false, "Rank headings by fuzzy title match")
	return cmd
}

// blockKind names a block by tag, with the depth for list items: H2, P, P1
func blockKind(n *model.Node) string {
	if depth := n.IndentLevel(); depth > 0 {
		return fmt.Sprintf("%s%d", n.Tag, depth)
	}
	return n.Tag
}
