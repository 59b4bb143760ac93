package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/pstuifzand/sermonedit/internal/diff"
	"github.com/pstuifzand/sermonedit/internal/export"
	"github.com/pstuifzand/sermonedit/internal/model"
)

// ErrDifferent is returned by diff when the documents differ, so scripts can
// test the exit status
var ErrDifferent = errors.New("documents differ")

func newDiffCmd(g *Globals) *cobra.Command {
	var (
		unified bool
		context int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Compare two documents block by block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, _, err := g.openEditor(args[0])
			if err != nil {
				return err
			}
			cur, _, err := g.openEditor(args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if unified {
				opts := export.Options{ShowHidden: true}
				text, err := diff.Unified(export.Lines(old.Outline(), opts), export.Lines(cur.Outline(), opts),
					args[0], args[1], context)
				if err != nil {
					return err
				}
				if text == "" {
					return nil
				}
				if _, err := io.WriteString(out, text); err != nil {
					return err
				}
				return ErrDifferent
			}

			result := diff.ComputeDiff(old.Document(), cur.Document())
			if result.Empty() {
				fmt.Fprintln(out, "No differences")
				return nil
			}
			if _, err := io.WriteString(out, diff.FormatLines(diff.BuildDiffLines(result, verbose))); err != nil {
				return err
			}
			return ErrDifferent
		},
	}

	cmd.Flags().BoolVarP(&unified, "unified", "u", false, "Print a unified diff of the outlines")
	cmd.Flags().IntVarP(&context, "context", "U", 3, "Lines of context for --unified")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show list and collapsed details of new blocks")
	return cmd
}

func newCheckCmd(g *Globals) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a document and report how it was read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, store, err := g.openEditor(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			doc := ed.Document()

			fmt.Fprintf(out, "%s: %s, %s\n", filepath.Base(args[0]), store.Provenance, export.Summary(ed.Outline()))
			if store.ReadOnly {
				fmt.Fprintln(out, "read-only backup")
			}

			problems := checkDocument(doc)
			for _, p := range problems {
				fmt.Fprintln(out, p)
			}

			if verbose {
				spew.Fdump(out, doc.Snapshot())
			}

			if len(problems) > 0 {
				return fmt.Errorf("%d problems found", len(problems))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Dump every block")
	return cmd
}

// checkDocument reports blocks whose presentation flags contradict the
// outline structure
func checkDocument(doc *model.Document) []string {
	var problems []string
	for i, n := range doc.Blocks() {
		if n.ListItem() && n.IsHeading() {
			problems = append(problems, fmt.Sprintf("block %d: heading marked as list item", i))
		}
		if n.HiddenByParent() {
			covered := false
			for a := range model.AncestorsOf(n) {
				if a.Hidden() {
					covered = true
					break
				}
			}
			if !covered {
				problems = append(problems, fmt.Sprintf("block %d: hidden without a collapsed parent", i))
			}
		}
		if depth := n.IndentLevel(); depth > model.MaxIndent {
			problems = append(problems, fmt.Sprintf("block %d: list depth %d exceeds %d", i, depth, model.MaxIndent))
		}
	}
	return problems
}

func newBackupsCmd(g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups [file]",
		Short: "List the backups of a document, oldest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			store, err := g.openStore(path)
			if err != nil {
				return err
			}
			if store.Backups == nil {
				return errors.New("backups are disabled in the config")
			}
			backups, err := store.Backups.FindBackupsForFile(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, b := range backups {
				fmt.Fprintf(out, "%s  %s  %s\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.FilePath, b.OriginalFile)
			}
			return nil
		},
	}
	return cmd
}
