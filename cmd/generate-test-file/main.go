package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/outline"
	"github.com/pstuifzand/sermonedit/internal/storage"
)

func main() {
	var (
		numBlocks int
		output    string
		depth     int
		collapse  bool
	)

	cmd := &cobra.Command{
		Use:          "generate-test-file",
		Short:        "Write a large sermon document for load testing",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if numBlocks < 1 {
				return fmt.Errorf("blocks must be at least 1")
			}
			if depth < 1 || depth > 4 {
				return fmt.Errorf("depth must be between 1 and 4")
			}

			doc := generateDocument(numBlocks, depth, collapse)
			data, err := storage.EncodeBytes(doc)
			if err != nil {
				return fmt.Errorf("failed to encode document: %w", err)
			}

			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create directory: %w", err)
				}
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated document with %d blocks\n", doc.BlockCount())
			fmt.Fprintf(out, "Saved to: %s\n", output)
			fmt.Fprintf(out, "File size: %.2f MB\n", float64(len(data))/(1024*1024))
			return nil
		},
	}

	cmd.Flags().IntVarP(&numBlocks, "blocks", "n", 1000, "Number of blocks to generate")
	cmd.Flags().StringVarP(&output, "output", "o", "large_test.html", "Output file path")
	cmd.Flags().IntVarP(&depth, "depth", "d", 3, "Deepest heading level, 1 to 4")
	cmd.Flags().BoolVar(&collapse, "collapse", false, "Collapse every other top-level section")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// generateDocument lays out sections in order: a heading at every level
// down to maxDepth, two paragraphs, then a short list under the deepest one.
func generateDocument(total, maxDepth int, collapse bool) *model.Document {
	doc := model.NewDocument()
	eng := outline.New(doc)
	headings := []string{model.TagH1, model.TagH2, model.TagH3, model.TagH4}

	var sections []*model.Node
	i := 0
	add := func(tag string) *model.Node {
		b := doc.NewBlock(tag, generateText(i, tag))
		doc.Append(doc.Root(), b)
		i++
		return b
	}

	for i < total {
		for level := 0; level < maxDepth && i < total; level++ {
			h := add(headings[level])
			if level == 0 {
				sections = append(sections, h)
			}
		}
		for j := 0; j < 2 && i < total; j++ {
			add(model.TagP)
		}
		for j := 0; j < listLength(i) && i < total; j++ {
			eng.SetListLevel(add(model.TagP), 1+j%2)
		}
	}

	if collapse {
		for k, h := range sections {
			if k%2 == 1 {
				eng.Hide(h)
			}
		}
	}

	doc.TakeRecords()
	return doc
}

func listLength(index int) int {
	return 1 + index%4
}

func generateText(index int, tag string) string {
	if tag != model.TagP {
		topics := []string{
			"Introduction", "Opening prayer", "Scripture reading", "Context",
			"Main point", "Illustration", "Application", "Response",
			"Closing prayer", "Benediction",
		}
		return fmt.Sprintf("%s %d", topics[index%len(topics)], index)
	}

	sentences := []string{
		"Grace abounds in every season of life.",
		"We remember the promises that carried us this far.",
		"Consider how the story would have sounded to its first hearers.",
		"Here the text turns from warning to comfort.",
		"Let this shape the way we speak to one another this week.",
		"Hope is not wishful thinking but patient trust.",
		"The psalmist asks the question many of us carry quietly.",
	}
	return fmt.Sprintf("%s (%d)", sentences[index%len(sentences)], index)
}
