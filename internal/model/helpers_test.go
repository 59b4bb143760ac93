package model

// buildDoc creates a document with one block per tag/text pair.
func buildDoc(pairs ...string) (*Document, []*Node) {
	doc := NewDocument()
	var blocks []*Node
	for i := 0; i+1 < len(pairs); i += 2 {
		b := doc.NewBlock(pairs[i], pairs[i+1])
		doc.Append(doc.Root(), b)
		blocks = append(blocks, b)
	}
	doc.TakeRecords()
	return doc, blocks
}

func texts(nodes []*Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.TextContent())
	}
	return out
}
