package quiz

// block is the text span belonging to one marker: everything from just
// past the marker token to the start of the next marker, or to the end
// of the text for the last one. Trailing text on the marker's own line
// stays in the block as the first candidate question line.
type block struct {
	id   int
	text string
}

// segment cuts the scrubbed text into one block per located marker.
// Blocks carry no shared state; each is classified on its own so a
// later block can never influence an earlier block's parse.
func segment(text string, marks []marker) []block {
	blocks := make([]block, 0, len(marks))
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		blocks = append(blocks, block{id: m.id, text: text[m.contentStart:end]})
	}
	return blocks
}
