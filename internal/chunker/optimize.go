package chunker

import "strings"

// optimize rebalances chunk sizes: oversized chunks are split on paragraph
// boundaries and undersized fragments are merged into their predecessor.
// Every returned chunk is at most MaxSize characters.
func (c *Chunker) optimize(chunks []RawChunk) []RawChunk {
	var split []RawChunk
	for _, chunk := range chunks {
		if len(chunk.Text) > c.cfg.MaxSize {
			split = append(split, c.splitChunk(chunk)...)
		} else {
			split = append(split, chunk)
		}
	}

	var merged []RawChunk
	for _, chunk := range split {
		if len(merged) > 0 &&
			len(chunk.Text) < c.cfg.TargetSize/2 &&
			len(merged[len(merged)-1].Text) < c.cfg.TargetSize &&
			len(merged[len(merged)-1].Text)+len(chunk.Text)+2 <= c.cfg.MaxSize {
			prev := &merged[len(merged)-1]
			prev.Text = prev.Text + "\n\n" + chunk.Text
			prev.EndPage = chunk.EndPage
			prev.Images = append(prev.Images, chunk.Images...)
			prev.Tables = append(prev.Tables, chunk.Tables...)
			continue
		}
		merged = append(merged, chunk)
	}

	return merged
}

// splitChunk divides an oversized chunk at paragraph boundaries, carrying
// the last two sentences across each boundary as overlap. Structural
// attachments stay with the first piece so downstream consumers see each
// image and table exactly once.
func (c *Chunker) splitChunk(chunk RawChunk) []RawChunk {
	paragraphs := strings.Split(chunk.Text, "\n\n")

	var (
		pieces  []RawChunk
		current strings.Builder
	)

	emit := func(text string) {
		piece := chunk
		piece.Text = strings.TrimSpace(text)
		if len(pieces) > 0 {
			piece.Images = nil
			piece.Tables = nil
		}
		pieces = append(pieces, piece)
	}

	for _, para := range paragraphs {
		// A single paragraph can exceed the hard limit on its own;
		// cut it at the limit so the size bound holds everywhere.
		for len(para) > c.cfg.MaxSize {
			if strings.TrimSpace(current.String()) != "" {
				emit(current.String())
			}
			current.Reset()
			emit(para[:c.cfg.MaxSize])
			para = para[c.cfg.MaxSize-c.cfg.Overlap:]
		}

		if current.Len() > 0 && current.Len()+len(para)+2 > c.cfg.MaxSize {
			emit(current.String())
			seed := lastSentences(current.String(), 2)
			if len(seed) > c.cfg.Overlap {
				seed = seed[len(seed)-c.cfg.Overlap:]
			}
			current.Reset()
			if len(seed)+len(para)+2 <= c.cfg.MaxSize {
				current.WriteString(seed)
			}
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}

	if strings.TrimSpace(current.String()) != "" {
		emit(current.String())
	}

	return pieces
}

// lastSentences returns the trailing n sentences of text, used as overlap
// between split pieces.
func lastSentences(text string, n int) string {
	sentences := strings.Split(text, ". ")
	if len(sentences) <= n {
		return text
	}
	return strings.Join(sentences[len(sentences)-n:], ". ")
}
