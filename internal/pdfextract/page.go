package pdfextract

import (
	"sort"
	"strings"
)

// RenderPage renders blocks top to bottom. Tables become Markdown tables
// wrapped in newlines so a table next to prose never fuses with it.
func RenderPage(p Page) string {
	blocks := make([]Block, len(p.Blocks))
	copy(blocks, p.Blocks)
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].BBox.Y0 < blocks[j].BBox.Y0
	})

	var parts []string
	for _, b := range blocks {
		if len(b.Lines) == 0 {
			continue
		}
		if IsTable(b) {
			if md := ExtractTable(b).Markdown(); md != "" {
				parts = append(parts, "\n"+md+"\n")
				continue
			}
		}
		if text := proseText(b); text != "" {
			parts = append(parts, text)
		}
	}

	var result strings.Builder
	for i, part := range parts {
		if i > 0 {
			if strings.HasPrefix(part, "\n|") || strings.HasSuffix(result.String(), "|\n") {
				result.WriteString("\n")
			} else {
				result.WriteString("\n\n")
			}
		}
		result.WriteString(part)
	}
	return result.String()
}

func proseText(b Block) string {
	var lines []string
	for _, l := range b.Lines {
		texts := make([]string, 0, len(l.Spans))
		for _, s := range l.Spans {
			texts = append(texts, s.Text)
		}
		if text := strings.TrimSpace(strings.Join(texts, " ")); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}
