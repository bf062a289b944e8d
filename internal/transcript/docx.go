package transcript

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// WriteDOCX renders the dialogue blocks to a docx file.
func WriteDOCX(title string, blocks []Block, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)
	doc.AddParagraph("")

	for _, b := range blocks {
		heading := fmt.Sprintf("%s [%s - %s]", b.DisplayName, b.Start(), b.End())
		addStyledRun(doc.AddParagraph(""), heading, true, 14)
		for _, l := range b.Lines {
			addStyledRun(doc.AddParagraph(""), "• "+l.Text, false, fontSize)
		}
	}

	return doc.SaveTo(outputPath)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
