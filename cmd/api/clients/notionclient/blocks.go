package notionclient

import (
	"strconv"
	"strings"
)

type blockText struct {
	PlainText string `json:"plain_text"`
}

type blockBody struct {
	RichText []blockText `json:"rich_text"`
	Checked  bool        `json:"checked"`
	Language string      `json:"language"`
}

type block struct {
	Type             string     `json:"type"`
	Paragraph        *blockBody `json:"paragraph"`
	Heading1         *blockBody `json:"heading_1"`
	Heading2         *blockBody `json:"heading_2"`
	Heading3         *blockBody `json:"heading_3"`
	BulletedListItem *blockBody `json:"bulleted_list_item"`
	NumberedListItem *blockBody `json:"numbered_list_item"`
	Quote            *blockBody `json:"quote"`
	ToDo             *blockBody `json:"to_do"`
	Callout          *blockBody `json:"callout"`
	Code             *blockBody `json:"code"`
}

func (b *blockBody) text() string {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	for _, t := range b.RichText {
		sb.WriteString(t.PlainText)
	}
	return sb.String()
}

// renderBlocks turns top-level blocks into lightweight plain text.
// Unsupported block types (images, embeds, tables) are skipped.
func renderBlocks(blocks []block) string {
	lines := make([]string, 0, len(blocks))
	number := 0
	for _, b := range blocks {
		if b.Type != "numbered_list_item" {
			number = 0
		}
		var line string
		switch b.Type {
		case "paragraph":
			line = b.Paragraph.text()
		case "heading_1":
			line = "# " + b.Heading1.text()
		case "heading_2":
			line = "## " + b.Heading2.text()
		case "heading_3":
			line = "### " + b.Heading3.text()
		case "bulleted_list_item":
			line = "- " + b.BulletedListItem.text()
		case "numbered_list_item":
			number++
			line = strconv.Itoa(number) + ". " + b.NumberedListItem.text()
		case "quote":
			line = "> " + b.Quote.text()
		case "callout":
			line = "> " + b.Callout.text()
		case "to_do":
			mark := "[ ] "
			if b.ToDo != nil && b.ToDo.Checked {
				mark = "[x] "
			}
			line = "- " + mark + b.ToDo.text()
		case "code":
			lang := ""
			if b.Code != nil {
				lang = b.Code.Language
			}
			line = "```" + lang + "\n" + b.Code.text() + "\n```"
		case "divider":
			line = "---"
		default:
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n\n")
}
