package prompt

// Choice is one tappable option on an outbound prompt. The Token comes back
// verbatim as a selection event.
type Choice struct {
	Label string
	Token string
}

// Prompt is one outbound unit of conversation output: text plus optional
// rows of choices. Prompts are pure data; the transport renders them.
type Prompt struct {
	Text    string
	Choices [][]Choice
}

func Text(text string) Prompt {
	return Prompt{Text: text}
}

// WithRow appends one row of choices.
func (p Prompt) WithRow(choices ...Choice) Prompt {
	p.Choices = append(p.Choices, choices)
	return p
}

// SingleColumn builds one choice per row, the layout used for catalog lists.
func SingleColumn(labels []string, encode func(label string) string) [][]Choice {
	rows := make([][]Choice, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []Choice{{Label: label, Token: encode(label)}})
	}
	return rows
}
