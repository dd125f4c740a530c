package wordgame

import (
	"strings"
	"text/template"
)

var questionPrompt = template.Must(template.New("question").Parse(
	`You are a word detective. The user has chosen a word from this list: {{.Words}}.
Ask a unique, descriptive yes/no/maybe question (not a guess) to help narrow it down.
Avoid repeating previous questions: {{.Asked}}.
This is question {{.Number}} of {{.Max}}.
Do NOT guess the word, just ask a useful question.
Do NOT return anything other than the question.
Here is an example response: Is it a living thing?`))

var guessPrompt = template.Must(template.New("guess").Parse(
	`You are a word detective. The possible words are: {{.Words}}.
Based on these question-answer pairs:
{{.Transcript}}
Which word do you think the user picked? Make SURE to ONLY return ONE word from the list.
Do NOT include any other statements other than the guess word.
Here is an example response: Kiwi!`))

type questionVars struct {
	Words  string
	Asked  string
	Number int
	Max    int
}

type guessVars struct {
	Words      string
	Transcript string
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
