package templates

import "strings"

// Rendered holds the output of substituting placeholder values into a template.
type Rendered struct {
	Subject string
	Content string
}

// Render substitutes every {{key}} occurrence in the template's subject and
// content with the matching value from data. Substitution is global and
// literal: no escaping, no nesting, no conditionals. Placeholders with no
// matching key are left verbatim.
func Render(t Template, data map[string]string) Rendered {
	return Rendered{
		Subject: substitute(t.Subject, data),
		Content: substitute(t.Content, data),
	}
}

func substitute(text string, data map[string]string) string {
	if text == "" || len(data) == 0 {
		return text
	}
	for key, value := range data {
		text = strings.ReplaceAll(text, "{{"+key+"}}", value)
	}
	return text
}
