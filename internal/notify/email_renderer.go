package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// HTMLEmailRenderer renders a scan report as an HTML email whose plain text
// part is the Markdown report itself.
type HTMLEmailRenderer struct {
	tmpl *template.Template
}

func NewHTMLEmailRenderer() *HTMLEmailRenderer {
	t := template.Must(template.New("email").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).Parse(emailHTMLTemplate))
	return &HTMLEmailRenderer{tmpl: t}
}

type emailData struct {
	Report
	Headline string
}

func (r *HTMLEmailRenderer) Render(report Report) (*RenderedMessage, error) {
	subject := fmt.Sprintf("Battery scan %s: %d new battery(ies)", report.Date, len(report.Confirmed))

	var htmlBuf bytes.Buffer
	data := emailData{Report: report, Headline: headline(report)}
	if err := r.tmpl.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: subject,
		Text:    report.Markdown(),
		HTML:    htmlBuf.String(),
	}, nil
}
