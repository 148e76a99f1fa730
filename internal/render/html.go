package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 2em auto; max-width: 60em; color: #222; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.7em; }
th { background: #f3f3f3; }
blockquote { border-left: 4px solid #e0a800; margin: 0 0 1em; padding: 0.2em 1em; background: #fff8e1; }
</style>
</head>
<body>
%s</body>
</html>
`

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML renders the report as a standalone HTML page
func HTML(r *Report) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(r)), &body); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	title := html.EscapeString("Energy report for " + r.CustomerID)
	return []byte(fmt.Sprintf(pageTemplate, title, body.String())), nil
}
