package sink

import (
	"bytes"
	"encoding/base64"
	"html/template"
)

// Section is one entry of an HTML gallery. Exactly one of SVG, PNG or Err
// is expected to be set.
type Section struct {
	Name string
	SVG  []byte
	PNG  []byte
	Err  error
}

const galleryTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; margin: 2rem; background: #fafafa; color: #222; }
section { margin-bottom: 3rem; }
h2 { font-size: 1rem; font-weight: normal; color: #555; }
svg, img { max-width: 100%; height: auto; }
.error { color: #b00020; font-family: monospace; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}<section>
<h2>{{.Name}}</h2>
{{if .Err}}<p class="error">{{.Err}}</p>{{else if .SVG}}{{.SVG}}{{else}}<img alt="{{.Name}}" src="{{.PNG}}">{{end}}
</section>
{{end}}</body>
</html>
`

var gallery = template.Must(template.New("gallery").Parse(galleryTemplate))

type galleryData struct {
	Title    string
	Sections []gallerySection
}

type gallerySection struct {
	Name string
	SVG  template.HTML
	PNG  template.URL
	Err  string
}

// RenderHTML builds one page showing every section in order. SVG is
// inlined; PNG is referenced through a data URL. Failed sections show their
// error so a batch page still documents what went wrong.
func RenderHTML(title string, sections []Section) ([]byte, error) {
	data := galleryData{Title: title}
	for _, s := range sections {
		gs := gallerySection{Name: s.Name}
		switch {
		case s.Err != nil:
			gs.Err = s.Err.Error()
		case len(s.SVG) > 0:
			// Generated by this package; every text node and attribute is escaped.
			gs.SVG = template.HTML(s.SVG)
		default:
			gs.PNG = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(s.PNG))
		}
		data.Sections = append(data.Sections, gs)
	}

	var buf bytes.Buffer
	if err := gallery.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
