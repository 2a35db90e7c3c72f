// Package report renders the per-cluster colour summary of a single
// image as masked images, a palette PNG and an HTML page.
package report

import (
	"html/template"
	"io"

	"github.com/wbrown/flowerhue"
	"github.com/wbrown/flowerhue/imageutil"
)

// ClusterView is one cluster as shown on the summary page.
type ClusterView struct {
	Label     string
	Mean      flowerhue.HSVMean
	Pixels    int
	Empty     bool
	Swatch    imageutil.RGB
	Image     string
	Thumbnail string
}

// Swatch is one colour of the reference palette.
type Swatch struct {
	Color imageutil.RGB
	Count int
}

// Page is the data rendered into image_summary.html.
type Page struct {
	Title     string
	Source    string
	Clusters  []ClusterView
	Palette   string
	Reference []Swatch
}

// NewClusterView builds the view of cluster i, with its swatch colour
// converted from OpenCV HSV units.
func NewClusterView(cl flowerhue.Cluster) ClusterView {
	return ClusterView{
		Label:  ClusterLabel(cl.Index),
		Mean:   cl.Mean,
		Pixels: cl.Pixels,
		Empty:  cl.Empty(),
		Swatch: imageutil.HSVToRGB(cl.Mean.H, cl.Mean.S, cl.Mean.V),
		Image:  MaskName(cl.Index),
	}
}

var pageTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Source}}<p>{{.Source}}</p>
{{end}}{{if .Palette}}<img src="{{.Palette}}" alt="palette">
<br>
{{end}}{{range .Clusters}}<div class="cluster">
<p>{{.Label}}</p>
{{if .Empty}}<p>No pixels</p>
{{else}}<p>Average H: {{printf "%.4f" .Mean.H}}</p>
<p>Average S: {{printf "%.4f" .Mean.S}}</p>
<p>Average V: {{printf "%.4f" .Mean.V}}</p>
<p>Pixels: {{.Pixels}}</p>
<div style="background-color:rgb({{.Swatch.R}},{{.Swatch.G}},{{.Swatch.B}});height:50px;width:50px;"></div>
{{end}}{{if .Thumbnail}}<a href="{{.Image}}"><img src="{{.Thumbnail}}"></a>
{{else}}<img src="{{.Image}}">
{{end}}</div>
<br>
{{end}}{{if .Reference}}<h2>Reference palette</h2>
{{range .Reference}}<div style="display:inline-block;background-color:rgb({{.Color.R}},{{.Color.G}},{{.Color.B}});height:50px;width:50px;" title="{{.Count}}"></div>
{{end}}{{end}}</body>
</html>
`))

// Render writes page as HTML to w.
func Render(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}
