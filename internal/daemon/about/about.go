// Package about renders and opens the About page.
package about

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"runtime"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/cmdtray/cmdtray/internal/buildinfo"
	"github.com/cmdtray/cmdtray/internal/daemon/dispatch"
)

//go:embed about.md
var aboutMarkdown []byte

var page = template.Must(template.New("about").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>About cmdtray</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 46em; margin: 2em auto; padding: 0 1em; }
pre { background: #f4f4f4; padding: .8em; overflow-x: auto; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: .3em .6em; }
footer { color: #777; margin-top: 3em; font-size: .9em; }
</style>
</head>
<body>
{{.Body}}
<footer>Version {{.Version}} ({{.Codename}}) &middot; {{.Platform}}</footer>
</body>
</html>
`))

// Render returns the About page as a standalone HTML document.
func Render() ([]byte, error) {
	var body bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert(aboutMarkdown, &body); err != nil {
		return nil, fmt.Errorf("failed to render about page: %w", err)
	}

	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Body     template.HTML
		Version  string
		Codename string
		Platform string
	}{
		Body:     template.HTML(body.String()),
		Version:  buildinfo.Version,
		Codename: buildinfo.Codename,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render about page: %w", err)
	}
	return out.Bytes(), nil
}

// Write renders the About page to path.
func Write(path string) error {
	data, err := Render()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Open writes the About page to path and shows it in the default browser.
// The browser window is independent of the tray process.
func Open(path string) error {
	if err := Write(path); err != nil {
		return err
	}
	return dispatch.Open(path)
}
