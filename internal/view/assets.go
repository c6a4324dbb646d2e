package view

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/gofiber/template/html/v2"
)

// Template names
const (
	TemplateIndex = "index"
	TemplateTable = "table"
)

// Served asset paths
const (
	ScriptPath = "/assets/app.js"
	StylePath  = "/assets/style.css"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/app.ts assets/style.css
var assetFS embed.FS

// Assets holds the compiled client script and stylesheet
type Assets struct {
	Script  []byte
	Style   []byte
	Version string
}

// ScriptURL returns the script path with a cache-busting version
func (a *Assets) ScriptURL() string {
	return ScriptPath + "?v=" + a.Version
}

// NewEngine returns the html template engine over the embedded templates
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// The embed pattern guarantees the directory exists
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

// BuildAssets compiles the TypeScript client to an IIFE with esbuild
func BuildAssets(minify bool) (*Assets, error) {
	source, err := assetFS.ReadFile("assets/app.ts")
	if err != nil {
		return nil, fmt.Errorf("failed to read client script: %w", err)
	}
	style, err := assetFS.ReadFile("assets/style.css")
	if err != nil {
		return nil, fmt.Errorf("failed to read stylesheet: %w", err)
	}

	script, err := transformScript(source, minify)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(append(append([]byte{}, script...), style...))
	return &Assets{
		Script:  script,
		Style:   style,
		Version: hex.EncodeToString(sum[:])[:12],
	}, nil
}

func transformScript(source []byte, minify bool) ([]byte, error) {
	opts := api.TransformOptions{
		Loader:     api.LoaderTS,
		Format:     api.FormatIIFE,
		Target:     api.ES2020,
		Sourcefile: "app.ts",
		LogLevel:   api.LogLevelSilent,
	}
	if minify {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}

	result := api.Transform(string(source), opts)
	if len(result.Errors) > 0 {
		var errMsg string
		for _, msg := range result.Errors {
			if msg.Location != nil {
				errMsg += fmt.Sprintf("%s:%d:%d: %s\n", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text)
			} else {
				errMsg += msg.Text + "\n"
			}
		}
		return nil, fmt.Errorf("esbuild errors:\n%s", errMsg)
	}
	if len(result.Code) == 0 {
		return nil, fmt.Errorf("no JavaScript output generated")
	}
	return result.Code, nil
}
