// Package highlight renders snippet code as syntax-highlighted HTML using
// chroma.
//
// The language a snippet carries is free-form user text ("js", "c++",
// "python", ...), so a static lookup table maps the names users actually
// type to chroma lexer names. Anything unrecognized falls back to plain
// text — highlighting an unknown language wrong is worse than not
// highlighting it at all.
package highlight

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// lexerNames maps user-supplied language strings (lowercased) to chroma
// lexer names. A plain table, extended as users ask for languages — not
// dynamic dispatch.
var lexerNames = map[string]string{
	"js":         "javascript",
	"javascript": "javascript",
	"jsx":        "react",
	"ts":         "typescript",
	"typescript": "typescript",
	"java":       "java",
	"py":         "python",
	"python":     "python",
	"c":          "c",
	"cpp":        "c++",
	"c++":        "c++",
	"cs":         "c#",
	"c#":         "c#",
	"go":         "go",
	"golang":     "go",
	"rb":         "ruby",
	"ruby":       "ruby",
	"rs":         "rust",
	"rust":       "rust",
	"php":        "php",
	"sh":         "bash",
	"bash":       "bash",
	"shell":      "bash",
	"sql":        "sql",
	"html":       "html",
	"markup":     "html",
	"xml":        "xml",
	"css":        "css",
	"json":       "json",
	"yaml":       "yaml",
	"yml":        "yaml",
	"md":         "markdown",
	"markdown":   "markdown",
	"kt":         "kotlin",
	"kotlin":     "kotlin",
	"swift":      "swift",
}

// Renderer highlights code into standalone HTML fragments.
//
// The formatter emits inline styles rather than CSS classes so the
// fragment renders correctly wherever it is injected, with no stylesheet
// coordination between server and client.
type Renderer struct {
	formatter *html.Formatter
	style     *chroma.Style
}

// New creates a Renderer using the given chroma style name; an unknown
// name falls back to chroma's default style.
func New(styleName string) *Renderer {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Renderer{
		formatter: html.New(
			html.WithClasses(false),
			html.PreventSurroundingPre(false),
		),
		style: style,
	}
}

// lexerFor resolves a user-supplied language string to a lexer via the
// lookup table. Unrecognized (or empty) languages get the plaintext lexer.
func lexerFor(language string) chroma.Lexer {
	name, ok := lexerNames[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return lexers.Fallback
	}
	lexer := lexers.Get(name)
	if lexer == nil {
		return lexers.Fallback
	}
	return lexer
}

// Render writes the highlighted HTML for code to w.
func (r *Renderer) Render(w io.Writer, code, language string) error {
	lexer := chroma.Coalesce(lexerFor(language))

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("highlight: tokenising %q code: %w", language, err)
	}

	if err := r.formatter.Format(w, r.style, iterator); err != nil {
		return fmt.Errorf("highlight: formatting %q code: %w", language, err)
	}

	return nil
}

// RenderString is Render into a string, for JSON responses.
func (r *Renderer) RenderString(code, language string) (string, error) {
	var sb strings.Builder
	if err := r.Render(&sb, code, language); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Supported reports whether the language maps to a real grammar (false
// means the plaintext fallback would be used). The dashboard uses this to
// hint that a language name isn't recognized.
func Supported(language string) bool {
	_, ok := lexerNames[strings.ToLower(strings.TrimSpace(language))]
	return ok
}
