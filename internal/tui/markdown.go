package tui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	codeBlockRegex = regexp.MustCompile(`(?s)<pre><code(?: class="language-([a-zA-Z0-9]+)")?>(.*?)</code></pre>`)
	headingRegex   = regexp.MustCompile(`<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	strongRegex    = regexp.MustCompile(`<strong>(.*?)</strong>`)
	emRegex        = regexp.MustCompile(`<em>(.*?)</em>`)
	linkRegex      = regexp.MustCompile(`<a href="([^"]*)">(.*?)</a>`)
	liRegex        = regexp.MustCompile(`<li>(.*?)</li>`)
	inlineCodeRe   = regexp.MustCompile(`<code>([^<]+)</code>`)
	htmlTagRegex   = regexp.MustCompile(`<[^>]+>`)
	multiNewline   = regexp.MustCompile(`\n{3,}`)
)

// MarkdownRenderer turns agent answers into styled terminal text. Markdown
// is converted to HTML by goldmark, then the handful of tags the agent
// actually uses are mapped to lipgloss styles; fenced code runs through
// chroma for highlighting.
type MarkdownRenderer struct {
	md        goldmark.Markdown
	formatter chroma.Formatter
	style     *chroma.Style
	theme     Theme
}

func NewMarkdownRenderer(theme Theme) *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	return &MarkdownRenderer{
		md:        md,
		formatter: formatters.Get("terminal256"),
		style:     styles.Get("dracula"),
		theme:     theme,
	}
}

// Render renders markdown content for a given terminal width. Content that
// fails to convert is returned unchanged.
func (r *MarkdownRenderer) Render(content string, width int) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return content
	}
	return r.restyle(buf.String(), width)
}

func (r *MarkdownRenderer) restyle(htmlContent string, width int) string {
	result := htmlContent

	var codeBlocks []string
	result = codeBlockRegex.ReplaceAllStringFunc(result, func(m string) string {
		sub := codeBlockRegex.FindStringSubmatch(m)
		if len(sub) < 3 {
			return m
		}
		highlighted := r.highlight(decodeEntities(sub[2]), sub[1])
		codeWidth := width - 6
		if codeWidth < 20 {
			codeWidth = 20
		}
		styled := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(r.theme.Border).
			Padding(0, 1).
			Width(codeWidth).
			Render(highlighted)
		codeBlocks = append(codeBlocks, styled)
		return fmt.Sprintf("\n{{CODE_%d}}\n", len(codeBlocks)-1)
	})

	result = inlineCodeRe.ReplaceAllStringFunc(result, func(m string) string {
		sub := inlineCodeRe.FindStringSubmatch(m)
		if len(sub) < 2 {
			return m
		}
		return lipgloss.NewStyle().Foreground(r.theme.Accent).Render(decodeEntities(sub[1]))
	})

	result = headingRegex.ReplaceAllStringFunc(result, func(m string) string {
		sub := headingRegex.FindStringSubmatch(m)
		if len(sub) < 3 {
			return m
		}
		return lipgloss.NewStyle().Bold(true).Foreground(r.theme.Accent).Render(sub[2]) + "\n"
	})

	result = strongRegex.ReplaceAllString(result, "\x1b[1m$1\x1b[22m")
	result = emRegex.ReplaceAllString(result, "\x1b[3m$1\x1b[23m")

	result = linkRegex.ReplaceAllStringFunc(result, func(m string) string {
		sub := linkRegex.FindStringSubmatch(m)
		if len(sub) < 3 {
			return m
		}
		return lipgloss.NewStyle().Underline(true).Foreground(r.theme.Accent).
			Render(fmt.Sprintf("%s (%s)", sub[2], sub[1]))
	})

	result = liRegex.ReplaceAllString(result, "  • $1\n")

	result = strings.NewReplacer(
		"<p>", "", "</p>", "\n",
		"<br>", "\n", "<br/>", "\n", "<br />", "\n",
		"<ul>", "", "</ul>", "", "<ol>", "", "</ol>", "",
		"<blockquote>", "│ ", "</blockquote>", "\n",
	).Replace(result)

	for i, block := range codeBlocks {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{CODE_%d}}", i), block)
	}

	result = htmlTagRegex.ReplaceAllString(result, "")
	result = decodeEntities(result)
	result = multiNewline.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func (r *MarkdownRenderer) highlight(code, lang string) string {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

func decodeEntities(s string) string {
	return strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&#x27;", "'",
		"&#x60;", "`",
		"&nbsp;", " ",
	).Replace(s)
}
