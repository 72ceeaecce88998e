package generator

import (
	"strings"

	"github.com/google/uuid"

	"github.com/toyz/rtgen/internal/models"
)

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// docComment renders an XML doc block, one "///" line per entry. Every line,
// including the last, ends with a newline so the result can prefix a
// declaration directly.
func (g *Generator) docComment(doc *models.Documentation, indent string, args []*models.Argument) string {
	if doc == nil {
		return ""
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(indent)
		b.WriteString("/// ")
		b.WriteString(s)
		b.WriteByte('\n')
	}

	if text := doc.Text(); text != "" {
		line("<summary>")
		for _, l := range strings.Split(text, "\n") {
			line(xmlEscaper.Replace(l))
		}
		line("</summary>")
	}
	for _, arg := range args {
		if d, ok := doc.Params[arg.Name]; ok {
			line(`<param name="` + g.lang.ArgumentName(arg.Name) + `">` + xmlEscaper.Replace(d) + "</param>")
		}
	}
	if doc.Returns != "" {
		line("<returns>" + xmlEscaper.Replace(doc.Returns) + "</returns>")
	}
	for _, ex := range doc.Throws {
		line(`<exception cref="` + ex + `"/>`)
	}
	if doc.Deprecated != "" {
		b.WriteString(indent + `[Obsolete("` + strings.ReplaceAll(doc.Deprecated, `"`, `\"`) + `")]` + "\n")
	}
	return b.String()
}

// lineComments renders free-standing file comments
func lineComments(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight("// "+l, " ")
	}
	return strings.Join(out, "\n")
}

// InterfaceGUID derives a stable identifier for a class from its namespace
// and native name
func InterfaceGUID(namespace, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("rtgen:"+namespace+"::"+name)).String()
}
