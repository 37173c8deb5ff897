package export

import (
	"io"
	"regexp"
	"strings"

	"github.com/tsawler/rtftext/model"
)

// TEIOptions configures TEI.
type TEIOptions struct {
	NoteOptions
	// Title for the titleStmt; the document title is used when empty.
	Title string
	// Lang is the xml:lang of the body, e.g. "bo".
	Lang string
	// IDs are written as idno elements of the source description, in
	// order, e.g. {"src_path", "..."}, {"src_sha256", "..."}.
	IDs [][2]string
}

var teiRend = map[model.Role]string{
	model.RoleSmall: "small",
	model.RoleLarge: "head",
}

var (
	reEmptyHi = regexp.MustCompile(`<hi rend="[^"]+"></hi>`)
	reNewline = regexp.MustCompile(`\n\n+`)
	reLine    = regexp.MustCompile(` *\n *`)
)

// TEI writes the document as a TEI XML file. The body is one paragraph;
// size roles become <hi rend="small"> and <hi rend="head"> and paragraph
// breaks become <lb/>. Headers and footers are never part of the body.
func TEI(w io.Writer, doc *model.Document, opts TEIOptions) error {
	title := opts.Title
	if title == "" {
		title = doc.Metadata.Title
	}
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<TEI xmlns="http://www.tei-c.org/ns/1.0">` + "\n")
	sb.WriteString("<teiHeader>\n<fileDesc>\n<titleStmt>\n<title>")
	sb.WriteString(escapeXML(title))
	sb.WriteString("</title>\n</titleStmt>\n")
	sb.WriteString("<publicationStmt>\n<p>Converted from RTF.</p>\n</publicationStmt>\n")
	sb.WriteString("<sourceDesc>\n<bibl>\n")
	for _, id := range opts.IDs {
		sb.WriteString(`<idno type="` + escapeXML(id[0]) + `">` + escapeXML(id[1]) + "</idno>\n")
	}
	sb.WriteString("</bibl>\n</sourceDesc>\n</fileDesc>\n</teiHeader>\n<text>\n")
	if opts.Lang != "" {
		sb.WriteString(`<body xml:lang="` + escapeXML(opts.Lang) + `">` + "\n")
	} else {
		sb.WriteString("<body>\n")
	}
	sb.WriteString("<p>")
	sb.WriteString(teiBody(doc))
	sb.WriteString("</p>\n")
	for _, n := range opts.footnotes(doc) {
		sb.WriteString(`<note place="foot">`)
		sb.WriteString(escapeXML(n.GetText()))
		sb.WriteString("</note>\n")
	}
	sb.WriteString("</body>\n</text>\n</TEI>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// teiBody renders the body elements with role markup. Blank runs never
// open or close markup, and markup is closed before element breaks.
func teiBody(doc *model.Document) string {
	var (
		sb      strings.Builder
		current model.Role
		pending bool
	)
	newline := func() {
		if pending {
			sb.WriteString("\n")
			pending = false
		}
	}
	setRole := func(role model.Role) {
		if role == current {
			return
		}
		if current != model.RoleRegular {
			sb.WriteString("</hi>")
		}
		newline()
		if rend, ok := teiRend[role]; ok {
			sb.WriteString(`<hi rend="` + rend + `">`)
		}
		current = role
	}
	write := func(r model.Run) {
		if strings.TrimSpace(r.Text) != "" {
			setRole(r.Role)
		}
		newline()
		sb.WriteString(escapeXML(r.Text))
	}
	for i, elem := range doc.Elements {
		if i > 0 {
			pending = true
		}
		switch e := elem.(type) {
		case *model.Paragraph:
			for _, r := range e.Runs {
				write(r)
			}
		case *model.Heading:
			for _, r := range e.Runs {
				write(r)
			}
		case *model.Table:
			setRole(model.RoleRegular)
			newline()
			sb.WriteString(escapeXML(strings.TrimRight(tableText(e), "\n")))
		}
	}
	setRole(model.RoleRegular)

	body := reEmptyHi.ReplaceAllString(sb.String(), "")
	body = reNewline.ReplaceAllString(body, "\n")
	body = strings.TrimSpace(body)
	return reLine.ReplaceAllString(body, "\n<lb/>")
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
