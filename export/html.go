package export

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/rtftext/model"
)

// HTMLOptions configures HTML.
type HTMLOptions struct {
	NoteOptions
	// Lang is set on the html element if not empty.
	Lang string
	// EmbedImages inlines PNG, JPEG and BMP pictures as data URLs.
	EmbedImages bool
}

// HTML writes the document as a standalone HTML page. Runs whose size role
// is not regular are wrapped in a span with class "small" or "large".
func HTML(w io.Writer, doc *model.Document, opts HTMLOptions) error {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	page := element(atom.Html)
	if opts.Lang != "" {
		page.Attr = append(page.Attr, html.Attribute{Key: "lang", Val: opts.Lang})
	}
	root.AppendChild(page)

	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	if doc.Metadata.Title != "" {
		title := element(atom.Title)
		title.AppendChild(textNode(doc.Metadata.Title))
		head.AppendChild(title)
	}
	page.AppendChild(head)

	body := element(atom.Body)
	page.AppendChild(body)

	if headers := opts.headers(doc); len(headers) > 0 {
		header := element(atom.Header)
		for _, n := range headers {
			header.AppendChild(runsParagraph(atom.P, n.Runs))
		}
		body.AppendChild(header)
	}

	for _, elem := range doc.Elements {
		switch e := elem.(type) {
		case *model.Heading:
			level := min(max(e.Level, 1), 6)
			a := []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}[level-1]
			body.AppendChild(runsParagraph(a, e.Runs))
		case *model.Paragraph:
			body.AppendChild(runsParagraph(atom.P, e.Runs))
		case *model.Table:
			body.AppendChild(tableNode(e))
		case *model.Image:
			if n := imageNode(e, opts.EmbedImages); n != nil {
				body.AppendChild(n)
			}
		}
	}

	if notes := opts.footnotes(doc); len(notes) > 0 {
		section := element(atom.Section)
		section.Attr = []html.Attribute{{Key: "class", Val: "footnotes"}}
		list := element(atom.Ol)
		for _, n := range notes {
			li := element(atom.Li)
			appendRuns(li, n.Runs)
			list.AppendChild(li)
		}
		section.AppendChild(list)
		body.AppendChild(section)
	}

	if footers := opts.footers(doc); len(footers) > 0 {
		footer := element(atom.Footer)
		for _, n := range footers {
			footer.AppendChild(runsParagraph(atom.P, n.Runs))
		}
		body.AppendChild(footer)
	}

	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}

// HTMLString is HTML rendered into a string.
func HTMLString(doc *model.Document, opts HTMLOptions) (string, error) {
	var sb strings.Builder
	if err := HTML(&sb, doc, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func runsParagraph(a atom.Atom, runs []model.Run) *html.Node {
	p := element(a)
	appendRuns(p, runs)
	return p
}

// appendRuns adds runs to parent. Adjacent runs with the same role share
// one text node or span; line breaks become br elements.
func appendRuns(parent *html.Node, runs []model.Run) {
	var (
		sb   strings.Builder
		role model.Role
	)
	flush := func() {
		if sb.Len() == 0 {
			return
		}
		target := parent
		if role != model.RoleRegular {
			span := element(atom.Span)
			span.Attr = []html.Attribute{{Key: "class", Val: role.String()}}
			parent.AppendChild(span)
			target = span
		}
		for i, line := range strings.Split(sb.String(), "\n") {
			if i > 0 {
				target.AppendChild(element(atom.Br))
			}
			if line != "" {
				target.AppendChild(textNode(line))
			}
		}
		sb.Reset()
	}
	for _, r := range runs {
		if r.Role != role {
			flush()
			role = r.Role
		}
		sb.WriteString(r.Text)
	}
	flush()
}

func tableNode(t *model.Table) *html.Node {
	table := element(atom.Table)
	tbody := element(atom.Tbody)
	table.AppendChild(tbody)
	for _, row := range t.Rows {
		tr := element(atom.Tr)
		for _, cell := range row {
			td := element(atom.Td)
			if cell.Text != "" {
				td.AppendChild(textNode(cell.Text))
			}
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	return table
}

var imageMIME = map[model.ImageFormat]string{
	model.ImageFormatPNG:  "image/png",
	model.ImageFormatJPEG: "image/jpeg",
	model.ImageFormatBMP:  "image/bmp",
}

func imageNode(img *model.Image, embed bool) *html.Node {
	mime, ok := imageMIME[img.Format]
	if !embed || !ok || len(img.Data) == 0 {
		if img.AltText == "" {
			return nil
		}
		fig := element(atom.Figure)
		caption := element(atom.Figcaption)
		caption.AppendChild(textNode(img.AltText))
		fig.AppendChild(caption)
		return fig
	}
	n := element(atom.Img)
	n.Attr = []html.Attribute{
		{Key: "src", Val: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)},
		{Key: "alt", Val: img.AltText},
	}
	if img.Width > 0 && img.Height > 0 {
		n.Attr = append(n.Attr,
			html.Attribute{Key: "width", Val: strconv.Itoa(img.Width)},
			html.Attribute{Key: "height", Val: strconv.Itoa(img.Height)})
	}
	return n
}
