package rtfdoc

import (
	"strings"
	"unicode"

	"github.com/tsawler/rtftext/model"
	"github.com/tsawler/rtftext/rtf"
	"github.com/tsawler/rtftext/sizeclass"
)

// builder folds the event stream of a parsed document into model
// elements. Paragraph breaks close paragraphs, cell and row breaks feed
// the table builder, special blocks become notes and images.
type builder struct {
	parsed *rtf.Document
	res    *RunResolver
	doc    *model.Document

	runs    []model.Run // pending paragraph or cell content
	leading string      // line breaks seen before the first pending run
	span    model.Span
	tables  tableBuilder
	images  []*model.Image
}

func newBuilder(parsed *rtf.Document, res *RunResolver) *builder {
	return &builder{
		parsed: parsed,
		res:    res,
		doc:    model.NewDocument(),
	}
}

func (b *builder) build() *model.Document {
	for _, ev := range b.parsed.Events {
		span := model.NewSpan(ev.Start, ev.End)
		switch ev.Kind {
		case rtf.TextRun:
			run := b.res.Resolve(ev)
			if b.leading != "" {
				run.Text = b.leading + run.Text
				b.leading = ""
			}
			b.runs = append(b.runs, run)
			b.span = b.span.Union(span)
		case rtf.LineBreak:
			b.lineBreak(span)
		case rtf.ParagraphBreak:
			if b.tables.open {
				// paragraph inside a table cell
				b.lineBreak(span)
				continue
			}
			b.span = b.span.Union(span)
			b.flushTable()
			b.flushParagraph()
		case rtf.CellBreak:
			b.tables.cell(b.runs, b.span.Union(span))
			b.resetPending()
		case rtf.RowBreak:
			b.tables.endRow(b.runs, b.span.Union(span))
			b.resetPending()
		case rtf.SpecialBlock:
			b.special(ev, span)
		}
	}
	b.flushTable()
	b.flushParagraph()
	b.flushImages()
	return b.doc
}

func (b *builder) lineBreak(span model.Span) {
	if n := len(b.runs); n > 0 {
		b.runs[n-1].Text += "\n"
	} else {
		b.leading += "\n"
	}
	b.span = b.span.Union(span)
}

func (b *builder) resetPending() {
	b.runs = nil
	b.leading = ""
	b.span = model.Span{}
}

// flushParagraph adds the pending runs as a paragraph unless they hold no
// visible text, then adds the pictures seen inside it.
func (b *builder) flushParagraph() {
	if strings.TrimSpace(runText(b.runs)) != "" {
		b.doc.Add(&model.Paragraph{Runs: b.runs, Span: b.span})
	}
	b.resetPending()
	b.flushImages()
}

func (b *builder) flushTable() {
	if t := b.tables.finish(); t != nil {
		b.doc.Add(t)
	}
}

func (b *builder) flushImages() {
	for _, img := range b.images {
		b.doc.Add(img)
	}
	b.images = nil
}

func (b *builder) special(ev rtf.Event, span model.Span) {
	switch ev.Special {
	case rtf.Picture:
		if ev.Picture != nil {
			b.images = append(b.images, pictureImage(ev.Picture, span))
		}
	case rtf.Footnote:
		b.doc.AddNote(b.note(model.NoteFootnote, ev, span))
	case rtf.Header:
		b.doc.AddNote(b.note(model.NoteHeader, ev, span))
	case rtf.Footer:
		b.doc.AddNote(b.note(model.NoteFooter, ev, span))
	}
}

// note parses the content of a special block. Breaks inside the note
// become newlines and tabs in the run text.
func (b *builder) note(kind model.NoteKind, ev rtf.Event, span model.Span) *model.Note {
	n := &model.Note{Kind: kind, Anchor: ev.Start, Span: span}
	sub := b.parsed.ParseSpecial(ev)
	for _, sev := range sub.Events {
		switch {
		case sev.Kind == rtf.TextRun:
			r := b.res.Resolve(sev)
			r.Span = span
			n.Runs = append(n.Runs, r)
		case sev.Kind == rtf.CellBreak && len(n.Runs) > 0:
			n.Runs[len(n.Runs)-1].Text += "\t"
		case sev.IsBreak() && len(n.Runs) > 0:
			n.Runs[len(n.Runs)-1].Text += "\n"
		}
	}
	return n
}

var imageFormats = map[rtf.BlipFormat]model.ImageFormat{
	rtf.BlipPNG:     model.ImageFormatPNG,
	rtf.BlipJPEG:    model.ImageFormatJPEG,
	rtf.BlipDIB:     model.ImageFormatBMP,
	rtf.BlipBitmap:  model.ImageFormatBMP,
	rtf.BlipEMF:     model.ImageFormatEMF,
	rtf.BlipWMF:     model.ImageFormatWMF,
	rtf.BlipMacPict: model.ImageFormatPICT,
}

// pictureImage converts a picture. Raster payloads report their decoded
// size; metafiles keep \picw and \pich.
func pictureImage(p *rtf.PictureData, span model.Span) *model.Image {
	img := &model.Image{
		Data:   p.Data,
		Format: imageFormats[p.Format],
		Width:  p.Width,
		Height: p.Height,
		Span:   span,
	}
	if cfg, _, err := p.DecodeConfig(); err == nil {
		img.Width, img.Height = cfg.Width, cfg.Height
	} else {
		tracer().Debugf("picture at %d: %v", span.Start, err)
	}
	return img
}

// classify assigns size roles to all runs and turns paragraphs set
// entirely in large sizes into headings. script limits the characters
// that vote for the body size.
func classify(doc *model.Document, script *unicode.RangeTable, headings bool) sizeclass.Classification {
	var samples []sizeclass.Sample
	for _, r := range doc.Runs() {
		samples = append(samples, sizeclass.Sample{Size: r.SizePt, Text: r.Text})
	}
	cl := sizeclass.Classifier{Script: script}.Classify(samples)

	setRoles := func(runs []model.Run) {
		for i := range runs {
			runs[i].Role = cl.Role(runs[i].SizePt)
		}
	}
	for i, elem := range doc.Elements {
		p, ok := elem.(*model.Paragraph)
		if !ok {
			continue
		}
		setRoles(p.Runs)
		if !headings {
			continue
		}
		if level := headingLevel(p.Runs, cl); level > 0 {
			doc.Elements[i] = &model.Heading{Runs: p.Runs, Level: level, Span: p.Span}
		}
	}
	for _, n := range doc.Notes {
		setRoles(n.Runs)
	}
	return cl
}

// headingLevel returns the heading level of a paragraph whose visible runs
// are all large, taken from its biggest size, or 0.
func headingLevel(runs []model.Run, cl sizeclass.Classification) int {
	biggest := 0
	for _, r := range runs {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if r.Role != model.RoleLarge {
			return 0
		}
		biggest = max(biggest, r.SizePt)
	}
	if biggest == 0 {
		return 0
	}
	return cl.HeadingLevel(biggest)
}
