// Package model provides the intermediate representation (IR) for extracted
// RTF content.
//
// The parser in package rtf produces a flat, ordered stream of events. This
// package defines the structured view built from that stream: paragraphs
// made of attributed runs, headings, tables, images and notes. All export
// formats work from these types.
//
// # Document Structure
//
// The [Document] type represents a complete document with metadata, body
// elements and the notes that were lifted out of the body:
//
//	doc := model.NewDocument()
//	doc.Metadata.Title = "My Document"
//	doc.Add(&model.Paragraph{Runs: runs})
//
// # Elements
//
// All body content implements the [Element] interface. The concrete types are:
//
//   - [Paragraph] - a sequence of [Run] values sharing one paragraph
//   - [Heading] - a paragraph whose text is set in a large size role
//   - [Table] - rows of cells from \cell and \row breaks
//   - [Image] - an embedded \pict picture
//
// Headers, footers and footnotes are kept apart from the body as [Note]
// values, so callers can include or drop them.
//
// # Source Spans
//
// Every element records the byte range of the source it was built from as a
// [Span]. Spans of body elements never decrease.
package model
