// Package sizeclass assigns typographic roles to the font sizes of a
// document.
//
// The size that carries the most characters is the body size and gets
// [model.RoleRegular]. Larger sizes are [model.RoleLarge] and smaller
// ones [model.RoleSmall]. Counting can be limited to one script so that
// Latin page furniture does not outvote the text proper.
package sizeclass

import (
	"sort"
	"unicode"

	"github.com/npillmayer/schuko/tracing"

	"github.com/tsawler/rtftext/model"
)

func tracer() tracing.Trace {
	return tracing.Select("rtftext.sizeclass")
}

// Sample is one run of text set in a given size (points).
type Sample struct {
	Size int
	Text string
}

// Classifier counts characters per size. A nil Script counts every
// character that is not white space.
type Classifier struct {
	Script *unicode.RangeTable
}

// Classification is the outcome of Classify.
type Classification struct {
	Body   int         // body size in points, 0 if nothing was counted
	Counts map[int]int // characters per size
}

// Classify builds a Classification from samples. On a tie the smaller
// size becomes the body size.
func (c Classifier) Classify(samples []Sample) Classification {
	cl := Classification{Counts: make(map[int]int)}
	for _, s := range samples {
		if n := c.count(s.Text); n > 0 {
			cl.Counts[s.Size] += n
		}
	}
	best := -1
	for _, size := range cl.Sizes() {
		if n := cl.Counts[size]; n > best {
			best, cl.Body = n, size
		}
	}
	tracer().Debugf("body size %dpt from %d sizes", cl.Body, len(cl.Counts))
	return cl
}

func (c Classifier) count(text string) int {
	n := 0
	for _, r := range text {
		if c.Script != nil {
			if unicode.Is(c.Script, r) {
				n++
			}
		} else if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// Sizes returns the counted sizes in ascending order.
func (cl Classification) Sizes() []int {
	sizes := make([]int, 0, len(cl.Counts))
	for size := range cl.Counts {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	return sizes
}

// Role maps a size to its role. Every size is regular when nothing was
// counted.
func (cl Classification) Role(size int) model.Role {
	switch {
	case cl.Body == 0 || size == cl.Body:
		return model.RoleRegular
	case size > cl.Body:
		return model.RoleLarge
	default:
		return model.RoleSmall
	}
}

// HeadingLevel ranks a large size among the large sizes counted: the
// biggest is level 1. Sizes that are not large, or that were never
// counted, get 0.
func (cl Classification) HeadingLevel(size int) int {
	if cl.Role(size) != model.RoleLarge {
		return 0
	}
	sizes := cl.Sizes()
	level := 0
	for i := len(sizes) - 1; i >= 0 && sizes[i] > cl.Body; i-- {
		level++
		if sizes[i] == size {
			return min(level, 6)
		}
	}
	return 0
}
