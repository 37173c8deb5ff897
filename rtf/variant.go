package rtf

import (
	"bytes"
	"strings"
)

// Variant tags the font table encoding of a document.
type Variant int

const (
	// VariantPlain font tables name each font in clear text after a space.
	VariantPlain Variant = iota
	// VariantExtended font tables carry \panose shape hints and alternate
	// names for the custom font family, which have to be stripped.
	VariantExtended
)

func (v Variant) String() string {
	if v == VariantExtended {
		return "extended"
	}
	return "plain"
}

// DefaultFontFamily is the custom font family looked for by DetectVariant.
const DefaultFontFamily = "Dedris"

// variantRegion bounds the inspected prefix when no font table is found.
const variantRegion = 64 << 10

// DetectVariant inspects the font table of data. It returns VariantExtended
// when an entry carries \panose metadata and names a font of family.
func DetectVariant(data []byte, family string) Variant {
	if family == "" {
		family = DefaultFontFamily
	}
	region := data
	if start, end, ok := findDestination(data, "fonttbl"); ok {
		region = destinationBody(data[start:end], "fonttbl")
	} else if len(region) > variantRegion {
		region = region[:variantRegion]
	}
	if !bytes.Contains(region, []byte(`\panose`)) {
		return VariantPlain
	}
	prefix := strings.ToLower(family)
	for _, entry := range fontEntries(region) {
		if !bytes.Contains(entry, []byte(`\panose`)) {
			continue
		}
		name := extendedFontName(stripNestedGroups(entry), 0)
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			return VariantExtended
		}
	}
	return VariantPlain
}
