package batch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/maruel/natural"
	"github.com/tsawler/rtftext/format"
)

// Discover returns the .rtf and .doc files below root in natural order, so
// that "vol2.rtf" sorts before "vol10.rtf".
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if format.Detect(path) != format.Unknown {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering RTF files: %w", err)
	}
	SortNatural(paths)
	tracer().Debugf("found %d files below %s", len(paths), root)
	return paths, nil
}

// SortNatural sorts paths in natural order.
func SortNatural(paths []string) {
	sort.Stable(natural.StringSlice(paths))
}

// NaturalLess compares strings treating runs of digits as numbers.
func NaturalLess(a, b string) bool {
	return natural.Less(a, b)
}
