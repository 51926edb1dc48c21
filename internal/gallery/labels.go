// Package gallery implements the embedding-based matching core: it builds a
// labeled gallery of face embeddings from a folder of labeled images, validates
// the folder's layout, and classifies query embeddings against the gallery.
package gallery

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NoneLabel is the reserved class label for faces explicitly marked as not of
// interest. A face whose nearest gallery neighbor carries this label is
// suppressed from the result set.
const NoneLabel = "none"

var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// SupportedImage reports whether the filename has a supported image extension.
func SupportedImage(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// ParseLabel extracts the class label from a labeled filename of the form
// <label>_<suffix>.<ext>. Returns false when the name does not follow the
// convention or the extension is not supported.
func ParseLabel(filename string) (string, bool) {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	if !supportedExtensions[strings.ToLower(ext)] {
		return "", false
	}

	stem := strings.TrimSuffix(base, ext)
	idx := strings.Index(stem, "_")
	if idx <= 0 || idx == len(stem)-1 {
		return "", false
	}

	return stem[:idx], true
}

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeLabel normalizes a label for confusability comparison (lowercase,
// no diacritics). Matching itself always uses the raw, case-sensitive label.
func NormalizeLabel(label string) string {
	return strings.ToLower(RemoveDiacritics(label))
}
