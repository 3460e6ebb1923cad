package report

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackName is used when a show name sanitizes to nothing
const fallbackName = "podcast"

var (
	nonASCII = regexp.MustCompile(`[^\x00-\x7F]+`)
	unsafe   = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1F\x7F]+`)
)

// Sanitize makes a show name safe to use as a file name on common
// filesystems. Accents are folded first ("Café" becomes "Cafe"); any other
// run of non-ASCII or reserved characters becomes a single underscore.
func Sanitize(name string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, name)
	if err != nil {
		folded = name
	}

	folded = nonASCII.ReplaceAllString(folded, "_")
	folded = unsafe.ReplaceAllString(folded, "_")
	folded = strings.Trim(folded, " .")

	if folded == "" || strings.Trim(folded, "_") == "" {
		return fallbackName
	}
	return folded
}

// FileName is the report name derived from a show name
func FileName(showName string) string {
	return Sanitize(showName) + ".csv"
}

// RangeFileName is the report name for a run that retrieved only episodes
// first through last
func RangeFileName(showName string, first, last int) string {
	return fmt.Sprintf("%s_%d-%d.csv", Sanitize(showName), first, last)
}
