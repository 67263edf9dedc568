// Package slug genera identificadores URL-safe a partir de texto libre.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength longitud máxima de un slug (columna products.slug).
const MaxLength = 250

var (
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	separators   = regexp.MustCompile(`[-\s]+`)
	validSlug    = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Make convierte s en slug: descompone (NFKD), descarta lo que no sea ASCII,
// pasa a minúsculas, elimina caracteres fuera de [a-z0-9_ -] y une las palabras con "-".
// Es determinista; puede devolver "" si s no contiene caracteres utilizables.
func Make(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}
	out := invalidChars.ReplaceAllString(strings.ToLower(ascii), "")
	out = separators.ReplaceAllString(out, "-")
	return strings.Trim(truncate(strings.Trim(out, "-_"), MaxLength), "-_")
}

// WithSuffix devuelve base-n recortando base para no superar MaxLength.
func WithSuffix(base string, n int) string {
	suffix := fmt.Sprintf("-%d", n)
	return strings.TrimRight(truncate(base, MaxLength-len(suffix)), "-_") + suffix
}

// Valid indica si s sirve como slug explícito: letras ASCII (mayúsculas incluidas),
// dígitos, "_" y "-" en cualquier posición. Make siempre produce un slug válido.
func Valid(s string) bool {
	return len(s) <= MaxLength && validSlug.MatchString(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
