package strutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var spanishTitle = cases.Title(language.Spanish)

// Fold normaliza un texto para usarlo como clave de búsqueda:
// recorta espacios, pasa a minúsculas y elimina diacríticos ("Educación" -> "educacion").
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// Title capitaliza cada palabra según las reglas del español ("ropa deportiva" -> "Ropa Deportiva").
func Title(s string) string {
	return spanishTitle.String(strings.ToLower(strings.TrimSpace(s)))
}
