package entity

import "strings"

// normalizeStatus baja a minúsculas, recorta y unifica separadores para que
// "Out Of Stock", "out_of_stock" y "OUTOFSTOCK" comparen igual.
func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}
