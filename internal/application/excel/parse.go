package excel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/pkg/strutil"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// parseDecimalCell convierte una celda numérica aceptando coma o punto como
// separador decimal y descartando espacios ("1 234,56" -> 1234.56).
func parseDecimalCell(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, " ", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("número inválido %q", s)
	}
	return d, nil
}

// parseIntCell convierte una celda a entero.
func parseIntCell(s string) (int, error) {
	clean := strings.ReplaceAll(s, " ", "")
	n, err := strconv.Atoi(clean)
	if err != nil {
		return 0, fmt.Errorf("entero inválido %q", s)
	}
	return n, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// parseDateCell acepta fechas ISO y el formato día/mes/año que exportan
// algunas planillas.
func parseDateCell(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida %q", s)
}

// splitList separa una celda de valores unidos por coma, recortando cada uno
// y descartando los vacíos.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// validEmail valida la forma básica de un email.
func validEmail(s string) bool {
	return emailRe.MatchString(s)
}

// placeholderEmail genera el email de relleno para entidades creadas desde una
// planilla sin email: nombre sin tildes, minúsculas y sin espacios @ejemplo.com.
func placeholderEmail(name string) string {
	base := strings.ReplaceAll(strutil.Fold(name), " ", "")
	if base == "" {
		base = "sin-nombre"
	}
	return base + "@ejemplo.com"
}
