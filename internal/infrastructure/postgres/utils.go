package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// orderClause arma el ORDER BY a partir de los parámetros de listado contra una
// whitelist de columnas. Cualquier valor fuera de la whitelist cae en def.
func orderClause(params repository.ListParams, allowed map[string]string, def string) string {
	col, ok := allowed[params.OrderBy]
	if !ok {
		col = def
	}
	dir := "DESC"
	if strings.EqualFold(params.Order, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s", col, dir)
}

// searchPattern arma el patrón ILIKE para búsqueda parcial.
func searchPattern(search string) string {
	return "%" + strings.TrimSpace(search) + "%"
}
