package repository

// ListParams agrupa paginación, búsqueda y orden para los listados por tenant.
// Page es 1-based; Search filtra por los campos de texto de cada entidad.
type ListParams struct {
	Page    int
	Limit   int
	Search  string
	OrderBy string
	Order   string // asc | desc
}

// Offset deriva el desplazamiento SQL a partir de la página.
func (p ListParams) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.PageSize()
}

// PageSize devuelve el límite efectivo con tope y default razonables.
func (p ListParams) PageSize() int {
	if p.Limit <= 0 {
		return 10
	}
	if p.Limit > 100 {
		return 100
	}
	return p.Limit
}
