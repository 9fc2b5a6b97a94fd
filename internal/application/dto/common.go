package dto

// PageRequest paginación, búsqueda y orden para listados.
type PageRequest struct {
	Page    int    `query:"page" validate:"min=0"`
	Limit   int    `query:"limit" validate:"min=0,max=100"`
	Search  string `query:"search"`
	OrderBy string `query:"orderBy"`
	Order   string `query:"order" validate:"omitempty,oneof=asc desc"`
}

// DefaultPage aplica valores por defecto si Page/Limit son cero.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
