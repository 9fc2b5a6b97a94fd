package dto

// RowError error de validación o reconciliación de una fila puntual.
// Row es el número de fila del workbook (1-based, contando el encabezado).
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// RowSuccess fila aplicada con éxito.
type RowSuccess struct {
	Row    int    `json:"row"`
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Action string `json:"action"` // created | updated | merged
}

// ImportReport resultado de un lote de importación o actualización masiva.
// Si ErrorCount > 0 el lote completo se revirtió: ningún cambio persiste.
type ImportReport struct {
	TotalRows    int          `json:"totalRows"`
	SuccessCount int          `json:"successCount"`
	ErrorCount   int          `json:"errorCount"`
	Successes    []RowSuccess `json:"successes"`
	Errors       []RowError   `json:"errors"`
}
