package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row fila de datos del workbook, indexada por encabezado.
// Number es el número real de fila en la hoja (1-based; la 1 es el encabezado).
type Row struct {
	Number int
	Cells  map[string]string
}

// Get devuelve la celda de la columna dada, recortada. "" si no existe.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r.Cells[col])
}

// Sheet primera hoja de un workbook ya parseada.
type Sheet struct {
	Headers []string
	Rows    []Row
}

// HasHeader indica si la hoja trae la columna (comparación exacta, trim).
func (s *Sheet) HasHeader(name string) bool {
	for _, h := range s.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// ReadFirstSheet parsea la primera hoja de un .xlsx: la fila 1 es el
// encabezado y el resto son datos. Las filas completamente vacías se omiten.
func ReadFirstSheet(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook sin hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("hoja %q vacía", sheets[0])
	}

	headers := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		headers = append(headers, strings.TrimSpace(h))
	}

	sheet := &Sheet{Headers: headers}
	for i, raw := range rows[1:] {
		cells := map[string]string{}
		empty := true
		for j, h := range headers {
			if h == "" || j >= len(raw) {
				continue
			}
			v := strings.TrimSpace(raw[j])
			cells[h] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		sheet.Rows = append(sheet.Rows, Row{Number: i + 2, Cells: cells})
	}
	return sheet, nil
}

// Workbook constructor de workbooks de salida (export y ejemplos).
type Workbook struct {
	f      *excelize.File
	sheets int
}

// NewWorkbook crea un workbook vacío.
func NewWorkbook() *Workbook {
	return &Workbook{f: excelize.NewFile()}
}

// AddSheet agrega una hoja con encabezado y filas. La primera hoja reemplaza
// a la "Sheet1" por defecto de excelize.
func (w *Workbook) AddSheet(name string, headers []string, rows [][]any) error {
	if w.sheets == 0 {
		if err := w.f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("renombrar hoja: %w", err)
		}
	} else {
		if _, err := w.f.NewSheet(name); err != nil {
			return fmt.Errorf("crear hoja %q: %w", name, err)
		}
	}
	w.sheets++

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := w.f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("escribir encabezado: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("escribir fila %d: %w", i+2, err)
		}
	}
	return nil
}

// Bytes serializa el workbook a .xlsx.
func (w *Workbook) Bytes() ([]byte, error) {
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar workbook: %w", err)
	}
	return buf.Bytes(), nil
}
