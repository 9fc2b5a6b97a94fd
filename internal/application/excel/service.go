package excel

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	xlsx "github.com/jhoicas/comercio-api/internal/infrastructure/excel"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

// Modos de procesamiento de planillas.
const (
	ModeImport = "import"
	ModeUpdate = "update"
)

// Entidades importables. Conjunto cerrado: el dispatch es un switch, no un
// registro dinámico.
const (
	EntityProducts   = "products"
	EntityCustomers  = "customers"
	EntitySuppliers  = "suppliers"
	EntityCategories = "categories"
	EntityOrders     = "orders"
	EntityPurchases  = "purchases"
)

// Nombres por defecto para referencias vacías en planillas de productos.
const (
	DefaultSupplierName = "Proveedor - Sin nombre"
	DefaultCategoryName = "Sin categoría"
)

// BatchError lote rechazado antes de tocar la base: gate de modo o validación
// de esquema. El handler lo mapea al código 402 que el front ya espera.
type BatchError struct {
	Message string
	Report  *dto.ImportReport
}

func (e *BatchError) Error() string { return e.Message }

// ErrBatchFailed el lote se procesó pero alguna fila falló: todo se revirtió
// y el reporte acompaña la respuesta de error.
var ErrBatchFailed = errors.New("lote con errores de fila, cambios revertidos")

// errRowErrors señal interna para forzar el rollback de la transacción.
var errRowErrors = errors.New("filas con errores")

// Service pipeline de importación/actualización masiva desde planillas.
// Cada lote corre completo dentro de una transacción: o persisten todas las
// filas o ninguna.
type Service struct {
	tx      ports.TxRunner
	log     *logger.Logger
	maxRows int
}

// NewService construye el servicio. maxRows limita el tamaño del lote.
func NewService(tx ports.TxRunner, log *logger.Logger, maxRows int) *Service {
	return &Service{tx: tx, log: log, maxRows: maxRows}
}

// ValidEntity indica si el nombre corresponde a una entidad importable.
func ValidEntity(entity string) bool {
	switch entity {
	case EntityProducts, EntityCustomers, EntitySuppliers, EntityCategories, EntityOrders, EntityPurchases:
		return true
	}
	return false
}

// Process ejecuta el pipeline completo sobre la primera hoja del workbook:
//  1. gate de modo (update exige columna ID, import la prohíbe),
//  2. validación de esquema fila por fila (cualquier violación aborta el lote
//     antes de cualquier mutación),
//  3. reconciliación dentro de UNA transacción acumulando el reporte,
//  4. con cualquier error de fila se revierte todo y el reporte igual se
//     devuelve junto con ErrBatchFailed.
func (s *Service) Process(ctx context.Context, tenantID, userID, entity, mode string, sheet *xlsx.Sheet) (*dto.ImportReport, error) {
	if !ValidEntity(entity) {
		return nil, &BatchError{Message: fmt.Sprintf("entidad %q no soportada", entity)}
	}
	if mode != ModeImport && mode != ModeUpdate {
		return nil, &BatchError{Message: fmt.Sprintf("modo %q no soportado", mode)}
	}

	hasID := sheet.HasHeader("ID")
	if mode == ModeUpdate && !hasID {
		return nil, &BatchError{Message: "el modo update requiere la columna ID"}
	}
	if mode == ModeImport && hasID {
		return nil, &BatchError{Message: "el modo import no admite la columna ID"}
	}
	if s.maxRows > 0 && len(sheet.Rows) > s.maxRows {
		return nil, &BatchError{Message: fmt.Sprintf("el lote supera el máximo de %d filas", s.maxRows)}
	}
	if len(sheet.Rows) == 0 {
		return nil, &BatchError{Message: "la planilla no tiene filas de datos"}
	}

	if violations := validateSheet(entity, mode, sheet); len(violations) > 0 {
		return nil, &BatchError{
			Message: "la planilla tiene errores de formato",
			Report: &dto.ImportReport{
				TotalRows:  len(sheet.Rows),
				ErrorCount: len(violations),
				Errors:     violations,
			},
		}
	}

	report := &dto.ImportReport{TotalRows: len(sheet.Rows)}
	err := s.tx.Run(ctx, func(repos ports.TxRepos) error {
		var err error
		switch entity {
		case EntityProducts:
			if mode == ModeImport {
				err = reconcileProductsImport(repos, tenantID, userID, sheet.Rows, report)
			} else {
				err = reconcileProductsUpdate(repos, tenantID, sheet.Rows, report)
			}
		case EntityCustomers:
			err = reconcileCustomers(repos, tenantID, mode, sheet.Rows, report)
		case EntitySuppliers:
			err = reconcileSuppliers(repos, tenantID, mode, sheet.Rows, report)
		case EntityCategories:
			err = reconcileCategories(repos, tenantID, mode, sheet.Rows, report)
		case EntityOrders:
			err = reconcileOrders(repos, tenantID, userID, mode, sheet.Rows, report)
		case EntityPurchases:
			err = reconcilePurchases(repos, tenantID, userID, mode, sheet.Rows, report)
		}
		if err != nil {
			return err
		}
		report.SuccessCount = len(report.Successes)
		report.ErrorCount = len(report.Errors)
		if report.ErrorCount > 0 {
			return errRowErrors
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errRowErrors) {
			// Rollback hecho: nada persistió, pero el reporte viaja igual.
			report.Successes = nil
			report.SuccessCount = 0
			s.log.Warn().Str("entity", entity).Str("mode", mode).Int("errors", report.ErrorCount).Msg("lote revertido por errores de fila")
			return report, ErrBatchFailed
		}
		return nil, err
	}
	s.log.Info().Str("entity", entity).Str("mode", mode).Int("rows", report.SuccessCount).Msg("lote aplicado")
	return report, nil
}
