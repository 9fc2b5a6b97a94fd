package excel

import (
	"fmt"
	"time"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	xlsx "github.com/jhoicas/comercio-api/internal/infrastructure/excel"
)

// reconcileCategories procesa planillas de categorías. Import hace
// find-or-create por nombre; update busca por ID. En ambos modos la columna
// Productos (nombres separados por coma) reemplaza la asociación completa:
// un producto inexistente es error de fila, nunca se crea desde acá.
func reconcileCategories(repos ports.TxRepos, tenantID, mode string, rows []xlsx.Row, report *dto.ImportReport) error {
	for _, row := range rows {
		category, action, err := resolveCategoryRow(repos, tenantID, mode, row, report)
		if err != nil {
			return err
		}
		if category == nil {
			continue // error de fila ya registrado
		}

		if names := splitList(row.Get(colProducts)); len(names) > 0 {
			ids := make([]string, 0, len(names))
			ok := true
			for _, name := range names {
				product, err := repos.Products.GetByName(tenantID, name)
				if err != nil {
					return err
				}
				if product == nil {
					report.Errors = append(report.Errors, dto.RowError{
						Row: row.Number, Column: colProducts,
						Message: fmt.Sprintf("producto %q no encontrado", name),
					})
					ok = false
					continue
				}
				ids = append(ids, product.ID)
			}
			if !ok {
				continue
			}
			if err := repos.Categories.ReplaceProducts(category.ID, ids); err != nil {
				return err
			}
		}

		report.Successes = append(report.Successes, dto.RowSuccess{
			Row: row.Number, ID: category.ID, Name: category.Name, Action: action,
		})
	}
	return nil
}

// resolveCategoryRow obtiene la categoría de la fila según el modo. Devuelve
// (nil, "", nil) cuando la fila falló y el error ya quedó en el reporte.
func resolveCategoryRow(repos ports.TxRepos, tenantID, mode string, row xlsx.Row, report *dto.ImportReport) (*entity.Category, string, error) {
	if mode == ModeUpdate {
		c, err := repos.Categories.GetByID(tenantID, row.Get(colID))
		if err != nil {
			return nil, "", err
		}
		if c == nil {
			report.Errors = append(report.Errors, dto.RowError{
				Row: row.Number, Column: colID, Message: "categoría no encontrada",
			})
			return nil, "", nil
		}
		if v := row.Get(colName); v != "" && v != c.Name {
			c.Name = v
			c.UpdatedAt = time.Now()
			if err := repos.Categories.Update(c); err != nil {
				return nil, "", err
			}
		}
		return c, "updated", nil
	}

	name := row.Get(colName)
	existing, err := repos.Categories.GetByName(tenantID, name)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return existing, "merged", nil
	}
	created, err := findOrCreateCategory(repos.Categories, tenantID, name)
	if err != nil {
		return nil, "", err
	}
	return created, "created", nil
}
