package excel

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	xlsx "github.com/jhoicas/comercio-api/internal/infrastructure/excel"
)

// reconcileCustomers procesa planillas de clientes. Import crea una fila por
// cliente; update busca por ID dentro del tenant y pisa los campos presentes.
func reconcileCustomers(repos ports.TxRepos, tenantID, mode string, rows []xlsx.Row, report *dto.ImportReport) error {
	for _, row := range rows {
		if mode == ModeUpdate {
			c, err := repos.Customers.GetByID(tenantID, row.Get(colID))
			if err != nil {
				return err
			}
			if c == nil {
				report.Errors = append(report.Errors, dto.RowError{
					Row: row.Number, Column: colID, Message: "cliente no encontrado",
				})
				continue
			}
			applyPartyCells(row, colPhone, &c.Name, &c.Email, &c.Phone, &c.City, &c.Country)
			c.UpdatedAt = time.Now()
			if err := repos.Customers.Update(c); err != nil {
				if rowDuplicate(row, colEmail, err, report) {
					continue
				}
				return err
			}
			report.Successes = append(report.Successes, dto.RowSuccess{
				Row: row.Number, ID: c.ID, Name: c.Name, Action: "updated",
			})
			continue
		}

		now := time.Now()
		c := &entity.Customer{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			Name:      row.Get(colName),
			Email:     row.Get(colEmail),
			Phone:     row.Get(colPhone),
			City:      row.Get(colCity),
			Country:   row.Get(colCountry),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repos.Customers.Create(c); err != nil {
			if rowDuplicate(row, colEmail, err, report) {
				continue
			}
			return err
		}
		report.Successes = append(report.Successes, dto.RowSuccess{
			Row: row.Number, ID: c.ID, Name: c.Name, Action: "created",
		})
	}
	return nil
}

// reconcileSuppliers ídem para proveedores. El email es opcional: si falta se
// genera el de relleno, igual que cuando una compra crea el proveedor.
func reconcileSuppliers(repos ports.TxRepos, tenantID, mode string, rows []xlsx.Row, report *dto.ImportReport) error {
	for _, row := range rows {
		if mode == ModeUpdate {
			s, err := repos.Suppliers.GetByID(tenantID, row.Get(colID))
			if err != nil {
				return err
			}
			if s == nil {
				report.Errors = append(report.Errors, dto.RowError{
					Row: row.Number, Column: colID, Message: "proveedor no encontrado",
				})
				continue
			}
			applyPartyCells(row, colPhoneAcc, &s.Name, &s.Email, &s.Phone, &s.City, &s.Country)
			s.UpdatedAt = time.Now()
			if err := repos.Suppliers.Update(s); err != nil {
				if rowDuplicate(row, colEmail, err, report) {
					continue
				}
				return err
			}
			report.Successes = append(report.Successes, dto.RowSuccess{
				Row: row.Number, ID: s.ID, Name: s.Name, Action: "updated",
			})
			continue
		}

		email := row.Get(colEmail)
		if email == "" {
			email = placeholderEmail(row.Get(colName))
		}
		now := time.Now()
		s := &entity.Supplier{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			Name:      row.Get(colName),
			Email:     email,
			Phone:     row.Get(colPhoneAcc),
			City:      row.Get(colCity),
			Country:   row.Get(colCountry),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repos.Suppliers.Create(s); err != nil {
			if rowDuplicate(row, colEmail, err, report) {
				continue
			}
			return err
		}
		report.Successes = append(report.Successes, dto.RowSuccess{
			Row: row.Number, ID: s.ID, Name: s.Name, Action: "created",
		})
	}
	return nil
}

// applyPartyCells pisa los campos comunes de cliente/proveedor con las celdas
// presentes. phoneCol varía: la planilla de proveedores lo trae con tilde.
func applyPartyCells(row xlsx.Row, phoneCol string, name, email, phone, city, country *string) {
	if v := row.Get(colName); v != "" {
		*name = v
	}
	if v := row.Get(colEmail); v != "" {
		*email = v
	}
	if v := row.Get(phoneCol); v != "" {
		*phone = v
	}
	if v := row.Get(colCity); v != "" {
		*city = v
	}
	if v := row.Get(colCountry); v != "" {
		*country = v
	}
}

// rowDuplicate registra como error de fila las violaciones de unicidad.
// Cualquier otro error es fatal para el lote.
func rowDuplicate(row xlsx.Row, col string, err error, report *dto.ImportReport) bool {
	if errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrEmailAlreadyExists) {
		report.Errors = append(report.Errors, dto.RowError{
			Row: row.Number, Column: col, Message: "valor duplicado",
		})
		return true
	}
	return false
}
