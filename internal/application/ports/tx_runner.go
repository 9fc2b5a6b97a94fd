package ports

import (
	"context"

	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción.
// Lo construye la infraestructura dentro de TxRunner.Run; todo lo que se haga
// con estos repos se confirma o revierte como unidad.
type TxRepos struct {
	Tenants    repository.TenantRepository
	Users      repository.UserRepository
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Customers  repository.CustomerRepository
	Suppliers  repository.SupplierRepository
	Orders     repository.OrderRepository
	Purchases  repository.PurchaseRepository
}

// TxRunner define el puerto de unidad de trabajo (DIP). La implementación vive
// en infrastructure/postgres: abre una transacción, ejecuta fn con repos atados
// a ella y hace Commit o Rollback según el error devuelto.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
