package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefreshStatus_DerivaDelStock(t *testing.T) {
	p := Product{Stock: 5, Status: ProductOutOfStock}
	p.RefreshStatus()
	assert.Equal(t, ProductActive, p.Status, "con stock el producto vuelve a activo")

	p = Product{Stock: 0, Status: ProductActive}
	p.RefreshStatus()
	assert.Equal(t, ProductOutOfStock, p.Status, "sin stock el producto queda agotado")
}

func TestRefreshStatus_RespetaInactive(t *testing.T) {
	// INACTIVE es una decisión del usuario: el stock no la pisa.
	p := Product{Stock: 50, Status: ProductInactive}
	p.RefreshStatus()
	assert.Equal(t, ProductInactive, p.Status)

	p = Product{Stock: 0, Status: ProductInactive}
	p.RefreshStatus()
	assert.Equal(t, ProductInactive, p.Status)
}

func TestParseProductStatus_Sinonimos(t *testing.T) {
	cases := map[string]string{
		"active":       ProductActive,
		"Activo":       ProductActive,
		"INACTIVE":     ProductInactive,
		"inactivo":     ProductInactive,
		"out_of_stock": ProductOutOfStock,
		"Out Of Stock": ProductOutOfStock,
		"OUTOFSTOCK":   ProductOutOfStock,
		"Agotado":      ProductOutOfStock,
		"congelado":    "",
		"":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseProductStatus(in), "entrada %q", in)
	}
}

func TestParseOrderStatus_Sinonimos(t *testing.T) {
	cases := map[string]string{
		"pending":    OrderPending,
		"Pendiente":  OrderPending,
		"completed":  OrderCompleted,
		"COMPLETADA": OrderCompleted,
		"cancelled":  OrderCancelled,
		"cancelada":  OrderCancelled,
		"enviada":    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseOrderStatus(in), "entrada %q", in)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleSuperadmin, RoleAdmin, RoleSupervisor, RoleCashier} {
		assert.True(t, ValidRole(role), "rol %q", role)
	}
	assert.False(t, ValidRole("bodeguero"))
	assert.False(t, ValidRole(""))
}
