package excel

import (
	"context"
	"strings"

	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repos en memoria para los tests de reconciliación. El runner de transacciones
// falso toma un snapshot antes de ejecutar y lo restaura si fn falla: así los
// tests verifican de verdad que un lote con errores no persiste nada.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products   []entity.Product
	categories []entity.Category
	customers  []entity.Customer
	suppliers  []entity.Supplier
	orders     []entity.Order
	purchases  []entity.Purchase
	users      []entity.User
	prodCats   map[string][]string // productID -> categoryIDs
}

func newMemStore() *memStore {
	return &memStore{prodCats: map[string][]string{}}
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		products:   append([]entity.Product(nil), s.products...),
		categories: append([]entity.Category(nil), s.categories...),
		customers:  append([]entity.Customer(nil), s.customers...),
		suppliers:  append([]entity.Supplier(nil), s.suppliers...),
		orders:     append([]entity.Order(nil), s.orders...),
		purchases:  append([]entity.Purchase(nil), s.purchases...),
		users:      append([]entity.User(nil), s.users...),
		prodCats:   map[string][]string{},
	}
	for k, v := range s.prodCats {
		c.prodCats[k] = append([]string(nil), v...)
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.categories = from.categories
	s.customers = from.customers
	s.suppliers = from.suppliers
	s.orders = from.orders
	s.purchases = from.purchases
	s.users = from.users
	s.prodCats = from.prodCats
}

func (s *memStore) repos() ports.TxRepos {
	return ports.TxRepos{
		Users:      &memUserRepo{s: s},
		Products:   &memProductRepo{s: s},
		Categories: &memCategoryRepo{s: s},
		Customers:  &memCustomerRepo{s: s},
		Suppliers:  &memSupplierRepo{s: s},
		Orders:     &memOrderRepo{s: s},
		Purchases:  &memPurchaseRepo{s: s},
	}
}

// memTxRunner implementa ports.TxRunner con snapshot/restore.
type memTxRunner struct {
	s *memStore
}

func (r *memTxRunner) Run(_ context.Context, fn func(repos ports.TxRepos) error) error {
	snap := r.s.clone()
	if err := fn(r.s.repos()); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ── Products ─────────────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(p *entity.Product) error {
	r.s.products = append(r.s.products, *p)
	return nil
}

func (r *memProductRepo) GetByID(tenantID, id string) (*entity.Product, error) {
	for i := range r.s.products {
		p := r.s.products[i]
		if p.TenantID == tenantID && p.ID == id && p.DeletedAt == nil {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetByName(tenantID, name string) (*entity.Product, error) {
	for i := range r.s.products {
		p := r.s.products[i]
		if p.TenantID == tenantID && strings.TrimSpace(p.Name) == strings.TrimSpace(name) && p.DeletedAt == nil {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	for i := range r.s.products {
		if r.s.products[i].ID == p.ID {
			r.s.products[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memProductRepo) ListByTenant(tenantID string, _ repository.ListParams) ([]*entity.Product, int, error) {
	var out []*entity.Product
	for i := range r.s.products {
		p := r.s.products[i]
		if p.TenantID == tenantID && p.DeletedAt == nil {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *memProductRepo) Delete(tenantID, id string) error { return nil }

func (r *memProductRepo) DecrementStock(tenantID, productID string, qty int) error {
	for i := range r.s.products {
		p := &r.s.products[i]
		if p.TenantID == tenantID && p.ID == productID {
			if p.Stock < qty {
				return domain.ErrInsufficientStock
			}
			p.Stock -= qty
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memProductRepo) IncrementStock(tenantID, productID string, qty int) error {
	for i := range r.s.products {
		p := &r.s.products[i]
		if p.TenantID == tenantID && p.ID == productID {
			p.Stock += qty
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memProductRepo) ReplaceCategories(productID string, categoryIDs []string) error {
	r.s.prodCats[productID] = append([]string(nil), categoryIDs...)
	return nil
}

func (r *memProductRepo) GetCategories(productID string) ([]entity.Category, error) {
	var out []entity.Category
	for _, cid := range r.s.prodCats[productID] {
		for _, c := range r.s.categories {
			if c.ID == cid {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// ── Categories ───────────────────────────────────────────────────────────────

type memCategoryRepo struct{ s *memStore }

var _ repository.CategoryRepository = (*memCategoryRepo)(nil)

func (r *memCategoryRepo) Create(c *entity.Category) error {
	r.s.categories = append(r.s.categories, *c)
	return nil
}

func (r *memCategoryRepo) GetByID(tenantID, id string) (*entity.Category, error) {
	for _, c := range r.s.categories {
		if c.TenantID == tenantID && c.ID == id && c.DeletedAt == nil {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCategoryRepo) GetByName(tenantID, name string) (*entity.Category, error) {
	for _, c := range r.s.categories {
		if c.TenantID == tenantID && strings.TrimSpace(c.Name) == strings.TrimSpace(name) && c.DeletedAt == nil {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCategoryRepo) Update(c *entity.Category) error {
	for i := range r.s.categories {
		if r.s.categories[i].ID == c.ID {
			r.s.categories[i] = *c
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memCategoryRepo) ListByTenant(tenantID string, _ repository.ListParams) ([]*entity.Category, int, error) {
	var out []*entity.Category
	for i := range r.s.categories {
		c := r.s.categories[i]
		if c.TenantID == tenantID && c.DeletedAt == nil {
			cp := c
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *memCategoryRepo) Delete(tenantID, id string) error { return nil }

func (r *memCategoryRepo) ReplaceProducts(categoryID string, productIDs []string) error {
	for pid, cids := range r.s.prodCats {
		var kept []string
		for _, cid := range cids {
			if cid != categoryID {
				kept = append(kept, cid)
			}
		}
		r.s.prodCats[pid] = kept
	}
	for _, pid := range productIDs {
		r.s.prodCats[pid] = append(r.s.prodCats[pid], categoryID)
	}
	return nil
}

func (r *memCategoryRepo) GetProducts(categoryID string) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.s.products {
		for _, cid := range r.s.prodCats[p.ID] {
			if cid == categoryID {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *memCategoryRepo) DeleteUnused(tenantID string) (int, error) {
	used := map[string]bool{}
	for _, cids := range r.s.prodCats {
		for _, cid := range cids {
			used[cid] = true
		}
	}
	var kept []entity.Category
	removed := 0
	for _, c := range r.s.categories {
		if c.TenantID == tenantID && !used[c.ID] {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	r.s.categories = kept
	return removed, nil
}

// ── Customers / Suppliers ────────────────────────────────────────────────────

type memCustomerRepo struct{ s *memStore }

var _ repository.CustomerRepository = (*memCustomerRepo)(nil)

func (r *memCustomerRepo) Create(c *entity.Customer) error {
	r.s.customers = append(r.s.customers, *c)
	return nil
}

func (r *memCustomerRepo) GetByID(tenantID, id string) (*entity.Customer, error) {
	for _, c := range r.s.customers {
		if c.TenantID == tenantID && c.ID == id && c.DeletedAt == nil {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) GetByName(tenantID, name string) (*entity.Customer, error) {
	for _, c := range r.s.customers {
		if c.TenantID == tenantID && strings.TrimSpace(c.Name) == strings.TrimSpace(name) && c.DeletedAt == nil {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) Update(c *entity.Customer) error {
	for i := range r.s.customers {
		if r.s.customers[i].ID == c.ID {
			r.s.customers[i] = *c
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memCustomerRepo) ListByTenant(tenantID string, _ repository.ListParams) ([]*entity.Customer, int, error) {
	var out []*entity.Customer
	for i := range r.s.customers {
		c := r.s.customers[i]
		if c.TenantID == tenantID && c.DeletedAt == nil {
			cp := c
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *memCustomerRepo) Delete(tenantID, id string) error { return nil }

type memSupplierRepo struct{ s *memStore }

var _ repository.SupplierRepository = (*memSupplierRepo)(nil)

func (r *memSupplierRepo) Create(sp *entity.Supplier) error {
	r.s.suppliers = append(r.s.suppliers, *sp)
	return nil
}

func (r *memSupplierRepo) GetByID(tenantID, id string) (*entity.Supplier, error) {
	for _, sp := range r.s.suppliers {
		if sp.TenantID == tenantID && sp.ID == id && sp.DeletedAt == nil {
			cp := sp
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSupplierRepo) GetByName(tenantID, name string) (*entity.Supplier, error) {
	for _, sp := range r.s.suppliers {
		if sp.TenantID == tenantID && strings.TrimSpace(sp.Name) == strings.TrimSpace(name) && sp.DeletedAt == nil {
			cp := sp
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSupplierRepo) Update(sp *entity.Supplier) error {
	for i := range r.s.suppliers {
		if r.s.suppliers[i].ID == sp.ID {
			r.s.suppliers[i] = *sp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memSupplierRepo) ListByTenant(tenantID string, _ repository.ListParams) ([]*entity.Supplier, int, error) {
	var out []*entity.Supplier
	for i := range r.s.suppliers {
		sp := r.s.suppliers[i]
		if sp.TenantID == tenantID && sp.DeletedAt == nil {
			cp := sp
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *memSupplierRepo) Delete(tenantID, id string) error { return nil }

// ── Orders / Purchases ───────────────────────────────────────────────────────

type memOrderRepo struct{ s *memStore }

var _ repository.OrderRepository = (*memOrderRepo)(nil)

func (r *memOrderRepo) Create(o *entity.Order) error {
	r.s.orders = append(r.s.orders, *o)
	return nil
}

func (r *memOrderRepo) GetByID(tenantID, id string) (*entity.Order, error) {
	for _, o := range r.s.orders {
		if o.TenantID == tenantID && o.ID == id && o.DeletedAt == nil {
			cp := o
			cp.Items = append([]entity.OrderItem(nil), o.Items...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) Update(o *entity.Order) error {
	for i := range r.s.orders {
		if r.s.orders[i].ID == o.ID {
			r.s.orders[i] = *o
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memOrderRepo) ReplaceItems(orderID string, items []entity.OrderItem) error {
	for i := range r.s.orders {
		if r.s.orders[i].ID == orderID {
			r.s.orders[i].Items = append([]entity.OrderItem(nil), items...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memOrderRepo) ListByTenant(tenantID string, _ repository.ListParams) ([]*entity.Order, int, error) {
	var out []*entity.Order
	for i := range r.s.orders {
		o := r.s.orders[i]
		if o.TenantID == tenantID && o.DeletedAt == nil {
			cp := o
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *memOrderRepo) Delete(tenantID, id string) error { return nil }

type memPurchaseRepo struct{ s *memStore }

var _ repository.PurchaseRepository = (*memPurchaseRepo)(nil)

func (r *memPurchaseRepo) Create(p *entity.Purchase) error {
	r.s.purchases = append(r.s.purchases, *p)
	return nil
}

func (r *memPurchaseRepo) GetByID(tenantID, id string) (*entity.Purchase, error) {
	for _, p := range r.s.purchases {
		if p.TenantID == tenantID && p.ID == id && p.DeletedAt == nil {
			cp := p
			cp.Items = append([]entity.PurchaseItem(nil), p.Items...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memPurchaseRepo) Update(p *entity.Purchase) error {
	for i := range r.s.purchases {
		if r.s.purchases[i].ID == p.ID {
			r.s.purchases[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memPurchaseRepo) ReplaceItems(purchaseID string, items []entity.PurchaseItem) error {
	for i := range r.s.purchases {
		if r.s.purchases[i].ID == purchaseID {
			r.s.purchases[i].Items = append([]entity.PurchaseItem(nil), items...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memPurchaseRepo) ListByTenant(tenantID string, _ repository.ListParams) ([]*entity.Purchase, int, error) {
	var out []*entity.Purchase
	for i := range r.s.purchases {
		p := r.s.purchases[i]
		if p.TenantID == tenantID && p.DeletedAt == nil {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *memPurchaseRepo) Delete(tenantID, id string) error { return nil }

// ── Users ────────────────────────────────────────────────────────────────────

type memUserRepo struct{ s *memStore }

var _ repository.UserRepository = (*memUserRepo)(nil)

func (r *memUserRepo) Create(u *entity.User) error {
	r.s.users = append(r.s.users, *u)
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.ID == id && u.DeletedAt == nil {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email && u.DeletedAt == nil {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByNameAndTenant(tenantID, name string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.TenantID != nil && *u.TenantID == tenantID &&
			strings.TrimSpace(u.Name) == strings.TrimSpace(name) && u.DeletedAt == nil {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(u *entity.User) error {
	for i := range r.s.users {
		if r.s.users[i].ID == u.ID {
			r.s.users[i] = *u
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memUserRepo) ListByTenant(tenantID string, _ repository.ListParams) ([]*entity.User, int, error) {
	var out []*entity.User
	for i := range r.s.users {
		u := r.s.users[i]
		if u.TenantID != nil && *u.TenantID == tenantID && u.DeletedAt == nil {
			cp := u
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *memUserRepo) Delete(id string) error { return nil }
