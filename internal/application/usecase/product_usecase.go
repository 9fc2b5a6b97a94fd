package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Las mutaciones de stock por
// ventas y compras van por sus propios servicios transaccionales.
type ProductUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{products: products, categories: categories}
}

// Create crea un producto y lo vincula a sus categorías (por ID o por nombre;
// las referidas por nombre se crean si no existen).
func (uc *ProductUseCase) Create(tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         in.SKU,
		ImageURL:    in.ImageURL,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	product.RefreshStatus()
	if err := uc.products.Create(product); err != nil {
		return nil, err
	}
	catIDs, err := ResolveCategoryRefs(uc.categories, tenantID, in.Categories)
	if err != nil {
		return nil, err
	}
	if err := uc.products.ReplaceCategories(product.ID, catIDs); err != nil {
		return nil, err
	}
	product.Categories, err = uc.products.GetCategories(product.ID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del tenant con sus categorías.
func (uc *ProductUseCase) GetByID(tenantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	product.Categories, err = uc.products.GetCategories(product.ID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. Si vienen categorías, reemplazan el conjunto
// completo. El estado derivado se recalcula tras cualquier cambio de stock.
func (uc *ProductUseCase) Update(tenantID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.Stock = *in.Stock
	}
	if in.SKU != nil {
		product.SKU = *in.SKU
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Status != nil {
		product.Status = *in.Status
	}
	product.RefreshStatus()
	product.UpdatedAt = time.Now()
	if err := uc.products.Update(product); err != nil {
		return nil, err
	}
	if in.Categories != nil {
		catIDs, err := ResolveCategoryRefs(uc.categories, tenantID, in.Categories)
		if err != nil {
			return nil, err
		}
		if err := uc.products.ReplaceCategories(product.ID, catIDs); err != nil {
			return nil, err
		}
	}
	product.Categories, err = uc.products.GetCategories(product.ID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos del tenant con paginación y sus categorías.
func (uc *ProductUseCase) List(tenantID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	params := toListParams(page)
	list, total, err := uc.products.ListByTenant(tenantID, params)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		p.Categories, err = uc.products.GetCategories(p.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Page: params.Page, Limit: params.PageSize(), Total: total},
	}, nil
}

// Delete elimina (soft delete) un producto del tenant.
func (uc *ProductUseCase) Delete(tenantID, id string) error {
	return uc.products.Delete(tenantID, id)
}

// ResolveCategoryRefs resuelve referencias de categoría a IDs. Por ID la
// categoría debe existir; por nombre se crea si no existe (find-or-create).
func ResolveCategoryRefs(categories repository.CategoryRepository, tenantID string, refs []dto.CategoryRef) ([]string, error) {
	ids := make([]string, 0, len(refs))
	seen := map[string]bool{}
	for _, ref := range refs {
		var id string
		switch {
		case ref.ID != "":
			cat, err := categories.GetByID(tenantID, ref.ID)
			if err != nil {
				return nil, err
			}
			if cat == nil {
				return nil, domain.ErrNotFound
			}
			id = cat.ID
		case strings.TrimSpace(ref.Name) != "":
			name := strings.TrimSpace(ref.Name)
			cat, err := categories.GetByName(tenantID, name)
			if err != nil {
				return nil, err
			}
			if cat == nil {
				now := time.Now()
				cat = &entity.Category{
					ID:        uuid.New().String(),
					TenantID:  tenantID,
					Name:      name,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := categories.Create(cat); err != nil {
					return nil, err
				}
			}
			id = cat.ID
		default:
			return nil, domain.ErrInvalidInput
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	cats := make([]dto.CategoryResponse, 0, len(p.Categories))
	for i := range p.Categories {
		cats = append(cats, *toCategoryResponse(&p.Categories[i]))
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		SKU:         p.SKU,
		ImageURL:    p.ImageURL,
		Status:      p.Status,
		Categories:  cats,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
