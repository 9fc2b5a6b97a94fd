package usecase

import (
	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// toListParams convierte la paginación HTTP en parámetros de repositorio.
func toListParams(in dto.PageRequest) repository.ListParams {
	in.DefaultPage()
	return repository.ListParams{
		Page:    in.Page,
		Limit:   in.Limit,
		Search:  in.Search,
		OrderBy: in.OrderBy,
		Order:   in.Order,
	}
}
