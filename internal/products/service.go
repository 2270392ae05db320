package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tienditahq/tiendita-backend/pkg/db/models"
	pkgerrors "github.com/tienditahq/tiendita-backend/pkg/errors"
)

// Service exposes the product catalog to the API layer.
type Service interface {
	Create(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, supplierID uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error)
	Deactivate(ctx context.Context, id uuid.UUID, supplierID uuid.UUID) error
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, columns map[string]any) error
}

type service struct {
	repo productRepository
}

// NewService constructs a catalog service over the provided repository.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error) {
	if dto.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	if strings.TrimSpace(dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if dto.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	product := &models.Product{
		SupplierID:  dto.SupplierID,
		Name:        strings.TrimSpace(dto.Name),
		Description: dto.Description,
		PriceCents:  dto.PriceCents,
		Color:       dto.Color,
		Size:        dto.Size,
		Quality:     dto.Quality,
		ImageURL:    dto.ImageURL,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	out := FromModel(product)
	return &out, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	out := FromModel(product)
	return &out, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, supplierID uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SupplierID != supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another supplier")
	}

	columns := map[string]any{}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		columns["name"] = name
	}
	if dto.Description != nil {
		columns["description"] = *dto.Description
	}
	if dto.PriceCents != nil {
		if *dto.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		columns["price_cents"] = *dto.PriceCents
	}
	if dto.Color != nil {
		columns["color"] = *dto.Color
	}
	if dto.Size != nil {
		columns["size"] = *dto.Size
	}
	if dto.Quality != nil {
		columns["quality"] = *dto.Quality
	}
	if dto.ImageURL != nil {
		columns["image_url"] = *dto.ImageURL
	}
	if dto.IsActive != nil {
		columns["is_active"] = *dto.IsActive
	}
	if len(columns) == 0 {
		out := FromModel(product)
		return &out, nil
	}

	if err := s.repo.Update(ctx, id, columns); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.GetByID(ctx, id)
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID, supplierID uuid.UUID) error {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return err
	}
	if product.SupplierID != supplierID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another supplier")
	}
	if err := s.repo.Update(ctx, id, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
