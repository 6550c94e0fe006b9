package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/evanazhr/simple-pos-api/internal/models"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
)

const minCategoryNameLen = 3

type CategorySummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ProductCount int64  `json:"product_count"`
}

type CreateProductRequest struct {
	Name       string `json:"name"       validate:"required"`
	Price      int64  `json:"price"      validate:"required,min=1000"`
	ImageURL   string `json:"image_url"  validate:"omitempty,url"`
	CategoryID uint   `json:"category_id" validate:"required"`
}

type Service struct {
	DB *gorm.DB
}

// ListCategories derives product_count with a grouped count instead of
// keeping a stored counter that could drift.
func (s *Service) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	var out []CategorySummary
	err := s.DB.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.id, categories.name, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("categories.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if len(name) < minCategoryNameLen {
		return nil, fmt.Errorf("%w: name must be at least %d characters", ErrValidation, minCategoryNameLen)
	}

	var existing models.Category
	err := s.DB.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cat := models.Category{Name: name}
	if err := s.DB.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if len(name) < minCategoryNameLen {
		return nil, fmt.Errorf("%w: name must be at least %d characters", ErrValidation, minCategoryNameLen)
	}

	var cat models.Category
	if err := s.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return nil, err
	}

	var dup models.Category
	err := s.DB.WithContext(ctx).Where("name = ? AND id <> ?", name, id).First(&dup).Error
	if err == nil {
		return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cat.Name = name
	if err := s.DB.WithContext(ctx).Save(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory refuses to delete a category that products still
// reference, rather than cascading or orphaning them.
func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d products still reference category %d", ErrConflict, count, id)
	}

	res := s.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price < models.MinProductPrice {
		return nil, fmt.Errorf("%w: price must be at least %d", ErrValidation, models.MinProductPrice)
	}
	if req.ImageURL != "" {
		if u, err := url.Parse(req.ImageURL); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: malformed image_url", ErrValidation)
		}
	}

	var cat models.Category
	if err := s.DB.WithContext(ctx).First(&cat, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, req.CategoryID)
		}
		return nil, err
	}

	prod := models.Product{
		Name:       strings.TrimSpace(req.Name),
		Price:      req.Price,
		ImageURL:   req.ImageURL,
		CategoryID: req.CategoryID,
	}
	if err := s.DB.WithContext(ctx).Create(&prod).Error; err != nil {
		return nil, err
	}
	prod.Category = &cat
	return &prod, nil
}

func (s *Service) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	err := s.DB.WithContext(ctx).
		Preload("Category").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	if err := s.DB.WithContext(ctx).Preload("Category").First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &prod, nil
}
