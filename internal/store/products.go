package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/spigell/fit-advisor/internal/fit"
)

func (s *Store) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", ErrInvalid)
	}
	if in.FitCategory == nil {
		return nil, fmt.Errorf("fitCategory is required: %w", ErrInvalid)
	}
	category, err := fit.ParseCategory(*in.FitCategory)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	product := &Product{
		Name:        strings.TrimSpace(*in.Name),
		FitCategory: category,
		Chest:       in.Chest,
		Waist:       in.Waist,
		Hip:         in.Hip,
		Price:       decimal.Zero,
	}
	if in.Price != nil {
		product.Price = *in.Price
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, translate(err, "create product")
	}
	return product, nil
}

func (s *Store) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	q := s.db.WithContext(ctx).Order("id")
	if len(filter.Categories) > 0 {
		q = q.Where("fit_category IN ?", filter.Categories)
	}

	var products []Product
	if err := q.Find(&products).Error; err != nil {
		return nil, translate(err, "list products")
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err, "get product")
	}
	return &product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*Product, error) {
	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name must not be empty: %w", ErrInvalid)
		}
		updates["name"] = name
	}
	if in.FitCategory != nil {
		category, err := fit.ParseCategory(*in.FitCategory)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		updates["fit_category"] = category
	}
	if in.Chest != nil {
		updates["chest"] = *in.Chest
	}
	if in.Waist != nil {
		updates["waist"] = *in.Waist
	}
	if in.Hip != nil {
		updates["hip"] = *in.Hip
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}

	var product Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&product, id).Error
	})
	if err != nil {
		return nil, translate(err, "update product")
	}
	return &product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Product{}, id)
	if res.Error != nil {
		return translate(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete product")
	}
	return nil
}
