package repository

import (
	"time"

	"go-pos-backend/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll(start, end *time.Time) ([]model.Sale, error)
	FindInRange(start, end time.Time) ([]model.Sale, error)
	CountByProduct(productID uint) (int64, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create runs inside the sale-recording transaction, so it takes the tx handle.
func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

// FindAll lists sales joined with their product, newest first. Nil bounds
// leave that side of the range open.
func (r *saleRepo) FindAll(start, end *time.Time) ([]model.Sale, error) {
	q := r.db.Preload("Product")
	if start != nil && end != nil {
		q = q.Where("date BETWEEN ? AND ?", *start, *end)
	} else if start != nil {
		q = q.Where("date >= ?", *start)
	} else if end != nil {
		q = q.Where("date <= ?", *end)
	}

	var sales []model.Sale
	err := q.Order("date DESC").Find(&sales).Error
	return sales, err
}

// FindInRange feeds the stats aggregation: inclusive window, ascending by
// date so the grouping pass sees sales in time order.
func (r *saleRepo) FindInRange(start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Product").
		Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) CountByProduct(productID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Sale{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}
