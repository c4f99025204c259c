package repository

import (
	"go-pos-backend/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindByName(name string) (*model.Product, error)
	Save(product *model.Product) error
	Delete(id uint) error
	AddStock(id uint, amount int) error
	MoveStockToSale(id uint, amount int) (int64, error)
	DecrementSaleQuantity(tx *gorm.DB, id uint, quantity int) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindByName(name string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "name = ?", name).Error
	return &product, err
}

func (r *productRepo) Save(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uint) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// AddStock increases the back-room stock by amount in a single statement.
func (r *productRepo) AddStock(id uint, amount int) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", amount)).Error
}

// MoveStockToSale transfers amount units from back-room stock into sale
// availability. The stock_quantity guard in the WHERE clause makes the
// transfer atomic; zero rows affected means the stock was insufficient.
func (r *productRepo) MoveStockToSale(id uint, amount int) (int64, error) {
	res := r.db.Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, amount).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", amount),
			"sale_quantity":  gorm.Expr("sale_quantity + ?", amount),
		})
	return res.RowsAffected, res.Error
}

// DecrementSaleQuantity runs inside the sale-recording transaction, so it
// takes the tx handle. The sale_quantity guard serializes concurrent sales
// on the product row and can never drive the quantity negative; zero rows
// affected means availability was insufficient.
func (r *productRepo) DecrementSaleQuantity(tx *gorm.DB, id uint, quantity int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND sale_quantity >= ?", id, quantity).
		Update("sale_quantity", gorm.Expr("sale_quantity - ?", quantity))
	return res.RowsAffected, res.Error
}
