package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/validator"

	"gorm.io/gorm"
)

// RecordSaleRequest is the input for the one composite operation in the
// system. Date is optional and defaults to the time of recording.
type RecordSaleRequest struct {
	ProductID     *uint      `json:"productId" validate:"required"`
	Quantity      *int       `json:"quantity" validate:"required,gt=0"`
	PaymentMethod string     `json:"paymentMethod" validate:"required"`
	Date          *time.Time `json:"date"`
}

type SalesService interface {
	RecordSale(req *RecordSaleRequest) (*model.Sale, error)
	GetSales(start, end *time.Time) ([]model.Sale, error)
}

type salesService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	db          *gorm.DB
	hub         *ws.Hub
}

func NewSalesService(pRepo repository.ProductRepository, sRepo repository.SaleRepository, db *gorm.DB, hub *ws.Hub) SalesService {
	return &salesService{
		productRepo: pRepo,
		saleRepo:    sRepo,
		db:          db,
		hub:         hub,
	}
}

// RecordSale inserts the sale and decrements the product's sale availability
// in a single transaction: either both persist or neither does.
func (s *salesService) RecordSale(req *RecordSaleRequest) (*model.Sale, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, errs[0].FailedField, errs[0].Tag)
	}

	method, err := model.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, ErrInvalidPaymentMethod
	}

	quantity := *req.Quantity
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	var sale *model.Sale
	var product model.Product

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", *req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if quantity > product.SaleQuantity {
			return ErrInsufficientSaleStock
		}

		// The guarded decrement serializes concurrent sales on the
		// product row; zero rows affected means another request won.
		rows, err := s.productRepo.DecrementSaleQuantity(tx, product.ID, quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientSaleStock
		}

		sale = &model.Sale{
			ProductID:     product.ID,
			Quantity:      quantity,
			TotalValue:    product.UnitPrice(method) * int64(quantity),
			PaymentMethod: method,
			Date:          date,
		}
		return s.saleRepo.Create(tx, sale)
	})
	if err != nil {
		return nil, err
	}

	// Return the sale joined with its product, quantities as committed.
	product.SaleQuantity -= quantity
	sale.Product = &product

	s.broadcastSale(sale)
	return sale, nil
}

func (s *salesService) GetSales(start, end *time.Time) ([]model.Sale, error) {
	return s.saleRepo.FindAll(start, end)
}

func (s *salesService) broadcastSale(sale *model.Sale) {
	if s.hub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "sale_recorded",
			"sale": map[string]interface{}{
				"id":            sale.ID,
				"productId":     sale.ProductID,
				"productName":   sale.Product.Name,
				"quantity":      sale.Quantity,
				"totalValue":    sale.TotalValue,
				"paymentMethod": sale.PaymentMethod,
				"saleQuantity":  sale.Product.SaleQuantity,
			},
		}
		msg, _ := json.Marshal(payload)
		s.hub.Broadcast <- msg
	}()
}
