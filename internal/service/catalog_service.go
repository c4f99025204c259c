package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/validator"

	"gorm.io/gorm"
)

// CreateProductRequest carries the fields for a new catalog entry. Pointer
// fields distinguish "absent" from zero so a free product or an empty initial
// quantity is still valid input.
type CreateProductRequest struct {
	Name      string `json:"name" validate:"required"`
	Price     *int64 `json:"price" validate:"required,gte=0"`
	PriceCard *int64 `json:"priceCard" validate:"omitempty,gte=0"`
	Quantity  *int   `json:"quantity" validate:"required,gte=0"`
}

// UpdateProductRequest is a partial update; nil fields keep their value.
type UpdateProductRequest struct {
	Name          *string `json:"name"`
	Price         *int64  `json:"price" validate:"omitempty,gte=0"`
	PriceCard     *int64  `json:"priceCard" validate:"omitempty,gte=0"`
	StockQuantity *int    `json:"stockQuantity" validate:"omitempty,gte=0"`
	SaleQuantity  *int    `json:"saleQuantity" validate:"omitempty,gte=0"`
}

type CatalogService interface {
	GetProducts() ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	CreateProduct(req *CreateProductRequest) (*model.Product, error)
	UpdateProduct(id uint, req *UpdateProductRequest) (*model.Product, error)
	RestockStock(id uint, amount int) (*model.Product, error)
	RestockForSale(id uint, amount int) (*model.Product, error)
	DeleteProduct(id uint) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	hub         *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, sRepo repository.SaleRepository, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		saleRepo:    sRepo,
		hub:         hub,
	}
}

func (s *catalogService) GetProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) CreateProduct(req *CreateProductRequest) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, errs[0].FailedField, errs[0].Tag)
	}

	// Pre-check for a friendly 409; the unique index is the real guarantee.
	if existing, err := s.productRepo.FindByName(req.Name); err == nil && existing.ID != 0 {
		return nil, ErrProductNameTaken
	}

	// A new product starts with everything both in stock and on sale.
	product := &model.Product{
		Name:          req.Name,
		Price:         *req.Price,
		PriceCard:     req.PriceCard,
		StockQuantity: *req.Quantity,
		SaleQuantity:  *req.Quantity,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(id uint, req *UpdateProductRequest) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, errs[0].FailedField, errs[0].Tag)
	}

	existing, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	// Re-check name uniqueness on rename, excluding the product itself.
	if req.Name != nil && *req.Name != existing.Name {
		if other, err := s.productRepo.FindByName(*req.Name); err == nil && other.ID != 0 && other.ID != id {
			return nil, ErrProductNameTaken
		}
		existing.Name = *req.Name
	}
	if req.Price != nil {
		existing.Price = *req.Price
	}
	if req.PriceCard != nil {
		existing.PriceCard = req.PriceCard
	}
	if req.StockQuantity != nil {
		existing.StockQuantity = *req.StockQuantity
	}
	if req.SaleQuantity != nil {
		existing.SaleQuantity = *req.SaleQuantity
	}

	if err := s.productRepo.Save(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// RestockStock adds units to the back-room stock.
func (s *catalogService) RestockStock(id uint, amount int) (*model.Product, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.GetProduct(id); err != nil {
		return nil, err
	}

	if err := s.productRepo.AddStock(id, amount); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.broadcastStock("product_restocked", product)
	return product, nil
}

// RestockForSale moves units from back-room stock into sale availability,
// constrained by the stock on hand.
func (s *catalogService) RestockForSale(id uint, amount int) (*model.Product, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.GetProduct(id); err != nil {
		return nil, err
	}

	rows, err := s.productRepo.MoveStockToSale(id, amount)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInsufficientStock
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.broadcastStock("sale_stock_restocked", product)
	return product, nil
}

func (s *catalogService) DeleteProduct(id uint) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}

	// Referential guard: products with recorded sales cannot be removed.
	count, err := s.saleRepo.CountByProduct(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrProductHasSales
	}

	return s.productRepo.Delete(id)
}

func (s *catalogService) broadcastStock(action string, product *model.Product) {
	if s.hub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": action,
			"product": map[string]interface{}{
				"id":            product.ID,
				"name":          product.Name,
				"stockQuantity": product.StockQuantity,
				"saleQuantity":  product.SaleQuantity,
			},
		}
		msg, _ := json.Marshal(payload)
		s.hub.Broadcast <- msg
	}()
}
