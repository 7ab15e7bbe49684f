package service

import (
	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/model"
	"go-invoicehub/internal/repository"
	"go-invoicehub/internal/storage"
	"go-invoicehub/internal/ws"
	"go-invoicehub/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductService interface {
	Add(ownerID uuid.UUID, req *ProductRequest, image []byte, imageExt string) (*model.Product, error)
	GetAll(ownerID uuid.UUID) ([]model.Product, error)
	GetByID(id, ownerID uuid.UUID) (*model.Product, error)
	Update(id, ownerID uuid.UUID, req *ProductRequest, image []byte, imageExt string) (*model.Product, error)
	Delete(id, ownerID uuid.UUID) error
}

type ProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Barcode     string `json:"barcode"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Category    string `json:"category"`
}

type productService struct {
	productRepo repository.ProductRepository
	store       storage.ObjectStore
	hub         *ws.Hub
	log         *zap.Logger
}

func NewProductService(productRepo repository.ProductRepository, store storage.ObjectStore, hub *ws.Hub, log *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		store:       store,
		hub:         hub,
		log:         log,
	}
}

func (s *productService) Add(ownerID uuid.UUID, req *ProductRequest, image []byte, imageExt string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.InvalidInput("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	imageRef := ""
	if image != nil {
		ref, err := s.store.Put(image, imageExt)
		if err != nil {
			return nil, apperr.Upstream("failed to store product image")
		}
		imageRef = ref
	}

	product := &model.Product{
		OwnerID:     ownerID,
		Name:        req.Name,
		Barcode:     req.Barcode, // generated on create when empty
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Image:       imageRef,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(ws.Event{
			Type:    ws.EventStockChanged,
			OwnerID: ownerID.String(),
			Payload: map[string]interface{}{
				"product_id": product.ID,
				"name":       product.Name,
				"stock":      product.Stock,
			},
		})
	}

	return product, nil
}

func (s *productService) GetAll(ownerID uuid.UUID) ([]model.Product, error) {
	return s.productRepo.FindAllByOwner(ownerID)
}

func (s *productService) GetByID(id, ownerID uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		return nil, apperr.NotFound("product not found")
	}
	return product, nil
}

func (s *productService) Update(id, ownerID uuid.UUID, req *ProductRequest, image []byte, imageExt string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.InvalidInput("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	product, err := s.productRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		return nil, apperr.NotFound("product not found")
	}

	if image != nil {
		ref, err := s.store.Put(image, imageExt)
		if err != nil {
			return nil, apperr.Upstream("failed to store product image")
		}
		if product.Image != "" {
			if err := s.store.Delete(product.Image); err != nil {
				s.log.Warn("failed to delete replaced product image", zap.String("ref", product.Image), zap.Error(err))
			}
		}
		product.Image = ref
	}

	oldStock := product.Stock

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	if req.Category != "" {
		product.Category = req.Category
	}
	// Barcode is assigned once at creation and never regenerated; an
	// explicit value may still correct a mislabel.
	if req.Barcode != "" {
		product.Barcode = req.Barcode
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	if s.hub != nil && product.Stock != oldStock {
		s.hub.Publish(ws.Event{
			Type:    ws.EventStockChanged,
			OwnerID: ownerID.String(),
			Payload: map[string]interface{}{
				"product_id": product.ID,
				"name":       product.Name,
				"old_stock":  oldStock,
				"stock":      product.Stock,
			},
		})
	}

	return product, nil
}

func (s *productService) Delete(id, ownerID uuid.UUID) error {
	product, err := s.productRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		return apperr.NotFound("product not found")
	}

	if err := s.productRepo.Delete(id, ownerID); err != nil {
		return apperr.NotFound("product not found")
	}

	if product.Image != "" {
		if err := s.store.Delete(product.Image); err != nil {
			s.log.Warn("failed to delete product image", zap.String("ref", product.Image), zap.Error(err))
		}
	}
	return nil
}
