package services

import (
	"errors"
	"fmt"

	"bazaar/internal/models"
	"bazaar/internal/repositories"

	"gorm.io/gorm"
)

// ReturnService handles the return/refund workflow built on delivered
// orders. It references OrderItem snapshots and never touches stock.
type ReturnService struct {
	returnRepo  repositories.ReturnRepository
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
}

// NewReturnService creates a new ReturnService.
func NewReturnService(returnRepo repositories.ReturnRepository, orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository) *ReturnService {
	return &ReturnService{
		returnRepo:  returnRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// RequestReturn files a return for one item of the buyer's delivered order.
// The refund amount is the item snapshot's total price.
func (s *ReturnService) RequestReturn(buyerID, orderID, orderItemID, reason string) (*models.ReturnRequest, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, ErrOrderNotFound
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, fmt.Errorf("only delivered orders can be returned")
	}

	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == orderItemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("order item with ID %s not found", orderItemID)
	}

	request := &models.ReturnRequest{
		OrderID:      orderID,
		OrderItemID:  orderItemID,
		BuyerID:      buyerID,
		Reason:       reason,
		Status:       models.ReturnStatusRequested,
		RefundAmount: item.TotalPrice,
	}
	if err := s.returnRepo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

// GetBuyerReturns lists the buyer's return requests.
func (s *ReturnService) GetBuyerReturns(buyerID string) ([]models.ReturnRequest, error) {
	return s.returnRepo.ListByBuyer(buyerID)
}

// UpdateReturnStatus moves a return request through its simple state field.
// Sellers may only act on returns for items they sold; admins on any.
func (s *ReturnService) UpdateReturnStatus(requestID, actorID, actorRole, status string) (*models.ReturnRequest, error) {
	switch status {
	case models.ReturnStatusApproved, models.ReturnStatusRejected, models.ReturnStatusRefunded:
	default:
		return nil, fmt.Errorf("invalid return status: %s", status)
	}

	request, err := s.returnRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}

	if actorRole != models.RoleAdmin {
		order, err := s.orderRepo.GetByID(request.OrderID)
		if err != nil {
			return nil, err
		}
		owns := false
		for _, item := range order.Items {
			if item.ID != request.OrderItemID {
				continue
			}
			product, err := s.productRepo.GetByID(item.ProductID)
			if err == nil && product.SellerID == actorID {
				owns = true
			}
		}
		if !owns {
			return nil, ErrForbidden
		}
	}

	request.Status = status
	if err := s.returnRepo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}
