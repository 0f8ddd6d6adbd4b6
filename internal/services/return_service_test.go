package services_test

import (
	"testing"

	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReturnService(db *gorm.DB) *services.ReturnService {
	return services.NewReturnService(
		repositories.NewGORMReturnRepository(db),
		repositories.NewGORMOrderRepository(db),
		repositories.NewGORMProductRepository(db),
	)
}

// deliveredOrder checks out one line and walks the order to delivered.
func deliveredOrder(t *testing.T, db *gorm.DB, buyerID, sellerID, productID string) *models.Order {
	t.Helper()
	svc := newOrderService(db)
	order := checkout(t, db, svc, buyerID, services.OrderLineInput{ProductID: productID, Quantity: 2})
	for _, status := range []string{models.OrderStatusConfirmed, models.OrderStatusShipped, models.OrderStatusDelivered} {
		var err error
		order, err = svc.UpdateStatus(services.UpdateStatusInput{
			OrderID: order.ID, ActorID: sellerID, ActorRole: models.RoleSeller, Status: status,
		})
		require.NoError(t, err)
	}
	return order
}

func TestRequestReturn_RefundsSnapshotPrice(t *testing.T) {
	db := newTestDB(t)
	svc := newReturnService(db)
	buyer := createUser(t, db, models.RoleBuyer)
	seller := createUser(t, db, models.RoleSeller)
	product := createProduct(t, db, seller.ID, 100, 90, 10)
	order := deliveredOrder(t, db, buyer.ID, seller.ID, product.ID)

	request, err := svc.RequestReturn(buyer.ID, order.ID, order.Items[0].ID, "arrived damaged on delivery")
	require.NoError(t, err)
	assert.Equal(t, models.ReturnStatusRequested, request.Status)
	// Refund is the item snapshot's total (2 * discounted 90), even if the
	// catalog price changes later.
	assert.InDelta(t, 180.0, request.RefundAmount, 0.001)
}

func TestRequestReturn_OnlyDeliveredOrders(t *testing.T) {
	db := newTestDB(t)
	svc := newReturnService(db)
	buyer := createUser(t, db, models.RoleBuyer)
	seller := createUser(t, db, models.RoleSeller)
	product := createProduct(t, db, seller.ID, 100, 0, 10)
	order := checkout(t, db, newOrderService(db), buyer.ID,
		services.OrderLineInput{ProductID: product.ID, Quantity: 1})

	_, err := svc.RequestReturn(buyer.ID, order.ID, order.Items[0].ID, "no longer needed, sorry")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "delivered")
}

func TestRequestReturn_BuyerScoped(t *testing.T) {
	db := newTestDB(t)
	svc := newReturnService(db)
	buyer := createUser(t, db, models.RoleBuyer)
	stranger := createUser(t, db, models.RoleBuyer)
	seller := createUser(t, db, models.RoleSeller)
	product := createProduct(t, db, seller.ID, 100, 0, 10)
	order := deliveredOrder(t, db, buyer.ID, seller.ID, product.ID)

	_, err := svc.RequestReturn(stranger.ID, order.ID, order.Items[0].ID, "this is not even my order")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestUpdateReturnStatus_SellerOwnsItem(t *testing.T) {
	db := newTestDB(t)
	svc := newReturnService(db)
	buyer := createUser(t, db, models.RoleBuyer)
	seller := createUser(t, db, models.RoleSeller)
	otherSeller := createUser(t, db, models.RoleSeller)
	product := createProduct(t, db, seller.ID, 100, 0, 10)
	order := deliveredOrder(t, db, buyer.ID, seller.ID, product.ID)

	request, err := svc.RequestReturn(buyer.ID, order.ID, order.Items[0].ID, "arrived damaged on delivery")
	require.NoError(t, err)

	_, err = svc.UpdateReturnStatus(request.ID, otherSeller.ID, models.RoleSeller, models.ReturnStatusApproved)
	assert.ErrorIs(t, err, services.ErrForbidden)

	approved, err := svc.UpdateReturnStatus(request.ID, seller.ID, models.RoleSeller, models.ReturnStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ReturnStatusApproved, approved.Status)

	_, err = svc.UpdateReturnStatus(request.ID, seller.ID, models.RoleSeller, "shredded")
	assert.Error(t, err)
}
