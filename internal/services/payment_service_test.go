package services_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"
	"bazaar/pkg/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentService(db *gorm.DB, gateway *payments.Client) *services.PaymentService {
	return services.NewPaymentService(repositories.NewGORMOrderRepository(db), gateway, nil)
}

// placeOrder creates a minimal persisted order for payment tests.
func placeOrder(t *testing.T, db *gorm.DB, buyerID string) *models.Order {
	t.Helper()
	svc := newOrderService(db)
	seller := createUser(t, db, models.RoleSeller)
	product := createProduct(t, db, seller.ID, 100, 0, 10)
	return checkout(t, db, svc, buyerID, services.OrderLineInput{ProductID: product.ID, Quantity: 1})
}

func TestCreatePaymentLink_StoresLinkOnOrder(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, models.RoleBuyer)
	order := placeOrder(t, db, buyer.ID)

	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/links", r.URL.Path)
		var req payments.LinkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, fmt.Sprintf("%.2f", order.TotalAmount), req.Amount)

		json.NewEncoder(w).Encode(payments.LinkResponse{
			LinkID:  "link_abc123",
			LinkURL: "https://pay.example.com/link_abc123",
			Status:  "ACTIVE",
		})
	}))
	defer gatewayServer.Close()

	svc := newPaymentService(db, payments.NewClient(payments.Config{BaseURL: gatewayServer.URL}))

	link, err := svc.CreatePaymentLink(order.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, "link_abc123", link.LinkID)

	var after models.Order
	require.NoError(t, db.First(&after, "id = ?", order.ID).Error)
	assert.Equal(t, "link_abc123", after.PaymentLinkID)
	assert.Equal(t, "https://pay.example.com/link_abc123", after.PaymentLinkURL)
}

func TestCreatePaymentLink_OnlyOwningBuyer(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, models.RoleBuyer)
	stranger := createUser(t, db, models.RoleBuyer)
	order := placeOrder(t, db, buyer.ID)

	svc := newPaymentService(db, payments.NewClient(payments.Config{BaseURL: "http://localhost:0"}))

	_, err := svc.CreatePaymentLink(order.ID, stranger.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func setPaymentLink(t *testing.T, db *gorm.DB, orderID, linkID string) {
	t.Helper()
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", orderID).
		UpdateColumn("payment_link_id", linkID).Error)
}

func paymentStatusOf(t *testing.T, db *gorm.DB, orderID string) string {
	t.Helper()
	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", orderID).Error)
	return order.PaymentStatus
}

func TestHandleWebhook_MapsProviderStatuses(t *testing.T) {
	cases := []struct {
		provider string
		want     string
	}{
		{"PAID", models.PaymentStatusPaid},
		{"SUCCESS", models.PaymentStatusPaid},
		{"PARTIALLY_PAID", models.PaymentStatusPartial},
		{"FAILED", models.PaymentStatusFailed},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			db := newTestDB(t)
			buyer := createUser(t, db, models.RoleBuyer)
			order := placeOrder(t, db, buyer.ID)
			setPaymentLink(t, db, order.ID, "link_1")

			svc := newPaymentService(db, nil)
			body := fmt.Sprintf(`{"event":"link.updated","data":{"link_id":"link_1","link_status":%q}}`, tc.provider)
			require.NoError(t, svc.HandleWebhook([]byte(body), "", ""))

			assert.Equal(t, tc.want, paymentStatusOf(t, db, order.ID))
		})
	}
}

func TestHandleWebhook_NestedPayloadShapes(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, models.RoleBuyer)
	order := placeOrder(t, db, buyer.ID)
	setPaymentLink(t, db, order.ID, "link_nested")

	svc := newPaymentService(db, nil)

	// Link id under data.link and status under data.order.
	body := `{"type":"PAYMENT_LINK_EVENT","data":{"link":{"link_id":"link_nested"},"order":{"transaction_status":"SUCCESS"}}}`
	require.NoError(t, svc.HandleWebhook([]byte(body), "", ""))
	assert.Equal(t, models.PaymentStatusPaid, paymentStatusOf(t, db, order.ID))
}

func TestHandleWebhook_IgnoresUnusablePayloads(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, models.RoleBuyer)
	order := placeOrder(t, db, buyer.ID)
	setPaymentLink(t, db, order.ID, "link_known")

	svc := newPaymentService(db, nil)

	// All of these acknowledge without touching the order: garbage JSON,
	// a missing link id, an unknown link id, an unknown provider status.
	payloads := [][]byte{
		[]byte(`{{{not json`),
		[]byte(`{"event":"link.updated","data":{"link_status":"PAID"}}`),
		[]byte(`{"event":"link.updated","data":{"link_id":"link_unknown","link_status":"PAID"}}`),
		[]byte(`{"event":"link.updated","data":{"link_id":"link_known","link_status":"EXPIRED"}}`),
	}
	for _, payload := range payloads {
		require.NoError(t, svc.HandleWebhook(payload, "", ""))
	}
	assert.Equal(t, models.PaymentStatusPending, paymentStatusOf(t, db, order.ID))
}

func TestHandleWebhook_RedeliveryIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, models.RoleBuyer)
	order := placeOrder(t, db, buyer.ID)
	setPaymentLink(t, db, order.ID, "link_redelivered")

	svc := newPaymentService(db, nil)
	body := []byte(`{"event":"link.updated","data":{"link_id":"link_redelivered","link_status":"PAID"}}`)

	require.NoError(t, svc.HandleWebhook(body, "", ""))
	require.NoError(t, svc.HandleWebhook(body, "", ""))
	assert.Equal(t, models.PaymentStatusPaid, paymentStatusOf(t, db, order.ID))
}

func TestHandleWebhook_DoesNotTouchOrderStatusOrStock(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, models.RoleBuyer)
	svc := newOrderService(db)
	seller := createUser(t, db, models.RoleSeller)
	product := createProduct(t, db, seller.ID, 100, 0, 10)
	order := checkout(t, db, svc, buyer.ID, services.OrderLineInput{ProductID: product.ID, Quantity: 2})
	setPaymentLink(t, db, order.ID, "link_isolated")

	paySvc := newPaymentService(db, nil)
	body := []byte(`{"event":"link.updated","data":{"link_id":"link_isolated","link_status":"FAILED"}}`)
	require.NoError(t, paySvc.HandleWebhook(body, "", ""))

	var after models.Order
	require.NoError(t, db.First(&after, "id = ?", order.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, after.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, after.Status)
	assert.Equal(t, 8, reloadProduct(t, db, product.ID).StockQuantity)
}
