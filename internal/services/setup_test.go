package services_test

import (
	"fmt"
	"strings"
	"testing"

	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database and migrates the full
// schema. Each test gets its own database, named after the test, so tests
// never see each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ReturnRequest{},
	))
	return db
}

func newOrderService(db *gorm.DB) *services.OrderService {
	return services.NewOrderService(
		repositories.NewGORMTxManager(db),
		repositories.NewGORMOrderRepository(db),
		repositories.NewGORMProductRepository(db),
		nil,
		nil,
	)
}

func createUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.New().String(),
		Email:     uuid.New().String() + "@example.com",
		Password:  "hashed",
		Role:      role,
		FirstName: "Test",
		LastName:  "User",
		IsActive:  true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createAddress(t *testing.T, db *gorm.DB, userID string) *models.Address {
	t.Helper()
	address := &models.Address{
		ID:           uuid.New().String(),
		UserID:       userID,
		FirstName:    "Test",
		LastName:     "Buyer",
		Phone:        "9999999999",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		PostalCode:   "560001",
		Country:      "India",
	}
	require.NoError(t, db.Create(address).Error)
	return address
}

func createProduct(t *testing.T, db *gorm.DB, sellerID string, price, discountPrice float64, stock int) *models.Product {
	t.Helper()
	id := uuid.New().String()
	product := &models.Product{
		ID:            id,
		SellerID:      sellerID,
		Name:          "Product " + id[:8],
		Slug:          "product-" + id,
		SKU:           "SKU-" + id,
		Brand:         "Acme",
		Description:   "A sturdy test product with a long enough description.",
		Price:         price,
		DiscountPrice: discountPrice,
		StockQuantity: stock,
		Status:        models.ProductStatusActive,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createVariant(t *testing.T, db *gorm.DB, productID string, adjustment float64, stock int) *models.ProductVariant {
	t.Helper()
	id := uuid.New().String()
	variant := &models.ProductVariant{
		ID:              id,
		ProductID:       productID,
		Size:            "M",
		Color:           "Blue",
		ColorCode:       "#0000FF",
		SKU:             "VAR-" + id,
		PriceAdjustment: adjustment,
		StockQuantity:   stock,
		IsActive:        true,
	}
	require.NoError(t, db.Create(variant).Error)
	return variant
}

// checkout is shorthand for a single-line order against a fresh address.
func checkout(t *testing.T, db *gorm.DB, svc *services.OrderService, buyerID string, lines ...services.OrderLineInput) *models.Order {
	t.Helper()
	address := createAddress(t, db, buyerID)
	order, err := svc.CreateOrder(services.CreateOrderInput{
		BuyerID:           buyerID,
		Items:             lines,
		ShippingAddressID: address.ID,
		PaymentMethod:     models.PaymentMethodCard,
	})
	require.NoError(t, err)
	return order
}

func reloadProduct(t *testing.T, db *gorm.DB, id string) *models.Product {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return &product
}

func reloadVariant(t *testing.T, db *gorm.DB, id string) *models.ProductVariant {
	t.Helper()
	var variant models.ProductVariant
	require.NoError(t, db.First(&variant, "id = ?", id).Error)
	return &variant
}
