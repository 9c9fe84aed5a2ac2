package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("cash")
	assert.NoError(t, err)
	assert.Equal(t, PaymentMethodCash, m)

	m, err = ParsePaymentMethod("pos")
	assert.NoError(t, err)
	assert.Equal(t, PaymentMethodPOS, m)

	_, err = ParsePaymentMethod("card")
	assert.Error(t, err)

	_, err = ParsePaymentMethod("")
	assert.Error(t, err)
}

func TestNewOrderLine(t *testing.T) {
	line, err := NewOrderLine(555, "Linen Shirt", 2, decimal.NewFromInt(100), PaymentMethodCash)
	assert.NoError(t, err)
	assert.Equal(t, int64(555), line.ExternalOrderID)
	assert.Equal(t, LineStatusCompleted, line.Status)
	assert.True(t, line.Total().Equal(decimal.NewFromInt(200)))
	assert.Nil(t, line.ProductID)
	assert.Nil(t, line.CustomerID)
}

func TestNewOrderLine_Validation(t *testing.T) {
	_, err := NewOrderLine(0, "Linen Shirt", 1, decimal.NewFromInt(100), PaymentMethodCash)
	assert.Error(t, err)

	_, err = NewOrderLine(555, "", 1, decimal.NewFromInt(100), PaymentMethodCash)
	assert.Error(t, err)

	_, err = NewOrderLine(555, "Linen Shirt", 0, decimal.NewFromInt(100), PaymentMethodCash)
	assert.Error(t, err)

	_, err = NewOrderLine(555, "Linen Shirt", 1, decimal.NewFromInt(-1), PaymentMethodCash)
	assert.Error(t, err)
}

func TestOrderLine_Attach(t *testing.T) {
	line, _ := NewOrderLine(555, "Linen Shirt", 1, decimal.NewFromInt(100), PaymentMethodPOS)

	productID := uuid.New()
	customerID := uuid.New()
	line.AttachProduct(productID, "869000001")
	line.AttachCustomer(customerID)

	assert.Equal(t, productID, *line.ProductID)
	assert.Equal(t, customerID, *line.CustomerID)
	assert.Equal(t, "869000001", line.Barcode)
}

func TestCartItem_Tagged(t *testing.T) {
	b := BarcodedItem("869000001", 2)
	assert.Equal(t, CartItemBarcoded, b.Kind())
	assert.NoError(t, b.Validate())

	c := CustomItem("Custom T-Shirt", "XL", decimal.NewFromInt(150), 1)
	assert.Equal(t, CartItemCustom, c.Kind())
	assert.NoError(t, c.Validate())
	assert.Equal(t, "Custom T-Shirt - XL", c.DisplayTitle())

	noSize := CustomItem("Custom T-Shirt", "", decimal.NewFromInt(150), 1)
	assert.Equal(t, "Custom T-Shirt", noSize.DisplayTitle())
}

func TestCartItem_Validate(t *testing.T) {
	assert.Error(t, BarcodedItem("", 1).Validate())
	assert.Error(t, BarcodedItem("869000001", 0).Validate())
	assert.Error(t, CustomItem("", "XL", decimal.NewFromInt(150), 1).Validate())
	assert.Error(t, CustomItem("Shirt", "", decimal.Zero, 1).Validate())
	assert.Error(t, CartItem{}.Validate())
}
