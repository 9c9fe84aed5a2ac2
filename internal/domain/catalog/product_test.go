package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(1001, 2001, "Linen Shirt", "869000001")
	assert.NoError(t, err)
	assert.Equal(t, int64(1001), p.ExternalVariantID)
	assert.Equal(t, int64(2001), p.ExternalProductID)
	assert.Equal(t, "Linen Shirt", p.Title)
	assert.Equal(t, "869000001", p.Barcode)
	assert.True(t, p.Price.IsZero())
	assert.NotEqual(t, p.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestNewProduct_Validation(t *testing.T) {
	_, err := NewProduct(0, 2001, "Linen Shirt", "869000001")
	assert.Error(t, err)

	_, err = NewProduct(1001, 2001, "", "869000001")
	assert.Error(t, err)

	_, err = NewProduct(1001, 2001, "Linen Shirt", "")
	assert.Error(t, err)
}

func TestProduct_ApplyRemote(t *testing.T) {
	p, err := NewProduct(1001, 2001, "Linen Shirt", "869000001")
	assert.NoError(t, err)
	id := p.ID

	price := decimal.NewFromFloat(249.90)
	p.ApplyRemote("Linen Shirt v2", "SKU-1", "869000002", "XL", "https://cdn/img.png", price, 7)

	assert.Equal(t, id, p.ID, "local identity must survive remote updates")
	assert.Equal(t, "Linen Shirt v2", p.Title)
	assert.Equal(t, "869000002", p.Barcode)
	assert.True(t, price.Equal(p.Price))
	assert.Equal(t, 7, p.InventoryQuantity)
	assert.True(t, p.InStock())
}

func TestProduct_ApplyRemote_Idempotent(t *testing.T) {
	p, _ := NewProduct(1001, 2001, "Linen Shirt", "869000001")
	price := decimal.NewFromFloat(100)

	p.ApplyRemote("Linen Shirt", "SKU-1", "869000001", "M", "", price, 3)
	first := *p
	p.ApplyRemote("Linen Shirt", "SKU-1", "869000001", "M", "", price, 3)

	assert.Equal(t, first.Title, p.Title)
	assert.Equal(t, first.Barcode, p.Barcode)
	assert.Equal(t, first.InventoryQuantity, p.InventoryQuantity)
	assert.True(t, first.Price.Equal(p.Price))
}

func TestProduct_SetInventory(t *testing.T) {
	p, _ := NewProduct(1001, 2001, "Linen Shirt", "869000001")
	assert.False(t, p.InStock())

	p.SetInventory(5)
	assert.True(t, p.InStock())

	p.SetInventory(0)
	assert.False(t, p.InStock())
}
