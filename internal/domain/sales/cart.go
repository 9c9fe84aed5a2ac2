package sales

import (
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CartItemKind tags the two shapes a cart entry can take
type CartItemKind string

const (
	// CartItemBarcoded resolves against the mirrored catalog by barcode.
	CartItemBarcoded CartItemKind = "barcode"
	// CartItemCustom carries its own title and price, off catalog.
	CartItemCustom CartItemKind = "custom"
)

// CartItem is one entry of a point-of-sale cart. It is a tagged variant:
// use BarcodedItem or CustomItem to construct, and switch on Kind to
// resolve.
type CartItem struct {
	kind     CartItemKind
	Barcode  string
	Title    string
	Size     string
	Price    decimal.Decimal
	Quantity int
}

// BarcodedItem builds a catalog-backed cart entry
func BarcodedItem(barcode string, quantity int) CartItem {
	return CartItem{kind: CartItemBarcoded, Barcode: barcode, Quantity: quantity}
}

// CustomItem builds an off-catalog cart entry with a caller-supplied price
func CustomItem(title, size string, price decimal.Decimal, quantity int) CartItem {
	return CartItem{kind: CartItemCustom, Title: title, Size: size, Price: price, Quantity: quantity}
}

// Kind returns the variant tag
func (i CartItem) Kind() CartItemKind {
	return i.kind
}

// DisplayTitle returns the line title, with the size suffix for custom items
func (i CartItem) DisplayTitle() string {
	if i.kind == CartItemCustom && i.Size != "" {
		return i.Title + " - " + i.Size
	}
	return i.Title
}

// Validate checks the invariants of the tagged variant
func (i CartItem) Validate() error {
	if i.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Cart item quantity must be a positive integer")
	}
	switch i.kind {
	case CartItemBarcoded:
		if i.Barcode == "" {
			return shared.NewDomainError("INVALID_BARCODE", "Barcoded cart item requires a barcode")
		}
	case CartItemCustom:
		if i.Title == "" {
			return shared.NewDomainError("INVALID_TITLE", "Custom cart item requires a title")
		}
		if !i.Price.IsPositive() {
			return shared.NewDomainError("INVALID_PRICE", "Custom cart item requires a positive price")
		}
	default:
		return shared.NewDomainError("INVALID_ITEM", "Cart item must be barcoded or custom")
	}
	return nil
}
