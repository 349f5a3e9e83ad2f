package product

import (
	"github.com/shopspring/decimal"

	"github.com/tressahealth/moneyback/internal/types"
)

// Product is a catalogue item sold as part of a treatment kit.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
	types.BaseModel
}
