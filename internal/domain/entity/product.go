package entity

import "time"

// Product is a catalog entry managed through the pricing API.
type Product struct {
	ProductID      int64        `json:"product_id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	CostPrice      Amount       `json:"cost_price"`
	SellingPrice   Amount       `json:"selling_price"`
	Category       string       `json:"category"`
	StockAvailable int          `json:"stock_available"`
	UnitsSold      int          `json:"units_sold"`
	CustomerRating *Amount      `json:"customer_rating,omitempty"`
	DemandForecast *Amount      `json:"demand_forecast,omitempty"`
	OptimizedPrice *Amount      `json:"optimized_price,omitempty"`
	CreatedBy      *UserSummary `json:"created_by,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Margin is the selling price minus the cost price. It is derived on demand.
func (p *Product) Margin() float64 {
	return p.SellingPrice.Float64() - p.CostPrice.Float64()
}

// MarginRatio is the margin as a fraction of the selling price, zero when the
// product is given away.
func (p *Product) MarginRatio() float64 {
	if p.SellingPrice <= 0 {
		return 0
	}

	return p.Margin() / p.SellingPrice.Float64()
}

// ProductDetail is a product together with its sales history.
type ProductDetail struct {
	Product
	History []ProductHistory `json:"history"`
}

// ProductInput is the writable part of a product used by create and update.
type ProductInput struct {
	Name           string   `json:"name" validate:"required,max=255"`
	Description    string   `json:"description"`
	CostPrice      float64  `json:"cost_price" validate:"gte=0"`
	SellingPrice   float64  `json:"selling_price" validate:"gte=0"`
	Category       string   `json:"category" validate:"required,max=100"`
	StockAvailable int      `json:"stock_available" validate:"gte=0"`
	UnitsSold      int      `json:"units_sold" validate:"gte=0"`
	CustomerRating *float64 `json:"customer_rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}
