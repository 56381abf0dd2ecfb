package entity

import "time"

// ProductHistory is one monthly sales row for a product. Rows are append-only.
type ProductHistory struct {
	HistoryID    int64     `json:"history_id"`
	Product      int64     `json:"product"`
	Month        string    `json:"month"`
	UnitsSold    int       `json:"units_sold"`
	SellingPrice Amount    `json:"selling_price"`
	CostPrice    Amount    `json:"cost_price"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductHistoryInput is the payload for recording a month of sales.
type ProductHistoryInput struct {
	Product      int64   `json:"product" validate:"required,gt=0"`
	Month        string  `json:"month" validate:"required,datetime=2006-01-02"`
	UnitsSold    int     `json:"units_sold" validate:"gte=0"`
	SellingPrice float64 `json:"selling_price" validate:"gte=0"`
	CostPrice    float64 `json:"cost_price" validate:"gte=0"`
}
