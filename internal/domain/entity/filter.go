package entity

import (
	"net/url"
	"strconv"
)

// ProductFilter narrows product listings and bulk optimisation.
type ProductFilter struct {
	Name      string   `query:"name"`
	Category  string   `query:"category"`
	MinPrice  *float64 `query:"min_price"`
	MaxPrice  *float64 `query:"max_price"`
	MinRating *float64 `query:"min_rating"`
	MinStock  *int     `query:"min_stock"`
	InStock   *bool    `query:"is_in_stock"`
	Page      int      `query:"page" validate:"gte=0"`
	PageSize  int      `query:"page_size" validate:"gte=0,lte=500"`
}

// Values encodes the set fields as query parameters.
func (f ProductFilter) Values() url.Values {
	values := url.Values{}
	setString(values, "name", f.Name)
	setString(values, "category", f.Category)
	setFloat(values, "min_price", f.MinPrice)
	setFloat(values, "max_price", f.MaxPrice)
	setFloat(values, "min_rating", f.MinRating)
	if f.MinStock != nil {
		values.Set("min_stock", strconv.Itoa(*f.MinStock))
	}
	setBool(values, "is_in_stock", f.InStock)
	setPositive(values, "page", f.Page)
	setPositive(values, "page_size", f.PageSize)

	return values
}

// ProductHistoryFilter narrows product history listings.
type ProductHistoryFilter struct {
	Product     int64  `query:"product"`
	ProductName string `query:"product_name"`
	Category    string `query:"category"`
	StartDate   string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Page        int    `query:"page" validate:"gte=0"`
	PageSize    int    `query:"page_size" validate:"gte=0,lte=500"`
}

// Values encodes the set fields as query parameters.
func (f ProductHistoryFilter) Values() url.Values {
	values := url.Values{}
	if f.Product > 0 {
		values.Set("product", strconv.FormatInt(f.Product, 10))
	}
	setString(values, "product_name", f.ProductName)
	setString(values, "category", f.Category)
	setString(values, "start_date", f.StartDate)
	setString(values, "end_date", f.EndDate)
	setPositive(values, "page", f.Page)
	setPositive(values, "page_size", f.PageSize)

	return values
}

// MarketConditionFilter narrows market condition listings.
type MarketConditionFilter struct {
	Name      string `query:"name"`
	Category  string `query:"category"`
	Trend     Trend  `query:"trend" validate:"omitempty,oneof=up down stable"`
	Active    *bool  `query:"active"`
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Page      int    `query:"page" validate:"gte=0"`
	PageSize  int    `query:"page_size" validate:"gte=0,lte=500"`
}

// Values encodes the set fields as query parameters.
func (f MarketConditionFilter) Values() url.Values {
	values := url.Values{}
	setString(values, "name", f.Name)
	setString(values, "category", f.Category)
	setString(values, "trend", string(f.Trend))
	setBool(values, "active", f.Active)
	setString(values, "start_date", f.StartDate)
	setString(values, "end_date", f.EndDate)
	setPositive(values, "page", f.Page)
	setPositive(values, "page_size", f.PageSize)

	return values
}

func setString(values url.Values, key, v string) {
	if v != "" {
		values.Set(key, v)
	}
}

func setFloat(values url.Values, key string, v *float64) {
	if v != nil {
		values.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}

func setBool(values url.Values, key string, v *bool) {
	if v != nil {
		values.Set(key, strconv.FormatBool(*v))
	}
}

func setPositive(values url.Values, key string, v int) {
	if v > 0 {
		values.Set(key, strconv.Itoa(v))
	}
}
