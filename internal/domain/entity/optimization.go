package entity

import (
	"net/url"
	"strconv"
	"time"
)

// Backend defaults applied when an optimisation parameter is not sent.
const (
	DefaultMarginTarget     = 0.3
	DefaultPriceSensitivity = 1.0
	DefaultConsiderMarket   = true
)

// OptimizationParams tunes a price optimisation run. A nil field is never
// sent, so the backend applies its own default rather than an explicit override.
type OptimizationParams struct {
	MarginTarget     *float64 `json:"margin_target,omitempty" query:"margin_target" validate:"omitempty,gte=0,lte=1"`
	PriceSensitivity *float64 `json:"price_sensitivity,omitempty" query:"price_sensitivity" validate:"omitempty,gt=0"`
	ConsiderMarket   *bool    `json:"consider_market,omitempty" query:"consider_market"`
}

// Values encodes only the explicitly set parameters.
func (p OptimizationParams) Values() url.Values {
	values := url.Values{}
	if p.MarginTarget != nil {
		values.Set("margin_target", strconv.FormatFloat(*p.MarginTarget, 'f', -1, 64))
	}
	if p.PriceSensitivity != nil {
		values.Set("price_sensitivity", strconv.FormatFloat(*p.PriceSensitivity, 'f', -1, 64))
	}
	if p.ConsiderMarket != nil {
		values.Set("consider_market", strconv.FormatBool(*p.ConsiderMarket))
	}

	return values
}

// Effective resolves the parameters the backend will actually use.
func (p OptimizationParams) Effective() AppliedOptimizationParams {
	applied := AppliedOptimizationParams{
		MarginTarget:     DefaultMarginTarget,
		PriceSensitivity: DefaultPriceSensitivity,
		ConsiderMarket:   DefaultConsiderMarket,
	}
	if p.MarginTarget != nil {
		applied.MarginTarget = *p.MarginTarget
	}
	if p.PriceSensitivity != nil {
		applied.PriceSensitivity = *p.PriceSensitivity
	}
	if p.ConsiderMarket != nil {
		applied.ConsiderMarket = *p.ConsiderMarket
	}

	return applied
}

// AppliedOptimizationParams is the fully resolved parameter set recorded on a log.
type AppliedOptimizationParams struct {
	MarginTarget     float64 `json:"margin_target"`
	PriceSensitivity float64 `json:"price_sensitivity"`
	ConsiderMarket   bool    `json:"consider_market"`
}

// OptimizationLog is the immutable record of one optimisation run.
type OptimizationLog struct {
	LogID                  int64                     `json:"log_id"`
	Product                Product                   `json:"product"`
	OriginalPrice          Amount                    `json:"original_price"`
	OptimizedPrice         Amount                    `json:"optimized_price"`
	DemandForecast         Amount                    `json:"demand_forecast"`
	OptimizationParameters AppliedOptimizationParams `json:"optimization_parameters"`
	RunBy                  *UserSummary              `json:"run_by"`
	CreatedAt              time.Time                 `json:"created_at"`
}

// PriceOptimization is the suggested price for one product.
type PriceOptimization struct {
	ProductID      int64  `json:"product_id"`
	ProductName    string `json:"product_name"`
	CurrentPrice   Amount `json:"current_price"`
	OptimizedPrice Amount `json:"optimized_price"`
}

// DemandForecast is the forecast unit demand for one product.
type DemandForecast struct {
	ProductID      int64  `json:"product_id"`
	DemandForecast Amount `json:"demand_forecast"`
}

// VisualizationData feeds the demand and price charts of a product.
type VisualizationData struct {
	ProductID      int64                  `json:"product_id"`
	ProductName    string                 `json:"product_name"`
	HistoricalData []HistoricalPricePoint `json:"historical_data"`
	DemandCurve    []DemandCurvePoint     `json:"demand_curve"`
	CurrentPrice   Amount                 `json:"current_price"`
	ForecastDemand Amount                 `json:"forecasted_demand"`
}

// HistoricalPricePoint is one month of observed price and volume.
type HistoricalPricePoint struct {
	Date         string `json:"date"`
	SellingPrice Amount `json:"selling_price"`
	UnitsSold    int    `json:"units_sold"`
}

// DemandCurvePoint is one point of the modelled price/demand curve.
type DemandCurvePoint struct {
	Price  Amount `json:"price"`
	Demand Amount `json:"demand"`
}
