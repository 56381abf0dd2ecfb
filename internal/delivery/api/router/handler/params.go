package handler

import (
	"strconv"

	"pricing/internal/domain/entity"
	domainerrors "pricing/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.ErrInvalidInput.WithDetails(name + " must be a positive integer")
	}

	return id, nil
}

// bindBody decodes a JSON body into v.
func bindBody(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return domainerrors.ErrInvalidInput.WithDetails("malformed request body")
	}

	return nil
}

// queryParser records the first malformed query parameter.
type queryParser struct {
	c       echo.Context
	problem error
}

func newQueryParser(c echo.Context) *queryParser {
	return &queryParser{c: c}
}

func (p *queryParser) fail(name string, err error) {
	if p.problem == nil {
		p.problem = errors.Wrapf(err, "query parameter %s", name)
	}
}

// err reports the recorded problem as kind.
func (p *queryParser) err(kind *domainerrors.BaseError) error {
	if p.problem == nil {
		return nil
	}

	return kind.WithDetails(p.problem.Error())
}

func (p *queryParser) string(name string) string {
	return p.c.QueryParam(name)
}

func (p *queryParser) int(name string) int {
	raw := p.c.QueryParam(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(name, err)
	}

	return v
}

func (p *queryParser) int64(name string) int64 {
	raw := p.c.QueryParam(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.fail(name, err)
	}

	return v
}

func (p *queryParser) optionalInt(name string) *int {
	raw := p.c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(name, err)

		return nil
	}

	return &v
}

func (p *queryParser) optionalFloat(name string) *float64 {
	raw := p.c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(name, err)

		return nil
	}

	return &v
}

func (p *queryParser) optionalBool(name string) *bool {
	raw := p.c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(name, err)

		return nil
	}

	return &v
}

func parseProductFilter(c echo.Context) (*entity.ProductFilter, error) {
	q := newQueryParser(c)
	filter := &entity.ProductFilter{
		Name:      q.string("name"),
		Category:  q.string("category"),
		MinPrice:  q.optionalFloat("min_price"),
		MaxPrice:  q.optionalFloat("max_price"),
		MinRating: q.optionalFloat("min_rating"),
		MinStock:  q.optionalInt("min_stock"),
		InStock:   q.optionalBool("is_in_stock"),
		Page:      q.int("page"),
		PageSize:  q.int("page_size"),
	}

	return filter, q.err(domainerrors.ErrInvalidInput)
}

func parseProductHistoryFilter(c echo.Context) (*entity.ProductHistoryFilter, error) {
	q := newQueryParser(c)
	filter := &entity.ProductHistoryFilter{
		Product:     q.int64("product"),
		ProductName: q.string("product_name"),
		Category:    q.string("category"),
		StartDate:   q.string("start_date"),
		EndDate:     q.string("end_date"),
		Page:        q.int("page"),
		PageSize:    q.int("page_size"),
	}

	return filter, q.err(domainerrors.ErrInvalidInput)
}

func parseMarketConditionFilter(c echo.Context) (*entity.MarketConditionFilter, error) {
	q := newQueryParser(c)
	filter := &entity.MarketConditionFilter{
		Name:      q.string("name"),
		Category:  q.string("category"),
		Trend:     entity.Trend(q.string("trend")),
		Active:    q.optionalBool("active"),
		StartDate: q.string("start_date"),
		EndDate:   q.string("end_date"),
		Page:      q.int("page"),
		PageSize:  q.int("page_size"),
	}

	return filter, q.err(domainerrors.ErrInvalidInput)
}

// parseOptimizationParams keeps absent parameters nil so the backend applies its defaults.
func parseOptimizationParams(c echo.Context) (*entity.OptimizationParams, error) {
	q := newQueryParser(c)
	params := &entity.OptimizationParams{
		MarginTarget:     q.optionalFloat("margin_target"),
		PriceSensitivity: q.optionalFloat("price_sensitivity"),
		ConsiderMarket:   q.optionalBool("consider_market"),
	}
	if err := q.err(domainerrors.ErrInvalidOptimizationParams); err != nil {
		return nil, err
	}

	return params, nil
}
