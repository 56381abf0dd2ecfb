package handler

import (
	"log/slog"
	"net/http"
	"time"

	"pricing/internal/delivery/api/response"
	"pricing/internal/domain/entity"
	"pricing/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ProductHandlerParams holds dependencies for ProductHandler, injected by Fx.
type ProductHandlerParams struct {
	fx.In

	ProductUC      usecase.ProductUsecase
	HistoryUC      usecase.ProductHistoryUsecase
	OptimizationUC usecase.OptimizationUsecase
	Logger         *slog.Logger
}

// ProductHandler serves the catalog, its sales history and the optimisation views.
type ProductHandler struct {
	productUC      usecase.ProductUsecase
	historyUC      usecase.ProductHistoryUsecase
	optimizationUC usecase.OptimizationUsecase
	logger         *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler
func NewProductHandler(params ProductHandlerParams) *ProductHandler {
	return &ProductHandler{
		productUC:      params.ProductUC,
		historyUC:      params.HistoryUC,
		optimizationUC: params.OptimizationUC,
		logger:         params.Logger,
	}
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(c echo.Context) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return err
	}

	products, err := h.productUC.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return response.OK(c, products)
}

// WatchProducts handles GET /products/watch as a server-sent event stream.
// Every state of the filtered list is sent as a "products" event. The stream
// ends when the client leaves or the session ends and the cache is dropped.
func (h *ProductHandler) WatchProducts(c echo.Context) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	states := make(chan *entity.ProductListState, 1)
	unsubscribe, err := h.productUC.WatchProducts(ctx, filter, func(state *entity.ProductListState) {
		offerLatest(states, state)
	})
	if err != nil {
		return err
	}
	defer unsubscribe()

	res := c.Response()
	// Streams are not bound by the server write timeout.
	_ = http.NewResponseController(res).SetWriteDeadline(time.Time{})
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case state := <-states:
			if err := writeEvent(res, "products", state); err != nil {
				return err
			}
			res.Flush()

			if state.Status == entity.QueryStatusUninitialized {
				h.logger.DebugContext(ctx, "Product stream closed by cache reset")

				return nil
			}
		}
	}
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, product)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var input entity.ProductInput
	if err := bindBody(c, &input); err != nil {
		return err
	}

	product, err := h.productUC.CreateProduct(c.Request().Context(), &input)
	if err != nil {
		return err
	}

	return response.Created(c, product)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var input entity.ProductInput
	if err := bindBody(c, &input); err != nil {
		return err
	}

	product, err := h.productUC.UpdateProduct(c.Request().Context(), id, &input)
	if err != nil {
		return err
	}

	return response.OK(c, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.productUC.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}

	return response.NoContent(c)
}

// GetDemandForecast handles GET /products/:id/forecast
func (h *ProductHandler) GetDemandForecast(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	forecast, err := h.optimizationUC.GetDemandForecast(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, forecast)
}

// OptimizePrice handles GET /products/:id/optimize
func (h *ProductHandler) OptimizePrice(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	params, err := parseOptimizationParams(c)
	if err != nil {
		return err
	}

	result, err := h.optimizationUC.OptimizePrice(c.Request().Context(), id, params)
	if err != nil {
		return err
	}

	return response.OK(c, result)
}

// BulkOptimizePrices handles GET /products/bulk-optimize
func (h *ProductHandler) BulkOptimizePrices(c echo.Context) error {
	params, err := parseOptimizationParams(c)
	if err != nil {
		return err
	}
	filter, err := parseProductFilter(c)
	if err != nil {
		return err
	}

	products, err := h.optimizationUC.BulkOptimizePrices(c.Request().Context(), params, filter)
	if err != nil {
		return err
	}

	return response.OK(c, products)
}

// GetVisualizationData handles GET /products/:id/visualization
func (h *ProductHandler) GetVisualizationData(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	data, err := h.optimizationUC.GetVisualizationData(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, data)
}

// ListOptimizationLogs handles GET /optimization-logs
func (h *ProductHandler) ListOptimizationLogs(c echo.Context) error {
	logs, err := h.optimizationUC.ListOptimizationLogs(c.Request().Context())
	if err != nil {
		return err
	}

	return response.OK(c, logs)
}

// ListProductHistory handles GET /product-history
func (h *ProductHandler) ListProductHistory(c echo.Context) error {
	filter, err := parseProductHistoryFilter(c)
	if err != nil {
		return err
	}

	history, err := h.historyUC.ListProductHistory(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return response.OK(c, history)
}

// CreateProductHistory handles POST /product-history
func (h *ProductHandler) CreateProductHistory(c echo.Context) error {
	var input entity.ProductHistoryInput
	if err := bindBody(c, &input); err != nil {
		return err
	}

	record, err := h.historyUC.CreateProductHistory(c.Request().Context(), &input)
	if err != nil {
		return err
	}

	return response.Created(c, record)
}

// DeleteProductHistory handles DELETE /product-history/:id
func (h *ProductHandler) DeleteProductHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.historyUC.DeleteProductHistory(c.Request().Context(), id); err != nil {
		return err
	}

	return response.NoContent(c)
}
