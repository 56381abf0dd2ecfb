package handler

import (
	"log/slog"
	"time"

	"pricing/internal/delivery/api/response"
	"pricing/internal/domain/entity"
	"pricing/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// MarketConditionHandlerParams holds dependencies for MarketConditionHandler, injected by Fx.
type MarketConditionHandlerParams struct {
	fx.In

	MarketConditionUC usecase.MarketConditionUsecase
	Logger            *slog.Logger
}

// MarketConditionHandler serves market conditions.
type MarketConditionHandler struct {
	marketConditionUC usecase.MarketConditionUsecase
	logger            *slog.Logger
	now               func() time.Time
}

// MarketConditionView adds whether the condition applies today, which the backend does not return.
type MarketConditionView struct {
	*entity.MarketCondition
	Active bool `json:"active"`
}

func (h *MarketConditionHandler) view(condition *entity.MarketCondition) MarketConditionView {
	return MarketConditionView{
		MarketCondition: condition,
		Active:          condition.ActiveOn(h.now()),
	}
}

// NewMarketConditionHandler is the constructor for MarketConditionHandler
func NewMarketConditionHandler(params MarketConditionHandlerParams) *MarketConditionHandler {
	return &MarketConditionHandler{
		marketConditionUC: params.MarketConditionUC,
		logger:            params.Logger,
		now:               time.Now,
	}
}

// ListMarketConditions handles GET /market-conditions
func (h *MarketConditionHandler) ListMarketConditions(c echo.Context) error {
	filter, err := parseMarketConditionFilter(c)
	if err != nil {
		return err
	}

	conditions, err := h.marketConditionUC.ListMarketConditions(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	views := make([]MarketConditionView, 0, len(conditions))
	for _, condition := range conditions {
		views = append(views, h.view(condition))
	}

	return response.OK(c, views)
}

// CreateMarketCondition handles POST /market-conditions
func (h *MarketConditionHandler) CreateMarketCondition(c echo.Context) error {
	var input entity.MarketConditionInput
	if err := bindBody(c, &input); err != nil {
		return err
	}

	condition, err := h.marketConditionUC.CreateMarketCondition(c.Request().Context(), &input)
	if err != nil {
		return err
	}

	return response.Created(c, h.view(condition))
}

// UpdateMarketCondition handles PUT /market-conditions/:id
func (h *MarketConditionHandler) UpdateMarketCondition(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var input entity.MarketConditionInput
	if err := bindBody(c, &input); err != nil {
		return err
	}

	condition, err := h.marketConditionUC.UpdateMarketCondition(c.Request().Context(), id, &input)
	if err != nil {
		return err
	}

	return response.OK(c, h.view(condition))
}

// DeleteMarketCondition handles DELETE /market-conditions/:id
func (h *MarketConditionHandler) DeleteMarketCondition(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.marketConditionUC.DeleteMarketCondition(c.Request().Context(), id); err != nil {
		return err
	}

	return response.NoContent(c)
}
