package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CustomerOrdersQueryHandler lists the orders of a customer.
type CustomerOrdersQueryHandler interface {
	Handle(ctx context.Context, query queries.GetCustomerOrdersQuery) ([]queries.OrderSummary, error)
}

// OrderDetailsQueryHandler returns one order with its timeline.
type OrderDetailsQueryHandler interface {
	Handle(ctx context.Context, query queries.GetOrderDetailsQuery) (queries.OrderDetails, error)
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	getCustomerOrdersHandler CustomerOrdersQueryHandler
	getOrderDetailsHandler   OrderDetailsQueryHandler
	logger                   *slog.Logger
}

// NewServer creates a new HTTP server with the required query handlers.
func NewServer(
	getCustomerOrdersHandler CustomerOrdersQueryHandler,
	getOrderDetailsHandler OrderDetailsQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		getCustomerOrdersHandler: getCustomerOrdersHandler,
		getOrderDetailsHandler:   getOrderDetailsHandler,
		logger:                   logger.With("component", "http-server"),
	}
}

// GetOrders handles GET /api/v1/orders - lists the orders of a customer.
func (s *Server) GetOrders(ctx echo.Context, params GetOrdersParams) error {
	query, err := queries.NewGetCustomerOrdersQuery(params.Cpf)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid customer: " + err.Error(),
		})
	}

	summaries, err := s.getCustomerOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.failure(ctx, err, "Failed to retrieve orders")
	}

	response := make([]OrderSummary, len(summaries))
	for i, summary := range summaries {
		response[i] = toOrderSummary(summary)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderDetails handles GET /api/v1/orders/details - returns one order with its timeline.
func (s *Server) GetOrderDetails(ctx echo.Context, params GetOrderDetailsParams) error {
	query, err := queries.NewGetOrderDetailsQuery(params.Cpf, params.Store, params.Order)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order reference: " + err.Error(),
		})
	}

	details, err := s.getOrderDetailsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return s.failure(ctx, err, "Failed to retrieve order details")
	}

	items := make([]OrderItem, len(details.Items))
	for i, item := range details.Items {
		items[i] = OrderItem{
			ItemCode:       item.ItemCode,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		}
	}

	events := make([]TimelineEvent, len(details.Timeline))
	for i, event := range details.Timeline {
		events[i] = TimelineEvent{
			StatusLabel: event.StatusLabel,
			Timestamp:   event.Timestamp.String(),
		}
	}

	return ctx.JSON(http.StatusOK, OrderDetails{
		OrderSummary: toOrderSummary(details.OrderSummary),
		Items:        items,
		Timeline:     events,
	})
}

// failure maps validation errors to 400 and everything else to 500.
func (s *Server) failure(ctx echo.Context, err error, message string) error {
	if isValidationError(err) {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	s.logger.ErrorContext(ctx.Request().Context(), message, "error", err)
	return ctx.JSON(http.StatusInternalServerError, Error{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}

func toOrderSummary(summary queries.OrderSummary) OrderSummary {
	return OrderSummary{
		StoreId:                summary.StoreID,
		OrderId:                summary.OrderID,
		TransactionId:          summary.TransactionID,
		CustomerName:           summary.CustomerName,
		TotalCents:             summary.TotalCents,
		OrderDate:              summary.OrderDate,
		CurrentStatusLabel:     summary.CurrentStatus.DisplayLabel(),
		CurrentStatusTimestamp: summary.CurrentStatus.DisplayTimestamp(),
	}
}
