package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderSummary defines model for OrderSummary.
type OrderSummary struct {
	StoreId                string `json:"storeId"`
	OrderId                string `json:"orderId"`
	TransactionId          string `json:"transactionId"`
	CustomerName           string `json:"customerName"`
	TotalCents             int64  `json:"totalCents"`
	OrderDate              string `json:"orderDate"`
	CurrentStatusLabel     string `json:"currentStatusLabel"`
	CurrentStatusTimestamp string `json:"currentStatusTimestamp"`
}

// OrderItem defines model for OrderItem.
type OrderItem struct {
	ItemCode       string  `json:"itemCode"`
	ProductName    string  `json:"productName"`
	Quantity       float64 `json:"quantity"`
	UnitPriceCents int64   `json:"unitPriceCents"`
}

// TimelineEvent defines model for TimelineEvent.
type TimelineEvent struct {
	StatusLabel string `json:"statusLabel"`
	Timestamp   string `json:"timestamp"`
}

// OrderDetails defines model for OrderDetails.
type OrderDetails struct {
	OrderSummary
	Items    []OrderItem     `json:"items"`
	Timeline []TimelineEvent `json:"timeline"`
}

// GetOrdersParams defines parameters for GetOrders.
type GetOrdersParams struct {
	Cpf string `form:"cpf" json:"cpf"`
}

// GetOrderDetailsParams defines parameters for GetOrderDetails.
type GetOrderDetailsParams struct {
	Cpf   string `form:"cpf" json:"cpf"`
	Store string `form:"store" json:"store"`
	Order string `form:"order" json:"order"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List the orders of a customer with their current status
	// (GET /api/v1/orders)
	GetOrders(ctx echo.Context, params GetOrdersParams) error
	// Get one order with its items and status timeline
	// (GET /api/v1/orders/details)
	GetOrderDetails(ctx echo.Context, params GetOrderDetailsParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetOrders converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrders(ctx echo.Context) error {
	var params GetOrdersParams

	if err := runtime.BindQueryParameter("form", true, true, "cpf", ctx.QueryParams(), &params.Cpf); err != nil {
		return badParameter("cpf", err)
	}

	return w.Handler.GetOrders(ctx, params)
}

// GetOrderDetails converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrderDetails(ctx echo.Context) error {
	var params GetOrderDetailsParams

	if err := runtime.BindQueryParameter("form", true, true, "cpf", ctx.QueryParams(), &params.Cpf); err != nil {
		return badParameter("cpf", err)
	}
	if err := runtime.BindQueryParameter("form", true, true, "store", ctx.QueryParams(), &params.Store); err != nil {
		return badParameter("store", err)
	}
	if err := runtime.BindQueryParameter("form", true, true, "order", ctx.QueryParams(), &params.Order); err != nil {
		return badParameter("order", err)
	}

	return w.Handler.GetOrderDetails(ctx, params)
}

func badParameter(name string, err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
}

// EchoRouter is the subset of echo routing used by RegisterHandlers.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET("/api/v1/orders", wrapper.GetOrders)
	router.GET("/api/v1/orders/details", wrapper.GetOrderDetails)
}
