package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openapiYAML []byte

// LoadOpenAPI parses and validates the embedded API description.
func LoadOpenAPI() (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(openapiYAML)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	return doc, nil
}

// apiDoc serves the API description to echo-swagger through the swag registry.
type apiDoc struct {
	json string
}

func (d apiDoc) ReadDoc() string {
	return d.json
}

var registerDocOnce sync.Once

// registerSwaggerDoc publishes doc as the default swag instance. swag panics on
// duplicate registration, so only the first document is kept.
func registerSwaggerDoc(doc *openapi3.T) error {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode openapi document: %w", err)
	}

	registerDocOnce.Do(func() {
		swag.Register(swag.Name, apiDoc{json: string(raw)})
	})
	return nil
}

// requestValidator rejects requests that do not match the API description.
// Routes the description does not know, such as /health, pass through.
func requestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()

			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
					return next(ctx)
				}
				return err
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return ctx.JSON(http.StatusBadRequest, Error{
					Code:    http.StatusBadRequest,
					Message: validationMessage(err),
				})
			}

			return next(ctx)
		}
	}, nil
}

func validationMessage(err error) string {
	var requestErr *openapi3filter.RequestError
	if !errors.As(err, &requestErr) || requestErr.Parameter == nil {
		return "Invalid request: " + err.Error()
	}

	reason := requestErr.Reason
	var schemaErr *openapi3.SchemaError
	switch {
	case errors.As(requestErr.Err, &schemaErr):
		reason = schemaErr.Reason
	case reason == "" && requestErr.Err != nil:
		reason = requestErr.Err.Error()
	}
	return fmt.Sprintf("Invalid parameter %s: %s", requestErr.Parameter.Name, reason)
}
