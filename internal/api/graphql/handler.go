package graphql

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"

	"github.com/accountsvc/user-service/internal/core/token"
)

// Handler serves POST /graphql. Authentication here is optional: a missing or
// invalid bearer token yields an anonymous context, and the guards inside the
// resolvers decide what that context may do.
type Handler struct {
	schema graphql.Schema
	codec  *token.Codec
}

func NewHandler(schema graphql.Schema, codec *token.Codec) *Handler {
	return &Handler{schema: schema, codec: codec}
}

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func (h *Handler) Serve(c echo.Context) error {
	var req graphqlRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid graphql request")
	}

	ctx := c.Request().Context()
	if raw, ok := token.ExtractFromHeader(c.Request().Header.Get("Authorization")); ok {
		if claims, err := h.codec.Verify(raw); err == nil {
			ctx = WithClaims(ctx, claims)
		}
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})

	return c.JSON(http.StatusOK, result)
}
