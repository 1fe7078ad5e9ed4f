package graphql

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handler serves the single GraphQL endpoint: POST executes operations,
// GET renders an interactive GraphiQL page against the same endpoint.
type Handler struct {
	schema graphql.Schema
	logger zerolog.Logger
}

func NewHandler(schema graphql.Schema, logger zerolog.Logger) *Handler {
	return &Handler{schema: schema, logger: logger}
}

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

type errorMessage struct {
	Message string `json:"message"`
}

type errorsResponse struct {
	Errors []errorMessage `json:"errors"`
}

// Post handles POST /graphql. Execution failures land in the standard
// errors list of a 200 response; only an unreadable request is a 400.
func (h *Handler) Post(c echo.Context) error {
	var req graphqlRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorsResponse{
			Errors: []errorMessage{{Message: "invalid request body"}},
		})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, errorsResponse{
			Errors: []errorMessage{{Message: "query is required"}},
		})
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        c.Request().Context(),
	})

	if result.HasErrors() {
		h.logger.Debug().
			Int("errors", len(result.Errors)).
			Str("operation", req.OperationName).
			Msg("graphql request completed with errors")
	}

	return c.JSON(http.StatusOK, result)
}

// Playground handles GET /graphql.
func (h *Handler) Playground(c echo.Context) error {
	return c.HTML(http.StatusOK, graphiqlPage)
}

const graphiqlPage = `<!DOCTYPE html>
<html>
  <head>
    <title>Friends API — GraphiQL</title>
    <style>
      body { margin: 0; }
      #graphiql { height: 100vh; }
    </style>
    <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
  </head>
  <body>
    <div id="graphiql">Loading…</div>
    <script src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
    <script src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
    <script src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
    <script>
      const fetcher = GraphiQL.createFetcher({ url: '/graphql' });
      ReactDOM.createRoot(document.getElementById('graphiql')).render(
        React.createElement(GraphiQL, { fetcher: fetcher })
      );
    </script>
  </body>
</html>
`
