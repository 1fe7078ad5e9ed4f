package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	gqlapi "github.com/usergraph/friends-api/internal/api/graphql"
	"github.com/usergraph/friends-api/internal/api/handler"
	"github.com/usergraph/friends-api/internal/core/service"
	"github.com/usergraph/friends-api/internal/infrastructure/db/neo4j"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(graph *neo4j.Graph, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	// Permissive cross-origin policy, preflight included; the endpoint is
	// consumed from browser clients on other origins.
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("friendgraph"))

	// --- Dependencies ---
	userService := service.NewUserService(graph, log.With().Str("component", "user_service").Logger())
	relationshipService := service.NewRelationshipService(graph, log.With().Str("component", "relationship_service").Logger())

	schema, err := gqlapi.NewSchema(userService, relationshipService, log.With().Str("component", "graphql").Logger())
	if err != nil {
		return nil, err
	}
	gqlHandler := gqlapi.NewHandler(schema, log.With().Str("component", "graphql").Logger())

	// --- GraphQL endpoint ---
	e.POST("/graphql", gqlHandler.Post)
	e.GET("/graphql", gqlHandler.Playground)

	// --- Health probes & metrics ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(graph)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – is the database up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
