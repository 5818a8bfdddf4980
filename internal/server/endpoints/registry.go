package endpoints

import (
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Catalog search
		&SearchEndpoint{},

		// Hand endpoints
		&HandListEndpoint{},
		&AddToHandEndpoint{},
		&RemoveFromHandEndpoint{},
		&AddFromHandEndpoint{},

		// Shelf endpoints
		&ShelfEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	}
}
