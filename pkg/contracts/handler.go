package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every HTTP handler that owns routes.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
