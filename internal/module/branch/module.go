package branch

import "github.com/gin-gonic/gin"

// BranchModule implements the app.Module interface for the branch domain.
type BranchModule struct {
	handler *BranchHandler
}

// NewModule creates a new BranchModule with the given handler.
// Panics if h is nil.
func NewModule(h *BranchHandler) *BranchModule {
	if h == nil {
		panic("branch.NewModule: handler must not be nil")
	}
	return &BranchModule{handler: h}
}

// RegisterRoutes registers the branch API routes.
func (m *BranchModule) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/branches")
	g.GET("", m.handler.List)
	g.POST("", m.handler.Create)
	g.GET("/city/:city", m.handler.ListByCity)
	g.GET("/state/:state", m.handler.ListByState)
	g.GET("/:id", m.handler.Get)
	g.PUT("/:id", m.handler.Update)
	g.DELETE("/:id", m.handler.Delete)
	g.GET("/:id/details", m.handler.Detail)
	g.GET("/:id/stats", m.handler.Stats)
}
