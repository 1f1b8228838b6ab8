package vehicle

import "github.com/gin-gonic/gin"

// VehicleModule implements the app.Module interface for the vehicle domain.
type VehicleModule struct {
	handler *VehicleHandler
}

// NewModule creates a new VehicleModule with the given handler.
// Panics if h is nil.
func NewModule(h *VehicleHandler) *VehicleModule {
	if h == nil {
		panic("vehicle.NewModule: handler must not be nil")
	}
	return &VehicleModule{handler: h}
}

// RegisterRoutes registers the vehicle API routes.
func (m *VehicleModule) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/vehicles")
	g.GET("", m.handler.List)
	g.POST("", m.handler.Create)
	g.GET("/branch/:branchId", m.handler.ListByBranch)
	g.GET("/plate/:plate", m.handler.GetByPlate)
	g.GET("/brand/:brand", m.handler.ListByBrand)
	g.GET("/year/:year", m.handler.ListByYear)
	g.GET("/odometer", m.handler.ListByOdometer)
	g.GET("/:id", m.handler.Get)
	g.PUT("/:id", m.handler.Update)
	g.DELETE("/:id", m.handler.Delete)
}
