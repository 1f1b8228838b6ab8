package employee

import "github.com/gin-gonic/gin"

// EmployeeModule implements the app.Module interface for the employee domain.
type EmployeeModule struct {
	handler *EmployeeHandler
}

// NewModule creates a new EmployeeModule with the given handler.
// Panics if h is nil.
func NewModule(h *EmployeeHandler) *EmployeeModule {
	if h == nil {
		panic("employee.NewModule: handler must not be nil")
	}
	return &EmployeeModule{handler: h}
}

// RegisterRoutes registers the employee API routes.
func (m *EmployeeModule) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/employees")
	g.GET("", m.handler.List)
	g.POST("", m.handler.Create)
	g.GET("/branch/:branchId", m.handler.ListByBranch)
	g.GET("/email/:email", m.handler.GetByEmail)
	g.GET("/role/:role", m.handler.ListByRole)
	g.GET("/:id", m.handler.Get)
	g.PUT("/:id", m.handler.Update)
	g.DELETE("/:id", m.handler.Delete)
}
