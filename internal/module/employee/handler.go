package employee

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/pkg"
)

// EmployeeHandler handles REST API requests for the employee resource.
type EmployeeHandler struct {
	svc   domain.EmployeeService
	links links
}

// NewEmployeeHandler creates a new EmployeeHandler. apiBase prefixes every
// generated link.
func NewEmployeeHandler(svc domain.EmployeeService, apiBase string) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, links: links{base: strings.TrimRight(apiBase, "/")}}
}

// Create handles POST /employees.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	e, err := h.svc.CreateEmployee(c.Request.Context(), req.toDomain())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, h.links.toResponse(*e))
}

// Get handles GET /employees/:id.
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	e, err := h.svc.GetEmployee(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, h.links.toResponse(*e))
}

// GetByEmail handles GET /employees/email/:email.
func (h *EmployeeHandler) GetByEmail(c *gin.Context) {
	e, err := h.svc.GetEmployeeByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, h.links.toResponse(*e))
}

// List handles GET /employees.
func (h *EmployeeHandler) List(c *gin.Context) {
	params, ok := pkg.BindQueryParams(c)
	if !ok {
		return
	}

	page, err := h.svc.ListEmployees(c.Request.Context(), params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, pkg.NewPaged(page, h.links.toResponse, h.links.collection(), params.LinkParams()))
}

// ListByBranch handles GET /employees/branch/:branchId.
func (h *EmployeeHandler) ListByBranch(c *gin.Context) {
	branchID, err := pkg.ParseID(c, "branchId")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	params, ok := pkg.BindQueryParams(c)
	if !ok {
		return
	}

	page, err := h.svc.ListEmployeesByBranch(c.Request.Context(), branchID, params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	base := h.links.collection() + "/branch/" + strconv.FormatUint(uint64(branchID), 10)
	pkg.List(c, pkg.NewPaged(page, h.links.toResponse, base, params.LinkParams()))
}

// ListByRole handles GET /employees/role/:role.
func (h *EmployeeHandler) ListByRole(c *gin.Context) {
	params, ok := pkg.BindQueryParams(c)
	if !ok {
		return
	}

	role := c.Param("role")
	page, err := h.svc.ListEmployeesByRole(c.Request.Context(), role, params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	base := h.links.collection() + "/role/" + url.PathEscape(role)
	pkg.List(c, pkg.NewPaged(page, h.links.toResponse, base, params.LinkParams()))
}

// Update handles PUT /employees/:id.
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req UpdateEmployeeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	e, err := h.svc.UpdateEmployee(c.Request.Context(), id, req.toDomain())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, h.links.toResponse(*e))
}

// Delete handles DELETE /employees/:id.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteEmployee(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.NoContent(c)
}
