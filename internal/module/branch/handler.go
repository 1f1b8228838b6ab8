package branch

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/pkg"
)

// BranchHandler handles REST API requests for the branch resource.
type BranchHandler struct {
	svc   domain.BranchService
	links links
}

// NewBranchHandler creates a new BranchHandler. apiBase prefixes every
// generated link, e.g. "/api/v1" or "https://fleet.example.com/api/v1".
func NewBranchHandler(svc domain.BranchService, apiBase string) *BranchHandler {
	return &BranchHandler{svc: svc, links: links{base: strings.TrimRight(apiBase, "/")}}
}

// Create handles POST /branches.
func (h *BranchHandler) Create(c *gin.Context) {
	var req CreateBranchRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	branch, err := h.svc.CreateBranch(c.Request.Context(), req.toDomain())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, h.links.toResponse(*branch))
}

// Get handles GET /branches/:id.
func (h *BranchHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	branch, err := h.svc.GetBranch(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, h.links.toResponse(*branch))
}

// List handles GET /branches.
func (h *BranchHandler) List(c *gin.Context) {
	params, ok := pkg.BindQueryParams(c)
	if !ok {
		return
	}

	page, err := h.svc.ListBranches(c.Request.Context(), params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, pkg.NewPaged(page, h.links.toResponse, h.links.collection(), params.LinkParams()))
}

// ListByCity handles GET /branches/city/:city.
func (h *BranchHandler) ListByCity(c *gin.Context) {
	params, ok := pkg.BindQueryParams(c)
	if !ok {
		return
	}

	city := c.Param("city")
	page, err := h.svc.ListBranchesByCity(c.Request.Context(), city, params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	base := h.links.collection() + "/city/" + url.PathEscape(city)
	pkg.List(c, pkg.NewPaged(page, h.links.toResponse, base, params.LinkParams()))
}

// ListByState handles GET /branches/state/:state.
func (h *BranchHandler) ListByState(c *gin.Context) {
	params, ok := pkg.BindQueryParams(c)
	if !ok {
		return
	}

	state := strings.ToUpper(c.Param("state"))
	page, err := h.svc.ListBranchesByState(c.Request.Context(), state, params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	base := h.links.collection() + "/state/" + url.PathEscape(state)
	pkg.List(c, pkg.NewPaged(page, h.links.toResponse, base, params.LinkParams()))
}

// Update handles PUT /branches/:id.
func (h *BranchHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req UpdateBranchRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	branch, err := h.svc.UpdateBranch(c.Request.Context(), id, req.toDomain())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, h.links.toResponse(*branch))
}

// Delete handles DELETE /branches/:id.
func (h *BranchHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteBranch(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.NoContent(c)
}

// Detail handles GET /branches/:id/details.
func (h *BranchHandler) Detail(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	detail, err := h.svc.GetBranchDetail(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, h.links.toDetailResponse(detail))
}

// Stats handles GET /branches/:id/stats.
func (h *BranchHandler) Stats(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	stats, err := h.svc.GetBranchStats(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, stats)
}
