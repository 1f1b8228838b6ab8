package vehicle

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/pkg"
)

// VehicleHandler handles REST API requests for the vehicle resource.
type VehicleHandler struct {
	svc   domain.VehicleService
	links links
}

// NewVehicleHandler creates a new VehicleHandler. apiBase prefixes every
// generated link.
func NewVehicleHandler(svc domain.VehicleService, apiBase string) *VehicleHandler {
	return &VehicleHandler{svc: svc, links: links{base: strings.TrimRight(apiBase, "/")}}
}

// Create handles POST /vehicles.
func (h *VehicleHandler) Create(c *gin.Context) {
	var req CreateVehicleRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	v, err := h.svc.CreateVehicle(c.Request.Context(), req.toDomain())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, h.links.toResponse(*v))
}

// Get handles GET /vehicles/:id.
func (h *VehicleHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	v, err := h.svc.GetVehicle(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, h.links.toResponse(*v))
}

// GetByPlate handles GET /vehicles/plate/:plate.
func (h *VehicleHandler) GetByPlate(c *gin.Context) {
	v, err := h.svc.GetVehicleByPlate(c.Request.Context(), c.Param("plate"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, h.links.toResponse(*v))
}

// List handles GET /vehicles.
func (h *VehicleHandler) List(c *gin.Context) {
	params, ok := pkg.BindQueryParams(c)
	if !ok {
		return
	}

	page, err := h.svc.ListVehicles(c.Request.Context(), params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, pkg.NewPaged(page, h.links.toResponse, h.links.collection(), params.LinkParams()))
}

// ListByBranch handles GET /vehicles/branch/:branchId.
func (h *VehicleHandler) ListByBranch(c *gin.Context) {
	branchID, err := pkg.ParseID(c, "branchId")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	params, ok := pkg.BindQueryParams(c)
	if !ok {
		return
	}

	page, err := h.svc.ListVehiclesByBranch(c.Request.Context(), branchID, params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	base := h.links.collection() + "/branch/" + strconv.FormatUint(uint64(branchID), 10)
	pkg.List(c, pkg.NewPaged(page, h.links.toResponse, base, params.LinkParams()))
}

// ListByBrand handles GET /vehicles/brand/:brand.
func (h *VehicleHandler) ListByBrand(c *gin.Context) {
	params, ok := pkg.BindQueryParams(c)
	if !ok {
		return
	}

	brand := c.Param("brand")
	page, err := h.svc.ListVehiclesByBrand(c.Request.Context(), brand, params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	base := h.links.collection() + "/brand/" + url.PathEscape(brand)
	pkg.List(c, pkg.NewPaged(page, h.links.toResponse, base, params.LinkParams()))
}

// ListByYear handles GET /vehicles/year/:year.
func (h *VehicleHandler) ListByYear(c *gin.Context) {
	year, err := pkg.ParseInt(c, "year")
	if err != nil {
		pkg.Error(c, err)
		return
	}
	params, ok := pkg.BindQueryParams(c)
	if !ok {
		return
	}

	page, err := h.svc.ListVehiclesByYear(c.Request.Context(), year, params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	base := h.links.collection() + "/year/" + strconv.Itoa(year)
	pkg.List(c, pkg.NewPaged(page, h.links.toResponse, base, params.LinkParams()))
}

// ListByOdometer handles GET /vehicles/odometer?min=&max=.
func (h *VehicleHandler) ListByOdometer(c *gin.Context) {
	var q OdometerQuery
	if !pkg.BindQuery(c, &q) {
		return
	}
	params, ok := pkg.BindQueryParams(c)
	if !ok {
		return
	}

	r := domain.OdometerRange{Min: q.Min, Max: q.Max}
	page, err := h.svc.ListVehiclesByOdometerRange(c.Request.Context(), r, params)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	base := h.links.collection() + "/odometer"
	pkg.List(c, pkg.NewPaged(page, h.links.toResponse, base, q.linkParams(params.LinkParams())))
}

// Update handles PUT /vehicles/:id.
func (h *VehicleHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req UpdateVehicleRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	v, err := h.svc.UpdateVehicle(c.Request.Context(), id, req.toDomain())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, h.links.toResponse(*v))
}

// Delete handles DELETE /vehicles/:id.
func (h *VehicleHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteVehicle(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.NoContent(c)
}
