package vehicle

import (
	"strconv"

	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/pkg"
)

// CreateVehicleRequest represents the input for registering a new vehicle.
type CreateVehicleRequest struct {
	Brand      string  `json:"brand" binding:"required,max=50"`
	Model      string  `json:"model" binding:"required,max=80"`
	Year       int     `json:"year" binding:"required,min=1900"`
	Plate      string  `json:"plate" binding:"required,max=10,plate"`
	Color      *string `json:"color" binding:"omitempty,max=30"`
	OdometerKm *int    `json:"odometerKm" binding:"omitempty,min=0"`
	BranchID   uint    `json:"branchId" binding:"required,min=1"`
}

// UpdateVehicleRequest represents the input for updating an existing vehicle.
type UpdateVehicleRequest struct {
	Brand      string  `json:"brand" binding:"required,max=50"`
	Model      string  `json:"model" binding:"required,max=80"`
	Year       int     `json:"year" binding:"required,min=1900"`
	Plate      string  `json:"plate" binding:"required,max=10,plate"`
	Color      *string `json:"color" binding:"omitempty,max=30"`
	OdometerKm *int    `json:"odometerKm" binding:"omitempty,min=0"`
	BranchID   uint    `json:"branchId" binding:"required,min=1"`
}

// OdometerQuery is the query string of the odometer range finder.
type OdometerQuery struct {
	Min *int `form:"min" binding:"omitempty,min=0"`
	Max *int `form:"max" binding:"omitempty,min=0"`
}

func (q OdometerQuery) linkParams(extra map[string]string) map[string]string {
	if q.Min != nil {
		extra["min"] = strconv.Itoa(*q.Min)
	}
	if q.Max != nil {
		extra["max"] = strconv.Itoa(*q.Max)
	}
	return extra
}

func (r CreateVehicleRequest) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		Brand: r.Brand, Model: r.Model, Year: r.Year, Plate: r.Plate,
		Color: r.Color, OdometerKm: r.OdometerKm, BranchID: r.BranchID,
	}
}

func (r UpdateVehicleRequest) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		Brand: r.Brand, Model: r.Model, Year: r.Year, Plate: r.Plate,
		Color: r.Color, OdometerKm: r.OdometerKm, BranchID: r.BranchID,
	}
}

// VehicleResponse is the API representation of a vehicle.
type VehicleResponse struct {
	ID         uint                  `json:"id"`
	Brand      string                `json:"brand"`
	Model      string                `json:"model"`
	Year       int                   `json:"year"`
	Plate      string                `json:"plate"`
	Color      *string               `json:"color,omitempty"`
	OdometerKm *int                  `json:"odometerKm,omitempty"`
	BranchID   uint                  `json:"branchId"`
	Branch     *domain.BranchSummary `json:"branch,omitempty"`
	Links      map[string]string     `json:"links"`
}

type links struct {
	base string
}

func (l links) collection() string { return l.base + "/vehicles" }

func (l links) toResponse(v domain.Vehicle) VehicleResponse {
	resp := VehicleResponse{
		ID:         v.ID,
		Brand:      v.Brand,
		Model:      v.Model,
		Year:       v.Year,
		Plate:      v.Plate,
		Color:      v.Color,
		OdometerKm: v.OdometerKm,
		BranchID:   v.BranchID,
		Links:      pkg.ResourceLinks(l.collection(), v.ID),
	}
	resp.Links["branch"] = l.base + "/branches/" + strconv.FormatUint(uint64(v.BranchID), 10)
	if v.Branch != nil {
		summary := v.Branch.Summary()
		resp.Branch = &summary
	}
	return resp
}
