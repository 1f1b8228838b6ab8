package branch

import (
	"strconv"

	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/pkg"
)

// CreateBranchRequest represents the input for creating a new branch.
type CreateBranchRequest struct {
	Name       string  `json:"name" binding:"required,max=100"`
	Address    string  `json:"address" binding:"required,max=200"`
	City       string  `json:"city" binding:"required,max=80"`
	State      string  `json:"state" binding:"required,statecode"`
	PostalCode *string `json:"postalCode" binding:"omitempty,max=10,postalcode"`
}

// UpdateBranchRequest represents the input for updating an existing branch.
type UpdateBranchRequest struct {
	Name       string  `json:"name" binding:"required,max=100"`
	Address    string  `json:"address" binding:"required,max=200"`
	City       string  `json:"city" binding:"required,max=80"`
	State      string  `json:"state" binding:"required,statecode"`
	PostalCode *string `json:"postalCode" binding:"omitempty,max=10,postalcode"`
}

func (r CreateBranchRequest) toDomain() *domain.Branch {
	return &domain.Branch{Name: r.Name, Address: r.Address, City: r.City, State: r.State, PostalCode: r.PostalCode}
}

func (r UpdateBranchRequest) toDomain() *domain.Branch {
	return &domain.Branch{Name: r.Name, Address: r.Address, City: r.City, State: r.State, PostalCode: r.PostalCode}
}

// BranchResponse is the API representation of a branch.
type BranchResponse struct {
	ID         uint              `json:"id"`
	Name       string            `json:"name"`
	Address    string            `json:"address"`
	City       string            `json:"city"`
	State      string            `json:"state"`
	PostalCode *string           `json:"postalCode,omitempty"`
	Links      map[string]string `json:"links"`
}

// EmployeeSummary is an employee listed inside a branch detail.
type EmployeeSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// VehicleSummary is a vehicle listed inside a branch detail.
type VehicleSummary struct {
	ID    uint   `json:"id"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Plate string `json:"plate"`
}

// BranchDetailResponse is a branch with its employees, vehicles and counts.
type BranchDetailResponse struct {
	BranchResponse
	Employees      []EmployeeSummary `json:"employees"`
	Vehicles       []VehicleSummary  `json:"vehicles"`
	TotalEmployees int               `json:"totalEmployees"`
	TotalVehicles  int               `json:"totalVehicles"`
}

// links builds item links relative to the API base path.
type links struct {
	base string
}

func (l links) collection() string { return l.base + "/branches" }

func (l links) item(id uint) map[string]string {
	m := pkg.ResourceLinks(l.collection(), id)
	ref := strconv.FormatUint(uint64(id), 10)
	m["employees"] = l.base + "/employees/branch/" + ref
	m["vehicles"] = l.base + "/vehicles/branch/" + ref
	m["stats"] = l.collection() + "/" + ref + "/stats"
	return m
}

func (l links) toResponse(b domain.Branch) BranchResponse {
	return BranchResponse{
		ID:         b.ID,
		Name:       b.Name,
		Address:    b.Address,
		City:       b.City,
		State:      b.State,
		PostalCode: b.PostalCode,
		Links:      l.item(b.ID),
	}
}

func (l links) toDetailResponse(d *domain.BranchDetail) BranchDetailResponse {
	resp := BranchDetailResponse{
		BranchResponse: l.toResponse(d.Branch),
		Employees:      make([]EmployeeSummary, 0, len(d.Employees)),
		Vehicles:       make([]VehicleSummary, 0, len(d.Vehicles)),
		TotalEmployees: len(d.Employees),
		TotalVehicles:  len(d.Vehicles),
	}
	for _, e := range d.Employees {
		resp.Employees = append(resp.Employees, EmployeeSummary{ID: e.ID, Name: e.Name, Email: e.Email, Role: e.Role})
	}
	for _, v := range d.Vehicles {
		resp.Vehicles = append(resp.Vehicles, VehicleSummary{ID: v.ID, Brand: v.Brand, Model: v.Model, Year: v.Year, Plate: v.Plate})
	}
	return resp
}
