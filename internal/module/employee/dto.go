package employee

import (
	"strconv"

	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/pkg"
)

// CreateEmployeeRequest represents the input for creating a new employee.
type CreateEmployeeRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,max=150,email"`
	Role     string `json:"role" binding:"required,max=80"`
	BranchID uint   `json:"branchId" binding:"required,min=1"`
}

// UpdateEmployeeRequest represents the input for updating an existing employee.
type UpdateEmployeeRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,max=150,email"`
	Role     string `json:"role" binding:"required,max=80"`
	BranchID uint   `json:"branchId" binding:"required,min=1"`
}

func (r CreateEmployeeRequest) toDomain() *domain.Employee {
	return &domain.Employee{Name: r.Name, Email: r.Email, Role: r.Role, BranchID: r.BranchID}
}

func (r UpdateEmployeeRequest) toDomain() *domain.Employee {
	return &domain.Employee{Name: r.Name, Email: r.Email, Role: r.Role, BranchID: r.BranchID}
}

// EmployeeResponse is the API representation of an employee.
type EmployeeResponse struct {
	ID       uint                  `json:"id"`
	Name     string                `json:"name"`
	Email    string                `json:"email"`
	Role     string                `json:"role"`
	BranchID uint                  `json:"branchId"`
	Branch   *domain.BranchSummary `json:"branch,omitempty"`
	Links    map[string]string     `json:"links"`
}

type links struct {
	base string
}

func (l links) collection() string { return l.base + "/employees" }

func (l links) toResponse(e domain.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:       e.ID,
		Name:     e.Name,
		Email:    e.Email,
		Role:     e.Role,
		BranchID: e.BranchID,
		Links:    pkg.ResourceLinks(l.collection(), e.ID),
	}
	resp.Links["branch"] = l.base + "/branches/" + strconv.FormatUint(uint64(e.BranchID), 10)
	if e.Branch != nil {
		summary := e.Branch.Summary()
		resp.Branch = &summary
	}
	return resp
}
