package domain

import "context"

// Branch is a physical site that employees work at and vehicles are assigned to.
type Branch struct {
	BaseModel
	Name       string  `gorm:"size:100;not null" json:"name"`
	Address    string  `gorm:"size:200;not null" json:"address"`
	City       string  `gorm:"size:80;not null;index" json:"city"`
	State      string  `gorm:"size:2;not null;index" json:"state"`
	PostalCode *string `gorm:"size:10" json:"postalCode,omitempty"`
}

// TableName overrides the table name used by GORM.
func (Branch) TableName() string { return "branches" }

// Summary returns the nested form of b.
func (b Branch) Summary() BranchSummary {
	return BranchSummary{ID: b.ID, Name: b.Name, City: b.City, State: b.State}
}

// BranchDetail is a branch loaded together with everything that references it.
type BranchDetail struct {
	Branch    Branch
	Employees []Employee
	Vehicles  []Vehicle
}

// BranchStats holds dependent counts for one branch. A branch that does not
// exist yields the zero value.
type BranchStats struct {
	BranchID       uint   `json:"branchId"`
	BranchName     string `json:"branchName"`
	TotalEmployees int64  `json:"totalEmployees"`
	TotalVehicles  int64  `json:"totalVehicles"`
}

// BranchRepository defines persistence operations for branches.
type BranchRepository interface {
	List(ctx context.Context, params QueryParams) (*Page[Branch], error)
	GetByID(ctx context.Context, id uint) (*Branch, error)
	Add(ctx context.Context, branch *Branch) error
	Update(ctx context.Context, branch *Branch) error
	Delete(ctx context.Context, id uint) (bool, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ListByCity(ctx context.Context, city string, params QueryParams) (*Page[Branch], error)
	ListByState(ctx context.Context, state string, params QueryParams) (*Page[Branch], error)
	GetWithRelations(ctx context.Context, id uint) (*BranchDetail, error)
	Stats(ctx context.Context, id uint) (BranchStats, error)
}

// BranchService defines business operations for branches.
type BranchService interface {
	CreateBranch(ctx context.Context, branch *Branch) (*Branch, error)
	GetBranch(ctx context.Context, id uint) (*Branch, error)
	ListBranches(ctx context.Context, params QueryParams) (*Page[Branch], error)
	ListBranchesByCity(ctx context.Context, city string, params QueryParams) (*Page[Branch], error)
	ListBranchesByState(ctx context.Context, state string, params QueryParams) (*Page[Branch], error)
	UpdateBranch(ctx context.Context, id uint, changes *Branch) (*Branch, error)
	DeleteBranch(ctx context.Context, id uint) error
	GetBranchDetail(ctx context.Context, id uint) (*BranchDetail, error)
	GetBranchStats(ctx context.Context, id uint) (BranchStats, error)
}
