package domain

import "context"

// Employee works at exactly one branch. Email is unique across employees.
type Employee struct {
	BaseModel
	Name     string  `gorm:"size:100;not null" json:"name"`
	Email    string  `gorm:"size:150;not null;uniqueIndex" json:"email"`
	Role     string  `gorm:"size:80;not null;index" json:"role"`
	BranchID uint    `gorm:"not null;index" json:"branchId"`
	Branch   *Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"branch,omitempty"`
}

// TableName overrides the table name used by GORM.
func (Employee) TableName() string { return "employees" }

// EmployeeRepository defines persistence operations for employees.
type EmployeeRepository interface {
	List(ctx context.Context, params QueryParams) (*Page[Employee], error)
	GetByID(ctx context.Context, id uint) (*Employee, error)
	Add(ctx context.Context, employee *Employee) error
	Update(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id uint) (bool, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ListByBranch(ctx context.Context, branchID uint, params QueryParams) (*Page[Employee], error)
	GetByEmail(ctx context.Context, email string) (*Employee, error)
	ListByRole(ctx context.Context, role string, params QueryParams) (*Page[Employee], error)
	// EmailExists reports whether another employee uses email. excludeID is
	// set on the update path so an employee keeps its own address.
	EmailExists(ctx context.Context, email string, excludeID *uint) (bool, error)
}

// EmployeeService defines business operations for employees.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, employee *Employee) (*Employee, error)
	GetEmployee(ctx context.Context, id uint) (*Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error)
	ListEmployees(ctx context.Context, params QueryParams) (*Page[Employee], error)
	ListEmployeesByBranch(ctx context.Context, branchID uint, params QueryParams) (*Page[Employee], error)
	ListEmployeesByRole(ctx context.Context, role string, params QueryParams) (*Page[Employee], error)
	UpdateEmployee(ctx context.Context, id uint, changes *Employee) (*Employee, error)
	DeleteEmployee(ctx context.Context, id uint) error
}
