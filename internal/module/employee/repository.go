package employee

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/store"
)

const table = "employees"

func column(name string) clause.Column {
	return clause.Column{Table: table, Name: name}
}

var (
	searchColumns = []clause.Column{column("name"), column("email"), column("role")}

	sortColumns = map[string]clause.Column{
		"id":       column("id"),
		"name":     column("name"),
		"email":    column("email"),
		"role":     column("role"),
		"branchid": column("branch_id"),
	}
)

type hooks struct{}

func (hooks) Search(db *gorm.DB, term string) *gorm.DB {
	return db.Where(store.Contains(term, searchColumns...))
}

func (hooks) SortKey(name string) (clause.Column, bool) {
	col, ok := sortColumns[name]
	return col, ok
}

// employeeRepository implements domain.EmployeeRepository on the generic
// store. Every read loads the employee's branch.
type employeeRepository struct {
	store *store.Store[domain.Employee]
}

// NewEmployeeRepository creates an EmployeeRepository backed by db.
func NewEmployeeRepository(db *gorm.DB, opts ...store.Option) domain.EmployeeRepository {
	opts = append([]store.Option{store.WithName("employee"), store.WithPreload("Branch")}, opts...)
	return &employeeRepository{store: store.New[domain.Employee](db, hooks{}, opts...)}
}

func (r *employeeRepository) List(ctx context.Context, params domain.QueryParams) (*domain.Page[domain.Employee], error) {
	return r.store.List(ctx, params)
}

func (r *employeeRepository) GetByID(ctx context.Context, id uint) (*domain.Employee, error) {
	return r.store.GetByID(ctx, id)
}

func (r *employeeRepository) Add(ctx context.Context, e *domain.Employee) error {
	return r.store.Add(ctx, e)
}

func (r *employeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	return r.store.Update(ctx, e)
}

func (r *employeeRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return r.store.Delete(ctx, id)
}

func (r *employeeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return r.store.Exists(ctx, id)
}

func (r *employeeRepository) ListByBranch(ctx context.Context, branchID uint, params domain.QueryParams) (*domain.Page[domain.Employee], error) {
	return r.store.List(ctx, params, store.Equal(column("branch_id"), branchID))
}

// GetByEmail finds an employee by email address, ignoring case.
func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return r.store.FindOne(ctx, store.EqualFold(column("email"), email))
}

// ListByRole pages through employees whose role contains role, ignoring case.
func (r *employeeRepository) ListByRole(ctx context.Context, role string, params domain.QueryParams) (*domain.Page[domain.Employee], error) {
	return r.store.List(ctx, params, store.Matching(role, column("role")))
}

func (r *employeeRepository) EmailExists(ctx context.Context, email string, excludeID *uint) (bool, error) {
	n, err := r.store.Count(ctx,
		store.EqualFold(column("email"), email),
		store.Excluding(column("id"), excludeID),
	)
	return n > 0, err
}
