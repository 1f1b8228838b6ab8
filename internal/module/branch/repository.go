package branch

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/pkg"
	"github.com/simp-lee/fleetbase/internal/store"
)

const table = "branches"

func column(name string) clause.Column {
	return clause.Column{Table: table, Name: name}
}

var (
	searchColumns = []clause.Column{
		column("name"),
		column("address"),
		column("city"),
		column("state"),
		column("postal_code"),
	}

	sortColumns = map[string]clause.Column{
		"id":         column("id"),
		"name":       column("name"),
		"address":    column("address"),
		"city":       column("city"),
		"state":      column("state"),
		"postalcode": column("postal_code"),
	}

	employeeBranchID = clause.Column{Table: domain.Employee{}.TableName(), Name: "branch_id"}
	vehicleBranchID  = clause.Column{Table: domain.Vehicle{}.TableName(), Name: "branch_id"}
)

// hooks plugs branch search, sorting and the delete restriction into the store.
type hooks struct{}

func (hooks) Search(db *gorm.DB, term string) *gorm.DB {
	return db.Where(store.Contains(term, searchColumns...))
}

func (hooks) SortKey(name string) (clause.Column, bool) {
	col, ok := sortColumns[name]
	return col, ok
}

// BeforeDelete refuses to remove a branch that employees or vehicles still
// reference.
func (hooks) BeforeDelete(tx *gorm.DB, id uint) error {
	employees, vehicles, err := countDependents(tx, id)
	if err != nil {
		return err
	}
	if employees > 0 || vehicles > 0 {
		return domain.NewAppError(domain.CodeConflict,
			fmt.Sprintf("branch %d still has %d employee(s) and %d vehicle(s)", id, employees, vehicles), nil)
	}
	return nil
}

func countDependents(db *gorm.DB, id uint) (employees, vehicles int64, err error) {
	if err = db.Model(&domain.Employee{}).Where(clause.Eq{Column: employeeBranchID, Value: id}).Count(&employees).Error; err != nil {
		return 0, 0, err
	}
	if err = db.Model(&domain.Vehicle{}).Where(clause.Eq{Column: vehicleBranchID, Value: id}).Count(&vehicles).Error; err != nil {
		return 0, 0, err
	}
	return employees, vehicles, nil
}

// branchRepository implements domain.BranchRepository on the generic store.
type branchRepository struct {
	db    *gorm.DB
	store *store.Store[domain.Branch]
}

// NewBranchRepository creates a BranchRepository backed by db.
func NewBranchRepository(db *gorm.DB, opts ...store.Option) domain.BranchRepository {
	opts = append([]store.Option{store.WithName("branch")}, opts...)
	return &branchRepository{
		db:    db,
		store: store.New[domain.Branch](db, hooks{}, opts...),
	}
}

func (r *branchRepository) List(ctx context.Context, params domain.QueryParams) (*domain.Page[domain.Branch], error) {
	return r.store.List(ctx, params)
}

func (r *branchRepository) GetByID(ctx context.Context, id uint) (*domain.Branch, error) {
	return r.store.GetByID(ctx, id)
}

func (r *branchRepository) Add(ctx context.Context, branch *domain.Branch) error {
	return r.store.Add(ctx, branch)
}

func (r *branchRepository) Update(ctx context.Context, branch *domain.Branch) error {
	return r.store.Update(ctx, branch)
}

func (r *branchRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return r.store.Delete(ctx, id)
}

func (r *branchRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return r.store.Exists(ctx, id)
}

// ListByCity pages through branches whose city contains city, ignoring case.
func (r *branchRepository) ListByCity(ctx context.Context, city string, params domain.QueryParams) (*domain.Page[domain.Branch], error) {
	return r.store.List(ctx, params, store.Matching(city, column("city")))
}

// ListByState pages through branches in the given two-letter state.
func (r *branchRepository) ListByState(ctx context.Context, state string, params domain.QueryParams) (*domain.Page[domain.Branch], error) {
	return r.store.List(ctx, params, store.Equal(column("state"), strings.ToUpper(state)))
}

// GetWithRelations loads a branch with all of its employees and vehicles,
// each ordered by identifier, from one snapshot.
func (r *branchRepository) GetWithRelations(ctx context.Context, id uint) (*domain.BranchDetail, error) {
	var detail domain.BranchDetail
	err := pkg.WithTx(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Where(clause.Eq{Column: column("id"), Value: id}).Take(&detail.Branch).Error; err != nil {
			return err
		}
		if err := tx.Where(clause.Eq{Column: employeeBranchID, Value: id}).
			Order(clause.OrderByColumn{Column: clause.Column{Table: employeeBranchID.Table, Name: "id"}}).
			Find(&detail.Employees).Error; err != nil {
			return err
		}
		return tx.Where(clause.Eq{Column: vehicleBranchID, Value: id}).
			Order(clause.OrderByColumn{Column: clause.Column{Table: vehicleBranchID.Table, Name: "id"}}).
			Find(&detail.Vehicles).Error
	}, pkg.SnapshotTxOptions(r.db))
	if err != nil {
		mapped := store.MapError(err)
		if domain.IsNotFound(mapped) {
			return nil, domain.NewAppError(domain.CodeNotFound, "branch not found", nil)
		}
		return nil, mapped
	}
	if detail.Employees == nil {
		detail.Employees = []domain.Employee{}
	}
	if detail.Vehicles == nil {
		detail.Vehicles = []domain.Vehicle{}
	}
	return &detail, nil
}

// Stats counts the employees and vehicles of a branch without loading them.
// A missing branch yields zero-valued stats, not an error.
func (r *branchRepository) Stats(ctx context.Context, id uint) (domain.BranchStats, error) {
	var stats domain.BranchStats
	err := pkg.WithTx(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		var b domain.Branch
		result := tx.Select("id", "name").
			Where(clause.Eq{Column: column("id"), Value: id}).
			Limit(1).
			Find(&b)
		if result.Error != nil || result.RowsAffected == 0 {
			return result.Error
		}

		employees, vehicles, err := countDependents(tx, id)
		if err != nil {
			return err
		}
		stats = domain.BranchStats{
			BranchID:       b.ID,
			BranchName:     b.Name,
			TotalEmployees: employees,
			TotalVehicles:  vehicles,
		}
		return nil
	}, pkg.SnapshotTxOptions(r.db))
	if err != nil {
		return domain.BranchStats{}, store.MapError(err)
	}
	return stats, nil
}
