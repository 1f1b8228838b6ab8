package vehicle

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/store"
)

const table = "vehicles"

func column(name string) clause.Column {
	return clause.Column{Table: table, Name: name}
}

var (
	branchName = clause.Column{Table: "branches", Name: "name"}

	searchColumns = []clause.Column{
		column("brand"),
		column("model"),
		column("plate"),
		column("color"),
		branchName,
	}

	sortColumns = map[string]clause.Column{
		"id":       column("id"),
		"brand":    column("brand"),
		"model":    column("model"),
		"year":     column("year"),
		"plate":    column("plate"),
		"color":    column("color"),
		"odometer": column("odometer_km"),
		"branch":   branchName,
	}
)

// joinBranch makes the branch columns available to search and sort.
func joinBranch(db *gorm.DB) *gorm.DB {
	return db.Joins("LEFT JOIN branches ON branches.id = vehicles.branch_id")
}

type hooks struct{}

func (hooks) Search(db *gorm.DB, term string) *gorm.DB {
	return db.Where(store.Contains(term, searchColumns...))
}

func (hooks) SortKey(name string) (clause.Column, bool) {
	col, ok := sortColumns[name]
	return col, ok
}

// vehicleRepository implements domain.VehicleRepository on the generic store.
type vehicleRepository struct {
	store *store.Store[domain.Vehicle]
}

// NewVehicleRepository creates a VehicleRepository backed by db. Listings
// join the owning branch so it can be searched and sorted on; every read
// loads it.
func NewVehicleRepository(db *gorm.DB, opts ...store.Option) domain.VehicleRepository {
	opts = append([]store.Option{
		store.WithName("vehicle"),
		store.WithJoin(joinBranch),
		store.WithPreload("Branch"),
	}, opts...)
	return &vehicleRepository{store: store.New[domain.Vehicle](db, hooks{}, opts...)}
}

func (r *vehicleRepository) List(ctx context.Context, params domain.QueryParams) (*domain.Page[domain.Vehicle], error) {
	return r.store.List(ctx, params)
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uint) (*domain.Vehicle, error) {
	return r.store.GetByID(ctx, id)
}

func (r *vehicleRepository) Add(ctx context.Context, v *domain.Vehicle) error {
	return r.store.Add(ctx, v)
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	return r.store.Update(ctx, v)
}

func (r *vehicleRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return r.store.Delete(ctx, id)
}

func (r *vehicleRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return r.store.Exists(ctx, id)
}

func (r *vehicleRepository) ListByBranch(ctx context.Context, branchID uint, params domain.QueryParams) (*domain.Page[domain.Vehicle], error) {
	return r.store.List(ctx, params, store.Equal(column("branch_id"), branchID))
}

// GetByPlate finds a vehicle by plate, ignoring case.
func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	return r.store.FindOne(ctx, store.EqualFold(column("plate"), plate))
}

// ListByBrand pages through vehicles whose brand contains brand, ignoring case.
func (r *vehicleRepository) ListByBrand(ctx context.Context, brand string, params domain.QueryParams) (*domain.Page[domain.Vehicle], error) {
	return r.store.List(ctx, params, store.Matching(brand, column("brand")))
}

func (r *vehicleRepository) ListByYear(ctx context.Context, year int, params domain.QueryParams) (*domain.Page[domain.Vehicle], error) {
	return r.store.List(ctx, params, store.Equal(column("year"), year))
}

// ListByOdometerRange pages through vehicles whose odometer lies within rg,
// both bounds inclusive. Vehicles without a reading never match a bounded
// range.
func (r *vehicleRepository) ListByOdometerRange(ctx context.Context, rg domain.OdometerRange, params domain.QueryParams) (*domain.Page[domain.Vehicle], error) {
	scopes := []store.Scope{store.Between(column("odometer_km"), rg.Min, rg.Max)}
	if rg.Min == nil && rg.Max == nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(clause.Expr{SQL: "? IS NOT NULL", Vars: []any{column("odometer_km")}})
		})
	}
	return r.store.List(ctx, params, scopes...)
}

func (r *vehicleRepository) PlateExists(ctx context.Context, plate string, excludeID *uint) (bool, error) {
	n, err := r.store.Count(ctx,
		store.EqualFold(column("plate"), plate),
		store.Excluding(column("id"), excludeID),
	)
	return n > 0, err
}
