package domain

import "context"

// Vehicle is assigned to exactly one branch. Plate is unique across vehicles.
type Vehicle struct {
	BaseModel
	Brand      string  `gorm:"size:50;not null;index" json:"brand"`
	Model      string  `gorm:"size:80;not null" json:"model"`
	Year       int     `gorm:"not null;index" json:"year"`
	Plate      string  `gorm:"size:10;not null;uniqueIndex" json:"plate"`
	Color      *string `gorm:"size:30" json:"color,omitempty"`
	OdometerKm *int    `json:"odometerKm,omitempty"`
	BranchID   uint    `gorm:"not null;index" json:"branchId"`
	Branch     *Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"branch,omitempty"`
}

// TableName overrides the table name used by GORM.
func (Vehicle) TableName() string { return "vehicles" }

// OdometerRange bounds an odometer search. Nil bounds are open; both bounds
// are inclusive.
type OdometerRange struct {
	Min *int
	Max *int
}

// VehicleRepository defines persistence operations for vehicles. Every read
// loads the owning branch.
type VehicleRepository interface {
	List(ctx context.Context, params QueryParams) (*Page[Vehicle], error)
	GetByID(ctx context.Context, id uint) (*Vehicle, error)
	Add(ctx context.Context, vehicle *Vehicle) error
	Update(ctx context.Context, vehicle *Vehicle) error
	Delete(ctx context.Context, id uint) (bool, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ListByBranch(ctx context.Context, branchID uint, params QueryParams) (*Page[Vehicle], error)
	GetByPlate(ctx context.Context, plate string) (*Vehicle, error)
	ListByBrand(ctx context.Context, brand string, params QueryParams) (*Page[Vehicle], error)
	ListByYear(ctx context.Context, year int, params QueryParams) (*Page[Vehicle], error)
	ListByOdometerRange(ctx context.Context, r OdometerRange, params QueryParams) (*Page[Vehicle], error)
	PlateExists(ctx context.Context, plate string, excludeID *uint) (bool, error)
}

// VehicleService defines business operations for vehicles.
type VehicleService interface {
	CreateVehicle(ctx context.Context, vehicle *Vehicle) (*Vehicle, error)
	GetVehicle(ctx context.Context, id uint) (*Vehicle, error)
	GetVehicleByPlate(ctx context.Context, plate string) (*Vehicle, error)
	ListVehicles(ctx context.Context, params QueryParams) (*Page[Vehicle], error)
	ListVehiclesByBranch(ctx context.Context, branchID uint, params QueryParams) (*Page[Vehicle], error)
	ListVehiclesByBrand(ctx context.Context, brand string, params QueryParams) (*Page[Vehicle], error)
	ListVehiclesByYear(ctx context.Context, year int, params QueryParams) (*Page[Vehicle], error)
	ListVehiclesByOdometerRange(ctx context.Context, r OdometerRange, params QueryParams) (*Page[Vehicle], error)
	UpdateVehicle(ctx context.Context, id uint, changes *Vehicle) (*Vehicle, error)
	DeleteVehicle(ctx context.Context, id uint) error
}
