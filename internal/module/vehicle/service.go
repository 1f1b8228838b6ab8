package vehicle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/simp-lee/fleetbase/internal/domain"
)

// MinYear is the oldest model year accepted.
const MinYear = 1900

// BranchChecker reports whether a branch exists.
type BranchChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// vehicleService implements domain.VehicleService.
type vehicleService struct {
	repo     domain.VehicleRepository
	branches BranchChecker
	now      func() time.Time
}

// NewVehicleService creates a new VehicleService. branches is consulted
// before every write so a vehicle never points at a missing branch.
func NewVehicleService(repo domain.VehicleRepository, branches BranchChecker) domain.VehicleService {
	return &vehicleService{repo: repo, branches: branches, now: time.Now}
}

// CreateVehicle validates input, checks plate uniqueness and the branch
// reference, then persists the vehicle.
func (s *vehicleService) CreateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	normalize(v)
	if err := s.validate(v); err != nil {
		return nil, err
	}
	if err := s.checkWrite(ctx, v, nil); err != nil {
		return nil, err
	}

	v.ID = 0
	v.Branch = nil
	if err := s.repo.Add(ctx, v); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "vehicle created", "vehicle_id", v.ID, "plate", v.Plate, "branch_id", v.BranchID)
	return s.repo.GetByID(ctx, v.ID)
}

func (s *vehicleService) GetVehicle(ctx context.Context, id uint) (*domain.Vehicle, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *vehicleService) GetVehicleByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "plate is required", nil)
	}
	return s.repo.GetByPlate(ctx, plate)
}

func (s *vehicleService) ListVehicles(ctx context.Context, params domain.QueryParams) (*domain.Page[domain.Vehicle], error) {
	return s.repo.List(ctx, params)
}

func (s *vehicleService) ListVehiclesByBranch(ctx context.Context, branchID uint, params domain.QueryParams) (*domain.Page[domain.Vehicle], error) {
	return s.repo.ListByBranch(ctx, branchID, params)
}

func (s *vehicleService) ListVehiclesByBrand(ctx context.Context, brand string, params domain.QueryParams) (*domain.Page[domain.Vehicle], error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "brand is required", nil)
	}
	return s.repo.ListByBrand(ctx, brand, params)
}

func (s *vehicleService) ListVehiclesByYear(ctx context.Context, year int, params domain.QueryParams) (*domain.Page[domain.Vehicle], error) {
	if err := s.validateYear(year); err != nil {
		return nil, err
	}
	return s.repo.ListByYear(ctx, year, params)
}

// ListVehiclesByOdometerRange rejects negative bounds and ranges whose
// lower bound exceeds the upper.
func (s *vehicleService) ListVehiclesByOdometerRange(ctx context.Context, r domain.OdometerRange, params domain.QueryParams) (*domain.Page[domain.Vehicle], error) {
	if (r.Min != nil && *r.Min < 0) || (r.Max != nil && *r.Max < 0) {
		return nil, domain.NewAppError(domain.CodeValidation, "odometer bounds must not be negative", nil)
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return nil, domain.NewAppError(domain.CodeValidation, "odometer min must not exceed max", nil)
	}
	return s.repo.ListByOdometerRange(ctx, r, params)
}

// UpdateVehicle loads the existing vehicle, applies changes and persists
// them. A vehicle may keep its own plate.
func (s *vehicleService) UpdateVehicle(ctx context.Context, id uint, changes *domain.Vehicle) (*domain.Vehicle, error) {
	normalize(changes)
	if err := s.validate(changes); err != nil {
		return nil, err
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkWrite(ctx, changes, &id); err != nil {
		return nil, err
	}

	v.Brand = changes.Brand
	v.Model = changes.Model
	v.Year = changes.Year
	v.Plate = changes.Plate
	v.Color = changes.Color
	v.OdometerKm = changes.OdometerKm
	v.BranchID = changes.BranchID
	v.Branch = nil

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NewAppError(domain.CodeNotFound, "vehicle not found", nil)
	}

	slog.InfoContext(ctx, "vehicle deleted", "vehicle_id", id)
	return nil
}

func (s *vehicleService) checkWrite(ctx context.Context, v *domain.Vehicle, excludeID *uint) error {
	taken, err := s.repo.PlateExists(ctx, v.Plate, excludeID)
	if err != nil {
		return err
	}
	if taken {
		slog.WarnContext(ctx, "vehicle plate already registered", "plate", v.Plate)
		return domain.NewAppError(domain.CodeConflict, "plate already registered", nil)
	}

	ok, err := s.branches.Exists(ctx, v.BranchID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewAppError(domain.CodeInvalidReference, fmt.Sprintf("branch %d does not exist", v.BranchID), nil)
	}
	return nil
}

// normalize trims text fields, upper-cases the plate and clears a blank color.
func normalize(v *domain.Vehicle) {
	v.Brand = strings.TrimSpace(v.Brand)
	v.Model = strings.TrimSpace(v.Model)
	v.Plate = strings.ToUpper(strings.TrimSpace(v.Plate))
	if v.Color != nil {
		c := strings.TrimSpace(*v.Color)
		if c == "" {
			v.Color = nil
		} else {
			v.Color = &c
		}
	}
}

func (s *vehicleService) validate(v *domain.Vehicle) error {
	switch {
	case v.Brand == "":
		return domain.NewAppError(domain.CodeValidation, "brand is required", nil)
	case utf8.RuneCountInString(v.Brand) > 50:
		return domain.NewAppError(domain.CodeValidation, "brand must be at most 50 characters", nil)
	case v.Model == "":
		return domain.NewAppError(domain.CodeValidation, "model is required", nil)
	case utf8.RuneCountInString(v.Model) > 80:
		return domain.NewAppError(domain.CodeValidation, "model must be at most 80 characters", nil)
	case v.Plate == "":
		return domain.NewAppError(domain.CodeValidation, "plate is required", nil)
	case len(v.Plate) > 10:
		return domain.NewAppError(domain.CodeValidation, "plate must be at most 10 characters", nil)
	case v.Color != nil && utf8.RuneCountInString(*v.Color) > 30:
		return domain.NewAppError(domain.CodeValidation, "color must be at most 30 characters", nil)
	case v.OdometerKm != nil && *v.OdometerKm < 0:
		return domain.NewAppError(domain.CodeValidation, "odometer must not be negative", nil)
	case v.BranchID == 0:
		return domain.NewAppError(domain.CodeValidation, "branchId is required", nil)
	}
	return s.validateYear(v.Year)
}

// validateYear accepts model years from MinYear up to next year.
func (s *vehicleService) validateYear(year int) error {
	if maxYear := s.now().Year() + 1; year < MinYear || year > maxYear {
		return domain.NewAppError(domain.CodeValidation, fmt.Sprintf("year must be between %d and %d", MinYear, maxYear), nil)
	}
	return nil
}
