package vehicle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/store"
)

type failingBranches struct{ err error }

func (f failingBranches) Exists(context.Context, uint) (bool, error) { return false, f.err }

func fixedClock(year int) func() time.Time {
	return func() time.Time { return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC) }
}

func setupService(t *testing.T) (*vehicleService, *domain.Branch, *domain.Branch) {
	t.Helper()
	db := setupTestDB(t)
	a := seedBranch(t, db, "Centro", "São Paulo", "SP")
	b := seedBranch(t, db, "Copacabana", "Rio de Janeiro", "RJ")
	svc := NewVehicleService(NewVehicleRepository(db), store.New[domain.Branch](db, nil)).(*vehicleService)
	svc.now = fixedClock(2026)
	return svc, a, b
}

func errCode(err error) int {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return -1
}

func TestCreateVehicle(t *testing.T) {
	svc, a, _ := setupService(t)
	color := "  "

	got, err := svc.CreateVehicle(context.Background(), &domain.Vehicle{
		Brand: " Honda ", Model: "Civic", Year: 2027, Plate: " abc-1234 ", Color: &color, BranchID: a.ID,
	})
	if err != nil {
		t.Fatalf("CreateVehicle: %v", err)
	}
	if got.ID == 0 || got.Brand != "Honda" || got.Plate != "ABC-1234" {
		t.Errorf("created = %+v", got)
	}
	if got.Color != nil {
		t.Errorf("blank color should be cleared, got %q", *got.Color)
	}
	if got.Branch == nil || got.Branch.ID != a.ID {
		t.Errorf("created vehicle should carry its branch, got %+v", got.Branch)
	}
}

func TestCreateVehicle_Rejects(t *testing.T) {
	svc, a, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.CreateVehicle(ctx, &domain.Vehicle{Brand: "Fiat", Model: "Uno", Year: 2015, Plate: "ABC1234", BranchID: a.ID}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name string
		v    domain.Vehicle
		code int
	}{
		{"plate taken, other case", domain.Vehicle{Brand: "Ford", Model: "Ka", Year: 2016, Plate: "abc1234", BranchID: a.ID}, domain.CodeConflict},
		{"missing branch", domain.Vehicle{Brand: "Ford", Model: "Ka", Year: 2016, Plate: "NEW0001", BranchID: 999}, domain.CodeInvalidReference},
		{"blank brand", domain.Vehicle{Brand: " ", Model: "Ka", Year: 2016, Plate: "NEW0001", BranchID: a.ID}, domain.CodeValidation},
		{"blank model", domain.Vehicle{Brand: "Ford", Year: 2016, Plate: "NEW0001", BranchID: a.ID}, domain.CodeValidation},
		{"blank plate", domain.Vehicle{Brand: "Ford", Model: "Ka", Year: 2016, BranchID: a.ID}, domain.CodeValidation},
		{"year too old", domain.Vehicle{Brand: "Ford", Model: "T", Year: 1899, Plate: "NEW0001", BranchID: a.ID}, domain.CodeValidation},
		{"year too new", domain.Vehicle{Brand: "Ford", Model: "Ka", Year: 2028, Plate: "NEW0001", BranchID: a.ID}, domain.CodeValidation},
		{"negative odometer", domain.Vehicle{Brand: "Ford", Model: "Ka", Year: 2016, Plate: "NEW0001", OdometerKm: intPtr(-1), BranchID: a.ID}, domain.CodeValidation},
		{"no branch", domain.Vehicle{Brand: "Ford", Model: "Ka", Year: 2016, Plate: "NEW0001"}, domain.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			if _, err := svc.CreateVehicle(ctx, &v); errCode(err) != tt.code {
				t.Errorf("err = %v; want code %d", err, tt.code)
			}
		})
	}
}

func TestCreateVehicle_BranchLookupFailure(t *testing.T) {
	db := setupTestDB(t)
	boom := errors.New("branch lookup failed")
	svc := NewVehicleService(NewVehicleRepository(db), failingBranches{err: boom})

	_, err := svc.CreateVehicle(context.Background(), &domain.Vehicle{Brand: "Fiat", Model: "Uno", Year: 2015, Plate: "ABC1234", BranchID: 1})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v; want %v", err, boom)
	}
}

func TestUpdateVehicle(t *testing.T) {
	svc, a, b := setupService(t)
	ctx := context.Background()

	uno, err := svc.CreateVehicle(ctx, &domain.Vehicle{Brand: "Fiat", Model: "Uno", Year: 2015, Plate: "ABC1234", BranchID: a.ID})
	if err != nil {
		t.Fatalf("create uno: %v", err)
	}
	if _, err := svc.CreateVehicle(ctx, &domain.Vehicle{Brand: "Ford", Model: "Ka", Year: 2016, Plate: "KAA0001", BranchID: a.ID}); err != nil {
		t.Fatalf("create ka: %v", err)
	}

	got, err := svc.UpdateVehicle(ctx, uno.ID, &domain.Vehicle{Brand: "Fiat", Model: "Uno Way", Year: 2015, Plate: "abc1234", OdometerKm: intPtr(42000), BranchID: b.ID})
	if err != nil {
		t.Fatalf("keeping own plate: %v", err)
	}
	if got.Model != "Uno Way" || got.BranchID != b.ID || got.Branch == nil || got.Branch.Name != "Copacabana" {
		t.Errorf("updated = %+v", got)
	}
	if got.OdometerKm == nil || *got.OdometerKm != 42000 {
		t.Errorf("odometer = %v", got.OdometerKm)
	}

	_, err = svc.UpdateVehicle(ctx, uno.ID, &domain.Vehicle{Brand: "Fiat", Model: "Uno", Year: 2015, Plate: "KAA0001", BranchID: a.ID})
	if errCode(err) != domain.CodeConflict {
		t.Errorf("taking another plate: err = %v", err)
	}

	_, err = svc.UpdateVehicle(ctx, 999, &domain.Vehicle{Brand: "Fiat", Model: "Uno", Year: 2015, Plate: "ZZZ0001", BranchID: a.ID})
	if !domain.IsNotFound(err) {
		t.Errorf("missing vehicle: err = %v", err)
	}
}

func TestDeleteVehicle(t *testing.T) {
	svc, a, _ := setupService(t)
	ctx := context.Background()

	v, err := svc.CreateVehicle(ctx, &domain.Vehicle{Brand: "Fiat", Model: "Uno", Year: 2015, Plate: "ABC1234", BranchID: a.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteVehicle(ctx, v.ID); err != nil {
		t.Fatalf("DeleteVehicle: %v", err)
	}
	if err := svc.DeleteVehicle(ctx, v.ID); !domain.IsNotFound(err) || err.Error() != "vehicle not found" {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestVehicleFinders_Validate(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	params := domain.QueryParams{}

	if _, err := svc.GetVehicleByPlate(ctx, "  "); !domain.IsValidation(err) {
		t.Errorf("blank plate: err = %v", err)
	}
	if _, err := svc.ListVehiclesByBrand(ctx, "", params); !domain.IsValidation(err) {
		t.Errorf("blank brand: err = %v", err)
	}
	if _, err := svc.ListVehiclesByYear(ctx, 1800, params); !domain.IsValidation(err) {
		t.Errorf("year 1800: err = %v", err)
	}
	if _, err := svc.ListVehiclesByOdometerRange(ctx, domain.OdometerRange{Min: intPtr(-5)}, params); !domain.IsValidation(err) {
		t.Errorf("negative min: err = %v", err)
	}
	if _, err := svc.ListVehiclesByOdometerRange(ctx, domain.OdometerRange{Min: intPtr(10), Max: intPtr(5)}, params); !domain.IsValidation(err) {
		t.Errorf("inverted range: err = %v", err)
	}
	page, err := svc.ListVehiclesByOdometerRange(ctx, domain.OdometerRange{Min: intPtr(5), Max: intPtr(5)}, params)
	if err != nil || page.Len() != 0 {
		t.Errorf("degenerate range: len=%v err=%v", page, err)
	}
}
