package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/fleetbase/internal/module/branch"
	"github.com/simp-lee/fleetbase/internal/module/employee"
	"github.com/simp-lee/fleetbase/internal/module/vehicle"
	"github.com/simp-lee/fleetbase/internal/store"
)

// Module is a self-registering record module.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup)
}

// buildModules wires repository, service and handler for every record kind.
// Employees and vehicles check their branch reference through the branch
// repository.
func buildModules(db *gorm.DB, apiBase string, opts ...store.Option) []Module {
	branches := branch.NewBranchRepository(db, opts...)
	employees := employee.NewEmployeeRepository(db, opts...)
	vehicles := vehicle.NewVehicleRepository(db, opts...)

	return []Module{
		branch.NewModule(branch.NewBranchHandler(branch.NewBranchService(branches), apiBase)),
		employee.NewModule(employee.NewEmployeeHandler(employee.NewEmployeeService(employees, branches), apiBase)),
		vehicle.NewModule(vehicle.NewVehicleHandler(vehicle.NewVehicleService(vehicles, branches), apiBase)),
	}
}
