package employee

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/simp-lee/fleetbase/internal/domain"
)

// BranchChecker reports whether a branch exists.
type BranchChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// employeeService implements domain.EmployeeService.
type employeeService struct {
	repo     domain.EmployeeRepository
	branches BranchChecker
}

// NewEmployeeService creates a new EmployeeService. branches is consulted
// before every write so an employee never points at a missing branch.
func NewEmployeeService(repo domain.EmployeeRepository, branches BranchChecker) domain.EmployeeService {
	return &employeeService{repo: repo, branches: branches}
}

// CreateEmployee validates input, checks email uniqueness and the branch
// reference, then persists the employee.
func (s *employeeService) CreateEmployee(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	normalize(e)
	if err := validate(e); err != nil {
		return nil, err
	}
	if err := s.checkWrite(ctx, e, nil); err != nil {
		return nil, err
	}

	e.ID = 0
	e.Branch = nil
	if err := s.repo.Add(ctx, e); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "employee created", "employee_id", e.ID, "branch_id", e.BranchID)
	return s.repo.GetByID(ctx, e.ID)
}

func (s *employeeService) GetEmployee(ctx context.Context, id uint) (*domain.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *employeeService) GetEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "email is required", nil)
	}
	return s.repo.GetByEmail(ctx, email)
}

func (s *employeeService) ListEmployees(ctx context.Context, params domain.QueryParams) (*domain.Page[domain.Employee], error) {
	return s.repo.List(ctx, params)
}

func (s *employeeService) ListEmployeesByBranch(ctx context.Context, branchID uint, params domain.QueryParams) (*domain.Page[domain.Employee], error) {
	return s.repo.ListByBranch(ctx, branchID, params)
}

func (s *employeeService) ListEmployeesByRole(ctx context.Context, role string, params domain.QueryParams) (*domain.Page[domain.Employee], error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "role is required", nil)
	}
	return s.repo.ListByRole(ctx, role, params)
}

// UpdateEmployee loads the existing employee, applies changes and persists
// them. An employee may keep its own email address.
func (s *employeeService) UpdateEmployee(ctx context.Context, id uint, changes *domain.Employee) (*domain.Employee, error) {
	normalize(changes)
	if err := validate(changes); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkWrite(ctx, changes, &id); err != nil {
		return nil, err
	}

	e.Name = changes.Name
	e.Email = changes.Email
	e.Role = changes.Role
	e.BranchID = changes.BranchID
	e.Branch = nil

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NewAppError(domain.CodeNotFound, "employee not found", nil)
	}

	slog.InfoContext(ctx, "employee deleted", "employee_id", id)
	return nil
}

// checkWrite runs the pre-write checks: the email is unused by any other
// employee and the branch exists.
func (s *employeeService) checkWrite(ctx context.Context, e *domain.Employee, excludeID *uint) error {
	taken, err := s.repo.EmailExists(ctx, e.Email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		slog.WarnContext(ctx, "employee email already in use", "email", e.Email)
		return domain.NewAppError(domain.CodeConflict, "email already in use", nil)
	}

	ok, err := s.branches.Exists(ctx, e.BranchID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewAppError(domain.CodeInvalidReference, fmt.Sprintf("branch %d does not exist", e.BranchID), nil)
	}
	return nil
}

func normalize(e *domain.Employee) {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	e.Role = strings.TrimSpace(e.Role)
}

func validate(e *domain.Employee) error {
	switch {
	case e.Name == "":
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	case utf8.RuneCountInString(e.Name) > 100:
		return domain.NewAppError(domain.CodeValidation, "name must be at most 100 characters", nil)
	case e.Email == "":
		return domain.NewAppError(domain.CodeValidation, "email is required", nil)
	case utf8.RuneCountInString(e.Email) > 150:
		return domain.NewAppError(domain.CodeValidation, "email must be at most 150 characters", nil)
	case e.Role == "":
		return domain.NewAppError(domain.CodeValidation, "role is required", nil)
	case utf8.RuneCountInString(e.Role) > 80:
		return domain.NewAppError(domain.CodeValidation, "role must be at most 80 characters", nil)
	case e.BranchID == 0:
		return domain.NewAppError(domain.CodeValidation, "branchId is required", nil)
	}
	if _, err := mail.ParseAddress(e.Email); err != nil {
		return domain.NewAppError(domain.CodeValidation, "email must be a valid email address", nil)
	}
	return nil
}
