package branch

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/simp-lee/fleetbase/internal/domain"
)

// branchService implements domain.BranchService.
type branchService struct {
	repo domain.BranchRepository
}

// NewBranchService creates a new BranchService with the given repository.
func NewBranchService(repo domain.BranchRepository) domain.BranchService {
	return &branchService{repo: repo}
}

// CreateBranch normalizes and validates branch, then persists it.
func (s *branchService) CreateBranch(ctx context.Context, branch *domain.Branch) (*domain.Branch, error) {
	normalize(branch)
	if err := validate(branch); err != nil {
		return nil, err
	}

	branch.ID = 0
	if err := s.repo.Add(ctx, branch); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "branch created", "branch_id", branch.ID, "city", branch.City)
	return branch, nil
}

func (s *branchService) GetBranch(ctx context.Context, id uint) (*domain.Branch, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *branchService) ListBranches(ctx context.Context, params domain.QueryParams) (*domain.Page[domain.Branch], error) {
	return s.repo.List(ctx, params)
}

func (s *branchService) ListBranchesByCity(ctx context.Context, city string, params domain.QueryParams) (*domain.Page[domain.Branch], error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "city is required", nil)
	}
	return s.repo.ListByCity(ctx, city, params)
}

func (s *branchService) ListBranchesByState(ctx context.Context, state string, params domain.QueryParams) (*domain.Page[domain.Branch], error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	if !validState(state) {
		return nil, domain.NewAppError(domain.CodeValidation, "state must be a two-letter code", nil)
	}
	return s.repo.ListByState(ctx, state, params)
}

// UpdateBranch loads the existing branch, applies changes and persists it.
func (s *branchService) UpdateBranch(ctx context.Context, id uint, changes *domain.Branch) (*domain.Branch, error) {
	normalize(changes)
	if err := validate(changes); err != nil {
		return nil, err
	}

	branch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	branch.Name = changes.Name
	branch.Address = changes.Address
	branch.City = changes.City
	branch.State = changes.State
	branch.PostalCode = changes.PostalCode

	if err := s.repo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// DeleteBranch removes a branch. Branches that still have employees or
// vehicles are kept and a conflict is returned.
func (s *branchService) DeleteBranch(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if domain.IsConflict(err) {
			slog.WarnContext(ctx, "branch delete refused", "branch_id", id, "error", err)
		}
		return err
	}
	if !deleted {
		return domain.NewAppError(domain.CodeNotFound, "branch not found", nil)
	}

	slog.InfoContext(ctx, "branch deleted", "branch_id", id)
	return nil
}

func (s *branchService) GetBranchDetail(ctx context.Context, id uint) (*domain.BranchDetail, error) {
	return s.repo.GetWithRelations(ctx, id)
}

// GetBranchStats returns dependent counts. A missing branch yields the zero
// placeholder, not an error.
func (s *branchService) GetBranchStats(ctx context.Context, id uint) (domain.BranchStats, error) {
	return s.repo.Stats(ctx, id)
}

func normalize(b *domain.Branch) {
	b.Name = strings.TrimSpace(b.Name)
	b.Address = strings.TrimSpace(b.Address)
	b.City = strings.TrimSpace(b.City)
	b.State = strings.ToUpper(strings.TrimSpace(b.State))
	if b.PostalCode != nil {
		pc := strings.TrimSpace(*b.PostalCode)
		if pc == "" {
			b.PostalCode = nil
		} else {
			b.PostalCode = &pc
		}
	}
}

func validate(b *domain.Branch) error {
	switch {
	case b.Name == "":
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	case utf8.RuneCountInString(b.Name) > 100:
		return domain.NewAppError(domain.CodeValidation, "name must be at most 100 characters", nil)
	case b.Address == "":
		return domain.NewAppError(domain.CodeValidation, "address is required", nil)
	case utf8.RuneCountInString(b.Address) > 200:
		return domain.NewAppError(domain.CodeValidation, "address must be at most 200 characters", nil)
	case b.City == "":
		return domain.NewAppError(domain.CodeValidation, "city is required", nil)
	case utf8.RuneCountInString(b.City) > 80:
		return domain.NewAppError(domain.CodeValidation, "city must be at most 80 characters", nil)
	case !validState(b.State):
		return domain.NewAppError(domain.CodeValidation, "state must be a two-letter code", nil)
	case b.PostalCode != nil && len(*b.PostalCode) > 10:
		return domain.NewAppError(domain.CodeValidation, "postal code must be at most 10 characters", nil)
	}
	return nil
}

func validState(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
