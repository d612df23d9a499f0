package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/branch-expenses/internal/common"
	"github.com/joseph-ayodele/branch-expenses/internal/entity"
	"github.com/joseph-ayodele/branch-expenses/internal/repository"
)

const maxNameLen = 120

// Service handles the branch and expense-concept catalogs.
type Service struct {
	catalogRepo repository.CatalogRepository
	logger      *slog.Logger
}

// NewService creates a new catalog service.
func NewService(catalogRepo repository.CatalogRepository, logger *slog.Logger) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// CreateBranch registers a branch.
func (s *Service) CreateBranch(ctx context.Context, name string) (*entity.Branch, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	br, err := s.catalogRepo.CreateBranch(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("branch created successfully", "branch_id", br.ID, "name", br.Name)
	return br, nil
}

// CreateConcept registers an active expense concept.
func (s *Service) CreateConcept(ctx context.Context, name string) (*entity.ExpenseConcept, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	c, err := s.catalogRepo.CreateConcept(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("expense concept created successfully", "concept_id", c.ID, "name", c.Name)
	return c, nil
}

// ListBranches returns all branches ordered by name.
func (s *Service) ListBranches(ctx context.Context) ([]*entity.Branch, error) {
	list, err := s.catalogRepo.ListBranches(ctx)
	if err != nil {
		// DB error already logged in repository layer
		return nil, err
	}
	s.logger.Debug("branches listed", "count", len(list))
	return list, nil
}

// ListConcepts returns the active expense concepts ordered by name.
func (s *Service) ListConcepts(ctx context.Context) ([]*entity.ExpenseConcept, error) {
	list, err := s.catalogRepo.ListConcepts(ctx, true)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("expense concepts listed", "count", len(list))
	return list, nil
}

func validateName(name string) error {
	v := common.NewValidator()
	v.Field("nombre", name, common.Required, common.MaxLength(maxNameLen))
	return v.Err()
}
