package service

import (
	"context"
	"strings"

	"salesnexus/internal/apperror"
	"salesnexus/internal/model"
	"salesnexus/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SupplierRequest struct {
	Name               string `json:"name" validate:"required,max=100"`
	Email              string `json:"email" validate:"required,email,max=120"`
	Phone              string `json:"phone" validate:"max=20"`
	Address            string `json:"address"`
	RelationshipStatus string `json:"relationship_status" validate:"max=50"`
	AccountManager     string `json:"account_manager" validate:"max=100"`
	Notes              string `json:"notes"`
}

type SupplierService interface {
	Create(ctx context.Context, req *SupplierRequest) (*model.Supplier, error)
	Update(ctx context.Context, id uuid.UUID, req *SupplierRequest) (*model.Supplier, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context) ([]model.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo repository.SupplierRepository
	log  *zap.Logger
}

func NewSupplierService(repo repository.SupplierRepository, log *zap.Logger) SupplierService {
	return &supplierService{repo: repo, log: log.Named("supplier")}
}

func (s *supplierService) Create(ctx context.Context, req *SupplierRequest) (*model.Supplier, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, uuid.Nil); err != nil {
		return nil, err
	}

	supplier := &model.Supplier{}
	applySupplier(supplier, req)
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	s.log.Info("Supplier created", zap.String("id", supplier.ID.String()))
	return supplier, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req *SupplierRequest) (*model.Supplier, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, id); err != nil {
		return nil, err
	}

	applySupplier(supplier, req)
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *supplierService) List(ctx context.Context) ([]model.Supplier, error) {
	return s.repo.FindAll(ctx)
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	has, err := s.repo.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return apperror.Validation("Supplier still has products and cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}

func (s *supplierService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.ValidationWithDetails(map[string]string{"email": "already registered"}, "Email already registered")
	}
	return nil
}

func applySupplier(s *model.Supplier, req *SupplierRequest) {
	s.Name = strings.TrimSpace(req.Name)
	s.Email = req.Email
	s.Phone = req.Phone
	s.Address = req.Address
	s.RelationshipStatus = req.RelationshipStatus
	s.AccountManager = req.AccountManager
	s.Notes = req.Notes
}
