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

type CustomerRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=120"`
	Phone   string `json:"phone" validate:"max=20"`
	Address string `json:"address"`
}

type CustomerService interface {
	Create(ctx context.Context, req *CustomerRequest) (*model.Customer, error)
	Update(ctx context.Context, id uuid.UUID, req *CustomerRequest) (*model.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
	log  *zap.Logger
}

func NewCustomerService(repo repository.CustomerRepository, log *zap.Logger) CustomerService {
	return &customerService{repo: repo, log: log.Named("customer")}
}

func (s *customerService) Create(ctx context.Context, req *CustomerRequest) (*model.Customer, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, uuid.Nil); err != nil {
		return nil, err
	}

	customer := &model.Customer{}
	applyCustomer(customer, req)
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	s.log.Info("Customer created", zap.String("id", customer.ID.String()))
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req *CustomerRequest) (*model.Customer, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, id); err != nil {
		return nil, err
	}

	applyCustomer(customer, req)
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *customerService) List(ctx context.Context) ([]model.Customer, error) {
	return s.repo.FindAll(ctx)
}

// Delete refuses customers that still own invoices
func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	has, err := s.repo.HasInvoices(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return apperror.Validation("Customer has invoices and cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Customer deleted", zap.String("id", id.String()))
	return nil
}

func (s *customerService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.ValidationWithDetails(map[string]string{"email": "already registered"}, "Email already registered")
	}
	return nil
}

func applyCustomer(c *model.Customer, req *CustomerRequest) {
	c.Name = strings.TrimSpace(req.Name)
	c.Email = req.Email
	c.Phone = req.Phone
	c.Address = req.Address
}
