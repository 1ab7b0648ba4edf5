package personnel

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"hourbank/internal/domain/errs"
)

type Service struct {
	store    StoreAPI
	validate *validator.Validate
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, validate: validator.New()}
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	e, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return Employee{}, errs.Store("personnel.get", err)
	}
	if !ok {
		return Employee{}, errs.NotFound("personnel.get", "employee not found")
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, unitID string) ([]Employee, error) {
	employees, err := s.store.List(ctx, strings.TrimSpace(unitID))
	if err != nil {
		return nil, errs.Store("personnel.list", err)
	}
	return employees, nil
}

func (s *Service) Create(ctx context.Context, input NewEmployee) (Employee, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Surname = strings.TrimSpace(input.Surname)
	input.NationalID = strings.TrimSpace(input.NationalID)
	input.UnitID = strings.TrimSpace(input.UnitID)
	if err := s.validate.Struct(input); err != nil {
		return Employee{}, errs.Validation("personnel.create", describe(err))
	}
	created, err := s.store.Create(ctx, Employee{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Surname:    input.Surname,
		NationalID: input.NationalID,
		UnitID:     input.UnitID,
	})
	if err != nil {
		return Employee{}, errs.Store("personnel.create", err)
	}
	return created, nil
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid employee"
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, strings.ToLower(fe.Field()[:1])+fe.Field()[1:]+" "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
