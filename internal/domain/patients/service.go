package patients

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name    string  `json:"name"`
	Age     int     `json:"age"`
	Gender  string  `json:"gender"`
	Contact *string `json:"contact"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Patient, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Age < 0 || in.Age > 150 {
		return nil, fmt.Errorf("%w: age must be between 0 and 150", ErrInvalidInput)
	}

	p := &Patient{
		Name:    in.Name,
		Age:     in.Age,
		Gender:  in.Gender,
		Contact: in.Contact,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}
