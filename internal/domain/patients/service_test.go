package patients

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var all []*Patient
	for _, p := range m.patients {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockRepo())

	contact := "555-0100"
	p, err := svc.Create(context.Background(), CreateInput{
		Name:    "Jane Doe",
		Age:     42,
		Gender:  "female",
		Contact: &contact,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected assigned id")
	}
	if p.Name != "Jane Doe" || p.Age != 42 {
		t.Errorf("unexpected patient %+v", p)
	}
}

func TestCreatePatientValidation(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing name", CreateInput{Age: 42}},
		{"negative age", CreateInput{Name: "Jane Doe", Age: -1}},
		{"age too high", CreateInput{Name: "Jane Doe", Age: 151}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.in); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetPatientNotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestListPatients(t *testing.T) {
	svc := NewService(newMockRepo())

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(context.Background(), CreateInput{Name: "Patient", Age: 30}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	items, total, err := svc.List(context.Background(), 3, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(items) != 3 {
		t.Errorf("len = %d, want 3", len(items))
	}
}
