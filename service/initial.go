package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hariomtransport/books/models"
)

// SaveInitial stores the company header printed on bills, memos and
// statements.
func (s *BookService) SaveInitial(ctx context.Context, initial models.InitialSetup) (models.InitialSetup, error) {
	initial.CompanyName = strings.TrimSpace(initial.CompanyName)
	if err := s.check(initial); err != nil {
		return models.InitialSetup{}, err
	}
	numbers := make([]string, 0, len(initial.Mobile))
	for _, m := range initial.Mobile {
		numbers = append(numbers, m.Number)
	}
	if err := checkContacts(numbers); err != nil {
		return models.InitialSetup{}, err
	}
	initial.CreatedAt = s.now()
	if err := s.store.Initial.SaveInitial(ctx, &initial); err != nil {
		return models.InitialSetup{}, err
	}
	return initial, nil
}

func (s *BookService) GetInitial(ctx context.Context) (*models.InitialSetup, error) {
	initial, err := s.store.Initial.GetInitial(ctx)
	if err != nil {
		return nil, err
	}
	if initial == nil {
		return nil, fmt.Errorf("company details: %w", ErrNotFound)
	}
	return initial, nil
}
