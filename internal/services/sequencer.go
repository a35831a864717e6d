package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"workorder-system/internal/repositories"
	"workorder-system/pkg/constants"
)

var ErrOrderNumbersExhausted = errors.New("order number range exhausted")

// SequencerInterface issues order numbers. A number is drawn once, at creation, and never changes.
type SequencerInterface interface {
	NextOrderNumber(ctx context.Context, tx pgx.Tx) (string, error)
}

type Sequencer struct {
	repo repositories.WorkOrderRepositoryInterface
}

func NewSequencer(repo repositories.WorkOrderRepositoryInterface) SequencerInterface {
	return &Sequencer{repo: repo}
}

// NextOrderNumber draws from the database sequence, so concurrent creations never share a value.
func (s *Sequencer) NextOrderNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	n, err := s.repo.NextOrderSequence(ctx, tx)
	if err != nil {
		return "", err
	}
	if n > constants.MaxOrderSequence {
		return "", fmt.Errorf("%w: drew %d", ErrOrderNumbersExhausted, n)
	}
	return FormatOrderNumber(n), nil
}

func FormatOrderNumber(n int64) string {
	return fmt.Sprintf(constants.OrderNumberFormat, n)
}
