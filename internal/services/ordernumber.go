package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const (
	orderNumberPrefix   = "AB"
	orderNumberAttempts = 5
)

// generateOrderNumber produces a human-readable number: prefix + YYMMDD +
// 4-digit random, e.g. AB250614-0317. Not unique on its own.
func generateOrderNumber(at time.Time) string {
	return fmt.Sprintf("%s%s-%04d", orderNumberPrefix, at.Format("060102"), rand.Intn(10000))
}

// nextOrderNumber retries the random scheme against the store and falls back
// to a uuid-derived suffix when the day's number space is too crowded. A
// collision is never silently accepted.
func (s *OrderService) nextOrderNumber(ctx context.Context) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number := generateOrderNumber(s.now())
		exists, err := s.repo.OrderNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s%s-%s", orderNumberPrefix, s.now().Format("060102"), suffix), nil
}
