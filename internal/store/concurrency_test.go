package store_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/persistorai/listings/internal/domain"
	"github.com/persistorai/listings/internal/models"
)

// TestConcurrentUpdates_GapFreeChain runs read-modify-write updates on one
// property in parallel and checks the change log forms an unbroken chain.
func TestConcurrentUpdates_GapFreeChain(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s domain.PropertyStore) {
		ctx := context.Background()
		id := mustCreate(t, s, "Casa")

		const writers = 8

		var g errgroup.Group

		for i := range writers {
			price := strconv.Itoa(200 + i)

			g.Go(func() error {
				return s.InTx(ctx, func(ctx context.Context, tx domain.PropertyTx) error {
					p, err := tx.LockProperty(ctx, id)
					if err != nil {
						return err
					}

					old := p.Price
					p.Price = price

					if err := tx.UpdateProperty(ctx, p); err != nil {
						return err
					}

					return tx.InsertChanges(ctx, []models.PropertyChange{{
						PropertyID:   id,
						ChangedField: "price",
						OldValue:     old,
						NewValue:     price,
						ChangedAt:    time.Now().UTC(),
					}})
				})
			})
		}

		if err := g.Wait(); err != nil {
			t.Fatalf("concurrent update: %v", err)
		}

		changes, err := s.ListChanges(ctx, id, "price")
		if err != nil {
			t.Fatalf("ListChanges: %v", err)
		}
		if len(changes) != writers {
			t.Fatalf("expected %d changes, got %d", writers, len(changes))
		}

		if changes[0].OldValue != "100" {
			t.Errorf("expected chain to start at 100, got %s", changes[0].OldValue)
		}

		for i := 1; i < len(changes); i++ {
			if changes[i].OldValue != changes[i-1].NewValue {
				t.Errorf("gap at %d: old %s does not follow previous new %s", i, changes[i].OldValue, changes[i-1].NewValue)
			}
		}

		final, err := s.GetProperty(ctx, id)
		if err != nil {
			t.Fatalf("GetProperty: %v", err)
		}
		if final.Price != changes[len(changes)-1].NewValue {
			t.Errorf("expected final price %s, got %s", changes[len(changes)-1].NewValue, final.Price)
		}
	})
}
