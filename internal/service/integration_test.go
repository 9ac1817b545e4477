package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/listings/internal/db"
	"github.com/persistorai/listings/internal/models"
	"github.com/persistorai/listings/internal/store"
)

func newSQLiteService(t *testing.T) *PropertyService {
	t.Helper()

	sqlDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "listings.db"))
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(context.Background(), sqlDB, goose.DialectSQLite3, testLogger()); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	st := store.NewSQLiteStore(store.Base{Log: testLogger()}, sqlDB)

	return NewPropertyService(st, testLogger())
}

func createSample(t *testing.T, svc *PropertyService) int64 {
	t.Helper()

	id, err := svc.CreateProperty(context.Background(), models.CreatePropertyRequest{
		Name: ptr("Casa"), Description: ptr("d"), Image: ptr("i"), Location: ptr("l"),
		Price: ptr("100"), Address: ptr("a"), Area: ptr(50), Rooms: ptr(3), Bathrooms: ptr(1),
		Garage: ptr(false),
	})
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}

	return id
}

func TestPropertyService_SQLite_UpdateScenario(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)
	id := createSample(t, svc)

	if _, err := svc.ListPropertyChanges(ctx, id, ""); !errors.Is(err, models.ErrChangesNotFound) {
		t.Fatalf("never-updated property: err = %v, want ErrChangesNotFound", err)
	}

	if _, err := svc.UpdateProperty(ctx, id, models.UpdatePropertyRequest{Price: ptr("120"), Rooms: ptr(3)}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	first, err := svc.ListPropertyChanges(ctx, id, "")
	if err != nil {
		t.Fatalf("ListPropertyChanges: %v", err)
	}
	if len(first) != 1 || first[0].ChangedField != "price" || first[0].OldValue != "100" || first[0].NewValue != "120" {
		t.Fatalf("unexpected changes after first update: %+v", first)
	}

	got, err := svc.UpdateProperty(ctx, id, models.UpdatePropertyRequest{Garage: ptr(true)})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if !got.Garage || got.Price != "120" {
		t.Errorf("unexpected property after second update: %+v", got)
	}

	all, err := svc.ListPropertyChanges(ctx, id, "")
	if err != nil {
		t.Fatalf("ListPropertyChanges: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(all))
	}
	if all[0].ChangedField != "price" || all[1].ChangedField != "garage" {
		t.Errorf("expected price then garage, got %s then %s", all[0].ChangedField, all[1].ChangedField)
	}
	if all[1].OldValue != "false" || all[1].NewValue != "true" {
		t.Errorf("unexpected garage change: %+v", all[1])
	}

	// Repeating the last update records nothing.
	if _, err := svc.UpdateProperty(ctx, id, models.UpdatePropertyRequest{Garage: ptr(true)}); err != nil {
		t.Fatalf("repeat update: %v", err)
	}

	again, err := svc.ListPropertyChanges(ctx, id, "")
	if err != nil {
		t.Fatalf("ListPropertyChanges: %v", err)
	}
	if len(again) != 2 {
		t.Errorf("expected repeat update to add no rows, got %d", len(again))
	}

	garage, err := svc.ListPropertyChanges(ctx, id, "garage")
	if err != nil {
		t.Fatalf("ListPropertyChanges garage: %v", err)
	}
	if len(garage) != 1 {
		t.Errorf("expected 1 garage change, got %d", len(garage))
	}
}

func TestPropertyService_SQLite_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)
	id := createSample(t, svc)

	_, err := svc.UpdateProperty(ctx, id+100, models.UpdatePropertyRequest{Price: ptr("1")})
	if !errors.Is(err, models.ErrPropertyNotFound) {
		t.Fatalf("err = %v, want ErrPropertyNotFound", err)
	}

	if _, err := svc.ListPropertyChanges(ctx, id+100, ""); !errors.Is(err, models.ErrChangesNotFound) {
		t.Errorf("expected no rows for missing property, got %v", err)
	}

	p, err := svc.GetProperty(ctx, id)
	if err != nil {
		t.Fatalf("GetProperty: %v", err)
	}
	if p.Price != "100" {
		t.Errorf("expected existing property untouched, got price %s", p.Price)
	}
}

func TestPropertyService_SQLite_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	svc := newSQLiteService(t)
	id := createSample(t, svc)

	var g errgroup.Group

	for i := range 10 {
		g.Go(func() error {
			_, err := svc.UpdateProperty(ctx, id, models.UpdatePropertyRequest{
				Price: ptr(fmt.Sprintf("%d", 1000+i)),
				Rooms: ptr(i),
			})
			return err
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent update: %v", err)
	}

	for _, field := range []string{"price", "rooms"} {
		changes, err := svc.ListPropertyChanges(ctx, id, field)
		if err != nil {
			t.Fatalf("ListPropertyChanges %s: %v", field, err)
		}

		for i := 1; i < len(changes); i++ {
			if changes[i].OldValue != changes[i-1].NewValue {
				t.Errorf("%s gap at %d: %q does not follow %q", field, i, changes[i].OldValue, changes[i-1].NewValue)
			}
		}
	}
}
