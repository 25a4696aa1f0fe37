package services

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/mihirmehra/employee-management-system/errors"
)

func TestHolidayLifecycle(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	svc := NewHolidayService(newTestStore(t), cache, nil, time.UTC)

	tet, err := svc.Create(ctx, hr, HolidayInput{Name: " Tet ", FromDate: d(2024, time.February, 8), ToDate: d(2024, time.February, 14)})
	if err != nil {
		t.Fatal(err)
	}
	if tet.Name != "Tet" {
		t.Fatalf("name = %q", tet.Name)
	}
	if _, err := svc.Create(ctx, hr, HolidayInput{Name: "New Year", FromDate: d(2024, time.January, 1), ToDate: d(2024, time.January, 1)}); err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(ctx, time.Time{}, time.Time{})
	if err != nil || len(all) != 2 || all[0].Name != "New Year" {
		t.Fatalf("list = %+v, %v", all, err)
	}
	if _, err := svc.List(ctx, time.Time{}, time.Time{}); err != nil || cache.hits != 1 {
		t.Fatalf("second list should hit cache, hits=%d err=%v", cache.hits, err)
	}

	feb, err := svc.List(ctx, d(2024, time.February, 1), d(2024, time.February, 29))
	if err != nil || len(feb) != 1 || feb[0].ID != tet.ID {
		t.Fatalf("february = %+v, %v", feb, err)
	}

	updated, err := svc.Update(ctx, admin, tet.ID, HolidayInput{Name: "Tet", FromDate: d(2024, time.February, 9), ToDate: d(2024, time.February, 14)})
	if err != nil || updated.FromDate.Day() != 9 {
		t.Fatalf("update = %+v, %v", updated, err)
	}
	if _, ok := cache.items[holidaysCacheKey]; ok {
		t.Fatal("update must invalidate the cache")
	}

	if err := svc.Delete(ctx, hr, []uint{tet.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, tet.ID); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("deleted holiday: got %v", err)
	}
}

func TestHolidayGuards(t *testing.T) {
	ctx := context.Background()
	svc := NewHolidayService(newTestStore(t), nil, nil, time.UTC)

	if _, err := svc.Create(ctx, employee, HolidayInput{Name: "x", FromDate: d(2024, 1, 1), ToDate: d(2024, 1, 1)}); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("employee create: got %v", err)
	}
	if _, err := svc.Create(ctx, hr, HolidayInput{Name: "x", FromDate: d(2024, 1, 2), ToDate: d(2024, 1, 1)}); !apperrors.HasCode(err, apperrors.ErrCodeValidation) {
		t.Fatalf("reversed range: got %v", err)
	}
	if _, err := svc.Create(ctx, hr, HolidayInput{FromDate: d(2024, 1, 1), ToDate: d(2024, 1, 1)}); !apperrors.HasCode(err, apperrors.ErrCodeRequiredField) {
		t.Fatalf("missing name: got %v", err)
	}
	if err := svc.Delete(ctx, hr, nil); !apperrors.HasCode(err, apperrors.ErrCodeRequiredField) {
		t.Fatalf("empty delete: got %v", err)
	}
	if _, err := svc.Update(ctx, hr, 42, HolidayInput{Name: "x", FromDate: d(2024, 1, 1), ToDate: d(2024, 1, 1)}); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("missing holiday: got %v", err)
	}
}
