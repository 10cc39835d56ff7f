package catalog

import (
	"Recipegram-Backend/domain"
	"Recipegram-Backend/entities"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) CatalogService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&entities.Tag{}, &entities.Ingredient{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewCatalogService(NewCatalogRepository(db))
}

func TestCreateTagNormalizesAndRejectsDuplicates(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	created, err := svc.CreateTag(context.Background(), domain.CreateTagRequest{
		Name:  "Breakfast",
		Color: "#E26C2D",
		Slug:  "Breakfast",
	})
	if err != nil {
		t.Fatalf("CreateTag returned error: %v", err)
	}
	if created.Name != "breakfast" || created.Color != "#e26c2d" || created.Slug != "breakfast" {
		t.Fatalf("expected lowercased fields, got %+v", created)
	}

	// Same name after normalization, everything else fresh.
	if _, err := svc.CreateTag(context.Background(), domain.CreateTagRequest{
		Name:  "breakfast",
		Color: "#ffffff",
		Slug:  "morning",
	}); !errors.Is(err, domain.ErrTagTaken) {
		t.Fatalf("expected ErrTagTaken for duplicate name, got %v", err)
	}

	// Duplicate color with a fresh name and slug.
	if _, err := svc.CreateTag(context.Background(), domain.CreateTagRequest{
		Name:  "dinner",
		Color: "#e26c2d",
		Slug:  "dinner",
	}); !errors.Is(err, domain.ErrTagTaken) {
		t.Fatalf("expected ErrTagTaken for duplicate color, got %v", err)
	}
}

func TestCreateTagColorValidation(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	cases := []struct {
		name  string
		color string
		valid bool
	}{
		{"six digit", "#49b64e", true},
		{"three digit", "#fff", true},
		{"uppercase digits", "#E26C2D", true},
		{"no hash", "49b64e", false},
		{"free text", "not-a-hex-color", false},
		{"wrong length", "#49b6", false},
		{"non hex digits", "#gggggg", false},
	}

	for i, tt := range cases {
		tt, i := tt, i
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTag(context.Background(), domain.CreateTagRequest{
				Name:  fmt.Sprintf("tag-%d", i),
				Color: tt.color,
				Slug:  fmt.Sprintf("tag-%d", i),
			})
			if tt.valid && err != nil {
				t.Fatalf("expected %q accepted, got %v", tt.color, err)
			}
			if !tt.valid && !errors.Is(err, domain.ErrTagColorInvalid) {
				t.Fatalf("expected ErrTagColorInvalid for %q, got %v", tt.color, err)
			}
		})
	}
}

func TestGetTagDetailNotFound(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	if _, err := svc.GetTagDetail(context.Background(), uuid.NewString()); !errors.Is(err, domain.ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
}

func TestGetIngredientsPrefixFilter(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	for _, seed := range []struct{ name, unit string }{
		{"salt", "g"},
		{"salmon", "g"},
		{"pepper", "g"},
	} {
		if _, err := svc.CreateIngredient(context.Background(), seed.name, seed.unit); err != nil {
			t.Fatalf("CreateIngredient returned error: %v", err)
		}
	}

	cases := []struct {
		prefix string
		want   []string
	}{
		{"sal", []string{"salmon", "salt"}},
		{"pep", []string{"pepper"}},
		{"", []string{"pepper", "salmon", "salt"}},
		{"xyz", nil},
	}

	for _, tt := range cases {
		tt := tt
		t.Run("prefix "+tt.prefix, func(t *testing.T) {
			res, err := svc.GetIngredients(context.Background(), tt.prefix)
			if err != nil {
				t.Fatalf("GetIngredients returned error: %v", err)
			}
			if len(res) != len(tt.want) {
				t.Fatalf("expected %d results, got %d", len(tt.want), len(res))
			}
			for i, name := range tt.want {
				if res[i].Name != name {
					t.Fatalf("result %d = %s, want %s", i, res[i].Name, name)
				}
			}
		})
	}
}

func TestGetIngredientDetailNotFound(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	if _, err := svc.GetIngredientDetail(context.Background(), uuid.NewString()); !errors.Is(err, domain.ErrIngredientNotFound) {
		t.Fatalf("expected ErrIngredientNotFound, got %v", err)
	}
}
