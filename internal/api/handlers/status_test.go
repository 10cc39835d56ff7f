package handlers

import (
	"Recipegram-Backend/domain"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestStatusForError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"recipe not found", domain.ErrRecipeNotFound, fiber.StatusNotFound},
		{"user not found", domain.ErrUserNotFound, fiber.StatusNotFound},
		{"not the author", domain.ErrNotRecipeAuthor, fiber.StatusForbidden},
		{"empty cart", domain.ErrCartEmpty, fiber.StatusBadRequest},
		{"already favorited", domain.ErrAlreadyFavorited, fiber.StatusBadRequest},
		{"self subscribe", domain.ErrSelfSubscribe, fiber.StatusBadRequest},
		{"bad uuid", domain.ErrParseUUID, fiber.StatusBadRequest},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := statusForError(tt.err); got != tt.want {
				t.Fatalf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
