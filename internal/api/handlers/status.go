package handlers

import (
	"Recipegram-Backend/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps service errors onto HTTP statuses: missing
// entities are 404, ownership violations 403, everything else the
// services signal (validation, conflicts, empty cart) is a 400, and
// unknown errors are a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNotRecipeAuthor):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNoTags),
		errors.Is(err, domain.ErrDuplicateTag),
		errors.Is(err, domain.ErrNoIngredients),
		errors.Is(err, domain.ErrDuplicateIngredient),
		errors.Is(err, domain.ErrAmountOutOfBounds),
		errors.Is(err, domain.ErrCookingTimeBounds),
		errors.Is(err, domain.ErrInvalidImage),
		errors.Is(err, domain.ErrAlreadyFavorited),
		errors.Is(err, domain.ErrNotFavorited),
		errors.Is(err, domain.ErrAlreadyInCart),
		errors.Is(err, domain.ErrNotInCart),
		errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrSelfSubscribe),
		errors.Is(err, domain.ErrAlreadySubscribed),
		errors.Is(err, domain.ErrNotSubscribed),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrCredentialsInvalid),
		errors.Is(err, domain.ErrTagTaken),
		errors.Is(err, domain.ErrTagColorInvalid),
		errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func paginationParams(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 {
		limit = 20
	}
	return page, limit
}

func viewerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
