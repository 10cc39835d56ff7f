package handlers

import (
	"Recipegram-Backend/pkg/recipe"
	"Recipegram-Backend/pkg/user"
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type stubRecipeService struct {
	recipe.RecipeService
}

func (stubRecipeService) DeleteRecipe(context.Context, string, string) error   { return nil }
func (stubRecipeService) RemoveFavorite(context.Context, string, string) error { return nil }
func (stubRecipeService) RemoveFromCart(context.Context, string, string) error { return nil }

type stubUserService struct {
	user.UserService
}

func (stubUserService) Unsubscribe(context.Context, string, string) error { return nil }

// The delete paths answer 204, and a 204 carries no body; clients choke
// on a JSON envelope that never arrives.
func TestDeleteEndpointsAnswerEmptyNoContent(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	asUser := func(c *fiber.Ctx) error {
		c.Locals("user_id", "7b4e39a1-9c1f-4a53-8d02-52f1d6c9b1de")
		return c.Next()
	}
	recipeHandler := NewRecipeHandler(stubRecipeService{}, nil)
	userHandler := NewUserHandler(stubUserService{}, nil)
	app.Delete("/recipes/:id", asUser, recipeHandler.DeleteRecipe)
	app.Delete("/recipes/:id/favorite", asUser, recipeHandler.RemoveFavorite)
	app.Delete("/recipes/:id/shopping_cart", asUser, recipeHandler.RemoveFromCart)
	app.Delete("/users/:id/subscribe", asUser, userHandler.Unsubscribe)

	paths := []string{
		"/recipes/some-id",
		"/recipes/some-id/favorite",
		"/recipes/some-id/shopping_cart",
		"/users/some-id/subscribe",
	}

	for _, path := range paths {
		path := path
		t.Run(path, func(t *testing.T) {
			res, err := app.Test(httptest.NewRequest(fiber.MethodDelete, path, nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer res.Body.Close()

			if res.StatusCode != fiber.StatusNoContent {
				t.Fatalf("expected 204, got %d", res.StatusCode)
			}
			body, err := io.ReadAll(res.Body)
			if err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if len(body) != 0 {
				t.Fatalf("expected empty body on 204, got %q", body)
			}
		})
	}
}
