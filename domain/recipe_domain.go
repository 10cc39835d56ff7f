package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes         = "success get recipes"
	MessageSuccessGetRecipeDetail    = "success get recipe detail"
	MessageSuccessCreateRecipe       = "recipe created successfully"
	MessageSuccessUpdateRecipe       = "recipe updated successfully"
	MessageSuccessDeleteRecipe       = "recipe deleted successfully"
	MessageSuccessAddFavorite        = "recipe added to favorites"
	MessageSuccessRemoveFavorite     = "recipe removed from favorites"
	MessageSuccessAddToCart          = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart     = "recipe removed from shopping cart"
	MessageSuccessDownloadCart       = "shopping list downloaded"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedAddFavorite     = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite  = "failed to remove recipe from favorites"
	MessageFailedAddToCart       = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart  = "failed to remove recipe from shopping cart"
	MessageFailedDownloadCart    = "failed to download shopping list"

	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrNotRecipeAuthor     = errors.New("only the author can modify this recipe")
	ErrNoTags              = errors.New("recipe must have at least one tag")
	ErrDuplicateTag        = errors.New("duplicate tag in recipe")
	ErrNoIngredients       = errors.New("recipe must have at least one ingredient")
	ErrDuplicateIngredient = errors.New("duplicate ingredient in recipe")
	ErrAmountOutOfBounds   = errors.New("ingredient amount must be between 1 and 30")
	ErrCookingTimeBounds   = errors.New("cooking time must be between 1 and 1440 minutes")
	ErrInvalidImage        = errors.New("invalid image payload")
	ErrAlreadyFavorited    = errors.New("recipe already in favorites")
	ErrNotFavorited        = errors.New("recipe not in favorites")
	ErrAlreadyInCart       = errors.New("recipe already in shopping cart")
	ErrNotInCart           = errors.New("recipe not in shopping cart")
	ErrCartEmpty           = errors.New("shopping cart is empty")
)

const (
	MinAmount      = 1
	MaxAmount      = 30
	MinCookingTime = 1
	MaxCookingTime = 1440
)

// ShoppingListHeader is the first line of the downloadable shopping
// list, kept in the wording users of the original service expect.
const ShoppingListHeader = "Что нужно купить:\n\n"

type (
	IngredientEntryRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,min=1,max=30"`
	}

	CreateRecipeRequest struct {
		Name        string                   `json:"name" validate:"required,max=100"`
		Image       string                   `json:"image" validate:"omitempty"`
		Text        string                   `json:"text" validate:"omitempty"`
		CookingTime int                      `json:"cooking_time" validate:"required,min=1,max=1440"`
		Tags        []string                 `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []IngredientEntryRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	UpdateRecipeRequest struct {
		Name        string                   `json:"name" validate:"omitempty,max=100"`
		Image       string                   `json:"image" validate:"omitempty"`
		Text        string                   `json:"text" validate:"omitempty"`
		CookingTime int                      `json:"cooking_time" validate:"omitempty,min=1,max=1440"`
		Tags        []string                 `json:"tags" validate:"omitempty,min=1,dive,uuid"`
		Ingredients []IngredientEntryRequest `json:"ingredients" validate:"omitempty,min=1,dive"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID          string                     `json:"id"`
		Author      UserResponse               `json:"author"`
		Name        string                     `json:"name"`
		ImageURL    string                     `json:"image_url,omitempty"`
		Text        string                     `json:"text"`
		CookingTime int                        `json:"cooking_time"`
		PubDate     time.Time                  `json:"pub_date"`
		Tags        []TagResponse              `json:"tags"`
		Ingredients []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited bool                       `json:"is_favorited"`
		IsInCart    bool                       `json:"is_in_shopping_cart"`
	}

	RecipeListResponse struct {
		Recipes    []RecipeResponse `json:"recipes"`
		Pagination Pagination       `json:"pagination"`
	}

	// RecipeFilter narrows the recipe list; the membership filters only
	// apply for an authenticated viewer.
	RecipeFilter struct {
		TagSlugs      []string
		AuthorID      string
		OnlyFavorited bool
		OnlyInCart    bool
	}

	// PurchaseItem is one aggregated shopping-list row: amounts of the
	// same ingredient are summed across every recipe in the cart.
	PurchaseItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}
)
