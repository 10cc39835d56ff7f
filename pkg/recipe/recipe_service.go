package recipe

import (
	"Recipegram-Backend/domain"
	"Recipegram-Backend/entities"
	"Recipegram-Backend/internal/utils/storage"
	"Recipegram-Backend/pkg/catalog"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, page, limit int) (domain.RecipeListResponse, error)

		AddFavorite(ctx context.Context, userID, recipeID string) (domain.RecipeShortResponse, error)
		RemoveFavorite(ctx context.Context, userID, recipeID string) error
		AddToCart(ctx context.Context, userID, recipeID string) (domain.RecipeShortResponse, error)
		RemoveFromCart(ctx context.Context, userID, recipeID string) error

		GetShoppingList(ctx context.Context, userID string) ([]domain.PurchaseItem, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		catalogRepository catalog.CatalogRepository
		s3                storage.AwsS3
	}
)

func NewRecipeService(recipeRepository RecipeRepository, catalogRepository catalog.CatalogRepository, s3 storage.AwsS3) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		catalogRepository: catalogRepository,
		s3:                s3,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID string) (domain.RecipeResponse, error) {
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	tagUUIDs, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	ingredientRows, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if req.CookingTime < domain.MinCookingTime || req.CookingTime > domain.MaxCookingTime {
		return domain.RecipeResponse{}, domain.ErrCookingTimeBounds
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorUUID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		PubDate:     time.Now(),
	}

	if req.Image != "" {
		imageURL, err := s.uploadImage(ctx, recipe.ID.String(), req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.ImageURL = imageURL
	}

	for _, row := range ingredientRows {
		row.RecipeID = recipe.ID
	}
	tagRows := make([]*entities.RecipeTag, 0, len(tagUUIDs))
	for _, tagID := range tagUUIDs {
		tagRows = append(tagRows, &entities.RecipeTag{
			ID:       uuid.New(),
			RecipeID: recipe.ID,
			TagID:    tagID,
		})
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, ingredientRows, tagRows); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID.String(), authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if recipe.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	var tagRows []*entities.RecipeTag
	if req.Tags != nil {
		tagUUIDs, err := s.resolveTags(ctx, req.Tags)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		tagRows = make([]*entities.RecipeTag, 0, len(tagUUIDs))
		for _, tagID := range tagUUIDs {
			tagRows = append(tagRows, &entities.RecipeTag{
				ID:       uuid.New(),
				RecipeID: recipe.ID,
				TagID:    tagID,
			})
		}
	}

	var ingredientRows []*entities.IngredientInRecipe
	if req.Ingredients != nil {
		ingredientRows, err = s.resolveIngredients(ctx, req.Ingredients)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		for _, row := range ingredientRows {
			row.RecipeID = recipe.ID
		}
	}

	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.Text != "" {
		recipe.Text = req.Text
	}
	if req.CookingTime > 0 {
		if req.CookingTime > domain.MaxCookingTime {
			return domain.RecipeResponse{}, domain.ErrCookingTimeBounds
		}
		recipe.CookingTime = req.CookingTime
	}
	if req.Image != "" {
		imageURL, err := s.uploadImage(ctx, recipe.ID.String(), req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.ImageURL = imageURL
	}

	// Drop preloaded associations so Save only touches the recipe row.
	recipe.Ingredients = nil
	recipe.Tags = nil
	recipe.Author = nil

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, ingredientRows, tagRows); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if recipe.AuthorID.String() != userID {
		return domain.ErrNotRecipeAuthor
	}

	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	isFavorited := false
	isInCart := false
	if viewerID != "" {
		if isFavorited, err = s.recipeRepository.IsFavorited(ctx, viewerID, recipeID); err != nil {
			return domain.RecipeResponse{}, err
		}
		if isInCart, err = s.recipeRepository.IsInCart(ctx, viewerID, recipeID); err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	return recipeResponse(recipe, isFavorited, isInCart), nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, page, limit int) (domain.RecipeListResponse, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, viewerID, page, limit)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	// Resolve both membership flags for the whole page at once instead
	// of two queries per recipe.
	favorited := map[string]bool{}
	inCart := map[string]bool{}
	if viewerID != "" && len(recipes) > 0 {
		ids := make([]string, 0, len(recipes))
		for _, recipe := range recipes {
			ids = append(ids, recipe.ID.String())
		}
		if favorited, err = s.recipeRepository.GetFavoritedSet(ctx, viewerID, ids); err != nil {
			return domain.RecipeListResponse{}, err
		}
		if inCart, err = s.recipeRepository.GetCartSet(ctx, viewerID, ids); err != nil {
			return domain.RecipeListResponse{}, err
		}
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		id := recipe.ID.String()
		res = append(res, recipeResponse(recipe, favorited[id], inCart[id]))
	}

	return domain.RecipeListResponse{
		Recipes:    res,
		Pagination: domain.NewPagination(page, limit, count),
	}, nil
}

func (s *recipeService) AddFavorite(ctx context.Context, userID, recipeID string) (domain.RecipeShortResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeShortResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeShortResponse{}, err
	}

	// Pre-check for a friendly error; the unique index on
	// (user_id, recipe_id) stays the authoritative guard.
	exists, err := s.recipeRepository.IsFavorited(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	if exists {
		return domain.RecipeShortResponse{}, domain.ErrAlreadyFavorited
	}

	if err := s.recipeRepository.AddFavorite(ctx, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyFavorited
		}
		return domain.RecipeShortResponse{}, err
	}

	return recipeShortResponse(recipe), nil
}

func (s *recipeService) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	removed, err := s.recipeRepository.RemoveFavorite(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotFavorited
	}
	return nil
}

func (s *recipeService) AddToCart(ctx context.Context, userID, recipeID string) (domain.RecipeShortResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeShortResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeShortResponse{}, err
	}

	exists, err := s.recipeRepository.IsInCart(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	if exists {
		return domain.RecipeShortResponse{}, domain.ErrAlreadyInCart
	}

	if err := s.recipeRepository.AddCartItem(ctx, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyInCart
		}
		return domain.RecipeShortResponse{}, err
	}

	return recipeShortResponse(recipe), nil
}

func (s *recipeService) RemoveFromCart(ctx context.Context, userID, recipeID string) error {
	removed, err := s.recipeRepository.RemoveCartItem(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotInCart
	}
	return nil
}

// GetShoppingList aggregates the viewer's cart. An empty cart is a
// client error, not an empty download.
func (s *recipeService) GetShoppingList(ctx context.Context, userID string) ([]domain.PurchaseItem, error) {
	count, err := s.recipeRepository.CountCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.ErrCartEmpty
	}

	return s.recipeRepository.GetShoppingList(ctx, userID)
}

// FormatShoppingList renders purchase rows into the plain-text
// artifact served as purchases.txt.
func FormatShoppingList(items []domain.PurchaseItem) string {
	var b strings.Builder
	b.WriteString(domain.ShoppingListHeader)
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s - %d %s.", item.Name, item.Amount, item.MeasurementUnit))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// resolveTags validates the tag id list (non-empty, no duplicates,
// every id known) and returns the parsed ids.
func (s *recipeService) resolveTags(ctx context.Context, tagIDs []string) ([]uuid.UUID, error) {
	if len(tagIDs) == 0 {
		return nil, domain.ErrNoTags
	}

	seen := make(map[string]bool, len(tagIDs))
	parsed := make([]uuid.UUID, 0, len(tagIDs))
	for _, id := range tagIDs {
		if seen[id] {
			return nil, domain.ErrDuplicateTag
		}
		seen[id] = true

		tagUUID, err := uuid.Parse(id)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		parsed = append(parsed, tagUUID)
	}

	tags, err := s.catalogRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, domain.ErrTagNotFound
	}

	return parsed, nil
}

// resolveIngredients validates the entry list (non-empty, no duplicate
// ingredient, amounts in bounds, every id known) and builds the join
// rows, recipe id left for the caller to fill.
func (s *recipeService) resolveIngredients(ctx context.Context, entries []domain.IngredientEntryRequest) ([]*entities.IngredientInRecipe, error) {
	if len(entries) == 0 {
		return nil, domain.ErrNoIngredients
	}

	seen := make(map[string]bool, len(entries))
	ids := make([]string, 0, len(entries))
	rows := make([]*entities.IngredientInRecipe, 0, len(entries))
	for _, entry := range entries {
		if seen[entry.ID] {
			return nil, domain.ErrDuplicateIngredient
		}
		seen[entry.ID] = true

		if entry.Amount < domain.MinAmount || entry.Amount > domain.MaxAmount {
			return nil, domain.ErrAmountOutOfBounds
		}

		ingredientUUID, err := uuid.Parse(entry.ID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}

		ids = append(ids, entry.ID)
		rows = append(rows, &entities.IngredientInRecipe{
			ID:           uuid.New(),
			IngredientID: ingredientUUID,
			Amount:       entry.Amount,
		})
	}

	ingredients, err := s.catalogRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(ingredients) != len(entries) {
		return nil, domain.ErrIngredientNotFound
	}

	return rows, nil
}

// uploadImage decodes a base64 image payload (optionally a data URL)
// and stores it under recipes/images/.
func (s *recipeService) uploadImage(ctx context.Context, recipeID, payload string) (string, error) {
	ext := "png"
	data := payload
	if strings.HasPrefix(payload, "data:") {
		meta, rest, found := strings.Cut(payload, ",")
		if !found {
			return "", domain.ErrInvalidImage
		}
		data = rest
		if strings.Contains(meta, "image/jpeg") {
			ext = "jpg"
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", domain.ErrInvalidImage
	}

	key := fmt.Sprintf("recipes/images/%s.%s", recipeID, ext)
	return s.s3.UploadBytes(ctx, key, decoded, "image/"+ext)
}

func recipeResponse(recipe *entities.Recipe, isFavorited, isInCart bool) domain.RecipeResponse {
	res := domain.RecipeResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		PubDate:     recipe.PubDate,
		IsFavorited: isFavorited,
		IsInCart:    isInCart,
		Tags:        make([]domain.TagResponse, 0, len(recipe.Tags)),
		Ingredients: make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients)),
	}

	if recipe.Author != nil {
		res.Author = domain.UserResponse{
			ID:        recipe.Author.ID.String(),
			Email:     recipe.Author.Email,
			Username:  recipe.Author.Username,
			FirstName: recipe.Author.FirstName,
			LastName:  recipe.Author.LastName,
		}
	}

	for _, recipeTag := range recipe.Tags {
		if recipeTag.Tag == nil {
			continue
		}
		res.Tags = append(res.Tags, domain.TagResponse{
			ID:    recipeTag.Tag.ID.String(),
			Name:  recipeTag.Tag.Name,
			Color: recipeTag.Tag.Color,
			Slug:  recipeTag.Tag.Slug,
		})
	}

	for _, row := range recipe.Ingredients {
		if row.Ingredient == nil {
			continue
		}
		res.Ingredients = append(res.Ingredients, domain.RecipeIngredientResponse{
			ID:              row.Ingredient.ID.String(),
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	return res
}

func recipeShortResponse(recipe *entities.Recipe) domain.RecipeShortResponse {
	return domain.RecipeShortResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}
