package domain

import (
	"errors"
)

var (
	MessageSuccessGetTags        = "success get tags"
	MessageSuccessGetTagDetail   = "success get tag detail"
	MessageSuccessGetIngredients = "success get ingredients"
	MessageSuccessGetIngredient  = "success get ingredient detail"

	MessageFailedGetTags        = "failed to get tags"
	MessageFailedGetTagDetail   = "failed to get tag detail"
	MessageFailedGetIngredients = "failed to get ingredients"
	MessageFailedGetIngredient  = "failed to get ingredient detail"

	ErrTagNotFound        = errors.New("tag not found")
	ErrTagTaken           = errors.New("tag name, color or slug already in use")
	ErrTagColorInvalid    = errors.New("tag color must be a hex color like #49b64e")
	ErrIngredientNotFound = errors.New("ingredient not found")
)

type (
	CreateTagRequest struct {
		Name  string `json:"name" validate:"required,max=20"`
		Color string `json:"color" validate:"required,hexcolor"`
		Slug  string `json:"slug" validate:"required,max=50"`
	}

	TagResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}

	IngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
)
