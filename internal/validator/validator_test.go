package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewInput struct {
	RestaurantID string `json:"restoId" validate:"required"`
	Content      string `json:"content" validate:"required,not-blank,max=2000"`
	Rating       int    `json:"rating" validate:"review-rating"`
}

type profileInput struct {
	Gender   string `json:"gender" validate:"omitempty,is-gender"`
	AgeRange string `json:"ageRange" validate:"omitempty,is-age-range"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&reviewInput{RestaurantID: "r1", Content: "good", Rating: 5}))
	assert.NoError(t, v.Validate(&profileInput{Gender: "Female", AgeRange: "20s"}))
	assert.NoError(t, v.Validate(&profileInput{}))
}

func TestValidate_UsesJSONNames(t *testing.T) {
	v := New()
	err := v.Validate(&reviewInput{Content: "   ", Rating: 6})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "This field is required", vErr.Errors["restoId"])
	assert.Equal(t, "Must not be blank", vErr.Errors["content"])
	assert.Equal(t, "Rating must be between 1 and 5", vErr.Errors["rating"])
}

func TestValidate_RatingBounds(t *testing.T) {
	v := New()
	for _, r := range []int{0, -1, 6} {
		assert.Error(t, v.Validate(&reviewInput{RestaurantID: "r1", Content: "x", Rating: r}), "rating %d", r)
	}
	for r := 1; r <= 5; r++ {
		assert.NoError(t, v.Validate(&reviewInput{RestaurantID: "r1", Content: "x", Rating: r}), "rating %d", r)
	}
}

func TestValidate_ProfileEnums(t *testing.T) {
	v := New()
	err := v.Validate(&profileInput{Gender: "robot", AgeRange: "90s"})
	require.Error(t, err)
	vErr := err.(*ValidationError)
	assert.Contains(t, vErr.Errors, "gender")
	assert.Contains(t, vErr.Errors, "ageRange")
}

func TestValidationError_StableMessage(t *testing.T) {
	err := &ValidationError{Errors: map[string]string{"rating": "bad", "content": "empty"}}
	assert.Equal(t, "validation failed: content: empty; rating: bad", err.Error())
}

func TestValidate_MaxMessage(t *testing.T) {
	type listInput struct {
		ImageURLs []string `json:"imageUrls" validate:"max=2"`
	}
	err := New().Validate(&listInput{ImageURLs: []string{"a", "b", "c"}})
	require.Error(t, err)
	assert.Equal(t, "Must be at most 2 items/characters long", err.(*ValidationError).Errors["imageUrls"])
}
