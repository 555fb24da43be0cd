package validator

import (
	"log"
	"strings"

	"nopo_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка конфигурации, приложение не должно стартовать.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'review-rating': оценка отзыва 1..5
	mustRegister("review-rating", validateReviewRating)

	// 'is-gender': пол из профиля пользователя
	mustRegister("is-gender", validateGender)

	// 'is-age-range': возрастная группа из профиля
	mustRegister("is-age-range", validateAgeRange)

	// 'not-blank': строка не пустая после TrimSpace
	mustRegister("not-blank", validateNotBlank)
}

// --- Функции валидации ---

func validateReviewRating(fl validator.FieldLevel) bool {
	rating := fl.Field().Int()
	return rating >= models.MinRating && rating <= models.MaxRating
}

func validateGender(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Не проверяем пустые значения, для этого есть 'required'
	}
	switch models.Gender(strings.ToLower(value)) {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return true
	default:
		return false
	}
}

func validateAgeRange(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.AgeRange(value) {
	case models.AgeRange10s, models.AgeRange20s, models.AgeRange30s, models.AgeRange40s, models.AgeRange50up:
		return true
	default:
		return false
	}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
