package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"canteenscore/canteen-service/internal/app/canteen/entity"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В ошибках поле называется так же, как в JSON запроса
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct проверяет DTO и возвращает первую ошибку как *ValidationError
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return newValidationError("request", err.Error())
	}

	fe := fieldErrors[0]
	return newValidationError(fe.Field(), validationMessage(fe))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Param() == "1" {
			return "must not be empty"
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	}
	return fmt.Sprintf("failed on %s", fe.Tag())
}

// reviewInput - тело отзыва после нормализации. Отсутствующие в запросе поля - nil
type reviewInput struct {
	Ratings map[entity.RatingDimension]int
	Content *string
	Images  []string
	// ImagesSet отличает отсутствие ключа images от явной очистки
	ImagesSet bool
}

// normalizeReviewPayload сводит compact и verbose ключи оценок к одному измерению
// и только потом проверяет значения. При создании обязательны все пять оценок
func normalizeReviewPayload(payload entity.ReviewPayload, requireAllRatings bool) (*reviewInput, error) {
	input := &reviewInput{Ratings: make(map[entity.RatingDimension]int, len(entity.RatingDimensions))}

	for _, d := range entity.RatingDimensions {
		value, present, err := canonicalRating(payload, d)
		if err != nil {
			return nil, err
		}
		if !present {
			if requireAllRatings {
				return nil, newValidationError(d.VerboseKey(), "is required")
			}
			continue
		}
		input.Ratings[d] = value
	}

	if raw, ok := payload["content"]; ok {
		var content *string
		if err := json.Unmarshal(raw, &content); err != nil {
			return nil, newValidationError("content", "must be a string")
		}
		trimmed := ""
		if content != nil {
			trimmed = strings.TrimSpace(*content)
		}
		input.Content = &trimmed
	}

	if raw, ok := payload["images"]; ok {
		images, err := entity.ParseImageInput(raw)
		if err != nil {
			return nil, newValidationError("images", err.Error())
		}
		input.Images = images
		input.ImagesSet = true
	}

	return input, nil
}

// canonicalRating читает оценку по любому из двух ключей.
// Оба ключа с разными значениями - ошибка, одинаковые значения допустимы
func canonicalRating(payload entity.ReviewPayload, d entity.RatingDimension) (int, bool, error) {
	var (
		value   int
		present bool
		source  string
	)

	for _, key := range []string{d.CompactKey(), d.VerboseKey()} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		parsed, err := parseRating(raw)
		if err != nil {
			return 0, false, newValidationError(key, err.Error())
		}
		if present && parsed != value {
			return 0, false, newValidationError(key,
				fmt.Sprintf("conflicts with %s: %d != %d", source, parsed, value))
		}
		value, present, source = parsed, true, key
	}

	return value, present, nil
}

var errRatingRange = fmt.Errorf("must be an integer between %d and %d", entity.MinRating, entity.MaxRating)

// parseRating принимает только JSON число с целым значением в [1,5]
func parseRating(raw json.RawMessage) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, errRatingRange
	}

	number, ok := v.(json.Number)
	if !ok {
		return 0, errRatingRange
	}

	f, err := number.Float64()
	if err != nil || f != math.Trunc(f) || f < entity.MinRating || f > entity.MaxRating {
		return 0, errRatingRange
	}

	return int(f), nil
}
