package domain

import (
	"errors"
	"strings"

	"dareNowConsole/internal/shared/normalization"
)

// MealType is a service period of a place, in the lowercase form the API expects.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

var ErrUnknownMeal = errors.New("unknown meal type")

var mealOrder = []MealType{Breakfast, Lunch, Dinner}

func ParseMealType(raw string) (MealType, error) {
	meal := MealType(strings.ToLower(strings.TrimSpace(raw)))
	if !meal.Valid() {
		return "", ErrUnknownMeal
	}
	return meal, nil
}

func (m MealType) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner:
		return true
	default:
		return false
	}
}

// Label is the capitalised name shown in forms.
func (m MealType) Label() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// AvailableMeals lists the meals a place serves, read from {breakfast:{available:true}, ...}.
func AvailableMeals(place map[string]any) []MealType {
	var meals []MealType
	for _, meal := range mealOrder {
		if normalization.AsBool(normalization.AsMap(place[string(meal)])["available"]) {
			meals = append(meals, meal)
		}
	}
	return meals
}
