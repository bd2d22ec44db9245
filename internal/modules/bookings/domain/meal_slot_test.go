package domain

import "testing"

func TestAvailableMeals(t *testing.T) {
	t.Parallel()

	place := map[string]any{
		"dinner":    map[string]any{"available": true},
		"breakfast": map[string]any{"available": true},
		"lunch":     map[string]any{"available": false},
	}
	meals := AvailableMeals(place)
	if len(meals) != 2 || meals[0] != Breakfast || meals[1] != Dinner {
		t.Fatalf("unexpected meals: %v", meals)
	}
	if got := AvailableMeals(nil); len(got) != 0 {
		t.Fatalf("expected no meals, got %v", got)
	}
}

func TestParseMealType(t *testing.T) {
	t.Parallel()

	meal, err := ParseMealType(" Lunch ")
	if err != nil || meal != Lunch {
		t.Fatalf("unexpected result: %q %v", meal, err)
	}
	if meal.Label() != "Lunch" {
		t.Fatalf("unexpected label: %s", meal.Label())
	}
	if _, err := ParseMealType("brunch"); err == nil {
		t.Fatal("expected error for unknown meal")
	}
}

func TestSlots(t *testing.T) {
	t.Parallel()

	payload := []any{
		map[string]any{"slot": "08:30 AM", "booked": false},
		map[string]any{"slot": "09:00 AM", "booked": true},
		map[string]any{"booked": false},
		"garbage",
		map[string]any{"slot": "09:30 AM"},
	}
	open := OpenSlots(BuildSlots(payload))
	if len(open) != 2 || open[0] != "08:30 AM" || open[1] != "09:30 AM" {
		t.Fatalf("unexpected open slots: %v", open)
	}
}

func TestSlotDates(t *testing.T) {
	t.Parallel()

	date, err := ParseDate("2026-02-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := FormatSlotDate(date); got != "01-02-2026" {
		t.Fatalf("unexpected slot date: %s", got)
	}
	if again, err := ParseDate("01-02-2026"); err != nil || !again.Equal(date) {
		t.Fatalf("DD-MM-YYYY should parse to the same day: %v %v", again, err)
	}
	if _, err := ParseDate("tomorrow"); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildPlaceList(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"data": []any{
			map[string]any{"placeId": 3.0, "name": "Cafe", "location": "Main St"},
			map[string]any{"_id": "x9", "name": "Bistro", "address": "Side St"},
		},
		"total": 25.0,
	}
	list := BuildPlaceList(payload, PageQuery{Page: 1, Size: 12})
	if len(list.Items) != 2 || list.Items[0].ID != "3" || list.Items[0].Address != "Main St" || list.Items[1].ID != "x9" {
		t.Fatalf("unexpected places: %#v", list.Items)
	}
	if list.TotalPages != 3 {
		t.Fatalf("unexpected total pages: %d", list.TotalPages)
	}
	if SearchTerm("  ") != DefaultSearchTerm || SearchTerm(" sushi ") != "sushi" {
		t.Fatal("unexpected search term handling")
	}
}
