package workouts

import (
	"sort"
	"strings"
)

type CatalogExercise struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Equipment string `json:"equipment"`
}

var exerciseCatalog = []CatalogExercise{
	{ID: "db-1", Name: "Bench Press", Category: "Chest", Equipment: "Barbell"},
	{ID: "db-2", Name: "Incline Bench Press", Category: "Chest", Equipment: "Barbell"},
	{ID: "db-3", Name: "Decline Bench Press", Category: "Chest", Equipment: "Barbell"},
	{ID: "db-4", Name: "Dumbbell Fly", Category: "Chest", Equipment: "Dumbbells"},
	{ID: "db-5", Name: "Push-up", Category: "Chest", Equipment: "Bodyweight"},

	{ID: "db-6", Name: "Pull-up", Category: "Back", Equipment: "Bodyweight"},
	{ID: "db-7", Name: "Lat Pulldown", Category: "Back", Equipment: "Cable"},
	{ID: "db-8", Name: "Bent Over Row", Category: "Back", Equipment: "Barbell"},
	{ID: "db-9", Name: "Seated Row", Category: "Back", Equipment: "Cable"},
	{ID: "db-10", Name: "Deadlift", Category: "Back", Equipment: "Barbell"},

	{ID: "db-11", Name: "Overhead Press", Category: "Shoulders", Equipment: "Barbell"},
	{ID: "db-12", Name: "Lateral Raise", Category: "Shoulders", Equipment: "Dumbbells"},
	{ID: "db-13", Name: "Front Raise", Category: "Shoulders", Equipment: "Dumbbells"},
	{ID: "db-14", Name: "Reverse Fly", Category: "Shoulders", Equipment: "Dumbbells"},
	{ID: "db-15", Name: "Shrug", Category: "Shoulders", Equipment: "Barbell"},

	{ID: "db-16", Name: "Bicep Curl", Category: "Arms", Equipment: "Barbell"},
	{ID: "db-17", Name: "Hammer Curl", Category: "Arms", Equipment: "Dumbbells"},
	{ID: "db-18", Name: "Tricep Extension", Category: "Arms", Equipment: "Cable"},
	{ID: "db-19", Name: "Skull Crusher", Category: "Arms", Equipment: "Barbell"},
	{ID: "db-20", Name: "Dip", Category: "Arms", Equipment: "Bodyweight"},

	{ID: "db-21", Name: "Squat", Category: "Legs", Equipment: "Barbell"},
	{ID: "db-22", Name: "Leg Press", Category: "Legs", Equipment: "Machine"},
	{ID: "db-23", Name: "Lunge", Category: "Legs", Equipment: "Dumbbells"},
	{ID: "db-24", Name: "Leg Extension", Category: "Legs", Equipment: "Machine"},
	{ID: "db-25", Name: "Leg Curl", Category: "Legs", Equipment: "Machine"},

	{ID: "db-26", Name: "Calf Raise", Category: "Calves", Equipment: "Machine"},
	{ID: "db-27", Name: "Seated Calf Raise", Category: "Calves", Equipment: "Machine"},

	{ID: "db-28", Name: "Crunch", Category: "Core", Equipment: "Bodyweight"},
	{ID: "db-29", Name: "Plank", Category: "Core", Equipment: "Bodyweight"},
	{ID: "db-30", Name: "Russian Twist", Category: "Core", Equipment: "Bodyweight"},
}

// SearchCatalog filters the exercise catalog by a case-insensitive name
// substring and an exact category. Empty arguments match everything.
func SearchCatalog(query, category string) []CatalogExercise {
	query = strings.ToLower(strings.TrimSpace(query))
	found := make([]CatalogExercise, 0, len(exerciseCatalog))
	for _, e := range exerciseCatalog {
		if category != "" && e.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Name), query) {
			continue
		}
		found = append(found, e)
	}
	return found
}

func CatalogCategories() []string {
	seen := map[string]bool{}
	var categories []string
	for _, e := range exerciseCatalog {
		if !seen[e.Category] {
			seen[e.Category] = true
			categories = append(categories, e.Category)
		}
	}
	sort.Strings(categories)
	return categories
}
