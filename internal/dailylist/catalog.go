package dailylist

import "github.com/julianstephens/dailies/internal/models"

// Items are the built-in daily items, in their default order.
var Items = []models.CatalogItem{
	{ID: "exercises-morning", Title: "Morning Exercises"},
	{ID: "make-bed", Title: "Make Your Bed"},
	{ID: "water", Title: "Drink 8 Glasses of Water"},
	{ID: "read", Title: "Read for 20 Minutes"},
	{ID: "journal", Title: "Journal"},
	{ID: "meditate", Title: "Meditate"},
	{ID: "hobbies-evening", Title: "Evening Hobby Time"},
	{ID: "exercises-night", Title: "Night Exercises"},
}

// Exercises are the sub-exercises a group can be built from.
var Exercises = []models.CatalogItem{
	{ID: "pushups", Title: "Push-ups"},
	{ID: "situps", Title: "Sit-ups"},
	{ID: "squats", Title: "Squats"},
	{ID: "plank", Title: "Plank"},
	{ID: "lunges", Title: "Lunges"},
	{ID: "jumping-jacks", Title: "Jumping Jacks"},
	{ID: "stretch", Title: "Stretching"},
	{ID: "yoga", Title: "Yoga"},
}

// Lookup returns the catalog item with the given id
func Lookup(catalog []models.CatalogItem, id string) (models.CatalogItem, bool) {
	for _, item := range catalog {
		if item.ID == id {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}

// Defaults is the registration list: every item enabled in catalog order
func Defaults() []models.DailyItemConfig {
	out := make([]models.DailyItemConfig, len(Items))
	for i, item := range Items {
		out[i] = models.DailyItemConfig{ID: item.ID, Title: item.Title, Enabled: true, Order: i}
	}
	return out
}
