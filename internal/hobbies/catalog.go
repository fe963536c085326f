package hobbies

import (
	"github.com/julianstephens/dailies/internal/models"
)

// Catalog lists every hobby a user can select, grouped by category.
var Catalog = []models.Hobby{
	{ID: "drawing", Title: "Drawing", Category: "Creative"},
	{ID: "painting", Title: "Painting", Category: "Creative"},
	{ID: "writing", Title: "Writing", Category: "Creative"},
	{ID: "photography", Title: "Photography", Category: "Creative"},
	{ID: "guitar", Title: "Guitar", Category: "Music"},
	{ID: "piano", Title: "Piano", Category: "Music"},
	{ID: "singing", Title: "Singing", Category: "Music"},
	{ID: "running", Title: "Running", Category: "Active"},
	{ID: "cycling", Title: "Cycling", Category: "Active"},
	{ID: "hiking", Title: "Hiking", Category: "Active"},
	{ID: "swimming", Title: "Swimming", Category: "Active"},
	{ID: "reading", Title: "Reading", Category: "Mind"},
	{ID: "chess", Title: "Chess", Category: "Mind"},
	{ID: "language", Title: "Language Learning", Category: "Mind"},
	{ID: "puzzles", Title: "Puzzles", Category: "Mind"},
	{ID: "cooking", Title: "Cooking", Category: "Home"},
	{ID: "gardening", Title: "Gardening", Category: "Home"},
	{ID: "woodworking", Title: "Woodworking", Category: "Home"},
}

// Category is one catalog category and its hobbies, in catalog order
type Category struct {
	Name    string
	Hobbies []models.Hobby
}

// ByCategory groups the catalog, keeping the order categories first appear in.
func ByCategory() []Category {
	var out []Category
	index := make(map[string]int)
	for _, h := range Catalog {
		i, ok := index[h.Category]
		if !ok {
			i = len(out)
			index[h.Category] = i
			out = append(out, Category{Name: h.Category})
		}
		out[i].Hobbies = append(out[i].Hobbies, h)
	}
	return out
}

// Lookup finds a catalog hobby by id
func Lookup(id string) (models.Hobby, bool) {
	for _, h := range Catalog {
		if h.ID == id {
			return h, true
		}
	}
	return models.Hobby{}, false
}
