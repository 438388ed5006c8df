package db

import "time"

type Ingredient struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Parts int64  `json:"parts"`
}

// ShortIngredient is the public view of a recipe entry: the ingredient name
// stays behind the counter.
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int64  `json:"parts"`
}

type Drink struct {
	ID        int64
	Title     string
	Recipe    []Ingredient
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DrinkShort struct {
	ID     int64             `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

type DrinkLong struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

// Short returns the public projection with ingredient names withheld.
func (d Drink) Short() DrinkShort {
	recipe := make([]ShortIngredient, 0, len(d.Recipe))
	for _, ing := range d.Recipe {
		recipe = append(recipe, ShortIngredient{Color: ing.Color, Parts: ing.Parts})
	}
	return DrinkShort{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Long returns the full projection including ingredient names.
func (d Drink) Long() DrinkLong {
	recipe := d.Recipe
	if recipe == nil {
		recipe = []Ingredient{}
	}
	return DrinkLong{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Audit actions recorded in drink_events.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

type DrinkEvent struct {
	ID        int64
	DrinkID   int64
	Action    string
	Actor     string
	CreatedAt time.Time
}

/* ---------- parameter structs ---------- */

type CreateDrinkParams struct {
	Title  string
	Recipe []Ingredient
	Actor  string
}

type UpdateDrinkParams struct {
	ID     int64
	Title  string
	Recipe []Ingredient
	Actor  string
}
