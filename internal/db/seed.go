package db

import (
	"database/sql"
	"fmt"
)

type seedDrink struct {
	Title  string
	Recipe []Ingredient
}

// SeedMenu inserts a starter menu. Rows are matched by title and existing
// rows are left untouched, so edits survive a reseed. Seeded rows carry no
// audit events.
func SeedMenu(db *sql.DB) error {
	drinks := []seedDrink{
		{
			Title: "Water",
			Recipe: []Ingredient{
				{Name: "Water", Color: "blue", Parts: 1},
			},
		},
		{
			Title: "Matcha Shake",
			Recipe: []Ingredient{
				{Name: "Milk", Color: "grey", Parts: 3},
				{Name: "Matcha", Color: "green", Parts: 1},
			},
		},
		{
			Title: "Flat White",
			Recipe: []Ingredient{
				{Name: "Milk", Color: "grey", Parts: 3},
				{Name: "Coffee", Color: "brown", Parts: 1},
			},
		},
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, d := range drinks {
		recipe, err := marshalRecipe(d.Recipe)
		if err != nil {
			return fmt.Errorf("seed drink %q: %w", d.Title, err)
		}
		// Conditional insert (valid in SQLite)
		if _, err := tx.Exec(`
			INSERT INTO drinks(title,recipe,created_at,updated_at)
			SELECT ?,?,?,?
			WHERE NOT EXISTS (SELECT 1 FROM drinks WHERE title=?);`,
			d.Title, recipe, unixNow(), unixNow(),
			d.Title,
		); err != nil {
			return fmt.Errorf("seed drink %q: %w", d.Title, err)
		}
	}

	return tx.Commit()
}
