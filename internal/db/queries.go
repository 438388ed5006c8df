package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type Queries struct {
	db *sql.DB
}

func unixNow() int64 { return time.Now().Unix() }

func tFromUnix(u int64) time.Time {
	if u <= 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

// Recipes are stored as a JSON array in a TEXT column. A nil recipe persists
// as '[]' so the short projection never has to deal with null.
func marshalRecipe(recipe []Ingredient) (string, error) {
	if recipe == nil {
		recipe = []Ingredient{}
	}
	b, err := json.Marshal(recipe)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalRecipe(raw string) ([]Ingredient, error) {
	if raw == "" {
		return []Ingredient{}, nil
	}
	var recipe []Ingredient
	if err := json.Unmarshal([]byte(raw), &recipe); err != nil {
		return nil, fmt.Errorf("recipe json: %w", err)
	}
	if recipe == nil {
		recipe = []Ingredient{}
	}
	return recipe, nil
}

/* ---------------- Drinks ---------------- */

func (q *Queries) GetDrinkByID(id int64) (*Drink, error) {
	row := q.db.QueryRow(`
		SELECT id,title,COALESCE(recipe,'[]'),created_at,updated_at
		FROM drinks WHERE id=?`, id)
	var d Drink
	var recipe string
	var ca, ua int64
	if err := row.Scan(&d.ID, &d.Title, &recipe, &ca, &ua); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	r, err := unmarshalRecipe(recipe)
	if err != nil {
		return nil, err
	}
	d.Recipe = r
	d.CreatedAt = tFromUnix(ca)
	d.UpdatedAt = tFromUnix(ua)
	return &d, nil
}

func (q *Queries) ListDrinks() ([]Drink, error) {
	rows, err := q.db.Query(`
		SELECT id,title,COALESCE(recipe,'[]'),created_at,updated_at
		FROM drinks ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Drink
	for rows.Next() {
		var d Drink
		var recipe string
		var ca, ua int64
		if err := rows.Scan(&d.ID, &d.Title, &recipe, &ca, &ua); err != nil {
			return nil, err
		}
		r, err := unmarshalRecipe(recipe)
		if err != nil {
			return nil, err
		}
		d.Recipe = r
		d.CreatedAt = tFromUnix(ca)
		d.UpdatedAt = tFromUnix(ua)
		out = append(out, d)
	}
	return out, nil
}

func (q *Queries) CreateDrink(p CreateDrinkParams) (int64, error) {
	recipe, err := marshalRecipe(p.Recipe)
	if err != nil {
		return 0, err
	}

	tx, err := q.db.Begin()
	if err != nil {
		return 0, err
	}
	res, err := tx.Exec(`
		INSERT INTO drinks(title,recipe,created_at,updated_at)
		VALUES(?,?,?,?)`,
		p.Title, recipe, unixNow(), unixNow())
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	id, _ := res.LastInsertId()

	if _, err := tx.Exec(`
		INSERT INTO drink_events(drink_id,action,actor,created_at)
		VALUES(?,?,?,?)`, id, EventCreated, p.Actor, unixNow()); err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	return id, tx.Commit()
}

func (q *Queries) UpdateDrink(p UpdateDrinkParams) error {
	recipe, err := marshalRecipe(p.Recipe)
	if err != nil {
		return err
	}

	tx, err := q.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`
		UPDATE drinks SET title=?, recipe=?, updated_at=? WHERE id=?`,
		p.Title, recipe, unixNow(), p.ID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO drink_events(drink_id,action,actor,created_at)
		VALUES(?,?,?,?)`, p.ID, EventUpdated, p.Actor, unixNow()); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (q *Queries) DeleteDrink(id int64, actor string) error {
	tx, err := q.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM drinks WHERE id=?`, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO drink_events(drink_id,action,actor,created_at)
		VALUES(?,?,?,?)`, id, EventDeleted, actor, unixNow()); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (q *Queries) CountDrinks() (int, error) {
	var n int
	if err := q.db.QueryRow(`SELECT COUNT(1) FROM drinks;`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

/* ---------------- Events ---------------- */

func (q *Queries) ListDrinkEvents(drinkID int64) ([]DrinkEvent, error) {
	rows, err := q.db.Query(`
		SELECT id,drink_id,action,COALESCE(actor,''),created_at
		FROM drink_events WHERE drink_id=?
		ORDER BY created_at ASC, id ASC`, drinkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DrinkEvent
	for rows.Next() {
		var e DrinkEvent
		var ca int64
		if err := rows.Scan(&e.ID, &e.DrinkID, &e.Action, &e.Actor, &ca); err != nil {
			return nil, err
		}
		e.CreatedAt = tFromUnix(ca)
		out = append(out, e)
	}
	return out, nil
}
