package db

import (
	"reflect"
	"testing"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := Migrate(s.DB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestDrinkCRUD(t *testing.T) {
	s := openTest(t)

	recipe := []Ingredient{
		{Name: "Milk", Color: "grey", Parts: 3},
		{Name: "Matcha", Color: "green", Parts: 1},
	}
	id, err := s.Q.CreateDrink(CreateDrinkParams{Title: "Matcha Shake", Recipe: recipe, Actor: "auth0|abc"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id <= 0 {
		t.Fatalf("want positive id, got %d", id)
	}

	d, err := s.Q.GetDrinkByID(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d == nil {
		t.Fatalf("drink %d not found", id)
	}
	if d.Title != "Matcha Shake" {
		t.Fatalf("want title Matcha Shake, got %s", d.Title)
	}
	if !reflect.DeepEqual(d.Recipe, recipe) {
		t.Fatalf("recipe round trip: want %v, got %v", recipe, d.Recipe)
	}
	if d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %v %v", d.CreatedAt, d.UpdatedAt)
	}

	id2, err := s.Q.CreateDrink(CreateDrinkParams{Title: "Water", Actor: "auth0|abc"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	all, err := s.Q.ListDrinks()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 drinks, got %d", len(all))
	}
	if all[0].ID != id || all[1].ID != id2 {
		t.Fatalf("want ids in insertion order, got %d then %d", all[0].ID, all[1].ID)
	}

	newRecipe := []Ingredient{{Name: "Milk", Color: "grey", Parts: 1}}
	err = s.Q.UpdateDrink(UpdateDrinkParams{ID: id, Title: "Matcha Latte", Recipe: newRecipe, Actor: "auth0|abc"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	d, err = s.Q.GetDrinkByID(id)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if d.Title != "Matcha Latte" {
		t.Fatalf("want updated title, got %s", d.Title)
	}
	if !reflect.DeepEqual(d.Recipe, newRecipe) {
		t.Fatalf("want updated recipe %v, got %v", newRecipe, d.Recipe)
	}

	if err := s.Q.DeleteDrink(id, "auth0|abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	d, err = s.Q.GetDrinkByID(id)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if d != nil {
		t.Fatalf("want nil after delete, got %+v", d)
	}

	n, err := s.Q.CountDrinks()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("want 1 drink left, got %d", n)
	}
}

func TestGetDrinkByIDMissing(t *testing.T) {
	s := openTest(t)
	d, err := s.Q.GetDrinkByID(9999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d != nil {
		t.Fatalf("want nil for missing drink, got %+v", d)
	}
}

func TestCreateDrinkDuplicateTitle(t *testing.T) {
	s := openTest(t)
	if _, err := s.Q.CreateDrink(CreateDrinkParams{Title: "Water"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Q.CreateDrink(CreateDrinkParams{Title: "Water"}); err == nil {
		t.Fatalf("want unique violation for duplicate title")
	}
}

func TestCreateDrinkNilRecipe(t *testing.T) {
	s := openTest(t)
	id, err := s.Q.CreateDrink(CreateDrinkParams{Title: "Water"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	d, err := s.Q.GetDrinkByID(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Recipe == nil || len(d.Recipe) != 0 {
		t.Fatalf("want empty recipe, got %v", d.Recipe)
	}
}

func TestDrinkEvents(t *testing.T) {
	s := openTest(t)

	id, err := s.Q.CreateDrink(CreateDrinkParams{Title: "Flat White", Actor: "auth0|barista"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Q.UpdateDrink(UpdateDrinkParams{ID: id, Title: "Flat White", Actor: "auth0|manager"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Q.DeleteDrink(id, "auth0|manager"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	events, err := s.Q.ListDrinkEvents(id)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("want 3 events, got %d", len(events))
	}
	wantActions := []string{EventCreated, EventUpdated, EventDeleted}
	wantActors := []string{"auth0|barista", "auth0|manager", "auth0|manager"}
	for i, e := range events {
		if e.Action != wantActions[i] {
			t.Fatalf("event %d: want action %s, got %s", i, wantActions[i], e.Action)
		}
		if e.Actor != wantActors[i] {
			t.Fatalf("event %d: want actor %s, got %s", i, wantActors[i], e.Actor)
		}
		if e.DrinkID != id {
			t.Fatalf("event %d: want drink id %d, got %d", i, id, e.DrinkID)
		}
	}
}

func TestSeedMenu(t *testing.T) {
	s := openTest(t)

	if err := SeedMenu(s.DB); err != nil {
		t.Fatalf("seed: %v", err)
	}
	n, err := s.Q.CountDrinks()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("want 3 seeded drinks, got %d", n)
	}

	// A second run must not duplicate rows or clobber edits.
	if err := SeedMenu(s.DB); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	n, err = s.Q.CountDrinks()
	if err != nil {
		t.Fatalf("count after reseed: %v", err)
	}
	if n != 3 {
		t.Fatalf("want 3 drinks after reseed, got %d", n)
	}

	all, err := s.Q.ListDrinks()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, d := range all {
		events, err := s.Q.ListDrinkEvents(d.ID)
		if err != nil {
			t.Fatalf("events for %d: %v", d.ID, err)
		}
		if len(events) != 0 {
			t.Fatalf("seeded drink %q has audit events: %v", d.Title, events)
		}
	}
}

func TestReset(t *testing.T) {
	s := openTest(t)

	if _, err := s.Q.CreateDrink(CreateDrinkParams{Title: "Old Fashioned"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := Reset(s.DB); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := Migrate(s.DB); err != nil {
		t.Fatalf("migrate after reset: %v", err)
	}
	n, err := s.Q.CountDrinks()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("want empty table after reset, got %d drinks", n)
	}
}

func TestProjections(t *testing.T) {
	d := Drink{
		ID:    7,
		Title: "Matcha Shake",
		Recipe: []Ingredient{
			{Name: "Milk", Color: "grey", Parts: 3},
			{Name: "Matcha", Color: "green", Parts: 1},
		},
	}

	short := d.Short()
	want := []ShortIngredient{{Color: "grey", Parts: 3}, {Color: "green", Parts: 1}}
	if !reflect.DeepEqual(short.Recipe, want) {
		t.Fatalf("short projection: want %v, got %v", want, short.Recipe)
	}

	long := d.Long()
	if !reflect.DeepEqual(long.Recipe, d.Recipe) {
		t.Fatalf("long projection: want %v, got %v", d.Recipe, long.Recipe)
	}

	// Projections of a recipeless drink must serialize as [], not null.
	bare := Drink{ID: 1, Title: "Water"}
	if bare.Short().Recipe == nil {
		t.Fatalf("short projection of nil recipe is nil")
	}
	if bare.Long().Recipe == nil {
		t.Fatalf("long projection of nil recipe is nil")
	}
}
