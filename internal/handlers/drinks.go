package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"taproom/internal/db"

	"github.com/go-chi/chi/v5"
)

// drinkPayload covers both create and patch bodies. Pointer fields tell a
// missing field apart from an explicitly empty one.
type drinkPayload struct {
	Title  *string          `json:"title"`
	Recipe *[]db.Ingredient `json:"recipe"`
}

func (s *Server) DrinksGet(w http.ResponseWriter, r *http.Request) {
	drinks, err := s.App.Store().Q.ListDrinks()
	if err != nil {
		writeError(w, http.StatusInternalServerError)
		return
	}
	out := make([]db.DrinkShort, 0, len(drinks))
	for _, d := range drinks {
		out = append(out, d.Short())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"drinks":  out,
	})
}

func (s *Server) DrinksDetailGet(w http.ResponseWriter, r *http.Request) {
	drinks, err := s.App.Store().Q.ListDrinks()
	if err != nil {
		writeError(w, http.StatusInternalServerError)
		return
	}
	out := make([]db.DrinkLong, 0, len(drinks))
	for _, d := range drinks {
		out = append(out, d.Long())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"drinks":  out,
	})
}

func (s *Server) DrinksPost(w http.ResponseWriter, r *http.Request) {
	var body drinkPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity)
		return
	}
	if body.Title == nil || strings.TrimSpace(*body.Title) == "" {
		writeError(w, http.StatusUnprocessableEntity)
		return
	}
	recipe := []db.Ingredient{}
	if body.Recipe != nil {
		recipe = *body.Recipe
	}

	id, err := s.App.Store().Q.CreateDrink(db.CreateDrinkParams{
		Title:  strings.TrimSpace(*body.Title),
		Recipe: recipe,
		Actor:  s.actor(r),
	})
	if err != nil {
		// Unique-title violations and the like all land here.
		writeError(w, http.StatusUnprocessableEntity)
		return
	}

	d, err := s.App.Store().Q.GetDrinkByID(id)
	if err != nil || d == nil {
		writeError(w, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"drinks":  []db.DrinkLong{d.Long()},
	})
}

func (s *Server) DrinkPatch(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInt64(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound)
		return
	}
	d, err := s.App.Store().Q.GetDrinkByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError)
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound)
		return
	}

	var body drinkPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity)
		return
	}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			writeError(w, http.StatusUnprocessableEntity)
			return
		}
		d.Title = title
	}
	if body.Recipe != nil {
		d.Recipe = *body.Recipe
	}

	if err := s.App.Store().Q.UpdateDrink(db.UpdateDrinkParams{
		ID:     d.ID,
		Title:  d.Title,
		Recipe: d.Recipe,
		Actor:  s.actor(r),
	}); err != nil {
		writeError(w, http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"drinks":  []db.DrinkLong{d.Long()},
	})
}

func (s *Server) DrinkDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInt64(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound)
		return
	}
	d, err := s.App.Store().Q.GetDrinkByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError)
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound)
		return
	}

	if err := s.App.Store().Q.DeleteDrink(id, s.actor(r)); err != nil {
		writeError(w, http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"delete":  id,
	})
}

/* ---- helpers ---- */

// actor is the audit identity: the verified token subject, or empty when the
// route carries no claims.
func (s *Server) actor(r *http.Request) string {
	if c := s.App.Claims(r); c != nil {
		return c.Subject
	}
	return ""
}

func parseInt64(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	var n int64
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		n = n*10 + int64(ch-'0')
	}
	return n, n > 0
}
