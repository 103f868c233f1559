package handlers

import (
	"errors"
	"net/http"
	"strings"

	"menucart/internal/catalog"
	applog "menucart/internal/log"
)

type ingredientAvailabilityRequest struct {
	Available *bool `json:"available"`
}

var adminActions = map[string]string{
	"variants/toggle":          "variant",
	"dishes/toggle":            "dish",
	"dishes/delete":            "dish",
	"ingredients/availability": "ingredient",
}

type toggleResponse struct {
	Status    string `json:"status"`
	Kind      string `json:"kind"`
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	Available bool   `json:"available"`
}

// AdminResource serves the staff catalog switches:
//
//	POST /admin/variants/{id}/toggle
//	POST /admin/dishes/{id}/toggle
//	POST /admin/dishes/{id}/delete
//	POST /admin/ingredients/{id}/availability  {"available": bool}
func AdminResource(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin"), "/")
	kind, _, _ := strings.Cut(path, "/")
	id, rest, ok := pathID(path, kind)
	if !ok || len(rest) != 1 {
		http.NotFound(w, r)
		return
	}
	action := rest[0]

	noun, known := adminActions[kind+"/"+action]
	if !known {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	staffID, _ := currentUserID(r)
	applog.Debug(r.Context(), "admin action requested", "kind", kind, "action", action, "id", id, "staff_id", staffID)

	var (
		resp toggleResponse
		err  error
	)
	switch kind + "/" + action {
	case "variants/toggle":
		resp, err = toggleVariant(r, id)
	case "dishes/toggle":
		resp, err = toggleDish(r, id)
	case "dishes/delete":
		resp, err = deleteDish(r, id)
	case "ingredients/availability":
		var req ingredientAvailabilityRequest
		if decodeErr := decodeJSON(w, r, &req); decodeErr != nil || req.Available == nil {
			writeJSONError(w, http.StatusBadRequest, "available must be true or false")
			return
		}
		resp, err = setIngredient(r, id, *req.Available)
	}
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, noun+" not found")
			return
		}
		applog.Error(r.Context(), "admin action failed", "kind", kind, "id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to update the catalog")
		return
	}

	applog.Info(r.Context(), "catalog updated", "kind", kind, "action", action, "id", id, "active", resp.Active, "available", resp.Available, "staff_id", staffID)
	writeJSON(w, http.StatusOK, resp)
}

func toggleVariant(r *http.Request, id uint) (toggleResponse, error) {
	variant, err := menu.ToggleVariant(r.Context(), id)
	if err != nil {
		return toggleResponse{}, err
	}
	return toggleResponse{
		Status:    "ok",
		Kind:      "variant",
		ID:        variant.ID,
		Name:      variant.Name,
		Active:    variant.Active,
		Available: catalog.VariantAvailable(variant),
	}, nil
}

func toggleDish(r *http.Request, id uint) (toggleResponse, error) {
	dish, err := menu.ToggleDish(r.Context(), id)
	if err != nil {
		return toggleResponse{}, err
	}
	return toggleResponse{
		Status:    "ok",
		Kind:      "dish",
		ID:        dish.ID,
		Name:      dish.Name,
		Active:    dish.ManualActive,
		Available: catalog.DishAvailable(dish),
	}, nil
}

func setIngredient(r *http.Request, id uint, available bool) (toggleResponse, error) {
	ingredient, err := menu.SetIngredientAvailability(r.Context(), id, available)
	if err != nil {
		return toggleResponse{}, err
	}
	return toggleResponse{
		Status:    "ok",
		Kind:      "ingredient",
		ID:        ingredient.ID,
		Name:      ingredient.Name,
		Active:    ingredient.Available,
		Available: ingredient.Available,
	}, nil
}

func deleteDish(r *http.Request, id uint) (toggleResponse, error) {
	dish, err := menu.DeleteDish(r.Context(), id)
	if err != nil {
		return toggleResponse{}, err
	}
	return toggleResponse{
		Status: "ok",
		Kind:   "dish",
		ID:     dish.ID,
		Name:   dish.Name,
	}, nil
}
