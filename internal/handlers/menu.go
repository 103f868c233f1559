package handlers

import (
	"errors"
	"net/http"

	"menucart/internal/catalog"
	applog "menucart/internal/log"
	"menucart/models"
)

type brandView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

type variantView struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Available    bool   `json:"available"`
	HasOptions   bool   `json:"hasOptions"`
	CartQuantity int    `json:"cartQuantity"`
}

type dishView struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Available   bool          `json:"available"`
	Variants    []variantView `json:"variants"`
}

type categoryView struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	SingularName string     `json:"singularName"`
	Dishes       []dishView `json:"dishes"`
}

type brandMenuResponse struct {
	Status     string         `json:"status"`
	Brand      brandView      `json:"brand"`
	Categories []categoryView `json:"categories"`
	TotalItems int            `json:"totalItems"`
}

type optionChoiceView struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	ExtraPrice string `json:"extraPrice"`
}

type optionGroupView struct {
	ID       uint               `json:"id"`
	Name     string             `json:"name"`
	Multiple bool               `json:"multiple"`
	Required bool               `json:"required"`
	Min      int                `json:"min"`
	Max      int                `json:"max"`
	Options  []optionChoiceView `json:"options"`
}

type variantOptionsResponse struct {
	Status    string            `json:"status"`
	Variant   variantView       `json:"variant"`
	DishName  string            `json:"dishName"`
	Groups    []optionGroupView `json:"groups"`
	Available bool              `json:"available"`
}

func projectBrand(brand models.Brand) brandView {
	return brandView{ID: brand.ID, Name: brand.Name, Slug: brand.Slug, Color: brand.Color}
}

// Brands lists the active brands a customer can browse.
func Brands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ready(w, r) {
		return
	}

	brands, err := menu.Brands(r.Context())
	if err != nil {
		applog.Error(r.Context(), "failed to list brands", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load brands")
		return
	}
	views := make([]brandView, 0, len(brands))
	for _, brand := range brands {
		views = append(views, projectBrand(brand))
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "brands": views})
}

// BrandMenu renders the catalog of one brand with availability flags and the
// quantity of each variant already in the cart.
func BrandMenu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ready(w, r) {
		return
	}

	slug := pathSlug(r.URL.Path, "/menu/")
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	brand, err := menu.BrandBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "brand not found")
			return
		}
		applog.Error(r.Context(), "failed to load brand", "slug", slug, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load menu")
		return
	}

	categories, err := menu.Menu(r.Context(), brand.ID)
	if err != nil {
		applog.Error(r.Context(), "failed to load menu", "brand_id", brand.ID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load menu")
		return
	}

	store := loadCart(r)
	resp := brandMenuResponse{
		Status:     "ok",
		Brand:      projectBrand(brand),
		Categories: make([]categoryView, 0, len(categories)),
		TotalItems: store.TotalItems(),
	}
	for _, category := range categories {
		section := categoryView{
			ID:           category.ID,
			Name:         category.Name,
			SingularName: category.SingularName,
			Dishes:       make([]dishView, 0, len(category.Dishes)),
		}
		for _, dish := range category.Dishes {
			item := dishView{
				ID:          dish.ID,
				Name:        dish.Name,
				Description: dish.Description,
				Available:   catalog.DishAvailable(dish),
				Variants:    make([]variantView, 0, len(dish.Variants)),
			}
			for _, variant := range dish.Variants {
				item.Variants = append(item.Variants, variantView{
					ID:           variant.ID,
					Name:         variant.Name,
					Price:        formatMoney(variant.Price),
					Available:    catalog.VariantAvailableIn(dish, variant),
					HasOptions:   len(variant.OptionGroups) > 0,
					CartQuantity: store.QuantityOfVariant(variant.ID),
				})
			}
			section.Dishes = append(section.Dishes, item)
		}
		resp.Categories = append(resp.Categories, section)
	}
	if !persistOrFail(w, r, store) {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// VariantOptions returns the option groups a customer picks from before adding a variant.
func VariantOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ready(w, r) {
		return
	}

	variantID, rest, ok := pathID(r.URL.Path, "/variants/")
	if !ok || len(rest) != 1 || rest[0] != "options" {
		http.NotFound(w, r)
		return
	}

	variant, err := menu.Variant(r.Context(), variantID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "variant not found")
			return
		}
		applog.Error(r.Context(), "failed to load variant", "variant_id", variantID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load options")
		return
	}
	groups, err := menu.OptionGroupsForVariant(r.Context(), variantID)
	if err != nil {
		applog.Error(r.Context(), "failed to load option groups", "variant_id", variantID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load options")
		return
	}

	available := catalog.VariantAvailable(variant)
	resp := variantOptionsResponse{
		Status: "ok",
		Variant: variantView{
			ID:         variant.ID,
			Name:       variant.Name,
			Price:      formatMoney(variant.Price),
			Available:  available,
			HasOptions: len(groups) > 0,
		},
		Groups:    make([]optionGroupView, 0, len(groups)),
		Available: available,
	}
	if variant.Dish != nil {
		resp.DishName = variant.Dish.Name
	}
	for _, group := range groups {
		if !group.Active {
			continue
		}
		view := optionGroupView{
			ID:       group.ID,
			Name:     group.Name,
			Multiple: group.Multiple,
			Required: group.Required,
			Min:      group.Min,
			Max:      group.Max,
			Options:  make([]optionChoiceView, 0, len(group.Options)),
		}
		for _, option := range group.Options {
			if !option.Active {
				continue
			}
			view.Options = append(view.Options, optionChoiceView{
				ID:         option.ID,
				Name:       option.Name,
				ExtraPrice: formatMoney(option.ExtraPrice),
			})
		}
		resp.Groups = append(resp.Groups, view)
	}
	writeJSON(w, http.StatusOK, resp)
}
