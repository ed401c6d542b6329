package dto

import "yamdb/internal/microservices/http-api/models"

// CatalogItemRequest is the create payload for categories and genres
type CatalogItemRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,slug,max=50"`
}

// CatalogItem is the public shape of a category or genre; ids stay internal
type CatalogItem struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (r CatalogItemRequest) ToCategory() models.Category {
	return models.Category{Name: r.Name, Slug: r.Slug}
}

func (r CatalogItemRequest) ToGenre() models.Genre {
	return models.Genre{Name: r.Name, Slug: r.Slug}
}

func FromCategory(c models.Category) CatalogItem {
	return CatalogItem{Name: c.Name, Slug: c.Slug}
}

func FromGenre(g models.Genre) CatalogItem {
	return CatalogItem{Name: g.Name, Slug: g.Slug}
}

func FromCategories(list []models.Category) []CatalogItem {
	out := make([]CatalogItem, 0, len(list))
	for _, c := range list {
		out = append(out, FromCategory(c))
	}
	return out
}

func FromGenres(list []models.Genre) []CatalogItem {
	out := make([]CatalogItem, 0, len(list))
	for _, g := range list {
		out = append(out, FromGenre(g))
	}
	return out
}
