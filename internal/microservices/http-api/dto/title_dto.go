package dto

import (
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/service"
)

// TitleRequest is used for POST and PUT: every writable field is required
type TitleRequest struct {
	Name        *string   `json:"name" binding:"required,max=256"`
	Year        *int      `json:"year" binding:"required,notfuture"`
	Description *string   `json:"description"`
	Category    *string   `json:"category" binding:"required,slug"`
	Genre       *[]string `json:"genre" binding:"required,dive,slug"`
}

// TitlePatchRequest is used for PATCH (partial updates)
type TitlePatchRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=256"`
	Year        *int      `json:"year" binding:"omitempty,notfuture"`
	Description *string   `json:"description"`
	Category    *string   `json:"category" binding:"omitempty,slug"`
	Genre       *[]string `json:"genre" binding:"omitempty,dive,slug"`
}

// ToInput replaces the whole title; an omitted description is cleared.
func (r TitleRequest) ToInput() service.TitleInput {
	description := r.Description
	if description == nil {
		description = new(string)
	}
	return service.TitleInput{
		Name: r.Name, Year: r.Year, Description: description,
		Category: r.Category, Genre: r.Genre,
	}
}

func (r TitlePatchRequest) ToInput() service.TitleInput {
	return service.TitleInput{
		Name: r.Name, Year: r.Year, Description: r.Description,
		Category: r.Category, Genre: r.Genre,
	}
}

// TitleReadResponse nests genre and category objects (safe methods)
type TitleReadResponse struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Year        int           `json:"year"`
	Rating      *float64      `json:"rating"`
	Description string        `json:"description"`
	Genre       []CatalogItem `json:"genre"`
	Category    *CatalogItem  `json:"category"`
}

// TitleWriteResponse refers to genre and category by slug (write methods)
type TitleWriteResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Rating      *float64 `json:"rating"`
	Description string   `json:"description"`
	Genre       []string `json:"genre"`
	Category    *string  `json:"category"`
}

func ToTitleRead(t models.Title) TitleReadResponse {
	resp := TitleReadResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       FromGenres(t.Genres),
	}
	if t.Category != nil {
		c := FromCategory(*t.Category)
		resp.Category = &c
	}
	return resp
}

func ToTitleReads(list []models.Title) []TitleReadResponse {
	out := make([]TitleReadResponse, 0, len(list))
	for _, t := range list {
		out = append(out, ToTitleRead(t))
	}
	return out
}

func ToTitleWrite(t models.Title) TitleWriteResponse {
	resp := TitleWriteResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]string, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, g.Slug)
	}
	if t.Category != nil {
		slug := t.Category.Slug
		resp.Category = &slug
	}
	return resp
}
