package domain

import (
	"math"
	"strings"

	"dareNowConsole/internal/shared/normalization"
)

// DefaultSearchTerm is searched when the user typed nothing.
const DefaultSearchTerm = "Res"

// Place is a restaurant as listed by the search endpoint.
type Place struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// PlaceList is one page of search results.
type PlaceList struct {
	Items      []Place `json:"items"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
}

// SearchTerm trims term and falls back to DefaultSearchTerm.
func SearchTerm(term string) string {
	if trimmed := strings.TrimSpace(term); trimmed != "" {
		return trimmed
	}
	return DefaultSearchTerm
}

// BuildPlaceList reads {data:[...]} or a bare list; totals come from totalPages or total.
func BuildPlaceList(payload any, query PageQuery) *PlaceList {
	query = query.Normalize()
	root := normalization.AsMap(payload)

	rawItems := normalization.AsInterfaceSlice(root["data"])
	if rawItems == nil {
		rawItems = normalization.AsInterfaceSlice(payload)
	}

	list := &PlaceList{Items: make([]Place, 0, len(rawItems)), Page: query.Page, TotalPages: 1}
	for _, item := range rawItems {
		raw := normalization.AsMap(item)
		if raw == nil {
			continue
		}
		list.Items = append(list.Items, Place{
			ID:      normalization.FirstString(raw, "placeId", "id", "_id"),
			Name:    normalization.AsString(raw["name"]),
			Address: normalization.FirstString(raw, "address", "location"),
		})
	}

	if pages := normalization.AsInt(root["totalPages"]); pages > 0 {
		list.TotalPages = pages
	} else if total := normalization.AsInt(root["total"]); total > 0 {
		list.TotalPages = int(math.Ceil(float64(total) / float64(query.Size)))
	}
	return list
}
