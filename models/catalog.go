package models

import "slices"

// CatalogEntry is a selectable vocabulary value with its display label.
type CatalogEntry struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Hex   string `json:"hex,omitempty"`
}

// ClothingTypes is the closed vocabulary for ClothingItem.Type.
var ClothingTypes = []CatalogEntry{
	{Value: "shirt", Label: "Shirt"},
	{Value: "t-shirt", Label: "T-Shirt"},
	{Value: "blouse", Label: "Blouse"},
	{Value: "sweater", Label: "Sweater"},
	{Value: "jacket", Label: "Jacket"},
	{Value: "coat", Label: "Coat"},
	{Value: "pants", Label: "Pants"},
	{Value: "jeans", Label: "Jeans"},
	{Value: "shorts", Label: "Shorts"},
	{Value: "skirt", Label: "Skirt"},
	{Value: "dress", Label: "Dress"},
	{Value: "shoes", Label: "Shoes"},
	{Value: "sneakers", Label: "Sneakers"},
	{Value: "boots", Label: "Boots"},
	{Value: "sandals", Label: "Sandals"},
	{Value: "accessories", Label: "Accessories"},
	{Value: "bag", Label: "Bag"},
	{Value: "hat", Label: "Hat"},
	{Value: "jewelry", Label: "Jewelry"},
	{Value: "other", Label: "Other"},
}

// Seasons lists the season values in display order.
var Seasons = []CatalogEntry{
	{Value: "spring", Label: "Spring", Hex: "#10b981"},
	{Value: "summer", Label: "Summer", Hex: "#f59e0b"},
	{Value: "fall", Label: "Fall", Hex: "#f97316"},
	{Value: "winter", Label: "Winter", Hex: "#3b82f6"},
	{Value: "all-season", Label: "All Season", Hex: "#8b5cf6"},
}

var Colors = []CatalogEntry{
	{Value: "black", Label: "Black", Hex: "#000000"},
	{Value: "white", Label: "White", Hex: "#ffffff"},
	{Value: "gray", Label: "Gray", Hex: "#6b7280"},
	{Value: "navy", Label: "Navy", Hex: "#1e3a5f"},
	{Value: "blue", Label: "Blue", Hex: "#3b82f6"},
	{Value: "red", Label: "Red", Hex: "#ef4444"},
	{Value: "pink", Label: "Pink", Hex: "#ec4899"},
	{Value: "purple", Label: "Purple", Hex: "#8b5cf6"},
	{Value: "green", Label: "Green", Hex: "#22c55e"},
	{Value: "yellow", Label: "Yellow", Hex: "#eab308"},
	{Value: "orange", Label: "Orange", Hex: "#f97316"},
	{Value: "brown", Label: "Brown", Hex: "#92400e"},
	{Value: "beige", Label: "Beige", Hex: "#d4c4a8"},
	{Value: "multi", Label: "Multi"},
}

// DefaultTagColor is applied to tags created without an explicit color.
const DefaultTagColor = "#6366f1"

func IsClothingType(value string) bool {
	return inCatalog(ClothingTypes, value)
}

func IsSeason(value string) bool {
	return inCatalog(Seasons, value)
}

func IsColor(value string) bool {
	return inCatalog(Colors, value)
}

// SeasonRank returns the display index of a season, or len(Seasons) when unknown.
func SeasonRank(value string) int {
	idx := slices.IndexFunc(Seasons, func(e CatalogEntry) bool { return e.Value == value })
	if idx < 0 {
		return len(Seasons)
	}
	return idx
}

func inCatalog(catalog []CatalogEntry, value string) bool {
	return slices.ContainsFunc(catalog, func(e CatalogEntry) bool { return e.Value == value })
}
