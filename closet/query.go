package closet

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/models"
)

// ParseQuery reads a filter and sort key from URL query parameters:
// type, season, color, tags (comma separated ids), search, favorites=true and sort.
// Missing sort defaults to newest.
func ParseQuery(q url.Values) (Filter, SortKey, error) {
	f := Filter{
		Type:          q.Get("type"),
		Season:        q.Get("season"),
		Color:         q.Get("color"),
		Search:        strings.TrimSpace(q.Get("search")),
		FavoritesOnly: q.Get("favorites") == "true",
	}

	if f.Type != "" && !models.IsClothingType(f.Type) {
		return Filter{}, "", errs.NewInvalidFieldError("type", "unknown clothing type "+f.Type)
	}
	if f.Season != "" && !models.IsSeason(f.Season) {
		return Filter{}, "", errs.NewInvalidFieldError("season", "unknown season "+f.Season)
	}
	if f.Color != "" && !models.IsColor(f.Color) {
		return Filter{}, "", errs.NewInvalidFieldError("color", "unknown color "+f.Color)
	}

	if raw := q.Get("tags"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return Filter{}, "", errs.NewInvalidFieldError("tags", "invalid tag id "+part)
			}
			f.TagIDs = append(f.TagIDs, id)
		}
	}

	key := SortKey(q.Get("sort"))
	if key == "" {
		key = SortNewest
	}
	if !key.Valid() {
		return Filter{}, "", errs.NewInvalidFieldError("sort", "unknown sort key "+string(key))
	}
	return f, key, nil
}
