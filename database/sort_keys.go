package database

import (
	"errors"
	"fmt"
)

// Sentinel errors for sort parameter validation, so callers can map bad
// client input to a 400 instead of a 500.
var (
	ErrUnknownSortKey   = errors.New("unrecognized sort key")
	ErrUnknownSortOrder = errors.New("unrecognized sort direction")
)

// Sort keys accepted by listing endpoints. Each entity type exposes a fixed
// set of keys mapped to column expressions; unrecognized keys are rejected
// instead of silently falling back to a default column.

const (
	SortDefault          = "default"
	SortName             = "name"
	SortCreatedAt        = "created_at"
	SortUpdatedAt        = "updated_at"
	SortOrderField       = "sort_order"
	SortOriginalFilename = "original_filename"
	SortFileSize         = "file_size"
	SortFilenameNat      = "filename_nat"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// albumSortColumns maps permitted album sort keys to their column expression.
var albumSortColumns = map[string]string{
	SortName:       "name",
	SortCreatedAt:  "created_at",
	SortUpdatedAt:  "updated_at",
	SortOrderField: "sort_order",
}

// photoSortColumns maps permitted photo sort keys to their column expression.
// SortFilenameNat is permitted but has no column: natural filename order is
// applied in memory after the query.
var photoSortColumns = map[string]string{
	SortCreatedAt:        "created_at",
	SortOriginalFilename: "original_filename",
	SortFileSize:         "file_size",
	SortOrderField:       "sort_order",
}

// AlbumOrderClauses resolves a sort key and direction into the ORDER BY
// clauses for an album listing. The default order is sort_order DESC with
// updated_at DESC as the tie break; explicit keys sort by that column alone.
func AlbumOrderClauses(sortBy, order string) ([]string, error) {
	if sortBy == "" || sortBy == SortDefault {
		return []string{"sort_order DESC", "updated_at DESC"}, nil
	}
	col, ok := albumSortColumns[sortBy]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSortKey, sortBy)
	}
	dir, err := normalizeOrder(order)
	if err != nil {
		return nil, err
	}
	return []string{col + " " + dir}, nil
}

// PhotoOrderClauses resolves a sort key and direction into the ORDER BY
// clauses for a photo listing. The default order is sort_order DESC with
// created_at DESC as the tie break. SortFilenameNat returns nil clauses; the
// caller is expected to sort in memory.
func PhotoOrderClauses(sortBy, order string) ([]string, error) {
	if sortBy == "" || sortBy == SortDefault {
		return []string{"sort_order DESC", "created_at DESC"}, nil
	}
	if sortBy == SortFilenameNat {
		if _, err := normalizeOrder(order); err != nil {
			return nil, err
		}
		return nil, nil
	}
	col, ok := photoSortColumns[sortBy]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSortKey, sortBy)
	}
	dir, err := normalizeOrder(order)
	if err != nil {
		return nil, err
	}
	return []string{col + " " + dir}, nil
}

func normalizeOrder(order string) (string, error) {
	switch order {
	case "", OrderDesc:
		return "DESC", nil
	case OrderAsc:
		return "ASC", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownSortOrder, order)
	}
}
