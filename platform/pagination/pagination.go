// Package pagination defines the page request/result contract shared by all
// listing endpoints. Requests are validated (size bounds, per-entity sort key
// whitelist) before any query is built or executed.
package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"gateway_manager_api/platform/apperr"
)

// Direction is a sort direction.
type Direction string

const (
	// Asc sorts ascending.
	Asc Direction = "asc"
	// Desc sorts descending.
	Desc Direction = "desc"
)

// Page size bounds enforced on every listing request.
const (
	MinSize = 1
	MaxSize = 100

	// DefaultPage and DefaultSize apply when the query omits the parameters.
	DefaultPage = 0
	DefaultSize = 20
)

// SortKeySet is the enumerated whitelist of sort keys for one entity.
type SortKeySet map[string]struct{}

// NewSortKeySet builds a whitelist from the given keys.
func NewSortKeySet(keys ...string) SortKeySet {
	set := make(SortKeySet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Contains reports whether key is in the whitelist.
func (s SortKeySet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Request is a validated page request: zero-based page index, bounded size,
// and a whitelisted sort key with direction.
type Request struct {
	Page      int
	Size      int
	SortKey   string
	Direction Direction
}

// Offset returns the row offset for the request.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// Limit returns the row limit for the request.
func (r Request) Limit() int {
	return r.Size
}

// ParseQuery builds a Request from the raw page/size/sort query parameters.
// The sort parameter uses the form "key" or "key,direction". Defaults supply
// the values for omitted parameters. Violations of the size bounds or the
// sort whitelist fail here, before any store access.
func ParseQuery(pageStr, sizeStr, sortStr string, defaults Request, allowed SortKeySet) (Request, error) {
	req := defaults

	if pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return Request{}, apperr.BadRequest("Type Mismatch", "Parameter 'page' should be of type 'int'")
		}
		if page < 0 {
			page = 0
		}
		req.Page = page
	}

	if sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return Request{}, apperr.BadRequest("Type Mismatch", "Parameter 'size' should be of type 'int'")
		}
		req.Size = size
	}

	if req.Size < MinSize || req.Size > MaxSize {
		return Request{}, apperr.Validation(
			"Invalid Page Size",
			fmt.Sprintf("Page size must be between %d and %d.", MinSize, MaxSize),
		)
	}

	if sortStr != "" {
		key, direction, err := parseSort(sortStr, req.Direction)
		if err != nil {
			return Request{}, err
		}
		req.SortKey = key
		req.Direction = direction
	}

	if !allowed.Contains(req.SortKey) {
		return Request{}, apperr.Validation("Invalid Sort Key", "Invalid sort key(s): "+req.SortKey)
	}

	return req, nil
}

func parseSort(sortStr string, fallback Direction) (string, Direction, error) {
	parts := strings.Split(sortStr, ",")
	key := strings.TrimSpace(parts[0])
	direction := fallback

	if len(parts) > 1 {
		switch strings.ToLower(strings.TrimSpace(parts[1])) {
		case string(Asc):
			direction = Asc
		case string(Desc):
			direction = Desc
		default:
			return "", "", apperr.Validation("Invalid Sort Direction", "Sort direction must be 'asc' or 'desc'.")
		}
	}

	return key, direction, nil
}

// SortOrder echoes the applied sort key and direction in a page result.
type SortOrder struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Page is one page of results together with the pagination envelope.
// TotalPages is ceil(TotalElements/Size); zero elements yield zero pages.
type Page[T any] struct {
	Content       []T         `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int64       `json:"total_elements"`
	TotalPages    int         `json:"total_pages"`
	SortKey       []SortOrder `json:"sort_key"`
}

// NewPage assembles a page result for the given request and total count.
func NewPage[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages(total, req.Size),
		SortKey:       []SortOrder{{Key: req.SortKey, Direction: req.Direction}},
	}
}

// Map converts a page's content while preserving the envelope.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	content := make([]U, len(p.Content))
	for i, item := range p.Content {
		content[i] = fn(item)
	}
	return Page[U]{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		SortKey:       p.SortKey,
	}
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
