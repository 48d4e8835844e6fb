package pagination

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/Sternrassler/spess/pkg/models"
)

const (
	// DefaultPageSize is the number of items requested per page.
	DefaultPageSize = 10
	// MaxPageSize is the largest page the API serves.
	MaxPageSize = 20
)

// ErrNoItems is returned by First on an empty listing.
var ErrNoItems = errors.New("no items")

// GetPage fetches one page (1-based) holding at most limit items.
type GetPage[T any] func(ctx context.Context, page, limit int) (models.Meta, []T, error)

// Paged is a lazy view over a paginated listing. The builder methods return
// modified copies, so a Paged value can be shared and narrowed freely.
type Paged[T any] struct {
	getPage  GetPage[T]
	low      int
	high     int // exclusive; negative means unbounded
	pageSize int
}

// New creates a Paged over getPage.
func New[T any](getPage GetPage[T]) *Paged[T] {
	return &Paged[T]{
		getPage:  getPage,
		high:     -1,
		pageSize: DefaultPageSize,
	}
}

// Limit bounds iteration to n items after the current offset.
func (p *Paged[T]) Limit(n int) *Paged[T] {
	cp := *p
	if n < 0 {
		n = 0
	}
	cp.high = cp.low + n
	return &cp
}

// Offset skips the first n items. An existing limit keeps its length.
func (p *Paged[T]) Offset(n int) *Paged[T] {
	cp := *p
	if n < 0 {
		n = 0
	}
	if cp.high >= 0 {
		cp.high += n - cp.low
	}
	cp.low = n
	return &cp
}

// PageSize sets the number of items requested per page, clamped to [1, MaxPageSize].
func (p *Paged[T]) PageSize(n int) *Paged[T] {
	cp := *p
	cp.pageSize = min(max(n, 1), MaxPageSize)
	return &cp
}

// All iterates the listing, fetching pages as needed. A failed fetch is
// yielded once with the zero value and ends the iteration.
func (p *Paged[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		i := p.low
		for p.high < 0 || i < p.high {
			page := i / p.pageSize
			pageOffset := i - page*p.pageSize
			pageMax := p.pageSize
			if p.high >= 0 {
				pageMax = min(p.high-page*p.pageSize, p.pageSize)
			}

			meta, data, err := p.getPage(ctx, page+1, p.pageSize)
			if err != nil {
				var zero T
				yield(zero, fmt.Errorf("fetch page %d: %w", page+1, err))
				return
			}

			end := min(len(data), pageMax)
			for j := pageOffset; j < end; j++ {
				if !yield(data[j], nil) {
					return
				}
			}

			if end > pageOffset {
				i += end - pageOffset
			}
			if len(data) < p.pageSize {
				return
			}
			if meta.Total > 0 && i >= meta.Total {
				return
			}
		}
	}
}

// First returns the first item, or ErrNoItems when the listing is empty.
func (p *Paged[T]) First(ctx context.Context) (T, error) {
	for v, err := range p.All(ctx) {
		return v, err
	}
	var zero T
	return zero, ErrNoItems
}

// Collect gathers every item into a slice.
func (p *Paged[T]) Collect(ctx context.Context) ([]T, error) {
	var out []T
	for v, err := range p.All(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Total asks the server for the size of the whole listing, ignoring bounds.
func (p *Paged[T]) Total(ctx context.Context) (int, error) {
	meta, _, err := p.getPage(ctx, 1, 1)
	if err != nil {
		return 0, fmt.Errorf("fetch page 1: %w", err)
	}
	return meta.Total, nil
}
