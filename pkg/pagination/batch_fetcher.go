package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel requests. Every request
	// still passes the client's rate limiter, so more workers only help while
	// the burst window has room.
	MaxConcurrency int
	// Timeout per page fetch
	Timeout time.Duration
	// PageSize is the number of items requested per page
	PageSize int
}

// DefaultConfig returns defaults sized for the SpaceTraders burst limit.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        30 * time.Second,
		PageSize:       MaxPageSize,
	}
}

// PageResult represents the result of fetching a single page
type PageResult[T any] struct {
	PageNumber int
	Items      []T
	Error      error
}

// BatchFetcher fetches every page of a listing in parallel.
type BatchFetcher[T any] struct {
	config Config
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher[T any](config Config) *BatchFetcher[T] {
	def := DefaultConfig()
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = def.MaxConcurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.PageSize <= 0 || config.PageSize > MaxPageSize {
		config.PageSize = def.PageSize
	}
	return &BatchFetcher[T]{config: config}
}

// FetchAll fetches the whole listing behind p, ignoring its bounds, and
// returns the items in listing order. When some pages fail the items of the
// pages that succeeded are returned along with the first error.
func (bf *BatchFetcher[T]) FetchAll(ctx context.Context, p *Paged[T]) ([]T, error) {
	start := time.Now()
	limit := bf.config.PageSize

	meta, first, err := p.getPage(ctx, 1, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}

	meta.Limit = limit
	totalPages := meta.Pages()

	log.Debug().
		Int("total", meta.Total).
		Int("total_pages", totalPages).
		Msg("Starting parallel page fetch")

	if totalPages <= 1 {
		return first, nil
	}

	pages := make([][]T, totalPages)
	pages[0] = first

	pageQueue := make(chan int, totalPages)
	for page := 2; page <= totalPages; page++ {
		pageQueue <- page
	}
	close(pageQueue)

	pageResults := make(chan PageResult[T], totalPages)

	var wg sync.WaitGroup
	workers := min(bf.config.MaxConcurrency, totalPages-1)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go bf.worker(ctx, p.getPage, pageQueue, pageResults, &wg, i)
	}

	go func() {
		wg.Wait()
		close(pageResults)
	}()

	var firstErr error
	fetched := 1
	for result := range pageResults {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		pages[result.PageNumber-1] = result.Items
		fetched++
	}

	items := make([]T, 0, meta.Total)
	for _, page := range pages {
		items = append(items, page...)
	}

	if firstErr != nil {
		log.Warn().
			Err(firstErr).
			Int("fetched_pages", fetched).
			Int("total_pages", totalPages).
			Msg("Page fetch failed - returning partial results")
		return items, fmt.Errorf("partial data (%d/%d pages): %w", fetched, totalPages, firstErr)
	}

	log.Debug().
		Int("pages", fetched).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return items, nil
}

// worker processes pages from the queue
func (bf *BatchFetcher[T]) worker(ctx context.Context, getPage GetPage[T], pageQueue <-chan int, results chan<- PageResult[T], wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	pagesProcessed := 0

	for pageNum := range pageQueue {
		if err := ctx.Err(); err != nil {
			results <- PageResult[T]{PageNumber: pageNum, Error: err}
			continue
		}

		pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
		_, items, err := getPage(pageCtx, pageNum, bf.config.PageSize)
		cancel()

		if err != nil {
			log.Debug().
				Err(err).
				Int("worker_id", workerID).
				Int("page", pageNum).
				Msg("Page fetch failed")
			err = fmt.Errorf("fetch page %d: %w", pageNum, err)
		}

		results <- PageResult[T]{PageNumber: pageNum, Items: items, Error: err}
		pagesProcessed++
	}

	log.Debug().
		Int("worker_id", workerID).
		Int("pages_processed", pagesProcessed).
		Msg("Worker completed")
}
