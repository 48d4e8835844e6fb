// Package pagination iterates the paginated SpaceTraders listings.
//
// Listing endpoints take page and limit query parameters and answer with a
// meta block carrying the total item count. Paged wraps such an endpoint as a
// lazy sequence: pages are requested only as iteration reaches them.
//
// Example usage:
//
//	ships := c.Ships()
//	first, err := ships.First(ctx)
//	for ship, err := range ships.Limit(25).All(ctx) {
//		...
//	}
//
// BatchFetcher fetches every page of a listing in parallel using a worker
// pool, once the first page has reported the total.
package pagination
