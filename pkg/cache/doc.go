// Package cache stores SpaceTraders responses in redis.
//
// System and waypoint data only changes on a server reset, yet listing a
// system's waypoints costs several rate limited requests. The client keeps
// successful responses for cacheable GET endpoints here and serves repeated
// requests without touching the API.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//	manager := cache.NewManager(redisClient, cache.DefaultTTL, nil)
//
//	key := cache.Key{
//		Path:  "/systems/X1-DF55/waypoints",
//		Query: url.Values{"page": []string{"1"}},
//		Scope: "2026-10-04",
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the API, then
//		entry = cache.NewEntry(status, header, body, now, manager.TTL())
//		err = manager.Set(ctx, key, entry)
//	}
//
// Entries honour Cache-Control max-age or Expires when the server sends
// them; otherwise they live for the manager's TTL.
//
// # Metrics
//
//   - spess_cache_hits_total - Cache hits
//   - spess_cache_misses_total - Cache misses
//   - spess_cache_size_bytes - Bytes written to the cache
//   - spess_cache_errors_total{operation} - Cache operation errors
package cache
