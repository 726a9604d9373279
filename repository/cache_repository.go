package repository

import "context"

// CacheRepository stores serialized computation results by key. A miss and a
// backend failure both report ok=false from Get.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
