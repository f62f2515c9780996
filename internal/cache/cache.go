package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is the minimal contract consumed by the auth and menu services.
// Values are serialized snapshots; a miss is reported via the bool, not
// an error, so callers can distinguish "absent" from "backend down".
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Cache key namespace for per-user derived snapshots.
func UserMenusKey(userID int64) string {
	return fmt.Sprintf("user:menus:%d", userID)
}

func UserRoutesKey(userID int64) string {
	return fmt.Sprintf("user:routes:%d", userID)
}

func UserPermissionsKey(userID int64) string {
	return fmt.Sprintf("user:permissions:%d", userID)
}

// MenuTreeKey caches the unfiltered menu tree (super-admin view).
const MenuTreeKey = "menu:tree"

// UserKeys lists every derived key for a user, for bulk invalidation.
func UserKeys(userID int64) []string {
	return []string{
		UserMenusKey(userID),
		UserRoutesKey(userID),
		UserPermissionsKey(userID),
	}
}
