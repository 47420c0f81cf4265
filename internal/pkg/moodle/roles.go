package moodle

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/jcid-dev/MoodleLink/internal/pkg/cache"
)

const rolesCacheKey = "moodle:roles"
const rolesCacheTTL = time.Hour

// GetRolesCached returns the role list, served from the cache when possible.
// The role set changes rarely; a stale hour is acceptable for display
// purposes. Cache failures fall back to a direct web-service call.
func GetRolesCached(ctx context.Context, client Client) (map[uint]string, error) {
	if raw, err := cache.Get(rolesCacheKey); err == nil && raw != "" {
		var roles map[uint]string
		if err := json.Unmarshal([]byte(raw), &roles); err == nil {
			return roles, nil
		}
		log.Warnf("discarding unreadable cached role list")
	}

	roles, err := client.GetRoles(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(roles); err == nil {
		if err := cache.Set(rolesCacheKey, string(raw), rolesCacheTTL); err != nil {
			log.Warnf("failed to cache role list: %v", err)
		}
	}

	return roles, nil
}
