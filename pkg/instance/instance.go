package instance

import "github.com/angelmondragon/storefront-cart/pkg/env"

const defaultID = "local"

// GetID names the running process for logs: STOREFRONT_INSTANCE_ID, then the platform's
// DYNO, then "local".
func GetID() string {
	return env.Get("STOREFRONT_INSTANCE_ID", env.Get("DYNO", defaultID))
}
