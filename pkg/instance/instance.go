// Package instance names the running process in structured logs.
package instance

import (
	"os"

	"github.com/parkmarket/marketplace-backend/pkg/env"
)

var idVars = []string{"MARKETPLACE_INSTANCE_ID", "WORKER_ID", "DYNO"}

// GetID returns the first instance id found in the environment, then the
// hostname, then "local".
func GetID() string {
	for _, key := range idVars {
		if id := env.Get(key, ""); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
