package election

import (
	"os"
	"strconv"
	"time"

	uuid "github.com/hashicorp/go-uuid"
)

// NewToken returns a fresh ownership token for a single election attempt. The
// job ID scopes it, the instance name aids diagnostics, and the random suffix
// guarantees an instance can never mistake a record created by an earlier
// incarnation of itself (whose TTL has since expired) for its own.
func NewToken(jobID string) string {
	id, err := uuid.GenerateUUID()
	if err != nil {
		id = strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return jobID + "_" + Instance() + "_" + id
}

// Instance returns the local instance name used in tokens and events.
func Instance() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}
