package orchestrator

import (
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// RollbackTimeout bounds the compensation of a failed run
	RollbackTimeout = getTimeoutOrDefault("BUMPVER_ROLLBACK_TIMEOUT", 30*time.Second, 2*time.Second)
	// DefaultRetryCount is the number of retries for a compensating action
	DefaultRetryCount = uint64(getRetryCountOrDefault("BUMPVER_RETRY_COUNT", 3, 1))
	// DefaultRetryDelay is the initial delay for exponential backoff
	DefaultRetryDelay = getTimeoutOrDefault("BUMPVER_RETRY_DELAY", 100*time.Millisecond, 5*time.Millisecond)
)

// isTestEnvironment detects if we're running in a test environment
func isTestEnvironment() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, ".test") || strings.Contains(arg, "go test") {
			return true
		}
	}
	return os.Getenv("GO_TEST") == "true" || os.Getenv("TEST_MODE") == "true"
}

// getTimeoutOrDefault returns production timeout or test timeout based on environment
func getTimeoutOrDefault(envVar string, prodDefault, testDefault time.Duration) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if duration, err := time.ParseDuration(env); err == nil {
			return duration
		}
	}
	if isTestEnvironment() {
		return testDefault
	}
	return prodDefault
}

// getRetryCountOrDefault returns production retry count or test retry count based on environment
func getRetryCountOrDefault(envVar string, prodDefault, testDefault int) int {
	if env := os.Getenv(envVar); env != "" {
		if count, err := strconv.Atoi(env); err == nil && count >= 0 {
			return count
		}
	}
	if isTestEnvironment() {
		return testDefault
	}
	return prodDefault
}

// Rollback data keys
const (
	rollbackKeyPath        = "path"
	rollbackKeyOriginal    = "original"
	rollbackKeyBranch      = "branch"
	rollbackKeyNewlyMarked = "newly_marked"
)
