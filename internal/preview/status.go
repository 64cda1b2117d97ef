package preview

import (
	"sync"
	"time"
)

// buildStatus tracks the outcome of the latest build for the status endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuildID  string
	lastBuildAt  time.Time
	hasGoodBuild bool // true if at least one successful build exists
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastBuildAt = time.Now()
}

func (bs *buildStatus) setSuccess(buildID string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastBuildID = buildID
	bs.lastBuildAt = time.Now()
	bs.hasGoodBuild = true
}

// StatusView is the JSON body of the status endpoint.
type StatusView struct {
	OK           bool      `json:"ok"`
	Error        string    `json:"error,omitempty"`
	HasGoodBuild bool      `json:"has_good_build"`
	LastBuildID  string    `json:"last_build_id,omitempty"`
	LastBuildAt  time.Time `json:"last_build_at"`
}

func (bs *buildStatus) view() StatusView {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	v := StatusView{
		OK:           bs.lastError == nil,
		HasGoodBuild: bs.hasGoodBuild,
		LastBuildID:  bs.lastBuildID,
		LastBuildAt:  bs.lastBuildAt,
	}
	if bs.lastError != nil {
		v.Error = bs.lastError.Error()
	}
	return v
}
