package api

import (
	"github.com/dragonwatch/dragonwatch/watchdog"
)

// WatchdogStatus is the current state of the watch loop
type WatchdogStatus struct {
	Mode      string `json:"mode"`
	Phase     string `json:"phase"`
	Cycles    uint64 `json:"cycles" format:"uint64"`
	Reports   uint64 `json:"reports" format:"uint64"`
	LastError string `json:"last_error"`
	NextCycle int64  `json:"next_cycle" format:"int64"` // unix timestamp, 0 if none is scheduled
}

// Unmarshal converts a watchdog.Status to a WatchdogStatus.
func (s *WatchdogStatus) Unmarshal(status watchdog.Status) {
	s.Mode = status.Mode
	s.Phase = status.Phase
	s.Cycles = status.Cycles
	s.Reports = status.Reports
	s.LastError = status.LastError

	if !status.NextCycle.IsZero() {
		s.NextCycle = status.NextCycle.Unix()
	}
}
