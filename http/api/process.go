package api

import (
	"github.com/dragonwatch/dragonwatch/psutil"
)

// Process is the state of a watched process
type Process struct {
	Name      string            `json:"name" jsonschema:"minLength=1"`
	Trigger   bool              `json:"trigger"`
	Running   bool              `json:"running"`
	Instances []ProcessInstance `json:"instances"`
}

// ProcessInstance is a running instance of a watched process
type ProcessInstance struct {
	PID       int32  `json:"pid" format:"int32"`
	CreatedAt int64  `json:"created_at" format:"int64"`
	Memory    uint64 `json:"memory_rss_bytes" format:"uint64"`
}

// Unmarshal converts a psutil.Process to a ProcessInstance.
func (i *ProcessInstance) Unmarshal(p psutil.Process) {
	i.PID = p.PID
	i.CreatedAt = p.Created.Unix()
	i.Memory = p.Memory
}
