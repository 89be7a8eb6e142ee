package api

import (
	"github.com/dragonwatch/dragonwatch/instruction"
	"github.com/dragonwatch/dragonwatch/report"
)

// Report is the result of processing the recent log lines
type Report struct {
	ID        string              `json:"id"`
	CreatedAt int64               `json:"created_at" format:"int64"`
	Lines     int                 `json:"lines"`
	Succeeded []string            `json:"succeeded"`
	Failed    []string            `json:"failed"`
	Records   []InstructionRecord `json:"records"`
	Message   string              `json:"message"`
	Notified  bool                `json:"notified"`
}

// InstructionRecord is the outcome of a single instruction
type InstructionRecord struct {
	Instruction string   `json:"instruction" jsonschema:"minLength=1"`
	IsSuccess   bool     `json:"is_success"`
	States      []string `json:"states"`
}

// Unmarshal converts a report.Report to a Report.
func (r *Report) Unmarshal(rp report.Report) {
	r.ID = rp.ID
	r.CreatedAt = rp.CreatedAt.Unix()
	r.Lines = rp.Lines
	r.Message = rp.Message
	r.Records = make([]InstructionRecord, 0, len(rp.Records))

	for _, record := range rp.Records {
		r.Records = append(r.Records, InstructionRecord{
			Instruction: record.Instruction,
			IsSuccess:   record.IsSuccess,
			States:      append([]string{}, record.States...),
		})
	}

	r.Succeeded, r.Failed = instruction.Partition(rp.Records)
}
