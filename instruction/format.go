package instruction

import "strings"

const (
	Header       = "OneDragon执行完成："
	FailedPrefix = "❌ 失败指令："
	AllSucceeded = "全部成功✅"
	OKPrefix     = "成功指令："
	AllFailed    = "，全部失败❌"
	NoStatus     = "⚠️ 未检测到有效指令状态"
)

// Partition splits the records into the names of the succeeded and the
// failed instructions. The order of the records is kept.
func Partition(records []Record) (success, failure []string) {
	success = []string{}
	failure = []string{}

	for _, r := range records {
		if r.IsSuccess {
			success = append(success, r.Instruction)
		} else {
			failure = append(failure, r.Instruction)
		}
	}

	return success, failure
}

// Format renders the records as a summary message.
func Format(records []Record) string {
	success, failure := Partition(records)

	lines := []string{Header}

	if len(failure) != 0 {
		lines = append(lines, FailedPrefix+strings.Join(failure, ", "))
	} else {
		lines = append(lines, AllSucceeded)
	}

	if len(success) != 0 {
		lines = append(lines, OKPrefix+strings.Join(success, ", "))
	} else {
		lines = append(lines, AllFailed)
	}

	if len(lines) == 0 {
		return NoStatus
	}

	return strings.Join(lines, "\n")
}
