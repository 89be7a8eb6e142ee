// Package instruction classifies the instructions found in a log text as
// succeeded or failed and renders the result as a summary message.
//
// A log line reports the outcome of an instruction in the form
//
//	指令 [ NAME ] ... 执行 TOKEN
//
// where NAME is the instruction's name and TOKEN is the status. Once the
// success status "成功" has been seen for an instruction, the outcome of this
// instruction is frozen for the remainder of the text.
package instruction

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SuccessStatus is the status token that marks an instruction as succeeded.
const SuccessStatus = "成功"

var lineGrammar = regexp.MustCompile(`(?i)指令\s*\[\s*([^\]]+?)\s*\]\s.*执行\s*(\S+)`)

// Record is the outcome of one instruction.
type Record struct {
	Instruction string   `json:"instruction"`
	IsSuccess   bool     `json:"is_success"`
	States      []string `json:"states"`
}

// Match is one line that satisfies the line grammar.
type Match struct {
	Name   string
	Status string
}

// ParseLine matches a single line against the line grammar. The name is
// trimmed and the status is upper cased.
func ParseLine(line string) (Match, bool) {
	m := lineGrammar.FindStringSubmatch(line)
	if m == nil {
		return Match{}, false
	}

	name := strings.TrimSpace(m[1])
	if len(name) == 0 {
		return Match{}, false
	}

	return Match{
		Name:   name,
		Status: cases.Upper(language.Und).String(m[2]),
	}, true
}

// Names is an ordered set of instruction names. Names are compared by their
// case folded form and the first spelling of a name wins. A Names is not
// safe for concurrent use.
type Names struct {
	folder cases.Caser
	names  []string
	index  map[string]int
}

func NewNames(names []string) *Names {
	n := &Names{
		folder: cases.Fold(),
		names:  []string{},
		index:  map[string]int{},
	}

	for _, name := range names {
		key := n.key(name)
		if _, ok := n.index[key]; ok {
			continue
		}

		n.index[key] = len(n.names)
		n.names = append(n.names, name)
	}

	return n
}

func (n *Names) key(name string) string {
	return n.folder.String(name)
}

// Lookup returns the position and the canonical spelling of the name.
func (n *Names) Lookup(name string) (int, string, bool) {
	i, ok := n.index[n.key(name)]
	if !ok {
		return -1, "", false
	}

	return i, n.names[i], true
}

// List returns the canonical names in order.
func (n *Names) List() []string {
	list := make([]string, len(n.names))
	copy(list, n.names)

	return list
}

// Extract scans the log text line by line and returns one record per allowed
// instruction that has been observed at least once, in the order of the
// allowed list.
func Extract(allowed []string, logText string) []Record {
	names := NewNames(allowed)

	records := make([]Record, len(names.names))
	for i, name := range names.names {
		records[i] = Record{
			Instruction: name,
			States:      []string{},
		}
	}

	for _, line := range strings.Split(logText, "\n") {
		m, ok := ParseLine(line)
		if !ok {
			continue
		}

		i, _, ok := names.Lookup(m.Name)
		if !ok {
			continue
		}

		r := &records[i]
		if r.IsSuccess {
			continue
		}

		if m.Status == SuccessStatus {
			r.IsSuccess = true
		}

		r.States = append(r.States, m.Status)
	}

	observed := []Record{}
	for _, r := range records {
		if len(r.States) == 0 {
			continue
		}

		observed = append(observed, r)
	}

	return observed
}
