package instruction

import (
	"strings"
	"testing"

	"github.com/dragonwatch/dragonwatch/encoding/json"

	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	m, ok := ParseLine("[10:00:00.000] 指令 [ 刷体力 ] 执行 失败")
	require.True(t, ok)
	require.Equal(t, Match{Name: "刷体力", Status: "失败"}, m)

	m, ok = ParseLine("指令[Daily Task] start 执行ok trailing")
	require.True(t, ok)
	require.Equal(t, Match{Name: "Daily Task", Status: "OK"}, m)

	for _, line := range []string{
		"",
		"指令 [ 刷体力 ]",
		"指令 [ 刷体力 ]执行 成功",
		"指令 [  ] 执行 成功",
		"[10:00:00.000] 开始 [ 刷体力 ] 执行 成功",
		"指令 [ 刷体力 ] 执行",
	} {
		_, ok := ParseLine(line)
		require.False(t, ok, line)
	}
}

func TestParseLineLastMarker(t *testing.T) {
	m, ok := ParseLine("指令 [ a ] 执行 开始 然后 执行 成功")
	require.True(t, ok)
	require.Equal(t, "成功", m.Status)
}

func TestParseLineStatusUpper(t *testing.T) {
	m, ok := ParseLine("指令 [ a ] 执行 straße")
	require.True(t, ok)
	require.Equal(t, "STRASSE", m.Status)

	m, ok = ParseLine("指令 [ a ] 执行 ﬁne")
	require.True(t, ok)
	require.Equal(t, "FINE", m.Status)
}

func TestStickySuccess(t *testing.T) {
	log := strings.Join([]string{
		"[10:00:00.000] 指令 [ 刷体力 ] 执行 失败",
		"[10:00:05.000] 指令 [ 刷体力 ] 执行 成功",
	}, "\n")

	records := Extract([]string{"刷体力"}, log)
	require.Equal(t, []Record{
		{Instruction: "刷体力", IsSuccess: true, States: []string{"失败", "成功"}},
	}, records)

	message := Format(records)
	require.Contains(t, message, OKPrefix+"刷体力")
	require.Contains(t, message, AllSucceeded)
	require.NotContains(t, message, FailedPrefix)
}

func TestFrozenAfterSuccess(t *testing.T) {
	log := strings.Join([]string{
		"指令 [ a ] 执行 成功",
		"指令 [ a ] 执行 失败",
		"指令 [ a ] 执行 成功",
		"指令 [ b ] 执行 失败",
		"指令 [ b ] 执行 超时",
	}, "\n")

	records := Extract([]string{"a", "b"}, log)
	require.Equal(t, []Record{
		{Instruction: "a", IsSuccess: true, States: []string{"成功"}},
		{Instruction: "b", IsSuccess: false, States: []string{"失败", "超时"}},
	}, records)
}

func TestFailureOnly(t *testing.T) {
	records := Extract([]string{"刷体力"}, "[10:00:00.000] 指令 [ 刷体力 ] 执行 失败")
	require.Equal(t, []Record{
		{Instruction: "刷体力", IsSuccess: false, States: []string{"失败"}},
	}, records)

	message := Format(records)
	require.Contains(t, message, FailedPrefix+"刷体力")
	require.Contains(t, message, AllFailed)
}

func TestUnseenOmitted(t *testing.T) {
	records := Extract([]string{"A", "B"}, "指令 [ A ] 执行 成功")
	require.Len(t, records, 1)
	require.Equal(t, "A", records[0].Instruction)

	message := Format(records)
	require.NotContains(t, message, "B")
}

func TestCaseInsensitiveCanonical(t *testing.T) {
	log := strings.Join([]string{
		"指令 [ daily ] 执行 failed",
		"指令 [ DAILY ] 执行 成功",
	}, "\n")

	records := Extract([]string{"Daily", "daily", "Weekly"}, log)
	require.Equal(t, []Record{
		{Instruction: "Daily", IsSuccess: true, States: []string{"FAILED", "成功"}},
	}, records)
}

func TestCaseFolding(t *testing.T) {
	records := Extract([]string{"Straße"}, "指令 [ STRASSE ] 执行 成功")
	require.Equal(t, []Record{
		{Instruction: "Straße", IsSuccess: true, States: []string{"成功"}},
	}, records)
}

func TestUnknownNameSkipped(t *testing.T) {
	records := Extract([]string{"a"}, "指令 [ z ] 执行 成功\n指令 [ a ] 执行 失败")
	require.Equal(t, []Record{
		{Instruction: "a", IsSuccess: false, States: []string{"失败"}},
	}, records)
}

func TestOrderFollowsAllowed(t *testing.T) {
	log := "指令 [ c ] 执行 成功\r\n指令 [ a ] 执行 失败\r\n指令 [ b ] 执行 成功"

	records := Extract([]string{"a", "b", "c"}, log)
	require.Equal(t, []string{"a", "b", "c"}, []string{records[0].Instruction, records[1].Instruction, records[2].Instruction})

	require.Equal(t, "OneDragon执行完成：\n❌ 失败指令：a\n成功指令：b, c", Format(records))
}

func TestEmpty(t *testing.T) {
	records := Extract([]string{"a"}, "")
	require.NotNil(t, records)
	require.Empty(t, records)

	require.Equal(t, "OneDragon执行完成：\n全部成功✅\n，全部失败❌", Format(records))

	require.Empty(t, Extract(nil, "指令 [ a ] 执行 成功"))
}

func TestIdempotent(t *testing.T) {
	allowed := []string{"a", "b"}
	log := "指令 [ a ] 执行 失败\n指令 [ b ] 执行 成功\n指令 [ a ] 执行 成功"

	first := Extract(allowed, log)
	second := Extract(allowed, log)
	require.Equal(t, first, second)
	require.Equal(t, Format(first), Format(second))
}

func TestPartitionComplete(t *testing.T) {
	records := []Record{
		{Instruction: "a", IsSuccess: true, States: []string{"成功"}},
		{Instruction: "b", IsSuccess: false, States: []string{"失败"}},
		{Instruction: "c", IsSuccess: true, States: []string{"成功"}},
		{Instruction: "d", IsSuccess: false, States: []string{"失败"}},
	}

	success, failure := Partition(records)
	require.Equal(t, []string{"a", "c"}, success)
	require.Equal(t, []string{"b", "d"}, failure)

	lines := strings.Split(Format(records), "\n")
	require.Equal(t, []string{Header, FailedPrefix + "b, d", OKPrefix + "a, c"}, lines)
}

func TestRecordJSON(t *testing.T) {
	data, err := json.Marshal(Record{Instruction: "a", IsSuccess: false, States: []string{"失败"}})
	require.NoError(t, err)
	require.JSONEq(t, `{"instruction":"a","is_success":false,"states":["失败"]}`, string(data))
}

func TestNames(t *testing.T) {
	names := NewNames([]string{"Foo", "foo", "Bar"})
	require.Equal(t, []string{"Foo", "Bar"}, names.List())

	i, name, ok := names.Lookup("FOO")
	require.True(t, ok)
	require.Equal(t, 0, i)
	require.Equal(t, "Foo", name)

	_, _, ok = names.Lookup("baz")
	require.False(t, ok)
}
