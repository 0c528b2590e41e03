package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(m Metrics) map[string]any {
	out := make(map[string]any)
	for _, f := range m.Fields() {
		if f.Value == nil {
			out[f.Name] = nil

			continue
		}
		out[f.Name] = *f.Value
	}

	return out
}

func TestExtractFamilies(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		stdout string
		want   map[string]any
	}{
		{
			name: "fibonacci english",
			id:   Fibonacci,
			stdout: "computing fibonacci term 40\n" +
				"recursive method: time = 0.012 sec\n" +
				"iterative method: time = 0.000003 sec\n",
			want: map[string]any{"recursive_time": 0.012, "iterative_time": 0.000003},
		},
		{
			name: "fibonacci chinese",
			id:   Fibonacci,
			stdout: "计算斐波那契数列第 40 项\n" +
				"递归方法: 结果 = 102334155, 用时 = 21.345678 秒\n" +
				"迭代方法: 结果 = 102334155, 用时 = 0.000004 秒\n",
			want: map[string]any{"recursive_time": 21.345678, "iterative_time": 0.000004},
		},
		{
			name: "matrix go",
			id:   MatrixMult,
			stdout: "running 200x200 matrix multiplication\n" +
				"reference implementation: time = 0.004512 sec\n" +
				"naive implementation: time = 0.031000 sec\n",
			want: map[string]any{"reference_time": 0.004512},
		},
		{
			name:   "matrix numpy",
			id:     MatrixMult,
			stdout: "执行 1000x1000 矩阵乘法测试\nNumPy实现: 用时 = 0.045678 秒\n矩阵太大，跳过手动实现测试\n",
			want:   map[string]any{"reference_time": 0.045678},
		},
		{
			name:   "matrix java",
			id:     MatrixMult,
			stdout: "创建随机矩阵...\n执行矩阵乘法...\n矩阵乘法完成，用时 = 1.250000 秒\n",
			want:   map[string]any{"reference_time": 1.25},
		},
		{
			name: "memory english",
			id:   Memory,
			stdout: "initial memory usage: 12.50 MB\n" +
				"allocating array of 10000000 elements...\n" +
				"memory after allocation: 88.75 MB (increase 76.25 MB)\n" +
				"allocation time: 0.031250 sec\n" +
				"after operation memory usage: 88.75 MB (increase 0.00 MB)\n" +
				"sum result: 49999995000000, operation time: 0.006500 sec\n",
			want: map[string]any{
				"initial_memory":        12.5,
				"after_creation_memory": 88.75,
				"memory_increase":       76.25,
				"creation_time":         0.03125,
				"operation_time":        0.0065,
			},
		},
		{
			name: "memory python",
			id:   Memory,
			stdout: "初始内存使用: 10.25 MB\n" +
				"数组创建后内存使用: 400.50 MB (增加 390.25 MB)\n" +
				"数组创建时间: 0.500000 秒\n" +
				"数组求和结果: 49999995000000, 操作时间: 0.125000 秒\n",
			want: map[string]any{
				"initial_memory":        10.25,
				"after_creation_memory": 400.5,
				"memory_increase":       390.25,
				"creation_time":         0.5,
				"operation_time":        0.125,
			},
		},
		{
			name: "memory node",
			id:   Memory,
			stdout: "初始内存使用: RSS = 40.50 MB, 堆使用 = 3.25 MB\n" +
				"数组创建后内存使用: RSS = 120.75 MB (增加 80.25 MB)\n" +
				"堆使用 = 80.00 MB (增加 76.75 MB)\n" +
				"数组创建时间: 0.250000 秒\n" +
				"数组求和结果: 49999995000000, 操作时间: 0.015000 秒\n",
			want: map[string]any{
				"initial_memory":        40.5,
				"after_creation_memory": 120.75,
				"memory_increase":       80.25,
				"creation_time":         0.25,
				"operation_time":        0.015,
			},
		},
		{
			name: "file io english",
			id:   FileIO,
			stdout: "writing 64MB file...\n" +
				"write finished, time: 0.125 sec\n" +
				"write throughput: 512.00 MB/sec\n" +
				"reading 64.00MB file...\n" +
				"read finished, read 64.00MB, time: 0.050 sec\n" +
				"read throughput: 1280.00 MB/sec\n",
			want: map[string]any{
				"write_time":  0.125,
				"write_speed": 512.0,
				"read_time":   0.05,
				"read_speed":  1280.0,
			},
		},
		{
			name: "file io chinese",
			id:   FileIO,
			stdout: "写入完成, 用时: 2.000 秒\n" +
				"写入速度: 500.00 MB/秒\n" +
				"读取完成, 读取了 1000.00MB, 用时: 0.800 秒\n" +
				"读取速度: 1250.00 MB/秒\n",
			want: map[string]any{
				"write_time":  2.0,
				"write_speed": 500.0,
				"read_time":   0.8,
				"read_speed":  1250.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics, misses, ok := Extract(tt.id, tt.stdout)
			require.True(t, ok, "no table for %s", tt.id)
			assert.Empty(t, misses)

			if diff := cmp.Diff(tt.want, values(metrics)); diff != "" {
				t.Errorf("metrics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractMalformedKeepsGoing(t *testing.T) {
	stdout := "recursive method: time = fast sec\n" +
		"iterative method: time = 0.000003 sec\n"

	metrics, misses, ok := Extract(Fibonacci, stdout)
	require.True(t, ok)

	if _, present := metrics.Get("recursive_time"); present {
		t.Error("recursive_time should be absent for malformed payload")
	}

	v, present := metrics.Get("iterative_time")
	if !present || v != 0.000003 {
		t.Errorf("iterative_time = %v, %v; want 0.000003, true", v, present)
	}

	want := []Miss{{Field: "recursive_time", Reason: ReasonMalformed}}
	if diff := cmp.Diff(want, misses); diff != "" {
		t.Errorf("misses mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractMissingDelimiter(t *testing.T) {
	metrics, misses, _ := Extract(MatrixMult, "reference implementation: 0.5 sec\n")

	assert.Equal(t, 0, metrics.Present())
	assert.Equal(t, []Miss{{Field: "reference_time", Reason: ReasonMalformed}}, misses)
}

func TestExtractMissingLines(t *testing.T) {
	metrics, misses, ok := Extract(FileIO, "")
	require.True(t, ok)

	assert.Len(t, metrics.Fields(), 4)
	assert.Equal(t, 0, metrics.Present())

	for _, m := range misses {
		assert.Equal(t, ReasonMissing, m.Reason, m.Field)
	}
	assert.Len(t, misses, 4)
}

func TestExtractSurvivesLongLines(t *testing.T) {
	stdout := "recursive method: time = 0.012 sec\n" +
		strings.Repeat("x", 2<<20) + "\n" +
		"iterative method: time = 0.000003 sec\n"

	metrics, misses, _ := Extract(Fibonacci, stdout)

	v, ok := metrics.Get("iterative_time")
	if !ok || v != 0.000003 {
		t.Errorf("iterative_time = %v, %v; want 0.000003, true", v, ok)
	}
	assert.Empty(t, misses)
}

func TestExtractCRLF(t *testing.T) {
	metrics, _, _ := Extract(MatrixMult, "reference implementation: time = 0.5 sec\r\n")

	v, ok := metrics.Get("reference_time")
	if !ok || v != 0.5 {
		t.Errorf("reference_time = %v, %v; want 0.5, true", v, ok)
	}
}

func TestExtractRejectsNonFinite(t *testing.T) {
	metrics, _, _ := Extract(MatrixMult, "reference implementation: time = NaN sec\n")

	if _, ok := metrics.Get("reference_time"); ok {
		t.Error("NaN must not be reported as a measurement")
	}
}

func TestLaterFailureKeepsEarlierValue(t *testing.T) {
	stdout := "write finished, time: 1.500 sec\n" +
		"write finished, time: ??? sec\n"

	metrics, _, _ := Extract(FileIO, stdout)

	v, ok := metrics.Get("write_time")
	if !ok || v != 1.5 {
		t.Errorf("write_time = %v, %v; want 1.5, true", v, ok)
	}
}

func TestExtractUnknownID(t *testing.T) {
	if _, _, ok := Extract("http_server", "listening on :8080"); ok {
		t.Error("http_server must not have an extraction table")
	}
}

func TestTablesAreConsistent(t *testing.T) {
	for id, table := range Tables() {
		fields := make(map[string]bool, len(table.Fields))
		for _, f := range table.Fields {
			fields[f] = true
		}

		for _, r := range table.Rules {
			if !fields[r.Field] {
				t.Errorf("%s: rule %q fills undeclared field %q", id, r.Marker, r.Field)
			}
			if r.Marker == "" {
				t.Errorf("%s: rule for %q has empty marker", id, r.Field)
			}
		}
	}
}

func TestMetricsJSON(t *testing.T) {
	v := 0.25
	m := NewMetrics(
		Field{Name: "write_time", Value: &v},
		Field{Name: "write_speed"},
	)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	assert.Equal(t, `{"write_time":0.25,"write_speed":null}`, string(data))
}
