package extract

// Benchmark family ids.
const (
	Fibonacci  = "fibonacci"
	MatrixMult = "matrix_mult"
	Memory     = "memory"
	FileIO     = "file_io"
)

// Tables returns the extraction table of every benchmark family that has
// one. The long-running HTTP server benchmark has none.
//
// Markers cover both the English output of the Go-native benchmarks and
// the Chinese output of the python, node and java benchmarks.
func Tables() map[string]Table {
	return map[string]Table{
		Fibonacci:  fibonacciTable,
		MatrixMult: matrixTable,
		Memory:     memoryTable,
		FileIO:     fileIOTable,
	}
}

var fibonacciTable = Table{
	Fields: []string{"recursive_time", "iterative_time"},
	Rules: []Rule{
		{Marker: "recursive method", Field: "recursive_time", After: "time = ", Before: " sec"},
		{Marker: "iterative method", Field: "iterative_time", After: "time = ", Before: " sec"},
		{Marker: "递归方法", Field: "recursive_time", After: "用时 = ", Before: " 秒"},
		{Marker: "迭代方法", Field: "iterative_time", After: "用时 = ", Before: " 秒"},
	},
}

var matrixTable = Table{
	Fields: []string{"reference_time"},
	Rules: []Rule{
		{Marker: "reference implementation", Field: "reference_time", After: "time = ", Before: " sec"},
		{Marker: "NumPy实现", Field: "reference_time", After: "用时 = ", Before: " 秒"},
		{Marker: "mathjs实现", Field: "reference_time", After: "用时 = ", Before: " 秒"},
		{Marker: "矩阵乘法完成", Field: "reference_time", After: "用时 = ", Before: " 秒"},
	},
}

var memoryTable = Table{
	Fields: []string{
		"initial_memory",
		"after_creation_memory",
		"memory_increase",
		"creation_time",
		"operation_time",
	},
	Rules: []Rule{
		{Marker: "initial memory usage", Field: "initial_memory", After: ": ", Before: " MB"},
		{Marker: "memory after allocation", Field: "after_creation_memory", After: ": ", Before: " MB"},
		{Marker: "memory after allocation", Field: "memory_increase", After: "increase ", Before: " MB"},
		{Marker: "allocation time", Field: "creation_time", After: ": ", Before: " sec"},
		{Marker: "operation time", Field: "operation_time", After: ": ", Before: " sec"},

		{Marker: "初始内存使用", Field: "initial_memory", After: ": ", Before: " MB"},
		{Marker: "初始内存使用: RSS", Field: "initial_memory", After: "RSS = ", Before: " MB"},
		{Marker: "数组创建后内存使用", Field: "after_creation_memory", After: ": ", Before: " MB"},
		{Marker: "数组创建后内存使用: RSS", Field: "after_creation_memory", After: "RSS = ", Before: " MB"},
		{Marker: "数组创建后内存使用", Field: "memory_increase", After: "增加 ", Before: " MB"},
		{Marker: "数组创建时间", Field: "creation_time", After: ": ", Before: " 秒"},
		{Marker: "操作时间", Field: "operation_time", After: ": ", Before: " 秒"},
	},
}

var fileIOTable = Table{
	Fields: []string{"write_time", "write_speed", "read_time", "read_speed"},
	Rules: []Rule{
		{Marker: "write finished", Field: "write_time", After: "time: ", Before: " sec"},
		{Marker: "write throughput", Field: "write_speed", After: ": ", Before: " MB/sec"},
		{Marker: "read finished", Field: "read_time", After: "time: ", Before: " sec"},
		{Marker: "read throughput", Field: "read_speed", After: ": ", Before: " MB/sec"},

		{Marker: "写入完成", Field: "write_time", After: "用时: ", Before: " 秒"},
		{Marker: "写入速度", Field: "write_speed", After: ": ", Before: " MB/秒"},
		{Marker: "读取完成", Field: "read_time", After: "用时: ", Before: " 秒"},
		{Marker: "读取速度", Field: "read_speed", After: ": ", Before: " MB/秒"},
	},
}
