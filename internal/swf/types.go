// Package swf reads and writes the Standard Workload Format traces the
// simulator consumes and produces (spec.md §6). Parsing is deliberately
// narrow: only the columns the kernel actually reads or writes are
// interpreted; everything else round-trips as opaque text, since SWF
// column cosmetics beyond kernel read/write are an explicit non-goal
// (spec.md §1).
package swf

// Record is one parsed SWF job row, holding both the columns the
// simulator acts on and the raw columns it merely preserves on output.
type Record struct {
	JobNumber              int64
	SubmitTime             int64
	WaitTime               int64
	RunTime                int64
	AllocatedProcessors    int64
	AvgCPUTimeUsed         int64
	UsedMemory             int64
	RequestedProcessors    int64
	RequestedTime          int64
	RequestedMemory        int64
	Status                 int64
	UserID                 int64
	GroupID                int64
	ExecutableNumber       int64
	QueueNumber            int64
	PartitionNumber        int64
	PrecedingJobNumber     int64 // column 17; repurposed on output as under-prediction count
	ThinkTime              int64 // column 18; repurposed on output as initial prediction
}

// Header carries the trace-level metadata the simulator reads before
// processing any job row.
type Header struct {
	MaxProcs int
}
