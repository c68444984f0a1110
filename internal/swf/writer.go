package swf

import (
	"bufio"
	"fmt"
	"io"
)

// Write emits an augmented SWF trace: the MaxProcs header followed by
// one whitespace-separated 18-column row per record, in the order
// given (spec.md §6, "SWF output").
func Write(w io.Writer, maxProcs int, records []Record) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "; MaxProcs: %d\n", maxProcs); err != nil {
		return err
	}
	for _, r := range records {
		_, err := fmt.Fprintf(bw, "%d %d %d %d %d %d %d %d %d %d %d %d %d %d %d %d %d %d\n",
			r.JobNumber, r.SubmitTime, r.WaitTime, r.RunTime, r.AllocatedProcessors,
			r.AvgCPUTimeUsed, r.UsedMemory, r.RequestedProcessors, r.RequestedTime,
			r.RequestedMemory, r.Status, r.UserID, r.GroupID, r.ExecutableNumber,
			r.QueueNumber, r.PartitionNumber, r.PrecedingJobNumber, r.ThinkTime)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
