package swf

import (
	"strconv"

	"github.com/algo74/predictsim/internal/job"
)

// ToJobs converts parsed SWF rows into job.Job records ready for
// submission to the simulation kernel (spec.md §3, "Job"). Requested
// processors falls back to allocated processors, and requested time
// falls back to actual run time, when the trace recorded no estimate
// (the SWF convention for "field not available" is a negative value).
func ToJobs(records []Record) []*job.Job {
	jobs := make([]*job.Job, 0, len(records))
	for _, r := range records {
		procs := r.RequestedProcessors
		if procs <= 0 {
			procs = r.AllocatedProcessors
		}
		requestedTime := r.RequestedTime
		if requestedTime <= 0 {
			requestedTime = r.RunTime
		}
		actual := r.RunTime
		if actual < 0 {
			actual = 0
		}
		jobs = append(jobs, &job.Job{
			ID:                    job.ID(r.JobNumber),
			SubmitTime:            r.SubmitTime,
			NumRequiredProcessors: int(procs),
			UserEstimatedRunTime:  requestedTime,
			ActualRunTime:         actual,
			User:                  strconv.FormatInt(r.UserID, 10),
			Group:                 strconv.FormatInt(r.GroupID, 10),
			Executable:            strconv.FormatInt(r.ExecutableNumber, 10),
		})
	}
	return jobs
}

// FromJobs renders the simulated jobs back into SWF rows, carrying the
// original row's cosmetic columns forward unchanged except for the two
// the simulator repurposes: column 17 (preceding job number) becomes
// the under-prediction count, and column 18 (think time) becomes the
// initial prediction (spec.md §6, "SWF output"). original supplies the
// lookup from job id to its source row for the columns the simulator
// never mutates.
func FromJobs(jobs []*job.Job, original map[job.ID]Record) []Record {
	out := make([]Record, 0, len(jobs))
	for _, j := range jobs {
		src := original[j.ID]
		out = append(out, Record{
			JobNumber:           int64(j.ID),
			SubmitTime:          j.SubmitTime,
			WaitTime:            j.StartTime - j.SubmitTime,
			RunTime:             j.ActualRunTime,
			AllocatedProcessors: int64(j.NumRequiredProcessors),
			AvgCPUTimeUsed:      src.AvgCPUTimeUsed,
			UsedMemory:          src.UsedMemory,
			RequestedProcessors: int64(j.NumRequiredProcessors),
			RequestedTime:       j.UserEstimatedRunTime,
			RequestedMemory:     src.RequestedMemory,
			Status:              src.Status,
			UserID:              src.UserID,
			GroupID:             src.GroupID,
			ExecutableNumber:    src.ExecutableNumber,
			QueueNumber:         src.QueueNumber,
			PartitionNumber:     src.PartitionNumber,
			PrecedingJobNumber:  int64(j.NumUnderPredict),
			ThinkTime:           j.InitialPrediction,
		})
	}
	return out
}
