package swf

import (
	"testing"

	"github.com/algo74/predictsim/internal/job"
)

func TestToJobsFallsBackWhenEstimatesAreAbsent(t *testing.T) {
	records := []Record{
		{JobNumber: 1, SubmitTime: 0, RunTime: 100, AllocatedProcessors: 4,
			RequestedProcessors: -1, RequestedTime: -1, UserID: 10, GroupID: 1, ExecutableNumber: 2},
	}
	jobs := ToJobs(records)
	if len(jobs) != 1 {
		t.Fatalf("len(jobs) = %d, want 1", len(jobs))
	}
	j := jobs[0]
	if j.NumRequiredProcessors != 4 {
		t.Fatalf("NumRequiredProcessors = %d, want the allocated-processors fallback 4", j.NumRequiredProcessors)
	}
	if j.UserEstimatedRunTime != 100 {
		t.Fatalf("UserEstimatedRunTime = %d, want the run-time fallback 100", j.UserEstimatedRunTime)
	}
	if j.ActualRunTime != 100 {
		t.Fatalf("ActualRunTime = %d, want 100", j.ActualRunTime)
	}
	if j.User != "10" || j.Group != "1" || j.Executable != "2" {
		t.Fatalf("tag fields = %q/%q/%q, unexpected", j.User, j.Group, j.Executable)
	}
}

func TestToJobsPrefersExplicitEstimatesWhenPresent(t *testing.T) {
	records := []Record{
		{JobNumber: 1, SubmitTime: 0, RunTime: 100, AllocatedProcessors: 4,
			RequestedProcessors: 2, RequestedTime: 250},
	}
	j := ToJobs(records)[0]
	if j.NumRequiredProcessors != 2 {
		t.Fatalf("NumRequiredProcessors = %d, want the explicit request 2", j.NumRequiredProcessors)
	}
	if j.UserEstimatedRunTime != 250 {
		t.Fatalf("UserEstimatedRunTime = %d, want the explicit request 250", j.UserEstimatedRunTime)
	}
}

func TestToJobsFloorsNegativeActualRunTimeToZero(t *testing.T) {
	records := []Record{{JobNumber: 1, RunTime: -1, AllocatedProcessors: 1, RequestedTime: 10}}
	j := ToJobs(records)[0]
	if j.ActualRunTime != 0 {
		t.Fatalf("ActualRunTime = %d, want 0", j.ActualRunTime)
	}
}

func TestFromJobsCarriesCosmeticColumnsAndRepurposesPredictionColumns(t *testing.T) {
	original := map[job.ID]Record{
		1: {JobNumber: 1, AvgCPUTimeUsed: 7, UsedMemory: 8, RequestedMemory: 9,
			Status: 1, UserID: 10, GroupID: 11, ExecutableNumber: 12, QueueNumber: 13, PartitionNumber: 14},
	}
	j := &job.Job{
		ID: 1, SubmitTime: 0, StartTime: 5, ActualRunTime: 100,
		NumRequiredProcessors: 4, UserEstimatedRunTime: 120,
		NumUnderPredict: 2, InitialPrediction: 90,
	}
	out := FromJobs([]*job.Job{j}, original)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	rec := out[0]
	if rec.WaitTime != 5 {
		t.Fatalf("WaitTime = %d, want 5 (StartTime - SubmitTime)", rec.WaitTime)
	}
	if rec.PrecedingJobNumber != 2 {
		t.Fatalf("PrecedingJobNumber = %d, want the under-prediction count 2", rec.PrecedingJobNumber)
	}
	if rec.ThinkTime != 90 {
		t.Fatalf("ThinkTime = %d, want the initial prediction 90", rec.ThinkTime)
	}
	if rec.AvgCPUTimeUsed != 7 || rec.UsedMemory != 8 || rec.RequestedMemory != 9 ||
		rec.QueueNumber != 13 || rec.PartitionNumber != 14 {
		t.Fatalf("cosmetic columns not carried forward: %+v", rec)
	}
}

func TestFromJobsHandlesMissingOriginalRowGracefully(t *testing.T) {
	j := &job.Job{ID: 99, SubmitTime: 0, StartTime: 0}
	out := FromJobs([]*job.Job{j}, map[job.ID]Record{})
	if len(out) != 1 || out[0].JobNumber != 99 {
		t.Fatalf("FromJobs with no matching original row = %+v", out)
	}
}
