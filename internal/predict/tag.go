package predict

import (
	"fmt"

	"github.com/algo74/predictsim/internal/job"
)

// tagFields is the composite key over executable, user, requested-time,
// and requested-processors a tag is built from (spec.md §3, GLOSSARY
// "Tag"). Blanking a field widens the tag to a coarser granularity.
type tagFields struct {
	executable string
	user       string
	reqTime    int64
	reqProcs   int
}

func fieldsOf(j *job.Job) tagFields {
	return tagFields{
		executable: j.Executable,
		user:       j.User,
		reqTime:    j.UserEstimatedRunTime,
		reqProcs:   j.NumRequiredProcessors,
	}
}

// exactTag returns the most specific (fully qualified) tag for a job.
func exactTag(j *job.Job) string {
	f := fieldsOf(j)
	return fmt.Sprintf("%s|%s|%d|%d", f.executable, f.user, f.reqTime, f.reqProcs)
}

// completeTags returns the 15 tag variants formed by blanking every
// proper subset (the empty one included) of {executable, user, reqTime,
// reqProcs}, so the first variant is the unblanked tag, ordered
// from most to least specific, as used by the complete-tag predictor
// (spec.md §4.9). This mirrors
// _examples/original_source/pyss/predictors/job_req_pred_2020/predictor_complete.py's
// get_tags, which enumerates all 16 subsets and drops the fully-blank
// (least specific) one.
func completeTags(j *job.Job) []string {
	f := fieldsOf(j)
	exe, usr, rt, rp := f.executable, f.user, fmt.Sprintf("%d", f.reqTime), fmt.Sprintf("%d", f.reqProcs)
	blank := ""
	tags := make([]string, 0, 15)
	combos := [][4]string{
		{exe, usr, rt, rp},
		{exe, usr, rt, blank},
		{exe, usr, blank, rp},
		{exe, usr, blank, blank},
		{exe, blank, rt, rp},
		{exe, blank, rt, blank},
		{exe, blank, blank, rp},
		{exe, blank, blank, blank},
		{blank, usr, rt, rp},
		{blank, usr, rt, blank},
		{blank, usr, blank, rp},
		{blank, usr, blank, blank},
		{blank, blank, rt, rp},
		{blank, blank, rt, blank},
		{blank, blank, blank, rp},
	}
	for _, c := range combos {
		tags = append(tags, fmt.Sprintf("%s|%s|%s|%s", c[0], c[1], c[2], c[3]))
	}
	return tags
}

// quantileTag returns the tag used by the top-percent and conditional
// top-percent quantile predictors: executable, user, requested time, and
// requested processors, never blanked (spec.md §4.9).
func quantileTag(j *job.Job) string {
	return exactTag(j)
}
