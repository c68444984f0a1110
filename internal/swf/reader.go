package swf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const numColumns = 18

// maxProcsHeader is the one header line the kernel requires (spec.md
// §6); every other `;`-prefixed line is a comment it skips.
const maxProcsHeader = "; MaxProcs:"

// Read parses an SWF trace from r: `;`-prefixed header/comment lines
// (at minimum `; MaxProcs:`) followed by whitespace-separated 18-column
// job rows; blank lines are ignored (spec.md §6). overrideProcessors, if
// > 0, takes precedence over the MaxProcs header, mirroring
// options["num_processors"] overriding the trace in the original
// (_examples/original_source/pyss/run_simulator.py).
func Read(r io.Reader, overrideProcessors int) (Header, []Record, error) {
	hdr := Header{}
	var records []Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ";") {
			if strings.HasPrefix(trimmed, maxProcsHeader) {
				v, err := strconv.Atoi(strings.TrimSpace(trimmed[len(maxProcsHeader):]))
				if err != nil {
					return Header{}, nil, fmt.Errorf("swf: line %d: invalid MaxProcs header: %w", lineNo, err)
				}
				hdr.MaxProcs = v
			}
			continue
		}

		rec, err := parseRow(trimmed)
		if err != nil {
			return Header{}, nil, fmt.Errorf("swf: line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return Header{}, nil, fmt.Errorf("swf: %w", err)
	}

	if overrideProcessors > 0 {
		hdr.MaxProcs = overrideProcessors
	}
	if hdr.MaxProcs <= 0 {
		return Header{}, nil, fmt.Errorf("swf: missing MaxProcs header and no num_processors override configured")
	}
	return hdr, records, nil
}

func parseRow(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < numColumns {
		return Record{}, fmt.Errorf("expected %d columns, got %d", numColumns, len(fields))
	}
	vals := make([]int64, numColumns)
	for i := 0; i < numColumns; i++ {
		v, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return Record{}, fmt.Errorf("column %d (%q): %w", i+1, fields[i], err)
		}
		vals[i] = v
	}
	return Record{
		JobNumber:           vals[0],
		SubmitTime:          vals[1],
		WaitTime:            vals[2],
		RunTime:             vals[3],
		AllocatedProcessors: vals[4],
		AvgCPUTimeUsed:      vals[5],
		UsedMemory:          vals[6],
		RequestedProcessors: vals[7],
		RequestedTime:       vals[8],
		RequestedMemory:     vals[9],
		Status:              vals[10],
		UserID:              vals[11],
		GroupID:             vals[12],
		ExecutableNumber:    vals[13],
		QueueNumber:         vals[14],
		PartitionNumber:     vals[15],
		PrecedingJobNumber:  vals[16],
		ThinkTime:           vals[17],
	}, nil
}
