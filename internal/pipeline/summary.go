package pipeline

import "fmt"

// Summary aggregates the results of one run.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	DestDir   string

	// Results holds one entry per candidate, in Discovery order.
	Results []Result
}

// Summarize derives the counts from results.
func Summarize(results []Result, destDir string) Summary {
	s := Summary{
		Attempted: len(results),
		DestDir:   destDir,
		Results:   results,
	}
	for _, r := range results {
		if r.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// Failures returns the failed results in order.
func (s Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// String is the one-line status shown when a run ends.
func (s Summary) String() string {
	return fmt.Sprintf("Done. %d succeeded, %d failed. Output: %s", s.Succeeded, s.Failed, s.DestDir)
}
