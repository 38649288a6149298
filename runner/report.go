package runner

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	passLabel = color.New(color.FgGreen).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Reporter prints the per-case results and the summary of a job.
type Reporter struct {
	W io.Writer
	// Verbose replays the captured output of the passed cases as well.
	Verbose bool
}

// Report prints the result of one test case. The captured output of a failed case
// is replayed so that the failed assertion and its values are visible.
func (r *Reporter) Report(result TestResult) {
	if result.Successful {
		fmt.Fprintf(r.W, "%s %s (%v)\n", passLabel("PASS"), result.TestName, result.ElapsedTime)
		if r.Verbose {
			fmt.Fprint(r.W, strings.Join(result.Output, ""))
		}
		return
	}

	fmt.Fprintf(r.W, "%s %s (%v)\n", failLabel("FAIL"), result.TestName, result.ElapsedTime)
	fmt.Fprint(r.W, strings.Join(result.Output, ""))
}

// Summarize prints the aggregate verdict of the job.
func (r *Reporter) Summarize(job *Job) {
	var passed, failed int
	for _, result := range job.Results {
		if result.Successful {
			passed++
		} else {
			failed++
		}
	}

	verdict := passLabel("PASS")
	if job.Status == JobStatusFailed {
		verdict = failLabel("FAIL")
	}
	elapsed := job.FinishedAt.Sub(job.StartedAt).Round(time.Millisecond)
	fmt.Fprintf(r.W, "%s %d run, %d passed, %d failed (%v)\n", verdict, len(job.Results), passed, failed, elapsed)
}
