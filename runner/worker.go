package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/go-runt/runt/common/log"
)

// TestResult is the finalized result of one test case.
type TestResult struct {
	TestName    string
	Successful  bool
	ElapsedTime time.Duration
	Output      []string
}

// worker runs the job's test functions via one `go test` command and parses
// its event stream into per-case results.
type worker struct {
	dirPath       string
	testFuncs     []string
	goTestOptions []string
	resultCh      chan TestResult
	waitCh        chan error
	cmd           *exec.Cmd
}

func newWorker(job *Job) *worker {
	var testFuncs []string
	for _, t := range job.Tasks {
		testFuncs = append(testFuncs, t.Name)
	}

	return &worker{
		dirPath:       job.DirPath,
		testFuncs:     testFuncs,
		goTestOptions: job.GoTestOptions,
		resultCh:      make(chan TestResult),
		waitCh:        make(chan error, 1),
	}
}

// Start starts the new test. The results channel is closed once the command exits.
// No test functions is a vacuous pass.
func (w *worker) Start(ctx context.Context) error {
	if len(w.testFuncs) == 0 {
		close(w.resultCh)
		w.waitCh <- nil
		return nil
	}

	pattern := "^" + strings.Join(w.testFuncs, "$|^") + "$"
	args := append([]string{"test", "-json", "-run", pattern}, w.goTestOptions...)
	args = append(args, ".")
	w.cmd = exec.CommandContext(ctx, "go", args...)
	w.cmd.Dir = w.dirPath

	writer := newTestOutputWriter(w.resultCh)
	w.cmd.Stdout = writer
	w.cmd.Stderr = writer
	if err := w.cmd.Start(); err != nil {
		close(w.resultCh)
		w.waitCh <- err
		return fmt.Errorf("failed to start the test: %w", err)
	}

	go func() {
		err := w.cmd.Wait()
		close(w.resultCh)
		w.waitCh <- err
	}()
	return nil
}

// Results returns the channel on which the per-case results arrive.
func (w *worker) Results() <-chan TestResult {
	return w.resultCh
}

// Wait waits until the test finishes. The command exits non-zero when any test fails,
// so a failed case surfaces here as well as in its result.
func (w *worker) Wait() (bool, error) {
	err := <-w.waitCh
	return err == nil, err
}

type event struct {
	Action  string
	Test    string
	Elapsed float64
	Output  string
}

type testOutputWriter struct {
	buff         []byte
	runningTests map[string][]string
	resultCh     chan TestResult
}

func newTestOutputWriter(resultCh chan TestResult) *testOutputWriter {
	return &testOutputWriter{
		runningTests: make(map[string][]string),
		resultCh:     resultCh,
	}
}

// Write writes the data to the buffer, parses its contents line by line and sends the test result
// if the result is finalized. A line which is not the json format is skipped.
func (w *testOutputWriter) Write(p []byte) (n int, err error) {
	w.buff = append(w.buff, p...)
	n = len(p)

	for {
		advance, line, err := bufio.ScanLines(w.buff, false)
		if err != nil {
			return n, err
		} else if advance == 0 {
			break
		}
		w.buff = w.buff[advance:]

		ev := &event{}
		if err := json.Unmarshal(line, ev); err != nil {
			log.Debugf("test output is not json (%s): %v\n", line, err)
			continue
		}

		w.handleEvent(ev)
	}
	return n, nil
}

func (w *testOutputWriter) handleEvent(ev *event) {
	if ev.Test == "" {
		return
	}

	chunks := strings.SplitN(ev.Test, "/", 2)
	if len(chunks) == 2 {
		// merge the output to the parent test
		if ev.Action == "output" {
			parentTest := chunks[0]
			w.runningTests[parentTest] = append(w.runningTests[parentTest], ev.Output)
		}
		return
	}

	switch ev.Action {
	case "run":
		w.runningTests[ev.Test] = []string{}
	case "pause", "cont":
		// do nothing
	case "output":
		w.runningTests[ev.Test] = append(w.runningTests[ev.Test], ev.Output)
	case "pass", "fail", "skip", "bench":
		res := TestResult{TestName: ev.Test, Successful: ev.Action != "fail", ElapsedTime: time.Duration(ev.Elapsed * 1000 * 1000 * 1000), Output: w.runningTests[ev.Test]}
		w.resultCh <- res
		delete(w.runningTests, ev.Test)
	}
}
