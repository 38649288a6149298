package runner

import (
	"context"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-runt/runt/common/log"
	"go.uber.org/multierr"
)

// Job represents the job to run the tests of one package.
type Job struct {
	ID                               int64
	DirPath                          string
	Status                           JobStatus
	GoTestOptions                    []string
	CreatedAt, StartedAt, FinishedAt time.Time
	Tasks                            []*Task
	Results                          []TestResult
	reporter                         *Reporter
}

// JobStatus represents the status of the job.
type JobStatus int

const (
	JobStatusCreated JobStatus = iota
	JobStatusSuccessful
	JobStatusFailed
)

// Task represents one test function.
type Task struct {
	Name string
	File string
	Line int
}

// Filter narrows the discovered test functions the job runs.
type Filter struct {
	// Run keeps only the test functions whose name matches. nil keeps everything.
	Run *regexp.Regexp
	// File and Offset keep only the test function enclosing the offset.
	File   string
	Offset int
}

// NewJob returns the new job. The test functions are discovered and the position
// query is resolved concurrently since both parse the package's files.
func NewJob(dirPath string, filter Filter, goTestOpts []string, reporter *Reporter) (*Job, error) {
	job := &Job{
		ID:            generateID(),
		DirPath:       dirPath,
		Status:        JobStatusCreated,
		GoTestOptions: goTestOpts,
		CreatedAt:     time.Now(),
		reporter:      reporter,
	}

	errCh := make(chan error)
	funcsCh := make(chan []TestFunction, 1)
	enclosingCh := make(chan string, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		testFuncs, err := TestFunctions(dirPath)
		errCh <- err
		funcsCh <- testFuncs
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		var name string
		var err error
		if filter.File != "" {
			start := time.Now()
			name, err = enclosingTestFunction(filter.File, filter.Offset)
			log.Debugf("query resolution time: %v\n", time.Since(start))
		}
		errCh <- err
		enclosingCh <- name
	}()

	go func() {
		wg.Wait()
		close(errCh)
	}()

	var err error
	for e := range errCh {
		err = multierr.Combine(err, e)
	}
	// assumes the go routines send the data anyway
	enclosing := <-enclosingCh
	for _, f := range <-funcsCh {
		if filter.Run != nil && !filter.Run.MatchString(f.Name) {
			continue
		}
		// an offset outside any test function keeps the whole package
		if enclosing != "" && f.Name != enclosing {
			continue
		}
		job.Tasks = append(job.Tasks, &Task{Name: f.Name, File: f.File, Line: f.Line})
	}

	return job, err
}

var jobIDCounter int64

// generateID generates the unique id. This id is unique only among this process.
func generateID() int64 {
	return atomic.AddInt64(&jobIDCounter, 1)
}

// Run runs all the tasks through one worker and reports each result as it finalizes.
// A failed test case never aborts the remaining cases.
func (j *Job) Run(ctx context.Context) {
	if log.DebugLogEnabled() {
		var names []string
		for _, t := range j.Tasks {
			names = append(names, t.Name)
		}
		log.Debugf("job %d: %v\n", j.ID, names)
	}

	j.StartedAt = time.Now()

	successful := true
	w := newWorker(j)
	if err := w.Start(ctx); err != nil {
		log.Printf("failed to start the test: %v", err)
		successful = false
	} else {
		for result := range w.Results() {
			j.Results = append(j.Results, result)
			if !result.Successful {
				successful = false
			}
			if j.reporter != nil {
				j.reporter.Report(result)
			}
		}

		if passed, err := w.Wait(); !passed {
			successful = false
			log.Debugf("the test command failed: %v\n", err)
		}
	}

	if successful {
		j.Status = JobStatusSuccessful
	} else {
		j.Status = JobStatusFailed
	}
	j.FinishedAt = time.Now()

	if j.reporter != nil {
		j.reporter.Summarize(j)
	}
}
