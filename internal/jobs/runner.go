package jobs

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	Name() string
	Run()
}

type CronJob interface {
	Schedule() string
	Job
}

// TaskExecutor runs cron jobs on their schedules. A job whose previous run
// has not finished yet is skipped for that tick.
type TaskExecutor struct {
	cron     *cron.Cron
	cronJobs []CronJob
	running  mapset.Set[string]
	mu       sync.Mutex
}

func NewTaskExecutor(cronJobs ...CronJob) *TaskExecutor {
	return &TaskExecutor{
		cron:     cron.New(),
		cronJobs: cronJobs,
		running:  mapset.NewThreadUnsafeSet[string](),
	}
}

// Start registers every job with the cron and starts it in its own goroutine.
func (t *TaskExecutor) Start() error {
	for _, job := range t.cronJobs {
		job := job
		if err := t.cron.AddFunc(job.Schedule(), func() { t.RunOnce(job) }); err != nil {
			logrus.Errorf("failed to add %s to cron: %v", job.Name(), err)
			return err
		}
		logrus.Infof("scheduled %s at %q", job.Name(), job.Schedule())
	}

	t.cron.Start()
	return nil
}

// RunOnce runs job now unless it is already running. It reports whether the
// job ran.
func (t *TaskExecutor) RunOnce(job Job) bool {
	if !t.tryStart(job.Name()) {
		logrus.Warnf("%s is already running", job.Name())
		return false
	}
	defer t.finish(job.Name())

	job.Run()
	return true
}

func (t *TaskExecutor) tryStart(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running.Add(name)
}

func (t *TaskExecutor) finish(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running.Remove(name)
}

func (t *TaskExecutor) Stop() {
	logrus.Infof("stopping all tasks")
	t.cron.Stop()
}
