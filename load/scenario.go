package load

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

const (
	StartAction    = "start"
	DurationAction = "duration"
	StopAction     = "stop"
)

type Step struct {
	Action             string
	TotalUsersCount    int
	CountUsersByPeriod int
	// Period in seconds
	Period float64
}

// Scenario runs one task under a user profile described by its steps. Pacing
// is the target duration of one iteration in seconds, PacingDelta its
// relative random spread.
type Scenario struct {
	Name        string
	Task        string
	Pacing      float64
	PacingDelta float64
	Steps       []*Step

	task            Task
	stopUserChannel chan bool
	users           sync.WaitGroup
	seed            int64
	// active counts started users not yet asked to stop.
	active atomic.Int64
}

func (scenario *Scenario) PrepareScenario(totalDuration float64, registry Registry) error {
	task, exists := registry[scenario.Task]
	if !exists {
		return fmt.Errorf("scenario %q: unknown task %q", scenario.Name, scenario.Task)
	}
	scenario.task = task

	for _, step := range scenario.Steps {
		switch step.Action {
		case StartAction, StopAction:
			if step.CountUsersByPeriod <= 0 {
				return fmt.Errorf("scenario %q: countUsersByPeriod must be positive", scenario.Name)
			}
		case DurationAction:
		default:
			return fmt.Errorf("scenario %q: unknown step action %q", scenario.Name, step.Action)
		}
	}

	if totalDuration > 0 {
		sumTimeBefore := 0.0
		for i := 0; i < len(scenario.Steps); i++ {
			if sumTimeBefore+scenario.Steps[i].Period > totalDuration {
				scenario.Steps[i].Period = totalDuration - sumTimeBefore
				scenario.Steps = scenario.Steps[:i+1]
				break
			}
			sumTimeBefore += scenario.Steps[i].Period
		}
	}

	scenario.stopUserChannel = make(chan bool)
	scenario.seed = time.Now().UnixNano()
	return nil
}

// Run executes the steps and returns the start time. Users still running
// after the last step keep going until ctx is done.
func (scenario *Scenario) Run(ctx context.Context, testName string) int64 {
	startTime := time.Now().Unix()

	for _, step := range scenario.Steps {
		if ctx.Err() != nil {
			break
		}
		switch step.Action {
		case StartAction:
			scenario.StartUsersContinually(ctx, step.TotalUsersCount, step.CountUsersByPeriod, step.periodMillis(), testName)
		case DurationAction:
			sleep(ctx, time.Duration(step.periodMillis())*time.Millisecond)
		case StopAction:
			scenario.StopUsersContinually(ctx, step.TotalUsersCount, step.CountUsersByPeriod, step.periodMillis())
		}
	}

	return startTime
}

// Wait blocks until every started user has stopped.
func (scenario *Scenario) Wait() {
	scenario.users.Wait()
}

func (scenario *Scenario) StartUsers(ctx context.Context, count int, testName string) {
	for i := 0; i < count; i++ {
		scenario.users.Add(1)
		scenario.active.Add(1)
		scenario.seed++
		user := NewUser(scenario.seed)
		go func() {
			defer scenario.users.Done()
			scenario.StartUser(ctx, user, testName)
		}()
	}
}

func (scenario *Scenario) StartUser(ctx context.Context, user *User, testName string) {
	usersCountMetric.WithLabelValues(testName, scenario.Name).Inc()
	defer usersCountMetric.WithLabelValues(testName, scenario.Name).Dec()

	for {
		timeBeforeTest := time.Now()
		ok := scenario.task.Execute(ctx, user)
		observeTask(testName, scenario.Name, scenario.task.Name(), ok, ctx.Err() != nil, time.Since(timeBeforeTest))
		timeToSleep := scenario.nextPacing(user.Rand) - time.Since(timeBeforeTest)
		if timeToSleep < time.Millisecond {
			timeToSleep = time.Millisecond
		}
		select {
		case <-scenario.stopUserChannel:
			return
		case <-ctx.Done():
			return
		case <-time.After(timeToSleep):
			continue
		}
	}
}

func (scenario *Scenario) nextPacing(rnd *rand.Rand) time.Duration {
	currentPacing := ((rnd.Float64()*2-1)*scenario.PacingDelta + 1) * scenario.Pacing
	return time.Duration(currentPacing * float64(time.Second))
}

func (scenario *Scenario) StartUsersContinually(ctx context.Context, totalCount int, countByPeriod int, periodInMillis int, testName string) {
	for i := 0; i < totalCount; i += countByPeriod {
		if ctx.Err() != nil {
			return
		}
		scenario.StartUsers(ctx, min(countByPeriod, totalCount-i), testName)
		sleep(ctx, time.Duration(periodInMillis)*time.Millisecond)
	}
}

// StopUsersContinually stops up to totalCount users in batches. A step asking
// for more users than are running stops the running ones only.
func (scenario *Scenario) StopUsersContinually(ctx context.Context, totalCount int, countByPeriod int, periodInMillis int) {
	stopUsersDone := &sync.WaitGroup{}
	for i := 0; i < totalCount; i += countByPeriod {
		count := min(countByPeriod, totalCount-i)
		stopUsersDone.Add(1)
		go func() {
			defer stopUsersDone.Done()
			for j := 0; j < count && scenario.reserveStop(); j++ {
				select {
				case scenario.stopUserChannel <- true:
				case <-ctx.Done():
					return
				}
			}
		}()

		sleep(ctx, time.Duration(periodInMillis)*time.Millisecond)
	}
	stopUsersDone.Wait()
}

// reserveStop claims one running user for stopping.
func (scenario *Scenario) reserveStop() bool {
	for {
		active := scenario.active.Load()
		if active <= 0 {
			return false
		}
		if scenario.active.CompareAndSwap(active, active-1) {
			return true
		}
	}
}

func (scenario *Scenario) GetName() string {
	return scenario.Name
}

func (step *Step) periodMillis() int {
	return int(step.Period * 1000)
}

func sleep(ctx context.Context, duration time.Duration) {
	if duration <= 0 {
		return
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
