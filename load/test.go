package load

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type TestOptions struct {
	// Duration caps the profile of every scenario; zero keeps the steps as is.
	Duration time.Duration
}

// Test is a set of scenarios run in parallel.
type Test struct {
	Id        string
	Name      string
	Scenarios []*Scenario

	options   *TestOptions
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	startTime time.Time
	endTime   time.Time
}

func (test *Test) SetOptions(options *TestOptions) {
	test.options = options
}

func (test *Test) PrepareTest(registry Registry) error {
	if len(test.Scenarios) == 0 {
		return errors.New("test has no scenarios")
	}
	if test.Id == "" {
		test.Id = uuid.NewString()
	}
	if test.Name == "" {
		test.Name = test.Id
	}
	if test.options == nil {
		test.options = &TestOptions{}
	}
	for _, scenario := range test.Scenarios {
		if err := scenario.PrepareScenario(test.options.Duration.Seconds(), registry); err != nil {
			return err
		}
	}
	test.ctx, test.cancel = context.WithCancel(context.Background())
	return nil
}

// Run blocks until every scenario finished its steps and all virtual users
// stopped, or until Stop is called.
func (test *Test) Run() {
	test.mu.Lock()
	test.startTime = time.Now()
	test.mu.Unlock()
	log.Info().Str("test", test.Name).Str("id", test.Id).Msg("Test started")

	var scenarios sync.WaitGroup
	for _, scenario := range test.Scenarios {
		scenarios.Add(1)
		go func(scenario *Scenario) {
			defer scenarios.Done()
			scenario.Run(test.ctx, test.Name)
		}(scenario)
	}
	scenarios.Wait()

	// users left running after the last step are stopped with the test
	test.cancel()
	for _, scenario := range test.Scenarios {
		scenario.Wait()
	}

	test.mu.Lock()
	test.endTime = time.Now()
	test.mu.Unlock()
	log.Info().Str("test", test.Name).Str("id", test.Id).Msg("Test finished")
}

func (test *Test) Stop() {
	if test.cancel != nil {
		test.cancel()
	}
}

func (test *Test) Times() (time.Time, time.Time) {
	test.mu.Lock()
	defer test.mu.Unlock()
	return test.startTime, test.endTime
}
