package store

import (
	"fmt"
	"time"

	"github.com/ledokol-inc/socialload/population"
)

const TimeFormat = "2006-01-02 15:04:05"

// Store keeps bootstrapped populations between runs, so load tests can reuse
// the sessions instead of registering users again, and a history of runs.
type Store interface {
	SaveSessions(name string, sessions []population.Session) error
	LoadSessions(name string) ([]population.Session, error)
	InsertRun(run Run) (int64, error)
	FindAllRuns() ([]RunQuery, error)
	Close() error
}

// Run summarizes one invocation of a synthesis or load command.
type Run struct {
	ID        int64 `storm:"id,increment"`
	Command   string
	StartTime int64
	EndTime   int64
	Users     int
	Calls     int
	Failed    int
}

type RunQuery struct {
	Id        string
	Command   string
	StartTime string
	EndTime   string
	Users     int
	Calls     int
	Failed    int
}

func (run Run) query() RunQuery {
	return RunQuery{
		Id:        fmt.Sprint(run.ID),
		Command:   run.Command,
		StartTime: time.Unix(run.StartTime, 0).Format(TimeFormat),
		EndTime:   time.Unix(run.EndTime, 0).Format(TimeFormat),
		Users:     run.Users,
		Calls:     run.Calls,
		Failed:    run.Failed,
	}
}

type InternalError struct {
	err error
}

func (internalErr *InternalError) Error() string {
	return internalErr.err.Error()
}

func (internalErr *InternalError) Unwrap() error {
	return internalErr.err
}

type NotFoundError struct {
	err error
}

func (notFoundErr *NotFoundError) Error() string {
	return notFoundErr.err.Error()
}

func (notFoundErr *NotFoundError) Unwrap() error {
	return notFoundErr.err
}

// New opens the store of the given kind: "bolt" (a single database file) or
// "file" (a directory of csv files).
func New(kind string, path string) (Store, error) {
	switch kind {
	case "bolt", "":
		return NewBoltStore(path)
	case "file":
		return NewFileStore(path)
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}
