package store

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/asdine/storm/v3"

	"github.com/ledokol-inc/socialload/population"
)

const (
	populationsBucket = "Populations"
	historyBucket     = "History"
)

type BoltStore struct {
	db *storm.DB
}

type populationRaw struct {
	Name     string `storm:"id"`
	SavedAt  int64
	Sessions []population.Session
}

func NewBoltStore(dbName string) (*BoltStore, error) {
	db, err := storm.Open(dbName)
	if err != nil {
		return nil, &InternalError{fmt.Errorf("can't open database %s: %w", dbName, err)}
	}
	return &BoltStore{db: db}, nil
}

func (store *BoltStore) SaveSessions(name string, sessions []population.Session) error {
	raw := &populationRaw{Name: name, SavedAt: time.Now().Unix(), Sessions: sessions}
	if err := store.db.From(populationsBucket).Save(raw); err != nil {
		return &InternalError{err}
	}
	return nil
}

func (store *BoltStore) LoadSessions(name string) ([]population.Session, error) {
	var raw populationRaw
	err := store.db.From(populationsBucket).One("Name", name, &raw)
	if errors.Is(err, storm.ErrNotFound) {
		return nil, &NotFoundError{fmt.Errorf("population %q not found", name)}
	}
	if err != nil {
		return nil, &InternalError{err}
	}
	return raw.Sessions, nil
}

func (store *BoltStore) InsertRun(run Run) (int64, error) {
	run.ID = 0
	if err := store.db.From(historyBucket).Save(&run); err != nil {
		return -1, &InternalError{err}
	}
	return run.ID, nil
}

func (store *BoltStore) FindAllRuns() ([]RunQuery, error) {
	var runs []Run
	err := store.db.From(historyBucket).All(&runs)
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, &InternalError{err}
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID < runs[j].ID })

	result := make([]RunQuery, 0, len(runs))
	for _, run := range runs {
		result = append(result, run.query())
	}
	return result, nil
}

func (store *BoltStore) Close() error {
	if err := store.db.Close(); err != nil {
		return &InternalError{errors.New("can't close database")}
	}
	return nil
}
