package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ledokol-inc/socialload/population"
)

// FileStore keeps sessions as "id,token" csv files and the run history as a
// csv file under one directory.
type FileStore struct {
	resPath            string
	RunHistoryFileName string
}

func NewFileStore(resPath string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(resPath, "sessions"), 0770); err != nil {
		return nil, &InternalError{fmt.Errorf("can't create store directory: %w", err)}
	}
	return &FileStore{resPath: resPath, RunHistoryFileName: filepath.Join(resPath, "run_history.csv")}, nil
}

func (store *FileStore) sessionsFile(name string) string {
	return filepath.Join(store.resPath, "sessions", name+".csv")
}

func (store *FileStore) SaveSessions(name string, sessions []population.Session) error {
	file, err := os.Create(store.sessionsFile(name))
	if err != nil {
		return &InternalError{fmt.Errorf("can't create sessions file: %w", err)}
	}
	writer := csv.NewWriter(file)
	for _, session := range sessions {
		if err = writer.Write([]string{session.UserID, session.Token}); err != nil {
			file.Close()
			return &InternalError{errors.New("can't write sessions file")}
		}
	}
	writer.Flush()
	if err = writer.Error(); err != nil {
		file.Close()
		return &InternalError{err}
	}
	if err = file.Close(); err != nil {
		return &InternalError{errors.New("can't close sessions file")}
	}
	return nil
}

func (store *FileStore) LoadSessions(name string) ([]population.Session, error) {
	file, err := os.Open(store.sessionsFile(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, &NotFoundError{fmt.Errorf("population %q not found", name)}
	}
	if err != nil {
		return nil, &InternalError{err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &InternalError{fmt.Errorf("wrong sessions file format: %w", err)}
	}
	sessions := make([]population.Session, 0, len(records))
	for _, record := range records {
		sessions = append(sessions, population.Session{UserID: record[0], Token: record[1]})
	}
	return sessions, nil
}

func (store *FileStore) InsertRun(run Run) (int64, error) {
	runs, err := store.readRuns()
	if err != nil {
		return -1, err
	}
	run.ID = 1
	for _, existing := range runs {
		if existing.ID >= run.ID {
			run.ID = existing.ID + 1
		}
	}

	historyFile, err := os.OpenFile(store.RunHistoryFileName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0660)
	if err != nil {
		return -1, &InternalError{errors.New("can't open run history file")}
	}
	writer := csv.NewWriter(historyFile)
	err = writer.Write([]string{
		strconv.FormatInt(run.ID, 10), run.Command,
		strconv.FormatInt(run.StartTime, 10), strconv.FormatInt(run.EndTime, 10),
		strconv.Itoa(run.Users), strconv.Itoa(run.Calls), strconv.Itoa(run.Failed),
	})
	if err != nil {
		historyFile.Close()
		return -1, &InternalError{errors.New("can't write run history file")}
	}
	writer.Flush()
	if err = historyFile.Close(); err != nil {
		return -1, &InternalError{errors.New("can't close run history file")}
	}
	return run.ID, nil
}

func (store *FileStore) FindAllRuns() ([]RunQuery, error) {
	runs, err := store.readRuns()
	if err != nil {
		return nil, err
	}
	result := make([]RunQuery, 0, len(runs))
	for _, run := range runs {
		result = append(result, run.query())
	}
	return result, nil
}

func (store *FileStore) Close() error {
	return nil
}

func (store *FileStore) readRuns() ([]Run, error) {
	historyFile, err := os.Open(store.RunHistoryFileName)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &InternalError{errors.New("can't open run history file")}
	}
	defer historyFile.Close()

	reader := csv.NewReader(historyFile)
	reader.FieldsPerRecord = 7
	var runs []Run
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return runs, nil
		}
		if err != nil {
			return nil, &InternalError{errors.New("wrong run history format")}
		}
		run, err := parseRun(record)
		if err != nil {
			return nil, &InternalError{errors.New("wrong run history format")}
		}
		runs = append(runs, run)
	}
}

func parseRun(record []string) (Run, error) {
	numbers := make([]int64, 0, 6)
	for _, i := range []int{0, 2, 3, 4, 5, 6} {
		n, err := strconv.ParseInt(record[i], 10, 64)
		if err != nil {
			return Run{}, err
		}
		numbers = append(numbers, n)
	}
	return Run{
		ID:        numbers[0],
		Command:   record[1],
		StartTime: numbers[1],
		EndTime:   numbers[2],
		Users:     int(numbers[3]),
		Calls:     int(numbers[4]),
		Failed:    int(numbers[5]),
	}, nil
}
