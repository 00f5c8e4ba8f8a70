package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ledokol-inc/socialload/generator"
)

// PrefixFile appends accepted prefix pairs one line at a time, flushing after
// every record so an interrupted discovery keeps what it found.
type PrefixFile struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

func OpenPrefixFile(path string) (*PrefixFile, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0660)
	if err != nil {
		return nil, fmt.Errorf("can't open prefix file %s: %w", path, err)
	}
	return &PrefixFile{file: file, writer: csv.NewWriter(file)}, nil
}

func (prefixFile *PrefixFile) Append(record generator.PrefixRecord) error {
	prefixFile.mu.Lock()
	defer prefixFile.mu.Unlock()
	if err := prefixFile.writer.Write([]string{record.FirstName, record.SecondName}); err != nil {
		return fmt.Errorf("can't write prefix: %w", err)
	}
	prefixFile.writer.Flush()
	return prefixFile.writer.Error()
}

func (prefixFile *PrefixFile) Close() error {
	return prefixFile.file.Close()
}

func ReadPrefixes(path string) ([]generator.PrefixRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open prefix file %s: %w", path, err)
	}
	defer file.Close()
	return ReadPrefixesFrom(file)
}

func ReadPrefixesFrom(r io.Reader) ([]generator.PrefixRecord, error) {
	reader := newReader(r, ',')
	reader.FieldsPerRecord = 2

	var records []generator.PrefixRecord
	for line := 1; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("prefix line %d: %w", line, err)
		}
		records = append(records, generator.PrefixRecord{FirstName: fields[0], SecondName: fields[1]})
	}
}
