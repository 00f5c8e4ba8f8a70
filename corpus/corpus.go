package corpus

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ledokol-inc/socialload/generator"
)

const (
	DefaultDelimiter = '\t'
	peopleFields     = 5
)

var ErrEmptyCorpus = errors.New("corpus contains no records")

// GeneratePeople draws count records from gen in order.
func GeneratePeople(gen *generator.Generator, count int) []generator.PersonRecord {
	records := make([]generator.PersonRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, gen.NextPerson())
	}
	return records
}

func WritePeople(path string, records []generator.PersonRecord, delimiter rune) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("can't create corpus file %s: %w", path, err)
	}
	if err = WritePeopleTo(file, records, delimiter); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WritePeopleTo writes one record per line with a trailing empty biography
// field. Fields are not escaped.
func WritePeopleTo(w io.Writer, records []generator.PersonRecord, delimiter rune) error {
	writer := bufio.NewWriter(w)
	sep := string(delimiter)
	for _, record := range records {
		line := strings.Join([]string{
			record.FirstName,
			record.LastName,
			record.Birthdate.Format(generator.DateFormat),
			record.City,
			"",
		}, sep)
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("can't write corpus record: %w", err)
		}
	}
	return writer.Flush()
}

func ReadPeople(path string, delimiter rune) ([]generator.PersonRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open corpus file %s: %w", path, err)
	}
	defer file.Close()
	return ReadPeopleFrom(file, delimiter)
}

func ReadPeopleFrom(r io.Reader, delimiter rune) ([]generator.PersonRecord, error) {
	reader := newReader(r, delimiter)
	reader.FieldsPerRecord = peopleFields

	var records []generator.PersonRecord
	for line := 1; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("corpus line %d: %w", line, err)
		}
		birthdate, err := time.Parse(generator.DateFormat, fields[2])
		if err != nil {
			return nil, fmt.Errorf("corpus line %d: bad birthdate %q: %w", line, fields[2], err)
		}
		records = append(records, generator.PersonRecord{
			FirstName: fields[0],
			LastName:  fields[1],
			Birthdate: birthdate,
			City:      fields[3],
			Biography: fields[4],
		})
	}
	if len(records) == 0 {
		return nil, ErrEmptyCorpus
	}
	return records, nil
}

func WritePosts(path string, posts []generator.PostRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("can't create posts file %s: %w", path, err)
	}
	if err = WritePostsTo(file, posts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func WritePostsTo(w io.Writer, posts []generator.PostRecord) error {
	writer := bufio.NewWriter(w)
	for _, post := range posts {
		line := strings.Join([]string{
			post.AuthorID,
			post.Text,
			post.CreatedAt.Format(generator.DateTimeFormat),
			post.UpdatedAt.Format(generator.DateTimeFormat),
		}, string(DefaultDelimiter))
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("can't write post record: %w", err)
		}
	}
	return writer.Flush()
}

func newReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.ReuseRecord = true
	return reader
}
