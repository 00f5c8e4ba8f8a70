package generator

import "time"

const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)

type Sex int

const (
	Female Sex = iota
	Male
)

func (sex Sex) String() string {
	if sex == Male {
		return "male"
	}
	return "female"
}

// PersonRecord is one line of the people corpus. Sex only drives name
// selection and is not written to the corpus.
type PersonRecord struct {
	FirstName string
	LastName  string
	Birthdate time.Time
	City      string
	Biography string
	Sex       Sex
}

type PostRecord struct {
	AuthorID  string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PrefixRecord is a pair of search prefixes known to return a non-empty result.
type PrefixRecord struct {
	FirstName  string
	SecondName string
}
