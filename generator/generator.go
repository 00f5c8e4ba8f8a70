package generator

import (
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultSeed = 0

	PostSentences  = 7
	sentenceWords  = 6
	maxAgeInYears  = 115
	daysInYear     = 365.25
	variableMinPct = 60
	variableMaxPct = 140
)

// Generator produces ru_RU person and text records. It is not safe for
// concurrent use: every virtual user of a load test owns its own Generator.
type Generator struct {
	rnd *rand.Rand
	now time.Time
}

// New returns a generator seeded with seed. Two generators with the same seed
// and reference date produce identical sequences.
func New(seed int64) *Generator {
	return NewFromRand(rand.New(rand.NewSource(seed)))
}

func NewFromRand(rnd *rand.Rand) *Generator {
	now := time.Now().UTC()
	return &Generator{rnd: rnd, now: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)}
}

// WithReferenceDate pins "today" for birthdates and post timestamps.
func (gen *Generator) WithReferenceDate(now time.Time) *Generator {
	gen.now = now
	return gen
}

func (gen *Generator) Rand() *rand.Rand {
	return gen.rnd
}

func (gen *Generator) NextPerson() PersonRecord {
	var person PersonRecord
	if gen.rnd.Intn(2) == 1 {
		person.Sex = Female
		person.FirstName = gen.pick(femaleFirstNames)
		person.LastName = gen.pick(femaleLastNames)
	} else {
		person.Sex = Male
		person.FirstName = gen.pick(maleFirstNames)
		person.LastName = gen.pick(maleLastNames)
	}
	person.Birthdate = gen.NextDateOfBirth()
	person.City = gen.NextCity()
	return person
}

func (gen *Generator) NextDateOfBirth() time.Time {
	return gen.now.AddDate(0, 0, -gen.rnd.Intn(maxAgeInDays()+1))
}

func maxAgeInDays() int {
	return int(math.Round(maxAgeInYears * daysInYear))
}

func (gen *Generator) NextCity() string {
	return gen.pick(cityPrefixes) + " " + gen.pick(cityNames)
}

// NextParagraph joins sentences into one paragraph. With variable set the
// sentence count is drawn between 60% and 140% of minSentences.
func (gen *Generator) NextParagraph(minSentences int, variable bool) string {
	count := minSentences
	if variable {
		count = gen.randomize(minSentences)
	}
	sentences := make([]string, count)
	for i := range sentences {
		sentences[i] = gen.NextSentence(sentenceWords, true)
	}
	return strings.Join(sentences, " ")
}

func (gen *Generator) NextSentence(wordsCount int, variable bool) string {
	if variable {
		wordsCount = gen.randomize(wordsCount)
	}
	parts := make([]string, wordsCount)
	for i := range parts {
		parts[i] = gen.pick(words)
	}
	return capitalize(strings.Join(parts, " ")) + "."
}

// NextPost generates a post created this year and updated no earlier than its
// creation.
func (gen *Generator) NextPost(author string) PostRecord {
	yearStart := time.Date(gen.now.Year(), time.January, 1, 0, 0, 0, 0, gen.now.Location())
	created := gen.between(yearStart, gen.now)
	return PostRecord{
		AuthorID:  author,
		Text:      gen.NextParagraph(PostSentences, true),
		CreatedAt: created,
		UpdatedAt: gen.between(created, gen.now),
	}
}

func (gen *Generator) between(from, to time.Time) time.Time {
	span := int64(to.Sub(from) / time.Second)
	if span <= 0 {
		return from
	}
	return from.Add(time.Duration(gen.rnd.Int63n(span+1)) * time.Second)
}

func (gen *Generator) randomize(n int) int {
	pct := variableMinPct + gen.rnd.Intn(variableMaxPct-variableMinPct+1)
	result := int(math.Round(float64(n) * float64(pct) / 100))
	if result < 1 {
		return 1
	}
	return result
}

func (gen *Generator) pick(pool []string) string {
	return pool[gen.rnd.Intn(len(pool))]
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Truncate cuts text to at most limit runes. A non-positive limit disables it.
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}
