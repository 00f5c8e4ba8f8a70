package generator

import (
	"fmt"
	"math/rand"
	"regexp/syntax"

	reggen "github.com/ledokol-inc/string-generation"
)

const regexManyCharactersLimit = 10

// Alphabet holds the code-point ranges of a locale: initials are drawn from
// the upper range and the continuation from the lower one.
type Alphabet struct {
	UpperFrom rune `mapstructure:"upper-from"`
	UpperTo   rune `mapstructure:"upper-to"`
	LowerFrom rune `mapstructure:"lower-from"`
	LowerTo   rune `mapstructure:"lower-to"`
}

var Cyrillic = Alphabet{UpperFrom: 0x0410, UpperTo: 0x042F, LowerFrom: 0x0430, LowerTo: 0x044F}

func (alphabet Alphabet) Valid() bool {
	return alphabet.UpperFrom > 0 && alphabet.UpperFrom <= alphabet.UpperTo &&
		alphabet.LowerFrom > 0 && alphabet.LowerFrom <= alphabet.LowerTo
}

// Pattern builds the generation regexp for prefixes of the given length.
func (alphabet Alphabet) Pattern(length int) string {
	pattern := fmt.Sprintf(`[\x{%04X}-\x{%04X}]`, alphabet.UpperFrom, alphabet.UpperTo)
	if length > 1 {
		pattern += fmt.Sprintf(`[\x{%04X}-\x{%04X}]{%d}`, alphabet.LowerFrom, alphabet.LowerTo, length-1)
	}
	return pattern
}

type PrefixGenerator struct {
	regex  *syntax.Regexp
	length int
	rnd    *rand.Rand
}

func NewPrefixGenerator(alphabet Alphabet, length int, rnd *rand.Rand) (*PrefixGenerator, error) {
	if length < 1 {
		return nil, fmt.Errorf("prefix length must be positive, got %d", length)
	}
	if !alphabet.Valid() {
		return nil, fmt.Errorf("invalid alphabet %+v", alphabet)
	}
	regex, err := syntax.Parse(alphabet.Pattern(length), syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("can't build prefix regex: %w", err)
	}
	return &PrefixGenerator{regex: regex, length: length, rnd: rnd}, nil
}

func (gen *PrefixGenerator) Next() string {
	return reggen.Generate(gen.regex, regexManyCharactersLimit, gen.rnd)
}

func (gen *PrefixGenerator) NextPair() PrefixRecord {
	return PrefixRecord{FirstName: gen.Next(), SecondName: gen.Next()}
}
