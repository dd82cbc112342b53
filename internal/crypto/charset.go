package crypto

import (
	"errors"
	"strings"
)

// CharacterClass identifies one of the fixed character tables a password can draw from.
type CharacterClass uint8

const (
	Uppercase CharacterClass = iota
	Lowercase
	Numbers
	Symbols

	numClasses
)

var ErrUnknownCharacterClass = errors.New("unknown character class")

// classTables is indexed by CharacterClass, so a missing entry is a compile error.
var classTables = [numClasses]struct {
	name  string
	chars string
}{
	Uppercase: {"uppercase", "ABCDEFGHIJKLMNOPQRSTUVWXYZ"},
	Lowercase: {"lowercase", "abcdefghijklmnopqrstuvwxyz"},
	Numbers:   {"numbers", "0123456789"},
	Symbols:   {"symbols", "!@#$%^&*()_+[]{}|;:,.<>?"},
}

// AllClasses lists every class in canonical order.
func AllClasses() []CharacterClass {
	return []CharacterClass{Uppercase, Lowercase, Numbers, Symbols}
}

// Chars returns the characters belonging to c, or "" for an unknown class.
func (c CharacterClass) Chars() string {
	if c >= numClasses {
		return ""
	}
	return classTables[c].chars
}

func (c CharacterClass) String() string {
	if c >= numClasses {
		return "unknown"
	}
	return classTables[c].name
}

// ParseCharacterClass maps a wire name such as "uppercase" to its class.
func ParseCharacterClass(name string) (CharacterClass, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c := CharacterClass(0); c < numClasses; c++ {
		if classTables[c].name == name {
			return c, nil
		}
	}
	return 0, ErrUnknownCharacterClass
}

// ClassSet is an unordered set of character classes.
type ClassSet uint8

// NewClassSet returns a set holding the given classes. Duplicates are ignored.
func NewClassSet(classes ...CharacterClass) ClassSet {
	var s ClassSet
	for _, c := range classes {
		s = s.With(c)
	}
	return s
}

// AllClassSet returns the set with every class enabled.
func AllClassSet() ClassSet {
	return NewClassSet(AllClasses()...)
}

// ParseClassSet builds a set from wire names.
func ParseClassSet(names []string) (ClassSet, error) {
	var s ClassSet
	for _, name := range names {
		c, err := ParseCharacterClass(name)
		if err != nil {
			return 0, err
		}
		s = s.With(c)
	}
	return s, nil
}

func (s ClassSet) Has(c CharacterClass) bool {
	return c < numClasses && s&(1<<c) != 0
}

func (s ClassSet) With(c CharacterClass) ClassSet {
	if c >= numClasses {
		return s
	}
	return s | 1<<c
}

func (s ClassSet) Without(c CharacterClass) ClassSet {
	if c >= numClasses {
		return s
	}
	return s &^ (1 << c)
}

func (s ClassSet) Empty() bool {
	return s.Classes() == nil
}

// Valid reports whether s holds only known classes.
func (s ClassSet) Valid() bool {
	return s&^AllClassSet() == 0
}

// Classes returns the members of s in canonical order.
func (s ClassSet) Classes() []CharacterClass {
	var out []CharacterClass
	for c := CharacterClass(0); c < numClasses; c++ {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the wire names of the members of s in canonical order.
func (s ClassSet) Names() []string {
	names := make([]string, 0, numClasses)
	for _, c := range s.Classes() {
		names = append(names, c.String())
	}
	return names
}

// Charset concatenates the tables of every member in canonical order.
func (s ClassSet) Charset() string {
	var sb strings.Builder
	for _, c := range s.Classes() {
		sb.WriteString(c.Chars())
	}
	return sb.String()
}
