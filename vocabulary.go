// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

import (
	_ "embed"
	"encoding/json"
	"io"
	"strings"
)

//go:embed assets/import_identifiers.json
var defaultVocabularyJSON []byte

// Vocabulary is a process-lifetime immutable set of case-folded VBA
// identifier names (spec.md §3). Membership is tested by case-insensitive
// exact match; build one with LoadVocabulary or DefaultVocabulary and
// share it freely across concurrent callers (spec.md §5, §9).
type Vocabulary struct {
	names map[string]struct{}
}

// Contains reports whether identifier matches the vocabulary under
// case-insensitive exact match.
func (v *Vocabulary) Contains(identifier string) bool {
	if v == nil {
		return false
	}
	_, ok := v.names[strings.ToLower(identifier)]
	return ok
}

// Len returns the number of distinct entries in the vocabulary.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.names)
}

// newVocabulary builds a Vocabulary from a list of names, case-folding and
// deduplicating as it goes.
func newVocabulary(names []string) *Vocabulary {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return &Vocabulary{names: set}
}

// LoadVocabulary decodes a JSON array of strings from r into a Vocabulary.
// Entry order in the source document never affects the resulting hash
// (spec.md §8): membership is tested against a set, not a sequence.
func LoadVocabulary(r io.Reader) (*Vocabulary, error) {
	var names []string
	if err := json.NewDecoder(r).Decode(&names); err != nil {
		return nil, err
	}
	return newVocabulary(names), nil
}

// DefaultVocabulary returns the Vocabulary built from the JSON document
// embedded into the binary at build time (spec.md §6: "an implementation
// must either embed it at build time or document its expected location").
func DefaultVocabulary() *Vocabulary {
	v, err := LoadVocabulary(strings.NewReader(string(defaultVocabularyJSON)))
	if err != nil {
		// The embedded asset is validated by TestDefaultVocabularyParses;
		// a decode failure here means the asset itself regressed.
		panic("imphash: embedded vocabulary is malformed: " + err.Error())
	}
	return v
}
