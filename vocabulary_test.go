// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

import (
	"strings"
	"testing"
)

func TestDefaultVocabularyParses(t *testing.T) {
	v := DefaultVocabulary()
	if v.Len() == 0 {
		t.Fatal("DefaultVocabulary() produced an empty vocabulary")
	}
	if !v.Contains("AutoOpen") {
		t.Error(`DefaultVocabulary() missing "AutoOpen"`)
	}
	if !v.Contains("autoopen") {
		t.Error(`DefaultVocabulary() should case-fold, missing "autoopen"`)
	}
}

func TestLoadVocabularyFromJSON(t *testing.T) {
	v, err := LoadVocabulary(strings.NewReader(`["AutoOpen", "Shell", "Shell"]`))
	if err != nil {
		t.Fatalf("LoadVocabulary() error = %v", err)
	}
	if v.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (duplicates collapsed)", v.Len())
	}
	if !v.Contains("SHELL") {
		t.Error(`Contains("SHELL") = false, want true`)
	}
}

func TestLoadVocabularyMalformed(t *testing.T) {
	if _, err := LoadVocabulary(strings.NewReader(`not json`)); err == nil {
		t.Error("LoadVocabulary() with malformed input expected an error, got nil")
	}
}

func TestVocabularyNilReceiverIsSafe(t *testing.T) {
	var v *Vocabulary
	if v.Contains("anything") {
		t.Error("nil Vocabulary.Contains() = true, want false")
	}
	if v.Len() != 0 {
		t.Errorf("nil Vocabulary.Len() = %d, want 0", v.Len())
	}
}

func TestNewVocabularyCaseFoldsAndDedupes(t *testing.T) {
	v := newVocabulary([]string{"Foo", "foo", "FOO", "Bar"})
	if v.Len() != 2 {
		t.Errorf("Len() = %d, want 2", v.Len())
	}
}
