// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

import "testing"

func TestPathMatchesCaseInsensitive(t *testing.T) {
	if !pathMatches([]string{"Macros", "VBA"}, []string{"macros", "vba"}) {
		t.Error("pathMatches() = false, want true for case-differing paths")
	}
}

func TestPathMatchesLengthMismatch(t *testing.T) {
	if pathMatches([]string{"Macros"}, []string{"Macros", "VBA"}) {
		t.Error("pathMatches() = true, want false for differing path depth")
	}
}

func TestPathMatchesComponentMismatch(t *testing.T) {
	if pathMatches([]string{"Macros", "Forms"}, []string{"Macros", "VBA"}) {
		t.Error("pathMatches() = true, want false for differing component")
	}
}

func TestFindOLEStreamRejectsNonCompoundDocument(t *testing.T) {
	logger := newDefaultLogger()
	if _, ok := findOLEStream([]byte("not an OLE2 file"), macrosVBAPath, vbaProjectStreamName, logger); ok {
		t.Error("findOLEStream() = true, want false for non-OLE2 input")
	}
}

func TestExtractOLEVBAProjectRejectsEmptyBuffer(t *testing.T) {
	logger := newDefaultLogger()
	if _, ok := extractOLEVBAProject(nil, logger); ok {
		t.Error("extractOLEVBAProject() = true, want false for empty input")
	}
}

func TestExtractInnerOLEVBAProjectRejectsEmptyBuffer(t *testing.T) {
	logger := newDefaultLogger()
	if _, ok := extractInnerOLEVBAProject(nil, logger); ok {
		t.Error("extractInnerOLEVBAProject() = true, want false for empty input")
	}
}
