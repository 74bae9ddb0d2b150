// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

import (
	"archive/zip"
	"bytes"
	"testing"
)

// zipEntry is one member of a synthetic zip built by buildZip, kept as an
// ordered slice (not a map) so the entries land in the zip's central
// directory in the exact order the test lists them — chooseVBAProjectBin's
// "first encountered" tie-break depends on that order, and map iteration
// order is randomized per run.
type zipEntry struct {
	name string
	data []byte
}

// buildZip writes a synthetic OOXML-shaped package in memory, entirely
// through archive/zip's writer — no fixture binary files (SPEC_FULL.md §8).
func buildZip(t *testing.T, entries []zipEntry, includeContentTypes bool) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if includeContentTypes {
		w, err := zw.Create(contentTypesEntry)
		if err != nil {
			t.Fatalf("zw.Create(%s) error = %v", contentTypesEntry, err)
		}
		if _, err := w.Write([]byte(`<Types/>`)); err != nil {
			t.Fatalf("write %s error = %v", contentTypesEntry, err)
		}
	}

	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			t.Fatalf("zw.Create(%s) error = %v", entry.name, err)
		}
		if _, err := w.Write(entry.data); err != nil {
			t.Fatalf("write %s error = %v", entry.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("zw.Close() error = %v", err)
	}
	return buf.Bytes()
}

func TestExtractOOXMLVBAProjectMissingContentTypes(t *testing.T) {
	logger := newDefaultLogger()
	data := buildZip(t, []zipEntry{{"word/vbaProject.bin", []byte{0xD0, 0xCF, 0x00, 0x00}}}, false)

	if _, ok := extractOOXMLVBAProject(data, logger); ok {
		t.Error("extractOOXMLVBAProject() = true, want false without [Content_Types].xml")
	}
}

func TestExtractOOXMLVBAProjectNoBinEntry(t *testing.T) {
	logger := newDefaultLogger()
	data := buildZip(t, []zipEntry{{"word/document.xml", []byte("<document/>")}}, true)

	if _, ok := extractOOXMLVBAProject(data, logger); ok {
		t.Error("extractOOXMLVBAProject() = true, want false with no .bin entry")
	}
}

func TestExtractOOXMLVBAProjectInvalidBinContent(t *testing.T) {
	logger := newDefaultLogger()
	data := buildZip(t, []zipEntry{{"word/vbaProject.bin", []byte("not an OLE2 document")}}, true)

	if _, ok := extractOOXMLVBAProject(data, logger); ok {
		t.Error("extractOOXMLVBAProject() = true, want false for a .bin entry that is not OLE2")
	}
}

func TestExtractOOXMLVBAProjectNotAZip(t *testing.T) {
	logger := newDefaultLogger()
	if _, ok := extractOOXMLVBAProject([]byte("definitely not a zip"), logger); ok {
		t.Error("extractOOXMLVBAProject() = true, want false for non-ZIP input")
	}
}

// TestChooseVBAProjectBinPrefersMisspelling is spec.md §8 scenario 5: two
// .bin entries, Other.bin and vbProject.bin (note the missing 'a') — the
// latter must be chosen over the first-encountered entry.
func TestChooseVBAProjectBinPrefersMisspelling(t *testing.T) {
	logger := newDefaultLogger()
	data := buildZip(t, []zipEntry{
		{"word/vba/Other.bin", []byte{0x01}},
		{"word/vba/vbProject.bin", []byte{0x02}},
	}, true)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}

	got := chooseVBAProjectBin(zr, logger)
	if got == nil {
		t.Fatal("chooseVBAProjectBin() = nil")
	}
	if baseName(got.Name) != "vbProject.bin" {
		t.Errorf("chooseVBAProjectBin() picked %q, want vbProject.bin", got.Name)
	}
}

func TestChooseVBAProjectBinFirstWhenNoPreferredMatch(t *testing.T) {
	logger := newDefaultLogger()
	data := buildZip(t, []zipEntry{
		{"word/vba/First.bin", []byte{0x01}},
		{"word/vba/Second.bin", []byte{0x02}},
	}, true)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}

	got := chooseVBAProjectBin(zr, logger)
	if got == nil || baseName(got.Name) != "First.bin" {
		t.Errorf("chooseVBAProjectBin() = %v, want First.bin (first encountered)", got)
	}
}

func TestBaseNameHandlesBackslashesAndSlashes(t *testing.T) {
	if got := baseName("word\\vba\\vbaProject.bin"); got != "vbaProject.bin" {
		t.Errorf("baseName() = %q, want vbaProject.bin", got)
	}
	if got := baseName("vbaProject.bin"); got != "vbaProject.bin" {
		t.Errorf("baseName() = %q, want vbaProject.bin", got)
	}
}

func TestHasContentTypesCaseInsensitive(t *testing.T) {
	// The content-types entry is written in lower case, differing from
	// contentTypesEntry, so only a case-insensitive match finds it.
	data := buildZip(t, []zipEntry{
		{"[content_types].xml", []byte(`<Types/>`)},
		{"word/document.xml", []byte("<document/>")},
	}, false)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	if !hasContentTypes(zr) {
		t.Error("hasContentTypes() = false, want true")
	}
}
