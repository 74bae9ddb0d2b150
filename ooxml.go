// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
)

const contentTypesEntry = "[Content_Types].xml"

// extractOOXMLVBAProject locates and extracts the embedded VBA project
// from an OOXML package (spec.md §4.2). Unlike the Python source, this
// never shells out and never touches disk: the ZIP's central directory
// and the chosen .bin member are both read straight out of the mmap'd
// input via archive/zip (SPEC_FULL.md §4.2 expansion), which also removes
// the __TEMP__ concurrency bug described in spec.md §9 by construction.
func extractOOXMLVBAProject(data []byte, logger *log.Helper) (stream []byte, ok bool) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Errorf("%v: %v", ErrNotZipFile, err)
		return nil, false
	}

	if !hasContentTypes(zr) {
		logger.Errorf("%v: missing %s", ErrNotOfficePackage, contentTypesEntry)
		return nil, false
	}

	binFile := chooseVBAProjectBin(zr, logger)
	if binFile == nil {
		logger.Errorf("%v: no .bin entry found", ErrNoEmbeddedVBAProject)
		return nil, false
	}

	binData, err := readZipFile(binFile)
	if err != nil {
		logger.Errorf("%v: cannot read %s: %v", ErrNoEmbeddedVBAProject, binFile.Name, err)
		return nil, false
	}

	switch ClassifyFile(binData) {
	case KindOLE:
		return extractInnerOLEVBAProject(binData, logger)
	default:
		logger.Errorf("%v: %s is not an OLE2 compound document", ErrNoEmbeddedVBAProject, binFile.Name)
		return nil, false
	}
}

func hasContentTypes(zr *zip.Reader) bool {
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, contentTypesEntry) {
			return true
		}
	}
	return false
}

// chooseVBAProjectBin picks the embedded compound-document entry among
// every *.bin member: prefer a case-fold match of "vbproject.bin",
// otherwise the first .bin entry encountered (spec.md §4.2, scenario 5).
func chooseVBAProjectBin(zr *zip.Reader, logger *log.Helper) *zip.File {
	var first *zip.File
	var preferred *zip.File
	count := 0

	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".bin") {
			continue
		}
		count++
		if first == nil {
			first = f
		}
		base := baseName(f.Name)
		if strings.EqualFold(base, "vbproject.bin") {
			if preferred == nil {
				preferred = f
			}
		}
	}

	if count > 1 {
		logger.Debugf("imphash: %s", AnoMultipleBinEntries)
	}
	if preferred != nil {
		return preferred
	}
	return first
}

func baseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
