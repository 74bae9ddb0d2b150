// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

import (
	"bytes"
	"io"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/richardlehane/mscfb"
)

// macrosVBAPath is the storage path to the VBA project stream inside a
// native .doc/.xls OLE2 container (spec.md §4.2).
var macrosVBAPath = []string{"Macros", "VBA"}

// vbaPath is the storage path to the VBA project stream inside the
// embedded compound document found in an OOXML package: the project is
// rooted there, with no leading Macros storage (spec.md §4.2).
var vbaPath = []string{"VBA"}

const vbaProjectStreamName = "_VBA_PROJECT"

// extractOLEVBAProject reads the _VBA_PROJECT stream out of a native
// OLE2 compound-document buffer, expecting it under Macros/VBA (spec.md
// §4.2). It reports ok=false on any structural defect, logging the cause.
func extractOLEVBAProject(data []byte, logger *log.Helper) (stream []byte, ok bool) {
	return findOLEStream(data, macrosVBAPath, vbaProjectStreamName, logger)
}

// extractInnerOLEVBAProject reads the _VBA_PROJECT stream out of the
// compound document embedded inside an OOXML package, expecting it under
// VBA with no leading Macros storage (spec.md §4.2).
func extractInnerOLEVBAProject(data []byte, logger *log.Helper) (stream []byte, ok bool) {
	return findOLEStream(data, vbaPath, vbaProjectStreamName, logger)
}

// findOLEStream walks the OLE2 storage hierarchy looking for streamName
// under storagePath, matching every path component case-insensitively
// (the container format mandates case-insensitive storage/stream names,
// spec.md §4.2).
func findOLEStream(data []byte, storagePath []string, streamName string, logger *log.Helper) ([]byte, bool) {
	r, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		logger.Errorf("%v: %v", ErrNotOLEFile, err)
		return nil, false
	}

	sawStorage := false
	for entry, err := r.Next(); err == nil; entry, err = r.Next() {
		if !pathMatches(entry.Path, storagePath) {
			continue
		}
		sawStorage = true
		if !strings.EqualFold(entry.Name, streamName) {
			continue
		}

		buf := make([]byte, int(entry.Size))
		n, readErr := io.ReadFull(entry, buf)
		if readErr != nil && readErr != io.ErrUnexpectedEOF {
			logger.Errorf("%v: %v", ErrNoVBAProjectStream, readErr)
			return nil, false
		}
		return buf[:n], true
	}

	if !sawStorage {
		logger.Errorf("%v: %s", ErrNoVBAStorage, strings.Join(storagePath, "/"))
	} else {
		logger.Errorf("%v: %s under %s", ErrNoVBAProjectStream, streamName, strings.Join(storagePath, "/"))
	}
	return nil, false
}

// pathMatches reports whether entryPath equals wantPath component by
// component, case-insensitively.
func pathMatches(entryPath, wantPath []string) bool {
	if len(entryPath) != len(wantPath) {
		return false
	}
	for i := range entryPath {
		if !strings.EqualFold(entryPath[i], wantPath[i]) {
			return false
		}
	}
	return true
}
