// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

import "errors"

// Sentinel hash values. Result.Hash is always one of these four when the
// input could not be turned into a real identifier-derived digest, or a
// 32-character lowercase hex MD5 digest otherwise.
const (
	// HashInvalidOfficeFile is reported when the first two bytes of the
	// input do not match the OLE2 or OOXML magic.
	HashInvalidOfficeFile = "INVALID_OFFICE_FILE"

	// HashInvalidOLEOfficeFile is reported when the file is OLE2 but the
	// Macros/VBA/_VBA_PROJECT stream cannot be found.
	HashInvalidOLEOfficeFile = "INVALID_OLE_OFFICE_FILE"

	// HashInvalidOOXMLOfficeFile is reported when the file is a ZIP but is
	// not a recognizable Office package, or carries no embedded VBA project.
	HashInvalidOOXMLOfficeFile = "INVALID_OOXML_OFFICE_FILE"

	// HashNoImphashIdentifiers is reported when the parsed identifier list
	// is empty, or none of its entries match the import vocabulary.
	HashNoImphashIdentifiers = "NO_IMPHASH_IDENTIFIERS"
)

// Errors surfaced by the container extractor and the stream parser's
// cursor. The core never propagates
// these past ComputeImphash; they are logged and collapsed into one of the
// Hash* sentinels above (spec taxonomy, see SPEC_FULL.md §7).
var (
	// ErrUnknownFileType is returned when the first two bytes match
	// neither the OLE2 nor the ZIP magic.
	ErrUnknownFileType = errors.New("imphash: unrecognized file magic")

	// ErrNotOLEFile is returned when the OLE2 magic matched but the
	// compound-document structure itself is unreadable.
	ErrNotOLEFile = errors.New("imphash: not a valid OLE2 compound document")

	// ErrNoVBAStorage is returned when an OLE2 file has no Macros/VBA
	// storage (or, for the inner OOXML project, no VBA storage).
	ErrNoVBAStorage = errors.New("imphash: Macros/VBA storage not found")

	// ErrNoVBAProjectStream is returned when the VBA storage exists but
	// carries no _VBA_PROJECT stream.
	ErrNoVBAProjectStream = errors.New("imphash: _VBA_PROJECT stream not found")

	// ErrNotZipFile is returned when the ZIP magic matched but the
	// archive's central directory cannot be read.
	ErrNotZipFile = errors.New("imphash: not a valid ZIP archive")

	// ErrNotOfficePackage is returned when a ZIP archive carries no
	// [Content_Types].xml entry.
	ErrNotOfficePackage = errors.New("imphash: missing [Content_Types].xml, not an Office package")

	// ErrNoEmbeddedVBAProject is returned when an Office ZIP package
	// carries no *.bin entry, or the one *.bin entry chosen by
	// chooseVBAProjectBin cannot be read or is not an OLE2 compound
	// document (the other *.bin entries are not tried).
	ErrNoEmbeddedVBAProject = errors.New("imphash: no embedded vbaProject.bin found")

	// ErrShortRead is returned by cursor primitives when a read would
	// run past the end of the buffer.
	ErrShortRead = errors.New("imphash: short read past end of buffer")

	// ErrBadMagic is returned when the _VBA_PROJECT stream does not begin
	// with the 0x61CC magic word.
	ErrBadMagic = errors.New("imphash: _VBA_PROJECT magic not found")
)

// Anomalies are non-fatal conditions worth logging but that do not change
// the sentinel outcome on their own, matching the anomaly.go naming
// convention of the teacher package.
var (
	// AnoMultipleBinEntries is logged when an OOXML package carries more
	// than one *.bin entry and the choice between them is ambiguous.
	AnoMultipleBinEntries = "multiple .bin entries found, first match used"
)
