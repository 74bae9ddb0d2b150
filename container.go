// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
)

// FileKind classifies an input file from its first two bytes (spec.md §3).
type FileKind int

const (
	// KindInvalid is neither the OLE2 nor the ZIP magic.
	KindInvalid FileKind = iota
	// KindOLE begins with the MS-CFB magic D0 CF.
	KindOLE
	// KindOOXML begins with the ZIP local-file-header magic "PK".
	KindOOXML
)

// ClassifyFile inspects the first two bytes of header (the start of the
// file's contents) and returns its FileKind, matching spec.md §3's
// magic-byte rule exactly. A header shorter than two bytes is KindInvalid.
func ClassifyFile(header []byte) FileKind {
	if len(header) < 2 {
		return KindInvalid
	}
	switch {
	case header[0] == 0xD0 && header[1] == 0xCF:
		return KindOLE
	case header[0] == 'P' && header[1] == 'K':
		return KindOOXML
	default:
		return KindInvalid
	}
}

// Result is the outcome of ComputeImphash: the hash (a sentinel string or
// a 32-character lowercase hex MD5 digest) plus the ordered, disjoint
// import/non-import identifier partitions (spec.md §3).
type Result struct {
	Hash    string
	Imports []string
	Others  []string
}

func invalidResult(hash string) Result {
	return Result{Hash: hash, Imports: []string{}, Others: []string{}}
}

// Options configures ComputeImphash. A nil Vocabulary resolves to
// DefaultVocabulary(); a nil Logger resolves to the package default.
type Options struct {
	Vocabulary *Vocabulary
	Logger     *log.Helper
}

// ComputeImphash is the module's single public operation (spec.md §6): it
// locates the _VBA_PROJECT stream inside an OLE2 or OOXML Office file,
// parses its identifier table, and hashes the import subset. It never
// returns a non-nil error for a malformed or unreadable input file — every
// such failure is encoded as one of the Hash* sentinel strings in
// Result.Hash (spec.md §7). The error return exists for future
// programmer-error-shaped failure modes and is always nil today.
func ComputeImphash(path string, opts *Options) (Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	vocab := opts.Vocabulary
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	logger := helperOrDefault(opts.Logger)

	f, err := os.Open(path)
	if err != nil {
		logger.Errorf("imphash: cannot open %s: %v", path, err)
		return invalidResult(HashInvalidOfficeFile), nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logger.Errorf("imphash: cannot stat %s: %v", path, err)
		return invalidResult(HashInvalidOfficeFile), nil
	}
	if info.Size() == 0 {
		return invalidResult(HashInvalidOfficeFile), nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		logger.Errorf("imphash: cannot mmap %s: %v", path, err)
		return invalidResult(HashInvalidOfficeFile), nil
	}
	defer data.Unmap()

	switch ClassifyFile(data) {
	case KindOLE:
		stream, ok := extractOLEVBAProject(data, logger)
		if !ok {
			return invalidResult(HashInvalidOLEOfficeFile), nil
		}
		return hashStream(stream, vocab), nil
	case KindOOXML:
		stream, ok := extractOOXMLVBAProject(data, logger)
		if !ok {
			return invalidResult(HashInvalidOOXMLOfficeFile), nil
		}
		return hashStream(stream, vocab), nil
	default:
		logger.Errorf("%v", ErrUnknownFileType)
		return invalidResult(HashInvalidOfficeFile), nil
	}
}

func hashStream(stream []byte, vocab *Vocabulary) Result {
	identifiers := ParseIdentifiers(stream)
	hash, imports, others := HashIdentifiers(identifiers, vocab)
	if imports == nil {
		imports = []string{}
	}
	if others == nil {
		others = []string{}
	}
	return Result{Hash: hash, Imports: imports, Others: others}
}
