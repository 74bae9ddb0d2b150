// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

import (
	"golang.org/x/text/encoding/charmap"
)

// Version thresholds the reference-table and module-descriptor loops key
// their unicode/stream-time behaviour on. Names follow the on-disk field
// they gate, not a semantic label, since the format itself documents them
// only as magic constants (pcodedmp, MS-OVBA).
const (
	vbaMagic = 0x61CC

	versionRefMin       = 0x5B
	versionNameMin      = 0x59
	versionUnicodeAlt   = 0x4E
	versionModuleHasFlg = 0x6B
	versionModuleSkip4  = 0x51
)

// excludedVersions are the three versions that, despite being >= the
// unicode threshold, do not carry unicode ref/name data.
var excludedVersions = map[uint16]bool{0x60: true, 0x62: true, 0x63: true}

// ParseIdentifiers walks a raw _VBA_PROJECT stream and returns the
// identifiers it carries in their on-disk order (spec.md §4.1). It never
// returns an error: any malformed count, out-of-bounds read, or
// inconsistent version collapses into "return the partial list collected
// so far," matching the single all-catching except in the source
// implementation (spec.md §9).
func ParseIdentifiers(stream []byte) []string {
	p := &streamParser{c: newCursor(stream)}
	p.parse()
	return p.identifiers
}

type streamParser struct {
	c           *cursor
	version     uint16
	endian      endianness
	unicodeRef  bool
	unicodeName bool
	nonUniName  bool
	identifiers []string
}

// parse is the single entry point; every helper below returns an error on
// any short read or malformed count, and parse stops and returns whatever
// was collected so far the moment one occurs.
func (p *streamParser) parse() {
	if err := p.parseHeader(); err != nil {
		return
	}
	if err := p.parseReferenceTable(); err != nil {
		return
	}
	if err := p.parseFixedPostReferenceSkips(); err != nil {
		return
	}
	if err := p.parseModuleDescriptors(); err != nil {
		return
	}
	numIDs, numJunkIDs, err := p.parseIdentifierCounts()
	if err != nil {
		return
	}
	if err := p.skipJunkIdentifiers(numJunkIDs); err != nil {
		return
	}
	p.parseRealIdentifiers(numIDs)
}

// parseHeader reads the magic, version, and endian probe, and derives the
// unicodeRef/unicodeName/nonUnicodeName flags (spec.md §4.1).
func (p *streamParser) parseHeader() error {
	magic, err := p.c.readWordAt(0, littleEndian)
	if err != nil {
		return err
	}
	if magic != vbaMagic {
		return ErrBadMagic
	}

	version, err := p.c.readWordAt(2, littleEndian)
	if err != nil {
		return err
	}
	p.version = version

	endianProbe, err := p.c.readWordAt(5, littleEndian)
	if err != nil {
		return err
	}
	if endianProbe == 0x000E {
		p.endian = bigEndian
	} else {
		p.endian = littleEndian
	}

	p.unicodeRef = (version >= versionRefMin && !excludedVersions[version]) || version == versionUnicodeAlt
	p.unicodeName = (version >= versionNameMin && !excludedVersions[version]) || version == versionUnicodeAlt
	// The third clause (0x5F > version > 0x6B) is unsatisfiable for any
	// integer. Preserved literally for bit-exact parity with the source
	// (spec.md §9 open question); this is dead code, not a bug to fix.
	p.nonUniName = (version <= versionNameMin && version != versionUnicodeAlt) ||
		(version < 0x5F && version > versionModuleHasFlg)

	p.c.off = 0x1E
	return nil
}

// parseReferenceTable implements the reference-table loop of spec.md §4.1.
func (p *streamParser) parseReferenceTable() error {
	numRefs, err := p.c.readWord(p.endian)
	if err != nil {
		return err
	}
	if err := p.c.advance(2); err != nil {
		return err
	}

	for i := uint16(0); i < numRefs; i++ {
		if err := p.parseOneReference(); err != nil {
			return err
		}
	}
	return nil
}

func (p *streamParser) parseOneReference() error {
	refLength, err := p.c.readWord(p.endian)
	if err != nil {
		return err
	}

	if refLength == 0 {
		if err := p.c.advance(6); err != nil {
			return err
		}
	} else {
		minLen := 3
		if p.unicodeRef {
			minLen = 5
		}
		if int(refLength) < minLen {
			if err := p.c.advance(int(refLength)); err != nil {
				return err
			}
		} else {
			kindOff := p.c.off + 2
			if p.unicodeRef {
				kindOff = p.c.off + 4
			}
			kind, err := p.c.peekByte(kindOff)
			if err != nil {
				return err
			}
			if err := p.c.advance(int(refLength)); err != nil {
				return err
			}
			if kind == 'C' || kind == 'D' {
				if err := p.c.skipStructure(p.endian, false, 1, false); err != nil {
					return err
				}
			}
		}
	}

	if err := p.c.advance(10); err != nil {
		return err
	}

	word, err := p.c.readWord(p.endian)
	if err != nil {
		return err
	}
	if word != 0 {
		if err := p.c.skipStructure(p.endian, false, 1, false); err != nil {
			return err
		}
		wLength, err := p.c.readWord(p.endian)
		if err != nil {
			return err
		}
		if wLength != 0 {
			if err := p.c.advance(2); err != nil {
				return err
			}
		}
		if err := p.c.advance(int(wLength) + 30); err != nil {
			return err
		}
	}
	return nil
}

// parseFixedPostReferenceSkips implements the fixed skip sequence that
// follows the reference table (spec.md §4.1, element sizes per the
// original pcodedmp source: the class/userform count area is a
// skip-structure over 2-byte elements, the compile-time identifier-value
// pairs over 4-byte elements — not two and four repeated size-1 skips).
func (p *streamParser) parseFixedPostReferenceSkips() error {
	// Number of entries in the class/user forms table.
	if err := p.c.skipStructure(p.endian, false, 2, false); err != nil {
		return err
	}
	// Number of compile-time identifier-value pairs.
	if err := p.c.skipStructure(p.endian, false, 4, false); err != nil {
		return err
	}
	if err := p.c.advance(2); err != nil {
		return err
	}
	// Typeinfo typeID, project description, project help file name.
	for i := 0; i < 3; i++ {
		if err := p.c.skipStructure(p.endian, false, 1, true); err != nil {
			return err
		}
	}
	return p.c.advance(0x64)
}

// parseModuleDescriptors implements the module-descriptor loop of
// spec.md §4.1.
func (p *streamParser) parseModuleDescriptors() error {
	numProjects, err := p.c.readWord(p.endian)
	if err != nil {
		return err
	}
	for i := uint16(0); i < numProjects; i++ {
		if err := p.parseOneModuleDescriptor(); err != nil {
			return err
		}
	}
	return nil
}

func (p *streamParser) parseOneModuleDescriptor() error {
	wLength, err := p.c.readWord(p.endian)
	if err != nil {
		return err
	}

	if p.unicodeName {
		if err := p.c.advance(int(wLength)); err != nil {
			return err
		}
	}
	if p.nonUniName {
		if wLength != 0 {
			wLength, err = p.c.readWord(p.endian)
			if err != nil {
				return err
			}
		}
		if err := p.c.advance(int(wLength)); err != nil {
			return err
		}
	}

	// Stream time.
	if err := p.c.skipStructure(p.endian, false, 1, false); err != nil {
		return err
	}
	if err := p.c.skipStructure(p.endian, false, 1, true); err != nil {
		return err
	}
	if _, err := p.c.readWord(p.endian); err != nil {
		return err
	}
	if p.version >= versionModuleHasFlg {
		if err := p.c.skipStructure(p.endian, false, 1, true); err != nil {
			return err
		}
	}
	if err := p.c.skipStructure(p.endian, false, 1, true); err != nil {
		return err
	}
	if err := p.c.advance(2); err != nil {
		return err
	}
	if p.version != versionModuleSkip4 {
		if err := p.c.advance(4); err != nil {
			return err
		}
	}
	if err := p.c.skipStructure(p.endian, false, 8, false); err != nil {
		return err
	}
	return p.c.advance(11)
}

// parseIdentifierCounts implements the identifier-count computation of
// spec.md §4.1, including the post-module-loop skips that precede it.
func (p *streamParser) parseIdentifierCounts() (numIDs, numJunkIDs uint16, err error) {
	if err = p.c.advance(6); err != nil {
		return 0, 0, err
	}
	if err = p.c.skipStructure(p.endian, true, 1, false); err != nil {
		return 0, 0, err
	}
	if err = p.c.advance(6); err != nil {
		return 0, 0, err
	}

	w0, err := p.c.readWord(p.endian)
	if err != nil {
		return 0, 0, err
	}
	n, err := p.c.readWord(p.endian)
	if err != nil {
		return 0, 0, err
	}
	w1, err := p.c.readWord(p.endian)
	if err != nil {
		return 0, 0, err
	}
	if err = p.c.advance(4); err != nil {
		return 0, 0, err
	}

	// All arithmetic wraps modulo 2^16, matching uint16 overflow in the
	// source; well-formed streams never drive this negative (spec.md §4.1).
	numJunkIDs = n + w1 - w0
	numIDs = w0 - w1
	return numIDs, numJunkIDs, nil
}

// skipJunkIdentifiers implements the junk-identifier loop of spec.md §4.1.
func (p *streamParser) skipJunkIdentifiers(count uint16) error {
	for i := uint16(0); i < count; i++ {
		if err := p.c.advance(4); err != nil {
			return err
		}
		idType, idLength, err := p.readTypeAndLength()
		if err != nil {
			return err
		}
		if err := p.c.advance(2); err != nil {
			return err
		}
		if idType > 0x7F {
			if err := p.c.advance(6); err != nil {
				return err
			}
		}
		if err := p.c.advance(int(idLength)); err != nil {
			return err
		}
	}
	return nil
}

// parseRealIdentifiers implements the real-identifier loop of spec.md
// §4.1, appending at most one decoded identifier per iteration.
func (p *streamParser) parseRealIdentifiers(count uint16) {
	decoder := charmap.ISO8859_1.NewDecoder()
	for i := uint16(0); i < count; i++ {
		if err := p.parseOneRealIdentifier(decoder); err != nil {
			return
		}
	}
}

func (p *streamParser) parseOneRealIdentifier(decoder interface {
	Bytes([]byte) ([]byte, error)
}) error {
	isKwd := false

	idType, idLength, err := p.readTypeAndLength()
	if err != nil {
		return err
	}
	if err := p.c.advance(2); err != nil {
		return err
	}

	if idLength == 0 && idType == 0 {
		if err := p.c.advance(2); err != nil {
			return err
		}
		idType, idLength, err = p.readTypeAndLength()
		if err != nil {
			return err
		}
		if err := p.c.advance(2); err != nil {
			return err
		}
		isKwd = true
	}

	if idType&0x80 != 0 {
		if err := p.c.advance(6); err != nil {
			return err
		}
	}

	if idLength != 0 {
		raw, err := p.c.bytesAt(p.c.off, int(idLength))
		if err != nil {
			return err
		}
		decoded, err := decoder.Bytes(raw)
		if err != nil {
			// ISO-8859-1 accepts every byte value; a decode error here
			// means the ecosystem decoder regressed, not the input.
			decoded = raw
		}
		p.identifiers = append(p.identifiers, string(decoded))
		if err := p.c.advance(int(idLength)); err != nil {
			return err
		}
	}

	if !isKwd {
		return p.c.advance(4)
	}
	return nil
}

// readTypeAndLength reads the two-byte type/length pair at the cursor
// without advancing it, swapping byte order per spec.md §4.1: under
// little-endian, idType is the second byte and idLength the first; under
// big-endian the roles swap.
func (p *streamParser) readTypeAndLength() (idType, idLength byte, err error) {
	b, err := p.c.bytesAt(p.c.off, 2)
	if err != nil {
		return 0, 0, err
	}
	if p.endian == bigEndian {
		return b[0], b[1], nil
	}
	return b[1], b[0], nil
}
