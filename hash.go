// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// HashIdentifiers partitions identifiers against vocab and derives the
// vba-imphash (spec.md §4.3). imports and others preserve input order and
// duplicates; together they hold every entry of identifiers exactly once.
func HashIdentifiers(identifiers []string, vocab *Vocabulary) (hash string, imports, others []string) {
	if len(identifiers) == 0 {
		return HashNoImphashIdentifiers, nil, nil
	}

	imports = make([]string, 0, len(identifiers))
	others = make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		if vocab.Contains(id) {
			imports = append(imports, id)
		} else {
			others = append(others, id)
		}
	}

	if len(imports) == 0 {
		return HashNoImphashIdentifiers, imports, others
	}

	sum := md5.Sum([]byte(strings.Join(imports, "-")))
	return hex.EncodeToString(sum[:]), imports, others
}
