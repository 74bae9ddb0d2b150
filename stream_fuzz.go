// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

// Fuzz is the go-fuzz-style harness entry point for the stream parser,
// mirroring saferwall/pe's fuzz.go exactly (same name, same signature):
// the parser's whole contract is "never panic, return partial output on
// malformed input," which is exactly what a fuzzer exercises. Returns 1
// when parsing produced at least one identifier, 0 otherwise.
func Fuzz(data []byte) int {
	identifiers := ParseIdentifiers(data)
	if len(identifiers) == 0 {
		return 0
	}
	return 1
}
