// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package imphash computes the VBA import hash (vba-imphash) of an
// Office document: a clustering fingerprint derived from the set of
// import-like identifiers a VBA project references.
//
// The package walks the undocumented _VBA_PROJECT stream found inside
// either an OLE2 compound-document container (.doc, .xls) or an OOXML
// ZIP package (.docx, .xlsm), reconstructs the project's identifier
// table, and hashes the subset of identifiers that match a bundled
// import vocabulary.
package imphash
