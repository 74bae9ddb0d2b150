// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

// runMaterialize reads a vba_imphash_clusters.json report (hash -> paths)
// and copies each cluster's files into "<count:05d>_<hash>/" under the
// output directory, so the cluster sizes are visible straight from a
// directory listing.
func runMaterialize(cmd *cobra.Command, args []string) error {
	clustersPath, outDir := args[0], args[1]

	blob, err := os.ReadFile(clustersPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", clustersPath, err)
	}

	var clusters map[string][]string
	if err := json.Unmarshal(blob, &clusters); err != nil {
		return fmt.Errorf("decoding %s: %w", clustersPath, err)
	}

	hashes := make([]string, 0, len(clusters))
	for hash := range clusters {
		hashes = append(hashes, hash)
	}
	sort.Slice(hashes, func(i, j int) bool {
		return len(clusters[hashes[i]]) > len(clusters[hashes[j]])
	})

	for _, hash := range hashes {
		paths := clusters[hash]
		dirName := fmt.Sprintf("%05d_%s", len(paths), hash)
		destDir := filepath.Join(outDir, dirName)
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", destDir, err)
		}
		for _, src := range paths {
			if err := copyFile(src, filepath.Join(destDir, filepath.Base(src))); err != nil {
				return fmt.Errorf("copying %s: %w", src, err)
			}
		}
	}

	fmt.Printf("materialized %d clusters into %s\n", len(hashes), outDir)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
