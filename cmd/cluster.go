// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	imphash "github.com/saferwall/vba-imphash"
)

// clusterResult pairs a file's path with the Result produced by
// ComputeImphash. runCluster does not use it: the cluster report maps each
// hash to its file paths.
type clusterResult struct {
	Path string `json:"path"`
	imphash.Result
}

// identifierCount is one entry of the per-identifier occurrence report,
// the Go counterpart of original_source/vba_imphash.py's
// dict_imphash_identifiers/dict_non_imphash_identifiers: how many times
// an identifier was seen across the whole corpus, not just whether it
// was seen.
type identifierCount struct {
	Identifier string `json:"identifier"`
	Count      int    `json:"count"`
}

// clusterState accumulates results from the worker pool under a single
// mutex, mirroring the channel+WaitGroup shape of saferwall/pe's
// cmd/dump.go loopFilesWorker, generalized from a fixed job queue over
// directories to one over individual file paths.
type clusterState struct {
	mu                sync.Mutex
	byHash            map[string][]string
	importIdentifiers map[string]int
	otherIdentifiers  map[string]int
}

func newClusterState() *clusterState {
	return &clusterState{
		byHash:            make(map[string][]string),
		importIdentifiers: make(map[string]int),
		otherIdentifiers:  make(map[string]int),
	}
}

func (s *clusterState) record(path string, result imphash.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byHash[result.Hash] = append(s.byHash[result.Hash], path)
	for _, id := range result.Imports {
		s.importIdentifiers[id]++
	}
	for _, id := range result.Others {
		s.otherIdentifiers[id]++
	}
}

// sortedByCount turns an identifier->count map into an ascending-by-count
// slice, mirroring _save_dict_identifiers_to_disk's
// `sorted(dict_identifiers.items(), key=lambda item: item[1])`: rarest
// identifiers first. A plain map would lose this ordering once
// encoding/json re-sorts its keys alphabetically, so the report is an
// ordered array of {identifier, count} objects instead of a JSON object.
func sortedByCount(m map[string]int) []identifierCount {
	counts := make([]identifierCount, 0, len(m))
	for id, n := range m {
		counts = append(counts, identifierCount{Identifier: id, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count < counts[j].Count
		}
		return counts[i].Identifier < counts[j].Identifier
	})
	return counts
}

func runCluster(cmd *cobra.Command, args []string) error {
	root := args[0]

	fileCfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if fileCfg.Workers > 0 {
		workers = fileCfg.Workers
	}
	effectiveVocabPath := vocabPath
	if effectiveVocabPath == "" {
		effectiveVocabPath = fileCfg.Vocabulary
	}

	vocab, err := loadVocabulary(effectiveVocabPath)
	if err != nil {
		return fmt.Errorf("loading vocabulary: %w", err)
	}
	logger := newHelper()

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}

	state := newClusterState()
	jobs := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				opts := &imphash.Options{Vocabulary: vocab, Logger: logger}
				result, err := imphash.ComputeImphash(path, opts)
				if err != nil {
					logger.Errorf("imphash: %s: %v", path, err)
					continue
				}
				state.record(path, result)
			}
		}()
	}

	for _, f := range files {
		jobs <- f
	}
	close(jobs)
	wg.Wait()

	if err := writeJSON("vba_imphash_clusters.json", state.byHash); err != nil {
		return err
	}
	if err := writeJSON("imphash_identifiers.json", sortedByCount(state.importIdentifiers)); err != nil {
		return err
	}
	if err := writeJSON("non_imphash_identifiers.json", sortedByCount(state.otherIdentifiers)); err != nil {
		return err
	}

	fmt.Printf("processed %d files into %d clusters\n", len(files), len(state.byHash))
	return nil
}

func writeJSON(path string, v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
