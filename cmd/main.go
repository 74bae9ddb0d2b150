// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	vocabPath string
	workers   int
	cfgPath   string
	verbose   bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "vba-imphash",
		Short: "Computes the deterministic VBA import-hash of Office documents",
		Long:  "A VBA macro import-hash clustering tool built for malware triage by Saferwall",
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Long:  "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("You are using version 0.0.1")
		},
	}

	var inspectCmd = &cobra.Command{
		Use:   "inspect <file>",
		Short: "Computes the import hash of a single Office document",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	var clusterCmd = &cobra.Command{
		Use:   "cluster <directory>",
		Short: "Computes import hashes for every file under a directory and groups them",
		Args:  cobra.ExactArgs(1),
		RunE:  runCluster,
	}

	var materializeCmd = &cobra.Command{
		Use:   "materialize <clusters.json> <output-dir>",
		Short: "Copies every clustered file into a numbered, hash-named subdirectory",
		Args:  cobra.ExactArgs(2),
		RunE:  runMaterialize,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&vocabPath, "vocab", "", "path to a JSON vocabulary file (defaults to the embedded vocabulary)")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to an optional TOML configuration file")

	clusterCmd.Flags().IntVar(&workers, "workers", 4, "number of concurrent worker goroutines")

	rootCmd.AddCommand(versionCmd, inspectCmd, clusterCmd, materializeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
