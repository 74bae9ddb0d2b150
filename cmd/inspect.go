// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	imphash "github.com/saferwall/vba-imphash"
)

func prettyPrint(v interface{}) string {
	buff, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buff, "", "\t"); err != nil {
		return string(buff)
	}
	return pretty.String()
}

func loadVocabulary(path string) (*imphash.Vocabulary, error) {
	if path == "" {
		return imphash.DefaultVocabulary(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return imphash.LoadVocabulary(f)
}

func newHelper() *log.Helper {
	logger := log.NewStdLogger(os.Stderr)
	return log.NewHelper(logger)
}

func runInspect(cmd *cobra.Command, args []string) error {
	vocab, err := loadVocabulary(vocabPath)
	if err != nil {
		return fmt.Errorf("loading vocabulary: %w", err)
	}

	opts := &imphash.Options{Vocabulary: vocab, Logger: newHelper()}
	result, err := imphash.ComputeImphash(args[0], opts)
	if err != nil {
		return err
	}

	fmt.Println(prettyPrint(result))
	return nil
}
