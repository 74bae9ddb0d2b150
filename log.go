// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package imphash

import (
	"os"

	"github.com/go-kratos/kratos/v2/log"
)

// newDefaultLogger builds the package-default, error-level-filtered
// logger helper used when a caller does not supply its own. This mirrors
// saferwall/pe's File.New, which wires the same Logger/Helper/Filter
// combination around os.Stdout when Options.Logger is nil.
func newDefaultLogger() *log.Helper {
	logger := log.NewStdLogger(os.Stdout)
	return log.NewHelper(log.NewFilter(logger, log.FilterLevel(log.LevelError)))
}

// helperOrDefault returns h if non-nil, otherwise a fresh default helper.
func helperOrDefault(h *log.Helper) *log.Helper {
	if h != nil {
		return h
	}
	return newDefaultLogger()
}
