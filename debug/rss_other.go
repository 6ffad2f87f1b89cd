//go:build !windows

package debug

import "errors"

var errNoRSS = errors.New("resident size is only queried on windows")

func residentBytes() (uint64, error) { return 0, errNoRSS }
