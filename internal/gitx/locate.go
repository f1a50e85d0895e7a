package gitx

import (
	"context"
	"time"
)

const probeTimeout = 5 * time.Second

// candidatePaths is probed in order. PATH lookup first, then the usual
// Windows install locations, matching where users actually end up with
// git after a default installer run.
var candidatePaths = []string{
	"git",
	`C:\Program Files\Git\bin\git.exe`,
	`C:\Program Files\Git\cmd\git.exe`,
	`C:\Program Files (x86)\Git\bin\git.exe`,
	`C:\Program Files (x86)\Git\cmd\git.exe`,
	`C:\Git\bin\git.exe`,
	`C:\Git\cmd\git.exe`,
}

// For substitution in tests
var probeRunner Runner = execRunner{}

// LocateExecutable finds a working git binary. The first candidate that
// answers `git --version` wins; when none do, ErrExecutableNotFound.
func LocateExecutable() (string, error) {
	for _, candidate := range candidatePaths {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		_, err := probeRunner.Run(ctx, "", candidate, "--version")
		cancel()
		if err == nil {
			return candidate, nil
		}
	}
	return "", ErrExecutableNotFound
}
