package gitx

import "errors"

var (
	// ErrNotARepository is returned when no enclosing git repository can be
	// found for the working directory.
	ErrNotARepository = errors.New("not a git repository")

	// ErrRemoteExists is returned when creating a remote whose name is
	// already taken.
	ErrRemoteExists = errors.New("remote already exists")
)
