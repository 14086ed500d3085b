package ai

import "errors"

// ErrMissingDependency is returned by NewDispatcher when a required collaborator is nil.
var ErrMissingDependency = errors.New("dispatcher dependency missing")
