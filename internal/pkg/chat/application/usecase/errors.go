package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/repository failure inside a use
// case. Domain validation errors pass through unwrapped.
var ErrPersistence = fmt.Errorf("chat use case persistence error")
