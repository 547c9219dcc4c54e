package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fortuna/courtside/internal/store"
)

var (
	// ErrAmbiguousPlayer is matched by AmbiguousPlayerError.
	ErrAmbiguousPlayer = errors.New("ambiguous player name")

	// ErrInvalidInput marks caller mistakes such as a malformed season.
	ErrInvalidInput = errors.New("invalid input")
)

// AmbiguousPlayerError lists the players matching a name query. The caller
// picks one and retries by ID.
type AmbiguousPlayerError struct {
	Query      string
	Candidates []*store.Player
}

func (e *AmbiguousPlayerError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, p := range e.Candidates {
		names = append(names, p.FullName)
	}
	return fmt.Sprintf("%q matches %d players: %s", e.Query, len(e.Candidates), strings.Join(names, ", "))
}

func (e *AmbiguousPlayerError) Is(target error) bool {
	return target == ErrAmbiguousPlayer
}
