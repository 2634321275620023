package storage

import (
	"fmt"
	"strings"
)

// FaultPolicy decides what write paths do with storage faults.
type FaultPolicy int

const (
	// FavorAvailability logs faults and reports a zero result.
	FavorAvailability FaultPolicy = iota
	// Strict returns faults to the caller.
	Strict
)

func (p FaultPolicy) String() string {
	switch p {
	case FavorAvailability:
		return "availability"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("FaultPolicy(%d)", int(p))
	}
}

// ParseFaultPolicy parses "availability" or "strict".
func ParseFaultPolicy(s string) (FaultPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "availability":
		return FavorAvailability, nil
	case "strict":
		return Strict, nil
	default:
		return FavorAvailability, fmt.Errorf("invalid fault policy: %s", s)
	}
}
