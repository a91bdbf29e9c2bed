// Package idgen allocates short sequential identifiers such as U001 or L042.
package idgen

import (
	"errors"
	"fmt"
)

// MaxCounter is the largest counter that fits the three digit padding.
const MaxCounter = 999

// ErrIDSpaceExhausted is returned when every counter up to MaxCounter is taken
// or the starting counter is already beyond it.
var ErrIDSpaceExhausted = errors.New("identifier space exhausted")

// Format renders prefix and counter as an identifier, e.g. ("L", 4) -> "L004".
func Format(prefix string, counter int) string {
	return fmt.Sprintf("%s%03d", prefix, counter)
}

// Next returns the first free identifier for prefix, starting the counter at
// count+1 where count is the number of existing members in the category. When
// that candidate is taken it probes upward until a free one is found, so ids
// held by live records are never reissued.
func Next(prefix string, count int, taken func(id string) bool) (string, error) {
	for counter := count + 1; counter <= MaxCounter; counter++ {
		id := Format(prefix, counter)
		if !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("prefix %s: %w", prefix, ErrIDSpaceExhausted)
}
