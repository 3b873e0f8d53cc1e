package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Rules maps word length to the number of attempts allowed.
type Rules map[int]int

// DefaultRules is the classic table: five letters get six tries, six get seven.
func DefaultRules() Rules { return Rules{5: 6, 6: 7} }

// Attempts returns the attempts for length; unlisted lengths get length+1.
func (r Rules) Attempts(length int) int {
	if n, ok := r[length]; ok && n > 0 {
		return n
	}
	return length + 1
}

// Lengths lists the configured word lengths in ascending order.
func (r Rules) Lengths() []int {
	out := make([]int, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// ParseRules parses "5:6,6:7" into a Rules table.
func ParseRules(s string) (Rules, error) {
	r := Rules{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("rules: %q: want length:attempts", part)
		}
		length, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || length <= 0 {
			return nil, fmt.Errorf("rules: %q: bad length", part)
		}
		attempts, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || attempts <= 0 {
			return nil, fmt.Errorf("rules: %q: bad attempts", part)
		}
		r[length] = attempts
	}
	return r, nil
}
