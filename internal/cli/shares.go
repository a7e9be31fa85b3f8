package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errShareNeedsPercent = errors.New("unequal split needs NAME=PCT")

// parseShares turns repeated --share values into a share map.
//
// In equal mode a bare NAME selects that member. In unequal mode every entry
// must be NAME=PCT. Names are compared case-insensitively for duplicates; the
// server normalizes them.
func parseShares(mode string, specs []string) (map[string]float64, error) {
	shares := make(map[string]float64, len(specs))
	seen := make(map[string]string, len(specs))

	for _, spec := range specs {
		name, value, hasValue := strings.Cut(spec, "=")
		name = strings.Join(strings.Fields(name), " ")
		if name == "" {
			return nil, fmt.Errorf("share %q: missing member name", spec)
		}

		key := strings.ToLower(name)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("share %q: %s listed twice", spec, prev)
		}
		seen[key] = name

		weight := 1.0
		switch {
		case hasValue:
			v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(value), "%"), 64)
			if err != nil {
				return nil, fmt.Errorf("share %q: invalid percentage: %w", spec, err)
			}
			weight = v
		case mode == "unequal":
			return nil, fmt.Errorf("share %q: %w", spec, errShareNeedsPercent)
		}
		shares[name] = weight
	}
	return shares, nil
}
