package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Size scores place instance types in the customary marketplace order within
// a family: nano through large, then NxLarge by multiplier, then metal.
var instanceSizeScores = map[string]int{
	"nano":   1,
	"micro":  2,
	"small":  3,
	"medium": 4,
	"large":  5,
}

const metalBaseScore = 1000

// SortInstanceTypes orders pricing entries by family name, then by size within
// each family. The order is what pricing templates and generated rate cards
// use, so it must be stable across runs.
func SortInstanceTypes(instanceTypes []InstanceTypePricing) ([]InstanceTypePricing, error) {
	byFamily := make(map[string][]InstanceTypePricing)
	for _, it := range instanceTypes {
		family := strings.SplitN(it.Name, ".", 2)[0]
		byFamily[family] = append(byFamily[family], it)
	}

	families := make([]string, 0, len(byFamily))
	for family := range byFamily {
		families = append(families, family)
	}
	sort.Strings(families)

	sorted := make([]InstanceTypePricing, 0, len(instanceTypes))
	for _, family := range families {
		group := byFamily[family]
		var scoreErr error
		sort.SliceStable(group, func(i, j int) bool {
			si, err := instanceSizeScore(group[i].Name)
			if err != nil && scoreErr == nil {
				scoreErr = err
			}
			sj, err := instanceSizeScore(group[j].Name)
			if err != nil && scoreErr == nil {
				scoreErr = err
			}
			return si < sj
		})
		if scoreErr != nil {
			return nil, scoreErr
		}
		sorted = append(sorted, group...)
	}
	return sorted, nil
}

func instanceSizeScore(instanceType string) (int, error) {
	parts := strings.SplitN(instanceType, ".", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("instance type %q has no size suffix", instanceType)
	}
	size := parts[1]

	if strings.Contains(size, "metal") {
		score := metalBaseScore
		// metal-24xl and friends sort above plain metal by their multiplier
		rest := strings.TrimPrefix(size, "metal")
		rest = strings.TrimPrefix(rest, "-")
		rest = strings.TrimSuffix(rest, "xl")
		if rest != "" {
			n, err := strconv.Atoi(rest)
			if err != nil {
				return 0, fmt.Errorf("instance type size (%s) cannot be inferred", instanceType)
			}
			score += n
		}
		return score, nil
	}

	if strings.HasSuffix(size, "xlarge") {
		// base score for xlarge; the leading multiplier shifts larger sizes up
		score := 6
		prefix := strings.TrimSuffix(size, "xlarge")
		if prefix != "" {
			n, err := strconv.Atoi(prefix)
			if err != nil {
				return 0, fmt.Errorf("instance type size (%s) cannot be inferred", instanceType)
			}
			score += n
		}
		return score, nil
	}

	score, ok := instanceSizeScores[size]
	if !ok {
		return 0, fmt.Errorf("instance type size (%s) cannot be inferred", instanceType)
	}
	return score, nil
}
