// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"slices"
	"sort"

	"github.com/danielhkuo/exam-intake/models"
)

// Aggregate derives the report view from raw counts. Absent sections read
// as zero; it never fails.
func Aggregate(raw models.RawReport) models.ReportBucket {
	males, females := max(raw.Males, 0), max(raw.Females, 0)
	total := males + females

	return models.ReportBucket{
		Males:         males,
		Females:       females,
		MalePercent:   Percent(males, total),
		FemalePercent: Percent(females, total),
		AgeGroups:     ageGroups(raw.AgeGroups),
		Positions:     rankPositions(raw.Positions),
		Total:         total,
	}
}

// Percent returns part/total as a whole percentage, rounded half up.
// A zero total gives 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}

// ageGroups lays the raw counts over the fixed bucket template. Buckets
// missing from raw are zero; labels outside the template follow in the
// order they were sent.
func ageGroups(raw models.OrderedCounts) models.OrderedCounts {
	out := make(models.OrderedCounts, 0, len(models.AgeBuckets)+len(raw))
	for _, bucket := range models.AgeBuckets {
		out = append(out, models.Count{Key: bucket, Count: raw.Get(bucket)})
	}
	for _, c := range raw {
		if !slices.Contains(models.AgeBuckets, c.Key) {
			out = append(out, c)
		}
	}
	return out
}

// rankPositions orders roles by count, highest first. Ties keep the order
// the store sent them in.
func rankPositions(raw models.OrderedCounts) models.OrderedCounts {
	out := slices.Clone(raw)
	if out == nil {
		out = models.OrderedCounts{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// AgeBucket returns the fixed bucket an age falls in, or "" when it falls
// outside every bucket.
func AgeBucket(age int) string {
	switch {
	case age >= 20 && age <= 25:
		return "20-25"
	case age >= 26 && age <= 30:
		return "26-30"
	case age >= 31 && age <= 35:
		return "31-35"
	case age >= 36 && age <= 40:
		return "36-40"
	case age >= 41 && age <= 45:
		return "41-45"
	}
	return ""
}
