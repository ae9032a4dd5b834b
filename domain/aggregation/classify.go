package aggregation

import (
	"strings"

	"mrportal/domain/tabular"
)

// StatusPolicy decides whether a normalized status belongs to a bucket.
type StatusPolicy interface {
	Matches(normalizedStatus string) bool
	String() string
}

type allowlistPolicy struct {
	statuses map[string]struct{}
}

// ByAllowlist matches statuses equal, after normalization, to one of the
// listed values. An empty list matches nothing.
func ByAllowlist(statuses []string) StatusPolicy {
	p := allowlistPolicy{statuses: make(map[string]struct{}, len(statuses))}
	for _, status := range statuses {
		if key := tabular.NormalizeKey(status); key != "" {
			p.statuses[key] = struct{}{}
		}
	}
	return p
}

func (p allowlistPolicy) Matches(normalizedStatus string) bool {
	_, ok := p.statuses[normalizedStatus]
	return ok
}

func (p allowlistPolicy) String() string {
	return "allowlist"
}

type substringPolicy struct {
	pattern string
}

// BySubstring matches statuses containing pattern.
func BySubstring(pattern string) StatusPolicy {
	return substringPolicy{pattern: tabular.NormalizeKey(pattern)}
}

func (p substringPolicy) Matches(normalizedStatus string) bool {
	return p.pattern != "" && strings.Contains(normalizedStatus, p.pattern)
}

func (p substringPolicy) String() string {
	return "substring:" + p.pattern
}

// DefaultCompletedPattern is the substring used when no completed allowlist is given.
const DefaultCompletedPattern = "concluído"

// Bucket is the classification of one row.
type Bucket int

const (
	BucketInProgress Bucket = iota
	BucketCompleted
	BucketCanceled
)

// Classifier files a normalized status into exactly one bucket. Completed is
// checked before Canceled.
type Classifier struct {
	Completed StatusPolicy
	Canceled  StatusPolicy
}

// NewClassifier builds a classifier from optional allowlists. With no
// completed allowlist the "concluído" substring rule applies; canceled has no
// fallback.
func NewClassifier(completed, canceled []string) Classifier {
	c := Classifier{
		Completed: BySubstring(DefaultCompletedPattern),
		Canceled:  ByAllowlist(canceled),
	}
	if len(completed) > 0 {
		c.Completed = ByAllowlist(completed)
	}
	return c
}

// Classify returns the bucket for a normalized status.
func (c Classifier) Classify(normalizedStatus string) Bucket {
	switch {
	case c.Completed != nil && c.Completed.Matches(normalizedStatus):
		return BucketCompleted
	case c.Canceled != nil && c.Canceled.Matches(normalizedStatus):
		return BucketCanceled
	default:
		return BucketInProgress
	}
}
