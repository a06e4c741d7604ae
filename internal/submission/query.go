package submission

import (
	"sort"
	"strings"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

// Sort keys accepted by Query.
const (
	SortSubmittedAt  = "submittedAt"
	SortProjectTitle = "projectTitle"
	SortName         = "name"
	SortStatus       = "status"
)

// Query narrows and orders a listing. The zero value lists everything,
// newest first.
type Query struct {
	Search string
	Sort   string
	// Order is "asc" or "desc"; anything else means "desc".
	Order string
}

// Apply filters and sorts subs in place and returns the filtered slice.
func (q Query) Apply(subs []model.Submission) []model.Submission {
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		filtered := subs[:0]
		for _, s := range subs {
			if matches(s, term) {
				filtered = append(filtered, s)
			}
		}
		subs = filtered
	}
	less := lessFunc(q.Sort)
	desc := !strings.EqualFold(q.Order, "asc")
	sort.SliceStable(subs, func(i, j int) bool {
		if desc {
			return less(subs[j], subs[i])
		}
		return less(subs[i], subs[j])
	})
	return subs
}

func matches(s model.Submission, term string) bool {
	for _, field := range []string{s.ProjectTitle, s.Name, s.Email, string(s.Status)} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func lessFunc(key string) func(a, b model.Submission) bool {
	switch key {
	case SortProjectTitle:
		return func(a, b model.Submission) bool {
			return strings.ToLower(a.ProjectTitle) < strings.ToLower(b.ProjectTitle)
		}
	case SortName:
		return func(a, b model.Submission) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortStatus:
		return func(a, b model.Submission) bool {
			return a.Status < b.Status
		}
	default:
		return func(a, b model.Submission) bool {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
	}
}
