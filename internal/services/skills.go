package services

import (
	"sort"
	"strings"
)

// ExtractSkills returns the sorted set of taxonomy phrases found in the
// text. Matching is case-insensitive, whole-phrase and word-boundary
// aware: "sql" does not match inside "NoSQL".
func ExtractSkills(text string, taxonomy []string) []string {
	if text == "" || len(taxonomy) == 0 {
		return []string{}
	}

	lower := strings.ToLower(text)

	found := make([]string, 0)
	for _, skill := range taxonomy {
		if containsPhrase(lower, skill) {
			found = append(found, skill)
		}
	}
	sort.Strings(found)
	return found
}

// Overlap computes the skill intersection and gap between a resume and a
// job: matching = resume ∩ job, missing = job − resume, both sorted.
func Overlap(resumeSkills, jobSkills []string) (matching, missing []string) {
	resumeSet := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		resumeSet[s] = struct{}{}
	}

	matching = make([]string, 0)
	missing = make([]string, 0)
	seen := make(map[string]struct{}, len(jobSkills))
	for _, s := range jobSkills {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := resumeSet[s]; ok {
			matching = append(matching, s)
		} else {
			missing = append(missing, s)
		}
	}
	sort.Strings(matching)
	sort.Strings(missing)
	return matching, missing
}

// containsPhrase reports whether phrase occurs in text with no adjacent
// word character on either side. Word characters are alphanumerics,
// hyphen and underscore.
func containsPhrase(text, phrase string) bool {
	for idx := 0; idx <= len(text)-len(phrase); {
		i := strings.Index(text[idx:], phrase)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(phrase)

		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
	return false
}

func isWordChar(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}
