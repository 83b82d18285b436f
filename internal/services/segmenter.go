package services

import (
	"regexp"
	"strings"
)

// HeaderSection collects all lines seen before the first recognized
// heading.
const HeaderSection = "header"

type sectionPattern struct {
	name string
	re   *regexp.Regexp
}

// sectionCatalog is ordered: when a line could match more than one pattern
// the first entry wins.
var sectionCatalog = []sectionPattern{
	{"contact", regexp.MustCompile(`(?i)^(?:contact|personal\s+information|contact\s+information|contact\s+details)$`)},
	{"summary", regexp.MustCompile(`(?i)^(?:summary|professional\s+summary|objective|profile|about\s+me|career\s+objective)$`)},
	{"experience", regexp.MustCompile(`(?i)^(?:experience|work\s+experience|professional\s+experience|employment|employment\s+history|work\s+history|career\s+history)$`)},
	{"education", regexp.MustCompile(`(?i)^(?:education|academic\s+background|educational\s+background|qualifications|academic\s+qualifications)$`)},
	{"skills", regexp.MustCompile(`(?i)^(?:skills|technical\s+skills|core\s+competencies|competencies|key\s+skills|skill\s+set|technologies|tech\s+stack)$`)},
	{"projects", regexp.MustCompile(`(?i)^(?:projects|personal\s+projects|key\s+projects|notable\s+projects|portfolio)$`)},
	{"certifications", regexp.MustCompile(`(?i)^(?:certifications?|certificates?|licenses?|accreditations?|credentials?)$`)},
	{"awards", regexp.MustCompile(`(?i)^(?:awards?|honors?|achievements?|accomplishments?|recognition)$`)},
	{"publications", regexp.MustCompile(`(?i)^(?:publications?|research|papers?|articles?)$`)},
	{"languages", regexp.MustCompile(`(?i)^(?:languages?|language\s+proficiency)$`)},
	{"interests", regexp.MustCompile(`(?i)^(?:interests?|hobbies|activities|volunteer|volunteering)$`)},
	{"references", regexp.MustCompile(`(?i)^(?:references?|referees?)$`)},
}

// Segment splits resume text into named sections by whole-line heading
// matching. A heading line switches the current section for all following
// lines; content before the first heading lands in "header". Sections with
// no content after trimming are dropped.
func Segment(text string) map[string]string {
	lines := strings.Split(text, "\n")

	accumulated := make(map[string][]string)
	current := HeaderSection

	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		matched := ""
		for _, sp := range sectionCatalog {
			if sp.re.MatchString(stripped) {
				matched = sp.name
				break
			}
		}

		if matched != "" {
			current = matched
			continue
		}
		accumulated[current] = append(accumulated[current], line)
	}

	result := make(map[string]string, len(accumulated))
	for name, sectionLines := range accumulated {
		if body := strings.TrimSpace(strings.Join(sectionLines, "\n")); body != "" {
			result[name] = body
		}
	}
	return result
}

const sectionExcerptLimit = 200

// SummarizeSections builds the per-section excerpt map stored on an
// analysis: the first 200 characters of every section except the header.
func SummarizeSections(sections map[string]string) map[string]string {
	summary := make(map[string]string, len(sections))
	for name, content := range sections {
		if name == HeaderSection {
			continue
		}
		if len(content) > sectionExcerptLimit {
			summary[name] = content[:sectionExcerptLimit] + "..."
		} else {
			summary[name] = content
		}
	}
	return summary
}
