package services

import (
	"fmt"
	"strings"
)

const (
	maxMatchingNamed = 8
	maxMissingNamed  = 5
)

// credentialKeywords trigger the certifications suggestion when they appear
// in any missing skill.
var credentialKeywords = []string{"aws", "azure", "gcp", "certified", "pmp", "scrum"}

// BuildExplanation produces the deterministic, evidence-grounded
// explanation for a match score. Template-based; no generative model.
func BuildExplanation(
	matchingSkills, missingSkills []string,
	matchScore float64,
	sections map[string]string,
) string {
	var lines []string

	switch {
	case matchScore >= 75:
		lines = append(lines, fmt.Sprintf(
			"Strong match (%.1f%%): The resume aligns well with the job description.", matchScore))
	case matchScore >= 50:
		lines = append(lines, fmt.Sprintf(
			"Moderate match (%.1f%%): The resume partially aligns with the job description.", matchScore))
	default:
		lines = append(lines, fmt.Sprintf(
			"Weak match (%.1f%%): The resume has limited alignment with the job description.", matchScore))
	}

	if len(matchingSkills) > 0 {
		lines = append(lines, "Matching skills found in resume: "+
			nameSkills(matchingSkills, maxMatchingNamed))
	} else {
		lines = append(lines, "No matching skills were identified between the resume and job description.")
	}

	if len(missingSkills) > 0 {
		lines = append(lines, "Key skills from the job description not found in resume: "+
			nameSkills(missingSkills, maxMissingNamed))
	}

	var detected []string
	for _, name := range []string{"experience", "skills", "projects"} {
		if _, ok := sections[name]; ok {
			detected = append(detected, name)
		}
	}
	if len(detected) > 0 {
		lines = append(lines, fmt.Sprintf("Relevant sections detected: %s.", strings.Join(detected, ", ")))
	}

	return strings.Join(lines, " ")
}

// nameSkills names up to limit skills, appending "(and N more)" when the
// list is truncated and a period when it is not.
func nameSkills(skills []string, limit int) string {
	if len(skills) > limit {
		return fmt.Sprintf("%s (and %d more)", strings.Join(skills[:limit], ", "), len(skills)-limit)
	}
	return strings.Join(skills, ", ") + "."
}

// BuildSuggestions emits improvement suggestions in a fixed evaluation
// order; when nothing fires, a single positive fallback is returned.
func BuildSuggestions(
	missingSkills []string,
	sections map[string]string,
	matchScore float64,
) []string {
	var suggestions []string

	if len(missingSkills) > 0 {
		top := missingSkills
		if len(top) > maxMissingNamed {
			top = top[:maxMissingNamed]
		}
		suggestions = append(suggestions, fmt.Sprintf(
			"Add or highlight these skills if you have experience with them: %s.",
			strings.Join(top, ", ")))
	}

	_, hasSummary := sections["summary"]
	_, hasHeader := sections[HeaderSection]
	if !hasSummary && hasHeader {
		suggestions = append(suggestions,
			"Consider adding a professional summary section that highlights your key qualifications.")
	}

	if _, ok := sections["projects"]; !ok && matchScore < 70 {
		suggestions = append(suggestions,
			"Adding a Projects section with relevant work can improve your match score.")
	}

	if _, ok := sections["certifications"]; !ok && mentionsCredential(missingSkills) {
		suggestions = append(suggestions,
			"Consider obtaining relevant certifications mentioned in the job description.")
	}

	if matchScore < 50 {
		suggestions = append(suggestions,
			"The overall semantic similarity is low. Review the job description carefully and "+
				"tailor your resume language to better reflect the role's requirements.")
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions,
			"Your resume is a strong match. Ensure your experience descriptions use action verbs "+
				"and quantify achievements where possible.")
	}

	return suggestions
}

func mentionsCredential(missingSkills []string) bool {
	joined := strings.ToLower(strings.Join(missingSkills, " "))
	for _, kw := range credentialKeywords {
		if strings.Contains(joined, kw) {
			return true
		}
	}
	return false
}
