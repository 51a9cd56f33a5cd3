package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`experience:?\s*(\d+)[\+]?\s*(?:years|yrs|year)`),
	regexp.MustCompile(`(\d+)[\+]?\s*(?:years|yrs|year)(?:\s*of)?\s*(?:experience|exp|expertise)`),
	regexp.MustCompile(`(?:experience|exp|expertise)(?:\s*of)?\s*(\d+)[\+]?\s*(?:years|yrs|year)`),
	regexp.MustCompile(`(\d+)[\+]?[-]?(?:year|yr)(?:s)?(?:\s*of)?\s*(?:experience|exp)`),
	regexp.MustCompile(`(?:with|having)\s*(\d+)[\+]?\s*(?:years|yrs|year)(?:\s*of)?\s*(?:experience|exp)`),
	regexp.MustCompile(`(?:worked|working)(?:\s*for)?\s*(\d+)[\+]?\s*(?:years|yrs|year)`),
}

// Years returns the largest number of years stated in any experience phrase
// of text, or 0 when there is none.
func Years(text string) int {
	lower := strings.ToLower(text)

	best := 0
	for _, pattern := range experiencePatterns {
		for _, m := range pattern.FindAllStringSubmatch(lower, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if n > best {
				best = n
			}
		}
	}

	return best
}
