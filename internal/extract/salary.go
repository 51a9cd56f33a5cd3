package extract

import (
	"regexp"
	"strings"
)

// NoSalary is returned by Salary when no amount is found.
const NoSalary = "No salary mentioned"

var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:\$|€|£|¥|USD|EUR|GBP|JPY|CAD|AUD|CHF|CNY|Rs\.?|INR|₹|₽|₩|₱|₴|₪|฿|₫|₢|₮|₸|₦|₲|₡|₵|₺|₼|₾|₷|₠|₧|R\$|zł|kr|руб\.?|лв|RON|KD|QAR|SAR|AED)\s*(?:\d{1,3}(?:,\d{3})*(?:\.\d+)?|\d+(?:\.\d+)?)\s*(?:k|K|M|thousand|million|billion)?\s*(?:-|to|–|~|\s+to\s+)?\s*(?:(?:\$|€|£|¥|USD|EUR|GBP|JPY|CAD|AUD|CHF|CNY|Rs\.?|INR|₹|₽|₩|₱|₴|₪|฿|₫|₢|₮|₸|₦|₲|₡|₵|₺|₼|₾|₷|₠|₧|R\$|zł|kr|руб\.?|лв|RON|KD|QAR|SAR|AED)\s*)?(?:\d{1,3}(?:,\d{3})*(?:\.\d+)?|\d+(?:\.\d+)?)\s*(?:k|K|M|thousand|million|billion)?(?:\s*(?:per|/)\s*(?:year|yr|month|mo|week|wk|hour|hr|annum|pa|p\.a\.))?`),
	regexp.MustCompile(`(?i)(?:salary|pay|compensation|wage|earnings|remuneration|stipend)?\s*:?\s*(?:\$|€|£|¥|USD|EUR|GBP|JPY|CAD|AUD|CHF|CNY|Rs\.?|INR|₹|₽|₩|₱|₴|₪|฿|₫|₢|₮|₸|₦|₲|₡|₵|₺|₼|₾|₷|₠|₧|R\$|zł|kr|руб\.?|лв|RON|KD|QAR|SAR|AED)\s*(?:\d{1,3}(?:,\d{3})*(?:\.\d+)?|\d+(?:\.\d+)?)\s*(?:k|K|M|thousand|million|billion)?\s*(?:-|to|–|~|\s+to\s+)?\s*(?:(?:\$|€|£|¥|USD|EUR|GBP|JPY|CAD|AUD|CHF|CNY|Rs\.?|INR|₹|₽|₩|₱|₴|₪|฿|₫|₢|₮|₸|₦|₲|₡|₵|₺|₼|₾|₷|₠|₧|R\$|zł|kr|руб\.?|лв|RON|KD|QAR|SAR|AED)\s*)?(?:\d{1,3}(?:,\d{3})*(?:\.\d+)?|\d+(?:\.\d+)?)\s*(?:k|K|M|thousand|million|billion)?(?:\s*(?:per|/)\s*(?:year|yr|month|mo|week|wk|hour|hr|annum|pa|p\.a\.))?`),
	regexp.MustCompile(`(?:[\$€£¥₹₽₩₱₴₪฿₫₢₮₸₦₲₡₵₺₼₾₷₠₧R]|\b(?:USD|EUR|GBP|JPY|CAD|AUD|CHF|CNY|INR|Rs))\s*\d[\d,\.]*(?:\s*[-–]\s*(?:[\$€£¥₹₽₩₱₴₪฿₫₢₮₸₦₲₡₵₺₼₾₷₠₧R]|\b(?:USD|EUR|GBP|JPY|CAD|AUD|CHF|CNY|INR|Rs))?\s*\d[\d,\.]*)?`),
}

// Salary returns the first salary phrase found in text as written, or
// NoSalary. Amounts are not converted or normalized.
func Salary(text string) string {
	for _, pattern := range salaryPatterns {
		if m := strings.TrimSpace(pattern.FindString(text)); m != "" {
			return m
		}
	}
	return NoSalary
}
