package resume

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/verte-zerg/tuiview/internal/model"
)

var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`(\+\d{1,3}\s?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}|\d{10}`)
	properName      = regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+){1,3}$`)
	upperName       = regexp.MustCompile(`^[A-Z]+(\s+[A-Z]+){1,3}$`)
	nonDigit        = regexp.MustCompile(`\D`)
	emailValidation = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// nameScanLines bounds how far into the document a name is looked for.
const nameScanLines = 5

// MinPhoneDigits is the shortest accepted phone number.
const MinPhoneDigits = 10

// MissingFieldsError lists contact fields that are empty or invalid.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// ParseContact pulls a name, email and phone number out of resume text.
// Fields that cannot be found are left empty.
func ParseContact(text string) model.CandidateInfo {
	return model.CandidateInfo{
		Name:  findName(text),
		Email: emailPattern.FindString(text),
		Phone: NormalizePhone(phonePattern.FindString(text)),
	}
}

// NormalizePhone strips formatting and a leading US country code.
func NormalizePhone(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		return digits[1:]
	}
	if len(digits) < MinPhoneDigits {
		return ""
	}
	return digits
}

// FormatPhone renders a ten digit number as (555) 123-4567.
func FormatPhone(phone string) string {
	if len(phone) != 10 || nonDigit.MatchString(phone) {
		return phone
	}
	return fmt.Sprintf("(%s) %s-%s", phone[:3], phone[3:6], phone[6:])
}

// Validate reports every missing or malformed field at once.
func Validate(info model.CandidateInfo) error {
	var fields []string
	if strings.TrimSpace(info.Name) == "" {
		fields = append(fields, "name")
	}
	if !emailValidation.MatchString(strings.TrimSpace(info.Email)) {
		fields = append(fields, "email")
	}
	if len(nonDigit.ReplaceAllString(info.Phone, "")) < MinPhoneDigits {
		fields = append(fields, "phone")
	}
	if len(fields) > 0 {
		return &MissingFieldsError{Fields: fields}
	}
	return nil
}

// Clean trims fields and reduces the phone number to digits.
func Clean(info model.CandidateInfo) model.CandidateInfo {
	return model.CandidateInfo{
		Name:  strings.Join(strings.Fields(info.Name), " "),
		Email: strings.TrimSpace(info.Email),
		Phone: nonDigit.ReplaceAllString(info.Phone, ""),
	}
}

func findName(text string) string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > nameScanLines {
			break
		}
		if skipNameLine(line) {
			continue
		}
		line = strings.Join(strings.Fields(line), " ")
		if properName.MatchString(line) || upperName.MatchString(line) {
			return line
		}
	}
	return ""
}

func skipNameLine(line string) bool {
	if len(line) > 50 || strings.Contains(line, "@") {
		return true
	}
	lower := strings.ToLower(line)
	if strings.Contains(lower, "http") || strings.Contains(lower, "www") {
		return true
	}
	return line[0] >= '0' && line[0] <= '9'
}
