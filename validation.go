package contactbook

import (
	"regexp"
	"strconv"
	"sync"
)

// Fixed acceptance grammars. The email pattern anchors only the start of the
// string and the phone pattern is unanchored, so both accept trailing input.
const (
	EmailPattern   = `^([a-z0-9_+]([a-z0-9_+.]*[a-z0-9_+])?)@([a-z0-9]+([\-\.]{1}[a-z0-9]+)*\.[a-z]{2,6})`
	PhoneNoPattern = `49[0-9]{9,10}`
)

var (
	emailRegexp   = sync.OnceValue(func() *regexp.Regexp { return regexp.MustCompile(EmailPattern) })
	phoneNoRegexp = sync.OnceValue(func() *regexp.Regexp { return regexp.MustCompile(PhoneNoPattern) })
)

// ValidName returns name unchanged, or ErrEmptyName for the empty string
func ValidName(name string) (string, error) {
	if name == "" {
		return "", NewContactError(ErrCodeEmptyName, "name cannot be empty")
	}
	return name, nil
}

// ValidEmail returns email unchanged if it matches EmailPattern.
// Matching is case-sensitive; callers lowercase first if they want otherwise.
func ValidEmail(email string) (string, error) {
	if !emailRegexp().MatchString(email) {
		return "", NewContactError(ErrCodeInvalidEmail, "email is not valid").WithKey(email)
	}
	return email, nil
}

// ValidPhone checks raw against PhoneNoPattern and parses the whole string as
// an unsigned 64-bit integer.
func ValidPhone(raw string) (uint64, error) {
	if !phoneNoRegexp().MatchString(raw) {
		return 0, NewContactError(ErrCodeInvalidPhone, "phone no is not valid").WithKey(raw)
	}

	phoneNo, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, NewContactError(ErrCodeNotANumber, "phone no is not a u64 value").WithKey(raw).WithCause(err)
	}

	return phoneNo, nil
}

// ValidContact runs all three validators and builds the contact on success.
// The phone check runs before the email check, so a malformed phone number is
// reported whatever the email looks like.
func ValidContact(name, phoneRaw, email string) (*Contact, error) {
	name, err := ValidName(name)
	if err != nil {
		return nil, err
	}
	phoneNo, err := ValidPhone(phoneRaw)
	if err != nil {
		return nil, err
	}
	email, err = ValidEmail(email)
	if err != nil {
		return nil, err
	}

	return &Contact{Name: name, PhoneNo: phoneNo, Email: email}, nil
}
