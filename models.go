package contactbook

import "strconv"

// Contact is a single named entry in the contact book.
// Name is the unique key within a repository.
type Contact struct {
	Name    string `json:"name" yaml:"name"`
	PhoneNo uint64 `json:"phone_no" yaml:"phone_no"`
	Email   string `json:"email" yaml:"email"`
}

// Clone returns an independent copy of the contact
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// PhoneString returns the phone number as its decimal digit string
func (c *Contact) PhoneString() string {
	return strconv.FormatUint(c.PhoneNo, 10)
}
