package store

import (
	"fmt"
	"strings"
)

// DynamoDB schema constants. Changing any of these is a breaking format change.
const (
	// Table attributes
	AttrPK      = "PK"
	AttrPhoneNo = "phone_no"
	AttrEmail   = "email"

	// Namespace prefix of every contact key
	ContactKeyPrefix = "contacts:"
)

// Contact keys: PK=contacts:{name}
func contactKey(name string) string {
	return fmt.Sprintf("%s%s", ContactKeyPrefix, name)
}

// nameFromKey strips the namespace prefix. ok is false for keys outside the namespace.
func nameFromKey(key string) (string, bool) {
	return strings.CutPrefix(key, ContactKeyPrefix)
}
