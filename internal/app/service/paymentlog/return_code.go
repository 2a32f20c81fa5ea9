package paymentlog

import "strings"

// ReturnCode encodes the member id into the custom field a payment portal
// echoes back, prefixed with the site key.
type ReturnCode struct {
	key string
}

func NewReturnCode(key string) ReturnCode { return ReturnCode{key: key} }

func (r ReturnCode) Encode(memberID string) string {
	return r.key + memberID
}

// Decode returns the member id carried by custom. Without the key the whole
// value is taken as the id.
func (r ReturnCode) Decode(custom string) (string, error) {
	custom = strings.TrimSpace(custom)
	if r.key != "" && strings.Contains(custom, r.key) {
		custom = strings.Replace(custom, r.key, "", 1)
	}
	if custom == "" {
		return "", ErrInvalidReturnCode
	}
	return custom, nil
}
