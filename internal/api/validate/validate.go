package validate

import (
	"fmt"
	"regexp"
)

// userIDRx matches federated network identifiers: hex addresses, handles
// and test fixtures alike.
var userIDRx = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

const (
	maxSetValues  = 50
	maxValueBytes = 100
	maxLabelBytes = 50
)

// UserID validates a user identifier from a path segment or payload field.
func UserID(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	if !userIDRx.MatchString(v) {
		return fmt.Errorf("%s must match %s", field, userIDRx.String())
	}
	return nil
}

// StringSet caps a persona attribute list: at most 50 values, each 1-100
// bytes. The profiling pipeline should never exceed this; free-form clients
// might.
func StringSet(field string, vals []string) error {
	if len(vals) > maxSetValues {
		return fmt.Errorf("%s exceeds %d values", field, maxSetValues)
	}
	for _, v := range vals {
		if v == "" {
			return fmt.Errorf("%s contains an empty value", field)
		}
		if len(v) > maxValueBytes {
			return fmt.Errorf("%s value exceeds %d bytes", field, maxValueBytes)
		}
	}
	return nil
}

// Label caps a single-valued persona attribute such as expertise level.
func Label(field, v string) error {
	if len(v) > maxLabelBytes {
		return fmt.Errorf("%s exceeds %d bytes", field, maxLabelBytes)
	}
	return nil
}
