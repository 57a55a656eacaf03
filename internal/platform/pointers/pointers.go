package pointers

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// StringOrNil returns nil for the empty string.
func StringOrNil(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
