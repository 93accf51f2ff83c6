package utils

// ToStringSlice keeps the string elements of a decoded JSON array. Anything
// that is not a []any yields nil.
func ToStringSlice(v any) []string {
	slice, ok := v.([]any)
	if !ok {
		return nil
	}
	stringSlice := make([]string, 0, len(slice))
	for _, item := range slice {
		if s, ok := item.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}
