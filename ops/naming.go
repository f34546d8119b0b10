// ABOUTME: Collision-free name generation shared by the bulk-edit operations.
// ABOUTME: Appends the smallest positive integer suffix not present in the scope.
package ops

import "strconv"

// UniqueName derives a name from base that is not present in scope. The
// search starts at suffix 1, or at the existing numeric suffix of base plus
// one when base already ends in digits.
func UniqueName(base string, scope map[string]bool) string {
	stem, start := splitNumericSuffix(base)
	for i := start; ; i++ {
		candidate := stem + strconv.Itoa(i)
		if !scope[candidate] {
			return candidate
		}
	}
}

// splitNumericSuffix splits a trailing integer off base and returns the stem
// plus the next suffix to try.
func splitNumericSuffix(base string) (string, int) {
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	if i == len(base) {
		return base, 1
	}
	n, err := strconv.Atoi(base[i:])
	if err != nil {
		return base, 1
	}
	return base[:i], n + 1
}
