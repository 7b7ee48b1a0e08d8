package vkframe

var end = "\x00"
var endChar byte = '\x00'

// safeString null terminates s for the C side of the bindings
func safeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

// safeStrings null terminates every entry of list in place
func safeStrings(list []string) []string {
	for i := range list {
		list[i] = safeString(list[i])
	}
	return list
}
