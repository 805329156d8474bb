// Package glob compiles the wildcard patterns used by spanweave configuration
// into anchored, case-sensitive predicates.
//
// Two pattern kinds exist:
//
//   - Path patterns select source files. "*" matches within one path segment,
//     "**" spans any number of segments, "?" matches one non-separator
//     character and a leading "**/" may match nothing at all, so "**/*.go"
//     selects both "a/b.go" and "b.go". Backslashes are treated as path
//     separators in both the pattern and the candidate.
//
//   - Name patterns select methods. "*" matches any run of characters and "?"
//     exactly one. Patterns without wildcards are compared literally.
//
// Any other character, including the bracket and brace syntax understood by
// the underlying matcher, is matched literally.
package glob
