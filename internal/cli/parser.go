// Package cli implements the interactive command session of the address book.
package cli

import "strings"

// ParseInput splits a line on whitespace. The command is lowercased; arguments
// keep their case. A blank line yields an empty command and no arguments.
func ParseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
