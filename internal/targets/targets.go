// Package targets loads the group list and the broadcast message.
package targets

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// LoadGroups reads a newline-delimited list of group references.
// Lines are trimmed; blank lines stay in the result as "" so that the
// sequence mirrors the file line by line.
func LoadGroups(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read groups: %w", err)
	}
	return ParseGroups(data)
}

// ParseGroups splits raw file content into trimmed group entries.
func ParseGroups(data []byte) ([]string, error) {
	var groups []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		groups = append(groups, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse groups: %w", err)
	}
	return groups, nil
}

// LoadMessage reads the broadcast message verbatim.
func LoadMessage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read message: %w", err)
	}
	return string(data), nil
}

// Count returns the number of non-blank entries.
func Count(groups []string) int {
	n := 0
	for _, g := range groups {
		if g != "" {
			n++
		}
	}
	return n
}
