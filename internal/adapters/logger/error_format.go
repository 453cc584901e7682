package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the
// chain, such as *zerr.Error.
type messager interface {
	Message() string
}

// metadataer describes an error carrying structured metadata.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the error chain outermost first. Joined errors
// are flattened in order. Metadata of layers without a message is carried
// to the next entry.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var carried map[string]any

	var walk func(error)
	walk = func(current error) {
		for current != nil {
			if joined, ok := current.(interface{ Unwrap() []error }); ok {
				for _, e := range joined.Unwrap() {
					walk(e)
				}
				return
			}

			m, ok := current.(messager)
			if !ok {
				// Standard error: its message already includes the rest of the chain.
				entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: carried})
				carried = nil
				return
			}

			var metadata map[string]any
			if md, ok := current.(metadataer); ok {
				metadata = md.Metadata()
			}

			if m.Message() == "" {
				if len(metadata) > 0 {
					if carried == nil {
						carried = make(map[string]any, len(metadata))
					}
					maps.Copy(carried, metadata)
				}
				current = errors.Unwrap(current)
				continue
			}

			if len(carried) > 0 {
				if metadata == nil {
					metadata = make(map[string]any, len(carried))
				}
				maps.Copy(metadata, carried)
				carried = nil
			}
			entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: metadata})
			current = errors.Unwrap(current)
		}
	}
	walk(err)

	return entries
}

// formatErrorEntries renders entries as
//
//	Error: <outer>
//	       key: value
//
//	  Caused by:
//	    → <cause>
//	      key: value
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")
		var head, indent string
		if i == 0 {
			head, indent = "Error: ", "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			head, indent = "    → ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
