package shell

import (
	"fmt"
	"strings"
)

const (
	blockStartFmt = "# >>> shipshape %s >>>"
	blockEndFmt   = "# <<< shipshape %s <<<"
)

// StartMarker returns the opening marker line for a managed section.
// Its presence is the precondition for the rc-file injection step.
func StartMarker(section string) string {
	return fmt.Sprintf(blockStartFmt, section)
}

// HasManagedBlock reports whether the content already carries the
// managed section's marker.
func HasManagedBlock(content, section string) bool {
	return strings.Contains(content, StartMarker(section))
}

// WriteManagedBlock replaces (or appends) a managed block in the content.
// If the block already exists, it is replaced. Otherwise, it is appended,
// so two runs leave exactly one occurrence of the marker.
func WriteManagedBlock(content, section, block string) string {
	start := StartMarker(section)
	end := fmt.Sprintf(blockEndFmt, section)

	if block != "" && !strings.HasSuffix(block, "\n") {
		block += "\n"
	}
	managedBlock := start + "\n" + block + end + "\n"

	startIdx := strings.Index(content, start)
	if startIdx == -1 {
		// Block doesn't exist, append it
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + "\n" + managedBlock
	}

	endIdx := strings.Index(content, end)
	if endIdx == -1 {
		// Malformed block: start exists but no end. Replace from start to EOF.
		return content[:startIdx] + managedBlock
	}

	// Replace existing block (including end marker and trailing newline)
	afterEnd := endIdx + len(end)
	if afterEnd < len(content) && content[afterEnd] == '\n' {
		afterEnd++
	}

	return content[:startIdx] + managedBlock + content[afterEnd:]
}
