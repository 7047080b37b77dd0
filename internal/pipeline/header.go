package pipeline

import "strconv"

// maxHeaderLevel caps the leading '#' run; extra hashes stay in the content.
const maxHeaderLevel = 6

// compileHeader converts a column-0 run of '#' into an <hN> element wrapping
// the rest of the line. Trailing hashes are kept.
func compileHeader(line string) string {
	level := 0
	for level < len(line) && level < maxHeaderLevel && line[level] == '#' {
		level++
	}
	if level == 0 {
		return line
	}

	n := strconv.Itoa(level)
	return "<h" + n + ">" + line[level:] + "</h" + n + ">"
}
