// Package managed owns delimited text blocks inside foreign config files.
// A block is bounded by begin/end comment markers that embed a stable unit
// id, so the driver can replace or remove its own fragments without touching
// hand-authored content around them.
package managed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	beginPrefix = "# >>> hawk-hooks managed: "
	beginSuffix = " >>>"
	endPrefix   = "# <<< hawk-hooks managed: "
	endSuffix   = " <<<"
)

// BeginMarker returns the opening marker line for a unit id.
func BeginMarker(unitID string) string {
	return beginPrefix + unitID + beginSuffix
}

// EndMarker returns the closing marker line for a unit id.
func EndMarker(unitID string) string {
	return endPrefix + unitID + endSuffix
}

func validateUnitID(unitID string) error {
	if unitID == "" {
		return fmt.Errorf("managed unit id must not be empty")
	}
	if strings.ContainsAny(unitID, "\r\n") {
		return fmt.Errorf("managed unit id %q must not contain line breaks", unitID)
	}
	return nil
}

// Upsert replaces any prior block for unitID (regardless of its content)
// and appends a fresh block at the end of the file, creating the file and
// its parent directories if absent. Line endings are normalized to LF on
// write regardless of the file's prior convention.
func Upsert(path, unitID, payload string) error {
	if err := validateUnitID(unitID); err != nil {
		return err
	}

	var text string
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		text = string(data)
	case os.IsNotExist(err):
		text = ""
	default:
		return fmt.Errorf("reading %s: %w", path, err)
	}

	text, _ = removeBlock(text, unitID)
	text = strings.TrimRight(text, "\n")

	block := BeginMarker(unitID) + "\n" + strings.TrimRight(payload, "\n") + "\n" + EndMarker(unitID)
	if text == "" {
		text = block + "\n"
	} else {
		text = text + "\n\n" + block + "\n"
	}

	return writeAtomic(path, normalizeNewlines(text))
}

// Remove strips the block for unitID and reports whether the file content
// actually changed. Removing a unit that never existed is a no-op, as is a
// missing file.
func Remove(path, unitID string) (bool, error) {
	if err := validateUnitID(unitID); err != nil {
		return false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	text, changed := removeBlock(string(data), unitID)
	if !changed {
		return false, nil
	}
	if err := writeAtomic(path, normalizeNewlines(text)); err != nil {
		return false, err
	}
	return true, nil
}

// StripAll removes every managed block irrespective of unit id. It only
// transforms text; teardown of the file itself is the caller's business.
func StripAll(text string) string {
	lines := splitLines(text)
	var out []string
	for i := 0; i < len(lines); i++ {
		if id, ok := parseMarker(lines[i], beginPrefix, beginSuffix); ok {
			if end := findEndMarker(lines, i+1, id); end >= 0 {
				i = end
			}
			// An unterminated block drops only its marker line; the lines
			// after it cannot be told apart from hand-authored content.
			continue
		}
		out = append(out, lines[i])
	}
	return collapseJoined(out)
}

// removeBlock strips the block for unitID, including its markers, and
// reports whether anything was removed. A begin marker with no matching end
// marker is treated as unterminated: only the orphaned marker line is
// dropped, so content after a hand-edit-damaged block survives.
func removeBlock(text, unitID string) (string, bool) {
	lines := splitLines(text)
	var out []string
	removed := false
	for i := 0; i < len(lines); i++ {
		id, ok := parseMarker(lines[i], beginPrefix, beginSuffix)
		if !ok || id != unitID {
			out = append(out, lines[i])
			continue
		}
		removed = true
		if end := findEndMarker(lines, i+1, unitID); end >= 0 {
			i = end
		}
	}
	if !removed {
		return text, false
	}
	return collapseJoined(out), true
}

// findEndMarker returns the index of the end marker for unitID at or after
// from, or -1 when the block is unterminated.
func findEndMarker(lines []string, from int, unitID string) int {
	for i := from; i < len(lines); i++ {
		if id, ok := parseMarker(lines[i], endPrefix, endSuffix); ok && id == unitID {
			return i
		}
	}
	return -1
}

// parseMarker extracts the unit id from a marker line, tolerating
// surrounding whitespace.
func parseMarker(line, prefix, suffix string) (string, bool) {
	trimmed := strings.TrimSpace(normalizeLine(line))
	if !strings.HasPrefix(trimmed, prefix) || !strings.HasSuffix(trimmed, suffix) {
		return "", false
	}
	id := trimmed[len(prefix) : len(trimmed)-len(suffix)]
	if id == "" {
		return "", false
	}
	return id, true
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

// collapseJoined rejoins lines, squeezing runs of blank lines left behind
// by a removed block down to one.
func collapseJoined(lines []string) string {
	var out []string
	blank := 0
	for _, line := range lines {
		if strings.TrimSpace(normalizeLine(line)) == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	for len(out) > 0 && strings.TrimSpace(normalizeLine(out[len(out)-1])) == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

func normalizeLine(line string) string {
	return strings.TrimSuffix(line, "\r")
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// writeAtomic writes content through a temp file and rename so a crash never
// leaves a half-written config behind.
func writeAtomic(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
