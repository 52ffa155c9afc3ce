// Package braille shells out to an external braille translator
// (liblouis' lou_translate) to contract text runs.
package braille

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Translator invokes an external translation process per text fragment.
type Translator struct {
	// Command is the translator binary, lou_translate by default.
	Command string
	// Table is the translation table passed as the first argument
	// (en-ueb-g2.ctb for contracted Unified English Braille).
	Table string
}

// New returns a Translator with the standard command and table.
func New() *Translator {
	return &Translator{Command: "lou_translate", Table: "en-ueb-g2.ctb"}
}

// skipTokens are list markers and enumerators the translator mangles;
// they pass through unchanged.
var skipTokens = map[string]bool{
	"▪": true, "A.": true, "B.": true, "C.": true, "D.": true, "E.": true,
}

// Translate contracts text by piping it through the translator's stdin.
// Empty and non-translatable fragments are returned as-is without spawning
// a process. A non-zero exit is an error carrying the captured stderr.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || skipTokens[trimmed] {
		return text, nil
	}

	var args []string
	if t.Table != "" {
		args = append(args, t.Table)
	}
	cmd := exec.CommandContext(ctx, t.Command, args...)
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", t.Command, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
