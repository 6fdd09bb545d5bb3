// Package assets embeds the default word lists shipped with the server.
// Lines are lowercased; blanks and #-comments are skipped.
package assets

import (
	"bufio"
	"embed"
	"fmt"
	"strings"
)

//go:embed answers.txt allowed.txt
var lists embed.FS

func readLines(name string) ([]string, error) {
	f, err := lists.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open embedded %s: %w", name, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// Answers returns the embedded canonical answer list.
func Answers() ([]string, error) {
	return readLines("answers.txt")
}

// Allowed returns the embedded extra-guess list (answers not included).
func Allowed() ([]string, error) {
	return readLines("allowed.txt")
}
