// SPDX-License-Identifier: MPL-2.0

// Package todos scans Go source for unfinished-work markers ahead of a
// release: TODO and FIXME in comments, placeholder "TBD" string
// literals, and any configured banned tokens. Files are parsed with
// tree-sitter so markers inside ordinary string data are not mistaken
// for comments.
package todos

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	ignore "github.com/sabhiram/go-gitignore"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// todoTokens are flagged when they appear in a comment.
var todoTokens = []string{"TODO", "FIXME"}

// placeholderLiteral is flagged when a string literal holds exactly
// this content.
const placeholderLiteral = "TBD"

// Finding is one unfinished-work marker.
type Finding struct {
	// File is the path relative to the scanned root.
	File string
	// Line is 1-based.
	Line int
	// Text is the trimmed offending line.
	Text string
}

// String renders the finding as file:line: text.
func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s", f.File, f.Line, f.Text)
}

// Scanner walks a module directory for release-blocking markers.
type Scanner struct {
	// Banned lists extra tokens flagged on any source line.
	Banned []string
	// Logger, when set, logs scan progress at debug level.
	Logger *log.Logger

	parser *sitter.Parser
}

// NewScanner creates a scanner with the given extra banned tokens.
func NewScanner(banned []string, logger *log.Logger) *Scanner {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	return &Scanner{
		Banned: banned,
		Logger: logger,
		parser: parser,
	}
}

// Scan walks root and returns every finding in Go source files, sorted
// by file then line. Vendored code, testdata fixtures, hidden
// directories, and paths ignored by the root's .gitignore are skipped.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Finding, error) {
	matcher := loadGitignore(root)

	var findings []Finding
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			name := d.Name()
			if name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if matcher != nil && matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".go") {
			return nil
		}
		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}

		fileFindings, scanErr := s.scanFile(ctx, path, rel)
		if scanErr != nil {
			return scanErr
		}
		findings = append(findings, fileFindings...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		return findings[i].Line < findings[j].Line
	})

	if s.Logger != nil {
		s.Logger.Debug("todo scan finished", "root", root, "findings", len(findings))
	}

	return findings, nil
}

// scanFile collects findings for a single source file. Lines are
// deduplicated: a banned token inside a flagged comment reports once.
func (s *Scanner) scanFile(ctx context.Context, path, rel string) ([]Finding, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}

	lines := strings.Split(string(src), "\n")
	seen := make(map[int]bool)
	var findings []Finding

	record := func(line int) {
		if line < 1 || line > len(lines) || seen[line] {
			return
		}
		seen[line] = true
		findings = append(findings, Finding{
			File: rel,
			Line: line,
			Text: strings.TrimSpace(lines[line-1]),
		})
	}

	tree, err := s.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rel, err)
	}
	defer tree.Close()

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "comment":
			content := n.Content(src)
			startRow := int(n.StartPoint().Row)
			for i, commentLine := range strings.Split(content, "\n") {
				for _, token := range todoTokens {
					if strings.Contains(commentLine, token) {
						record(startRow + i + 1)
						break
					}
				}
			}
		case "interpreted_string_literal", "raw_string_literal":
			content := n.Content(src)
			if len(content) >= 2 && content[1:len(content)-1] == placeholderLiteral {
				record(int(n.StartPoint().Row) + 1)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())

	for i, line := range lines {
		for _, token := range s.Banned {
			if token != "" && strings.Contains(line, token) {
				record(i + 1)
				break
			}
		}
	}

	sort.Slice(findings, func(i, j int) bool { return findings[i].Line < findings[j].Line })
	return findings, nil
}

// loadGitignore compiles the root's .gitignore, or returns nil when the
// file is absent or unreadable.
func loadGitignore(root string) *ignore.GitIgnore {
	matcher, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return matcher
}
