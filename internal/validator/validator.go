// Package validator checks a generated documentation tree for structural
// problems: pages without titles, an index that links to missing pages,
// markdown files that are empty.
package validator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// linkRe matches inline markdown links: [text](target).
var linkRe = regexp.MustCompile(`\[[^\]]*\]\(([^)]+)\)`)

// ValidateDocs validates the documentation tree rooted at dir and prints a
// short report. It returns an error describing the first problem found.
func ValidateDocs(dir string) error {
	pages, err := collectPages(dir)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no documentation pages found under %s", dir)
	}
	fmt.Printf("✓ Found %d pages\n", len(pages))

	if err := validatePages(pages); err != nil {
		return fmt.Errorf("page validation failed: %w", err)
	}
	fmt.Println("✓ Every page has a title")

	indexPath := filepath.Join(dir, "index.md")
	if _, err := os.Stat(indexPath); err != nil {
		return fmt.Errorf("index page missing: %w", err)
	}
	if err := validateLinks(indexPath); err != nil {
		return fmt.Errorf("index validation failed: %w", err)
	}
	fmt.Println("✓ Index links resolve")

	return nil
}

// collectPages returns every .md file under dir.
func collectPages(dir string) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".md" {
			pages = append(pages, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return pages, nil
}

// validatePages checks that every page is non-empty and opens with a
// level-one heading.
func validatePages(pages []string) error {
	for _, page := range pages {
		data, err := os.ReadFile(page)
		if err != nil {
			return fmt.Errorf("read %s: %w", page, err)
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			return fmt.Errorf("%s is empty", page)
		}
		if !strings.HasPrefix(content, "# ") {
			return fmt.Errorf("%s does not start with a title", page)
		}
	}
	return nil
}

// validateLinks checks that every relative link in the page resolves to an
// existing file. External links and bare anchors are skipped.
func validateLinks(page string) error {
	data, err := os.ReadFile(page)
	if err != nil {
		return fmt.Errorf("read %s: %w", page, err)
	}

	for _, m := range linkRe.FindAllStringSubmatch(string(data), -1) {
		target := m[1]
		if strings.Contains(target, "://") || strings.HasPrefix(target, "#") {
			continue
		}
		if i := strings.IndexByte(target, '#'); i >= 0 {
			target = target[:i]
		}
		if target == "" {
			continue
		}
		resolved := filepath.Join(filepath.Dir(page), filepath.FromSlash(target))
		if _, err := os.Stat(resolved); err != nil {
			return fmt.Errorf("%s links to missing page %s", page, m[1])
		}
	}
	return nil
}
