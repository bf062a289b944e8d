package pdfextract

import (
	"fmt"
	"regexp"
	"strings"
)

const pageSeparator = "\n---\n"

var (
	reBlankLines = regexp.MustCompile(`\n{3,}`)
	reSpaces     = regexp.MustCompile(` +`)
)

// Cleaner normalises whitespace and strips boilerplate lines.
type Cleaner struct {
	boilerplate []*regexp.Regexp
}

// NewCleaner compiles the boilerplate patterns.
func NewCleaner(patterns []string) (*Cleaner, error) {
	c := &Cleaner{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile boilerplate pattern %q: %w", p, err)
		}
		c.boilerplate = append(c.boilerplate, re)
	}
	return c, nil
}

// Clean collapses blank lines and repeated spaces, then removes boilerplate.
func (c *Cleaner) Clean(md string) string {
	md = reBlankLines.ReplaceAllString(md, "\n\n")
	md = reSpaces.ReplaceAllString(md, " ")
	for _, re := range c.boilerplate {
		md = re.ReplaceAllString(md, "")
	}
	return md
}

// JoinPages joins rendered pages with a horizontal rule. Empty pages
// contribute nothing but still get their separator.
func JoinPages(pages []string) string {
	var parts []string
	for i, content := range pages {
		if content != "" {
			parts = append(parts, content)
		}
		if i < len(pages)-1 {
			parts = append(parts, pageSeparator)
		}
	}
	return strings.Join(parts, "\n")
}
