// Package frontmatter reads and writes the YAML header of vault notes.
//
// The header has a handful of fields the pipeline itself writes (created,
// original_filename, duration, ...) and an open set of keys filled later by
// enrichment. Unknown keys are kept as parsed YAML nodes, so a rewrite only
// changes the values that were actually set.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keys written by the pipeline.
const (
	KeyCreated           = "created"
	KeyOriginalFilename  = "original_filename"
	KeyDuration          = "duration"
	KeyError             = "error"
	KeyProcessedFilename = "processed_filename"
	KeyProcessor         = "processor"
	KeyPages             = "pages"
)

// Keys filled by enrichment.
const (
	KeyGroup   = "группа"
	KeyProject = "проект"
	KeyClient  = "клиент"
	KeyPurpose = "событие/назначение"
)

var (
	// ErrNoFrontmatter means the content does not start with a --- block.
	ErrNoFrontmatter = errors.New("frontmatter: not found")
	// ErrMalformed means a --- block exists but is not a YAML mapping.
	ErrMalformed = errors.New("frontmatter: malformed")
)

const delimiter = "---"

// Frontmatter is a parsed note header.
type Frontmatter struct {
	Created           string
	OriginalFilename  string
	Duration          string
	Error             string
	ProcessedFilename string
	Processor         string
	Pages             int

	extraKeys []string
	extra     map[string]*yaml.Node
}

// New returns an empty Frontmatter.
func New() *Frontmatter {
	return &Frontmatter{extra: make(map[string]*yaml.Node)}
}

// Parse splits content into header and body. When the content has no header
// it returns an empty Frontmatter, the whole content as body and
// ErrNoFrontmatter. A header that is not a YAML mapping yields ErrMalformed.
func Parse(content []byte) (*Frontmatter, string, error) {
	text := strings.TrimPrefix(string(content), "\ufeff")

	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t\r\n") != delimiter {
		return New(), text, ErrNoFrontmatter
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t\r\n") == delimiter {
			closing = i
			break
		}
	}
	if closing < 0 {
		return New(), text, fmt.Errorf("%w: unterminated header", ErrMalformed)
	}

	header := strings.Join(lines[1:closing], "")
	body := strings.TrimLeft(strings.Join(lines[closing+1:], ""), "\r\n")

	fm := New()
	if strings.TrimSpace(header) == "" {
		return fm, body, nil
	}
	if err := yaml.Unmarshal([]byte(header), fm); err != nil {
		if errors.Is(err, ErrMalformed) {
			return New(), text, err
		}
		return New(), text, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return fm, body, nil
}

// Render writes the header followed by body.
func Render(fm *Frontmatter, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")

	if !fm.empty() {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(fm); err != nil {
			return nil, fmt.Errorf("encode frontmatter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode frontmatter: %w", err)
		}
	}

	buf.WriteString(delimiter + "\n\n")
	buf.WriteString(strings.TrimLeft(body, "\r\n"))
	return buf.Bytes(), nil
}

// Get returns the value stored under key, decoded into plain Go values.
func (f *Frontmatter) Get(key string) (interface{}, bool) {
	switch key {
	case KeyCreated:
		return f.Created, f.Created != ""
	case KeyOriginalFilename:
		return f.OriginalFilename, f.OriginalFilename != ""
	case KeyDuration:
		return f.Duration, f.Duration != ""
	case KeyError:
		return f.Error, f.Error != ""
	case KeyProcessedFilename:
		return f.ProcessedFilename, f.ProcessedFilename != ""
	case KeyProcessor:
		return f.Processor, f.Processor != ""
	case KeyPages:
		return f.Pages, f.Pages > 0
	}

	node, ok := f.extra[key]
	if !ok {
		return nil, false
	}
	var v interface{}
	if err := node.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// Has reports whether key holds a non-empty value.
func (f *Frontmatter) Has(key string) bool {
	v, ok := f.Get(key)
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Missing returns the keys from required that are absent or empty.
func (f *Frontmatter) Missing(required []string) []string {
	var missing []string
	for _, k := range required {
		if !f.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// Set stores v under key. Known keys update the typed fields.
func (f *Frontmatter) Set(key string, v interface{}) error {
	switch key {
	case KeyCreated:
		f.Created = toString(v)
		return nil
	case KeyOriginalFilename:
		f.OriginalFilename = toString(v)
		return nil
	case KeyDuration:
		f.Duration = toString(v)
		return nil
	case KeyError:
		f.Error = toString(v)
		return nil
	case KeyProcessedFilename:
		f.ProcessedFilename = toString(v)
		return nil
	case KeyProcessor:
		f.Processor = toString(v)
		return nil
	case KeyPages:
		n, err := strconv.Atoi(toString(v))
		if err != nil {
			return fmt.Errorf("pages: %w", err)
		}
		f.Pages = n
		return nil
	}

	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if f.extra == nil {
		f.extra = make(map[string]*yaml.Node)
	}
	if _, exists := f.extra[key]; !exists {
		f.extraKeys = append(f.extraKeys, key)
	}
	f.extra[key] = node
	return nil
}

// Merge applies every entry of values, overwriting existing keys and keeping
// keys values does not mention.
func (f *Frontmatter) Merge(values map[string]interface{}) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sortKeys(keys)
	for _, k := range keys {
		if err := f.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Keys lists the keys present, known fields first, then extras in order.
func (f *Frontmatter) Keys() []string {
	var keys []string
	for _, k := range knownKeys {
		if _, ok := f.Get(k); ok {
			keys = append(keys, k)
		}
	}
	return append(keys, f.extraKeys...)
}

var knownKeys = []string{
	KeyCreated,
	KeyOriginalFilename,
	KeyDuration,
	KeyError,
	KeyProcessedFilename,
	KeyProcessor,
	KeyPages,
}

func (f *Frontmatter) empty() bool {
	return len(f.Keys()) == 0
}

// enrichment key order used when the LLM returns several keys at once
var preferredOrder = map[string]int{
	KeyGroup:   0,
	KeyProject: 1,
	KeyClient:  2,
	KeyPurpose: 3,
}

func sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		pi, okI := preferredOrder[keys[i]]
		pj, okJ := preferredOrder[keys[j]]
		switch {
		case okI && okJ:
			return pi < pj
		case okI:
			return true
		case okJ:
			return false
		}
		return keys[i] < keys[j]
	})
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
