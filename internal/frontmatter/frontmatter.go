// Package frontmatter reads and writes the YAML metadata block placed at the
// top of generated documents.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	// TitleKey holds the qualified module name.
	TitleKey = "title"
	// DigestKey holds the digest of the module source a document was
	// rendered from.
	DigestKey = "module_digest"
)

const delimiter = "---\n"

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a delimiter, had is false and body is
// the full input. CRLF line endings are normalized first.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, []byte(delimiter)) {
		return nil, content, false, nil
	}

	start := len(delimiter)
	if bytes.HasPrefix(content[start:], []byte(delimiter)) {
		return []byte{}, content[start+len(delimiter):], true, nil
	}

	closeSeq := []byte("\n" + delimiter)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	end := start + idx + 1
	return content[start:end], content[end+len(delimiter):], true, nil
}

// Join reassembles a document from raw frontmatter and body.
func Join(frontmatter []byte, body []byte) []byte {
	out := make([]byte, 0, 2*len(delimiter)+len(frontmatter)+len(body))
	out = append(out, delimiter...)
	out = append(out, frontmatter...)
	if len(frontmatter) > 0 && frontmatter[len(frontmatter)-1] != '\n' {
		out = append(out, '\n')
	}
	out = append(out, delimiter...)
	out = append(out, body...)
	return out
}

// ParseYAML parses raw YAML frontmatter (without delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// SerializeYAML serializes string fields into YAML with sorted keys.
func SerializeYAML(fields map[string]string) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fields[k]},
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("serialize frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("serialize frontmatter: %w", err)
	}
	return buf.Bytes(), nil
}

// Header builds the metadata block for a module document.
func Header(title, digest string) (string, error) {
	fields := map[string]string{TitleKey: title}
	if digest != "" {
		fields[DigestKey] = digest
	}
	raw, err := SerializeYAML(fields)
	if err != nil {
		return "", err
	}
	return string(Join(raw, nil)), nil
}

// Digest extracts the module digest recorded in a document. Documents without
// a header, or with a malformed one, report an empty digest.
func Digest(content []byte) string {
	raw, _, had, err := Split(content)
	if err != nil || !had {
		return ""
	}
	fields, err := ParseYAML(raw)
	if err != nil {
		return ""
	}
	digest, _ := fields[DigestKey].(string)
	return digest
}
