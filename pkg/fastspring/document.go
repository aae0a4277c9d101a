package fastspring

import (
	"errors"
	"fmt"

	"github.com/clbanning/mxj/v2"
)

// Document is the dynamic payload shape exchanged with the API: a mapping
// whose values are strings, nested mappings, or lists of either. Request and
// response shapes vary by endpoint and are dictated by the remote schema,
// which this client does not validate.
type Document map[string]any

// ParseDocument decodes an XML body into a Document, tag-per-key.
func ParseDocument(data []byte) (Document, error) {
	if len(data) == 0 {
		return nil, errors.New("empty document")
	}
	m, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return Document(m), nil
}

// XMLBytes encodes the Document as XML, one tag per key. The Document must
// have a single top-level key, which becomes the root element.
func (d Document) XMLBytes() ([]byte, error) {
	if len(d) == 0 {
		return nil, errors.New("cannot marshal empty document")
	}
	out, err := mxj.Map(d).Xml()
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return out, nil
}

// StringAt returns the first string value at a dotted path ("subscription.status"),
// or "" when the path is absent or not a string leaf.
func (d Document) StringAt(path string) string {
	vals, err := mxj.Map(d).ValuesForPath(path)
	if err != nil || len(vals) == 0 {
		return ""
	}
	s, _ := vals[0].(string)
	return s
}
