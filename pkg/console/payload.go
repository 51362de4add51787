package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"reflect"
	"strconv"
	"strings"

	"github.com/ikkim/hotel-admin-backend/pkg/upload"
)

type unsetField struct{}

// Unset marks a field as not provided. PartialUpdate drops it on encode.
var Unset = unsetField{}

// PartialUpdate is an ordered set of changed fields sent as a JSON body.
// Unset values and nil pointers, slices and maps are stripped, so the server
// never receives null for a field the caller did not touch.
type PartialUpdate struct {
	keys   []string
	values map[string]interface{}
}

func NewPartialUpdate() *PartialUpdate {
	return &PartialUpdate{values: make(map[string]interface{})}
}

// Set records field; setting it again keeps its original position
func (p *PartialUpdate) Set(field string, value interface{}) *PartialUpdate {
	if _, ok := p.values[field]; !ok {
		p.keys = append(p.keys, field)
	}
	p.values[field] = value
	return p
}

// Get returns the value of a field that will be sent
func (p *PartialUpdate) Get(field string) (interface{}, bool) {
	v, ok := p.values[field]
	if !ok || stripped(v) {
		return nil, false
	}
	return v, true
}

// Fields lists the fields that will be sent, in insertion order
func (p *PartialUpdate) Fields() []string {
	out := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		if !stripped(p.values[k]) {
			out = append(out, k)
		}
	}
	return out
}

func (p *PartialUpdate) Empty() bool {
	return len(p.Fields()) == 0
}

func (p *PartialUpdate) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func stripped(v interface{}) bool {
	if v == nil {
		return true
	}
	if _, ok := v.(unsetField); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

type formField struct {
	name  string
	value string
}

// MultipartPayload assembles a multipart/form-data body. Arrays become
// repeated parts with the same name and every file goes under "files".
type MultipartPayload struct {
	fields []formField
	files  []ImageFile
}

func (m *MultipartPayload) Add(name, value string) {
	m.fields = append(m.fields, formField{name: name, value: value})
}

// AddOptional adds the field unless value is blank
func (m *MultipartPayload) AddOptional(name, value string) {
	if strings.TrimSpace(value) != "" {
		m.Add(name, value)
	}
}

// AddRepeated appends one part per value
func (m *MultipartPayload) AddRepeated(name string, values []string) {
	for _, v := range values {
		m.Add(name, v)
	}
}

func (m *MultipartPayload) AddIDs(name string, ids []uint) {
	for _, id := range ids {
		m.Add(name, strconv.FormatUint(uint64(id), 10))
	}
}

func (m *MultipartPayload) AddFile(f ImageFile) {
	m.files = append(m.files, f)
}

// Values returns every value recorded for name, in order
func (m *MultipartPayload) Values(name string) []string {
	var out []string
	for _, f := range m.fields {
		if f.name == name {
			out = append(out, f.value)
		}
	}
	return out
}

func (m *MultipartPayload) Files() []ImageFile {
	return m.files
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode renders the body and its Content-Type header value
func (m *MultipartPayload) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range m.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}
	for _, file := range m.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			upload.FilesField, quoteEscaper.Replace(file.Name)))
		h.Set("Content-Type", file.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", file.Name, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("write file %s: %w", file.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
