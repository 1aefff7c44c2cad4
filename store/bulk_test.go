package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sicko7947/contactbook"
)

func TestCodecForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"contacts.json", "json"},
		{"contacts.yaml", "yaml"},
		{"contacts.yml", "yaml"},
		{"CONTACTS.YAML", "yaml"},
		{"contacts", "json"},
		{"contacts.txt", "json"},
		{"dir.yaml/contacts", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, CodecForPath(tt.path).Format())
		})
	}
}

func TestJSONCodec_FieldNames(t *testing.T) {
	var buf bytes.Buffer
	err := JSONCodec{}.Encode(&buf, []*contactbook.Contact{
		{Name: "Bogdan", PhoneNo: 491234567890, Email: "bogdan@mail.com"},
	})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "Bogdan", raw[0]["name"])
	assert.Equal(t, float64(491234567890), raw[0]["phone_no"])
	assert.Equal(t, "bogdan@mail.com", raw[0]["email"])
}

func TestJSONCodec_EmptySetIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONCodec{}.Encode(&buf, nil))
	assert.JSONEq(t, `[]`, buf.String())
}

func TestJSONCodec_DropsNullEntries(t *testing.T) {
	contacts, err := JSONCodec{}.Decode(bytes.NewBufferString(
		`[null, {"name": "Bogdan", "phone_no": 491234567890, "email": "bogdan@mail.com"}]`))
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Bogdan", contacts[0].Name)
}

func TestYAMLCodec_Decode(t *testing.T) {
	input := `
- name: Bogdan
  phone_no: 491234567890
  email: bogdan@mail.com
- name: Ana
  phone_no: 4912345678901
  email: ana@mail.com
`
	contacts, err := YAMLCodec{}.Decode(bytes.NewBufferString(input))
	require.NoError(t, err)

	assert.Equal(t, []*contactbook.Contact{
		{Name: "Bogdan", PhoneNo: 491234567890, Email: "bogdan@mail.com"},
		{Name: "Ana", PhoneNo: 4912345678901, Email: "ana@mail.com"},
	}, contacts)
}

func TestYAMLCodec_Encode(t *testing.T) {
	var buf bytes.Buffer
	err := YAMLCodec{}.Encode(&buf, []*contactbook.Contact{
		{Name: "Bogdan", PhoneNo: 491234567890, Email: "bogdan@mail.com"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "- name: Bogdan")
	assert.Contains(t, out, "phone_no: 491234567890")
	assert.Contains(t, out, "email: bogdan@mail.com")
}

func TestBulkFile_RoundTrip(t *testing.T) {
	contacts := []*contactbook.Contact{
		{Name: "Aaa", PhoneNo: 491234567890, Email: "a@mail.com"},
		{Name: "Bbb", PhoneNo: 4912345678901, Email: "b@mail.com"},
	}

	for _, ext := range []string{".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "contacts"+ext)
			require.NoError(t, WriteBulkFile(path, contacts))

			got, err := ReadBulkFile(path)
			require.NoError(t, err)
			assert.Equal(t, contacts, got)
		})
	}
}

func TestWriteBulkFile_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 4096), 0o644))

	require.NoError(t, WriteBulkFile(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestWriteBulkFile_IOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "contacts.json")

	err := WriteBulkFile(path, nil)
	assert.ErrorIs(t, err, contactbook.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadBulkFile_Errors(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing file", filepath.Join(dir, "nope.json"), contactbook.ErrIO},
		{"malformed json", write("bad.json", `[{"name": `), contactbook.ErrDecode},
		{"json object", write("object.json", `{"name": "Bogdan"}`), contactbook.ErrDecode},
		{"empty json", write("empty.json", ``), contactbook.ErrDecode},
		{"wrong json type", write("type.json", `[{"phone_no": "49123"}]`), contactbook.ErrDecode},
		{"malformed yaml", write("bad.yaml", "- name: [unclosed"), contactbook.ErrDecode},
		{"yaml mapping", write("map.yaml", "name: Bogdan"), contactbook.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contacts, err := ReadBulkFile(tt.path)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, contacts)
		})
	}
}
