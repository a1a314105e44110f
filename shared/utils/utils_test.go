package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trimSample struct {
	Name  string
	Tags  []string
	Inner *trimSample
	Count int
}

func TestTrimAllStringFields(t *testing.T) {
	in := trimSample{Name: "  a ", Tags: []string{" x", "y "}, Inner: &trimSample{Name: " b"}, Count: 3}

	out := TrimAllStringFields(in).(trimSample)

	assert.Equal(t, "a", out.Name)
	assert.Equal(t, []string{"x", "y"}, out.Tags)
	assert.Equal(t, "b", out.Inner.Name)
	assert.Equal(t, 3, out.Count)
	assert.Equal(t, "  a ", in.Name, "input must not be modified")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Anand Nagar", TitleCase("anand NAGAR"))
	assert.Equal(t, "", TitleCase(""))
	assert.Equal(t, "Ward  Two", TitleCase("ward  two"))
}

func TestSerializeModel(t *testing.T) {
	type payload struct {
		ID    string `json:"id"`
		Count int    `json:"count"`
	}

	data, err := SerializeModel(payload{ID: "x", Count: 2})
	require.NoError(t, err)

	var got payload
	require.NoError(t, DeserializeModel(data, &got))
	assert.Equal(t, payload{ID: "x", Count: 2}, got)

	var nilPtr *payload
	_, err = SerializeModel(nilPtr)
	assert.Error(t, err)
	assert.Error(t, DeserializeModel[payload](nil, &got))
}

func TestJSONDocument_Scan(t *testing.T) {
	var doc JSONDocument
	require.NoError(t, doc.Scan([]byte(`{"a":1}`)))
	assert.Equal(t, `{"a":1}`, string(doc))

	require.NoError(t, doc.Scan(`{"b":2}`))
	assert.Equal(t, `{"b":2}`, string(doc))

	require.NoError(t, doc.Scan(nil))
	assert.Nil(t, doc)

	assert.Error(t, doc.Scan(42))
}

func TestValidateStruct(t *testing.T) {
	type req struct {
		Kind string `validate:"required,oneof=a b"`
	}
	assert.Empty(t, ValidateStruct(req{Kind: "a"}))

	errs := ValidateStruct(req{Kind: "c"})
	require.Len(t, errs, 1)
	assert.Equal(t, "req.Kind", errs[0].Field)
}
