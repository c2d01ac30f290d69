package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSettings = `{
  "appearance": {"theme": "dark", "reducedMotion": false, "highContrast": true},
  "notifications": {"emailNotifications": true},
  "seo": {"siteTitle": "Portfolio", "siteDescription": "Work", "siteKeywords": "a, b"},
  "privacy": {"showContactInfo": false}
}`

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	out := map[string]string{}
	for _, fe := range ve.Errors {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestValidate_Settings(t *testing.T) {
	require.NoError(t, Validate(Settings, []byte(validSettings)))

	err := Validate(Settings, []byte(`{
	  "appearance": {"theme": "sepia"},
	  "notifications": {},
	  "seo": {"siteTitle": "x"},
	  "privacy": {}
	}`))
	assert.Contains(t, fields(t, err), "appearance.theme")

	err = Validate(Settings, []byte(`{"appearance": {"theme": "light"}, "notifications": {}, "seo": {}, "privacy": {}}`))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "siteTitle is required")
}

func TestValidate_SettingsRejectsUnknownKeys(t *testing.T) {
	err := Validate(Settings, []byte(`{
	  "appearance": {"theme": "light", "font": "serif"},
	  "notifications": {}, "seo": {"siteTitle": "x"}, "privacy": {}
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "font")
}

func TestValidate_Profile(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "minimal", doc: `{"name": "Admin", "email": "admin@example.com"}`},
		{name: "social links", doc: `{"name": "Admin", "email": "admin@example.com", "socialLinks": {"twitter": "@a"}}`},
		{name: "missing email", doc: `{"name": "Admin"}`, wantErr: true},
		{name: "bad email", doc: `{"name": "Admin", "email": "nope"}`, wantErr: true},
		{name: "empty name", doc: `{"name": "", "email": "admin@example.com"}`, wantErr: true},
		{name: "unknown social", doc: `{"name": "A", "email": "a@b.co", "socialLinks": {"myspace": "x"}}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Profile, []byte(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_Seed(t *testing.T) {
	require.NoError(t, Validate(Seed, []byte(`{
	  "skills": [{"name": "SEO", "percentage": 80}],
	  "experiences": [{"title": "Lead", "company": "Acme", "startDate": "2020", "endDate": null}],
	  "blogPosts": [{"title": "Hi", "publishedDate": "2024-01-01", "author": {"name": "N"}}]
	}`)))

	err := Validate(Seed, []byte(`{"skills": [{"name": "SEO", "percentage": 120}]}`))
	assert.Contains(t, fields(t, err), "skills.0.percentage")

	err = Validate(Seed, []byte(`{"testimonials": [{"name": "A", "content": "B", "rating": 0}]}`))
	assert.Contains(t, fields(t, err), "testimonials.0.rating")

	err = Validate(Seed, []byte(`{"widgets": []}`))
	assert.Error(t, err)
}

func TestValidateValue(t *testing.T) {
	doc := map[string]any{"name": "Admin", "email": "admin@example.com"}
	assert.NoError(t, ValidateValue(Profile, doc))

	doc["email"] = 42
	assert.Error(t, ValidateValue(Profile, doc))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate(Name("missing"), []byte(`{}`))

	var le *SchemaLoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "missing.schema.json", le.Path)
	assert.Contains(t, err.Error(), "unknown schema")
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(Settings, []byte(`{not json`))
	require.Error(t, err)

	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["id"], "properties": {"id": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"id": "x"}`))

	err := ValidateJSONString(schema, `{}`)
	assert.Contains(t, fields(t, err), "(root)")

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}

func TestEmbeddedSchemasCompile(t *testing.T) {
	for _, name := range []Name{Settings, Profile, Seed} {
		t.Run(string(name), func(t *testing.T) {
			_, err := load(name)
			assert.NoError(t, err)
		})
	}
}
