package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"ana", "chef_ana", "ana.silva", "Chef123", strings.Repeat("a", 30)}
	for _, u := range valid {
		assert.NoError(t, ValidateUsername(u), "username %q", u)
	}

	invalid := []string{"", "ab", strings.Repeat("a", 31), "chef ana", "chef-ana", "ana@site", "açaí"}
	for _, u := range invalid {
		assert.Error(t, ValidateUsername(u), "username %q", u)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret1"))
	assert.NoError(t, ValidatePassword(strings.Repeat("x", 128)))

	assert.Error(t, ValidatePassword("12345"))
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 129)))
}

func TestStruct_MessagePerTag(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Score int    `validate:"gte=1,lte=5"`
		Kind  string `validate:"oneof=like dislike"`
	}

	tests := []struct {
		name string
		in   form
		want string
	}{
		{"missing email", form{Score: 3, Kind: "like"}, "email is required"},
		{"bad email", form{Email: "not-an-email", Score: 3, Kind: "like"}, "email must be a valid email address"},
		{"score too low", form{Email: "a@b.com", Score: 0, Kind: "like"}, "score must be at least 1"},
		{"score too high", form{Email: "a@b.com", Score: 6, Kind: "like"}, "score must be at most 5"},
		{"bad kind", form{Email: "a@b.com", Score: 3, Kind: "meh"}, "kind must be one of: like dislike"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if assert.Error(t, err) {
				assert.Equal(t, tt.want, err.Error())
			}
		})
	}

	assert.NoError(t, Struct(form{Email: "a@b.com", Score: 3, Kind: "like"}))
}
