package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
)

func TestIsTenDigitPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"9876543210", true},
		{"0000000000", true},
		{"987654321", false},
		{"98765432101", false},
		{"98765abc10", false},
		{"98765 4321", false},
		{"+919876543", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsTenDigitPhone(tc.in), "input %q", tc.in)
	}
}

func TestParseRequiredID(t *testing.T) {
	id, err := ParseRequiredID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = ParseRequiredID("  7 ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = ParseRequiredID("")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = ParseRequiredID("abc")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestStructReportsFormFieldNames(t *testing.T) {
	type form struct {
		Name  string  `form:"name" validate:"required"`
		Email string  `form:"email" validate:"required,email"`
		Phone *string `form:"phone" validate:"omitempty,phone10"`
	}

	bad := "12345"
	err := Struct(form{Email: "not-an-email", Phone: &bad})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be exactly 10 digits", details["phone"])
}

func TestStructAcceptsValidInput(t *testing.T) {
	type form struct {
		Name  string  `form:"name" validate:"required"`
		Phone *string `form:"phone" validate:"omitempty,phone10"`
	}

	require.NoError(t, Struct(form{Name: "ok"}))

	phone := "9876543210"
	require.NoError(t, Struct(form{Name: "ok", Phone: &phone}))
}
