// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "comicId", "2024-01-05", false},
		{"empty_string", "comicId", "", true},
		{"whitespace_only", "comicId", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_RequireAny checks the at-least-one-of rule.
*/
func TestValidator_RequireAny(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		isValid bool
	}{
		{"first_present", []string{"typo", ""}, true},
		{"second_present", []string{"", "fixed"}, true},
		{"all_blank", []string{" ", ""}, false},
		{"none_given", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.RequireAny("description", "Describe the problem", tt.values...)
			assert.Equal(t, tt.isValid, v.Err() == nil)
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("comicId", "").                            // Fails
		MaxLen("submitterName", "abcdef", 3).               // Fails
		OneOf("reportType", "poem", "transcript", "image"). // Fails
		Custom("page", false, "never reported").            // Passes
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 3)
}
