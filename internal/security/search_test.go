package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLikePattern(t *testing.T) {
	cases := map[string]string{
		"plain":    "plain",
		"100%":     `100\%`,
		"under_":   `under\_`,
		`back\`:    `back\\`,
		`%_\mixed`: `\%\_\\mixed`,
	}
	for input, want := range cases {
		assert.Equal(t, want, EscapeLikePattern(input), input)
	}
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("name"))
	assert.True(t, ValidIdentifier("sales_price"))
	assert.True(t, ValidIdentifier("_hidden"))

	assert.False(t, ValidIdentifier(""))
	assert.False(t, ValidIdentifier("Name"))
	assert.False(t, ValidIdentifier("1col"))
	assert.False(t, ValidIdentifier(`na"me`))
	assert.False(t, ValidIdentifier("col; DROP TABLE users"))
}

func TestSearchConditionBuildsPerColumn(t *testing.T) {
	condition, args := SearchCondition([]string{"name", "sku"}, "Steel")
	assert.Equal(t, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(sku) LIKE ? ESCAPE '\')`, condition)
	assert.Equal(t, []interface{}{"%steel%", "%steel%"}, args)
}

func TestSearchConditionSkipsBadColumns(t *testing.T) {
	condition, args := SearchCondition([]string{"name", `bad"col`}, "x")
	assert.Equal(t, `(LOWER(name) LIKE ? ESCAPE '\')`, condition)
	assert.Len(t, args, 1)
}

func TestSearchConditionEmptyInputs(t *testing.T) {
	condition, args := SearchCondition(nil, "x")
	assert.Empty(t, condition)
	assert.Nil(t, args)

	condition, args = SearchCondition([]string{"name"}, "")
	assert.Empty(t, condition)
	assert.Nil(t, args)

	condition, args = SearchCondition([]string{`all"bad`}, "x")
	assert.Empty(t, condition)
	assert.Nil(t, args)
}
