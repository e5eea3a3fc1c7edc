package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplateByID(t *testing.T) {
	template, ok := TemplateByID("template3")
	assert.True(t, ok)
	assert.Equal(t, "template3", template.ID)
	assert.Len(t, template.TextAreas, 1)

	_, ok = TemplateByID("template99")
	assert.False(t, ok)
}

func TestValidateTexts(t *testing.T) {
	template, ok := TemplateByID("template1")
	assert.True(t, ok)

	err := template.ValidateTexts(map[string]string{
		"leftButton": "study for finals",
		"bottomText": "one more episode",
	})
	assert.NoError(t, err)

	err = template.ValidateTexts(map[string]string{
		"leftButton": "study for finals",
	})
	assert.Error(t, err)
	var missing *MissingTextError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, "bottomText", missing.Key)

	err = template.ValidateTexts(map[string]string{
		"leftButton": "study for finals",
		"bottomText": "one more episode",
		"sideText":   "not a real area",
	})
	var unknown *UnknownTextError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "sideText", unknown.Key)
}
