package models

// TextArea is one editable text region on a meme template. Positions are
// percentages relative to the template image, used by the client overlay.
type TextArea struct {
	Key         string `json:"key"`
	Placeholder string `json:"placeholder"`
	Top         string `json:"top"`
	Left        string `json:"left"`
}

// ImageTemplate is a fixed meme template users build posts from.
type ImageTemplate struct {
	ID        string     `json:"id"`
	Src       string     `json:"src"`
	Alt       string     `json:"alt"`
	TextAreas []TextArea `json:"textAreas"`
}

// ImageTemplates is the fixed template catalog. Post creation validates the
// submitted overlay texts against the selected template's text areas.
var ImageTemplates = []ImageTemplate{
	{
		ID:  "template1",
		Src: "/assets/template1.jpg",
		Alt: "Template 1",
		TextAreas: []TextArea{
			{Key: "leftButton", Placeholder: "Left Button", Top: "15%", Left: "25%"},
			{Key: "bottomText", Placeholder: "Right Button", Top: "10%", Left: "60%"},
		},
	},
	{
		ID:  "template2",
		Src: "/assets/template2.jpg",
		Alt: "Template 2",
		TextAreas: []TextArea{
			{Key: "leftText", Placeholder: "Left Text", Top: "40%", Left: "27%"},
			{Key: "middleText", Placeholder: "Middle Text", Top: "40%", Left: "60%"},
			{Key: "rightText", Placeholder: "Right Text", Top: "40%", Left: "80%"},
		},
	},
	{
		ID:  "template3",
		Src: "/assets/template3.jpg",
		Alt: "Template 3",
		TextAreas: []TextArea{
			{Key: "bottomText", Placeholder: "Bottom Text", Top: "90%", Left: "50%"},
		},
	},
	{
		ID:  "template4",
		Src: "/assets/template4.jpg",
		Alt: "Template 4",
		TextAreas: []TextArea{
			{Key: "topLeftText", Placeholder: "Top Left Text", Top: "35%", Left: "20%"},
			{Key: "topRightText", Placeholder: "Top Right Text", Top: "20%", Left: "80%"},
			{Key: "bottomLeftText", Placeholder: "Bottom Left Text", Top: "80%", Left: "15%"},
			{Key: "bottomMiddleText", Placeholder: "Bottom Middle Text", Top: "80%", Left: "50%"},
			{Key: "bottomRightText", Placeholder: "Bottom Right Text", Top: "67%", Left: "90%"},
		},
	},
	{
		ID:  "template5",
		Src: "/assets/template5.jpg",
		Alt: "Template 5",
		TextAreas: []TextArea{
			{Key: "leftText", Placeholder: "Left Text", Top: "40%", Left: "35%"},
			{Key: "rightText", Placeholder: "Right Text", Top: "5%", Left: "70%"},
		},
	},
}

// TemplateByID looks a template up in the catalog.
func TemplateByID(id string) (*ImageTemplate, bool) {
	for i := range ImageTemplates {
		if ImageTemplates[i].ID == id {
			return &ImageTemplates[i], true
		}
	}
	return nil, false
}

// ValidateTexts checks that every text area of the template has a non-empty
// overlay string and that no unknown keys were submitted.
func (t *ImageTemplate) ValidateTexts(texts map[string]string) error {
	known := make(map[string]bool, len(t.TextAreas))
	for _, area := range t.TextAreas {
		known[area.Key] = true
		if texts[area.Key] == "" {
			return &MissingTextError{Key: area.Key, Placeholder: area.Placeholder}
		}
	}
	for key := range texts {
		if !known[key] {
			return &UnknownTextError{Key: key}
		}
	}
	return nil
}

// MissingTextError reports a template text area with no submitted text.
type MissingTextError struct {
	Key         string
	Placeholder string
}

func (e *MissingTextError) Error() string {
	return "missing text for \"" + e.Placeholder + "\""
}

// UnknownTextError reports a submitted overlay key the template doesn't have.
type UnknownTextError struct {
	Key string
}

func (e *UnknownTextError) Error() string {
	return "unknown text area \"" + e.Key + "\""
}
