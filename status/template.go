package status

import (
	"fmt"
	"regexp"
	"strings"
)

// TemplateItemType identifies the widget used to render a TemplateItem.
type TemplateItemType string

const (
	TemplateItemText          TemplateItemType = "text"
	TemplateItemParagraph     TemplateItemType = "paragraph"
	TemplateItemRadioList     TemplateItemType = "radio_list"
	TemplateItemCheckboxList  TemplateItemType = "checkbox_list"
)

// TemplateItem is a single question within a TemplateSection.
type TemplateItem struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Type          TemplateItemType `json:"widget_type"`
	Required      bool             `json:"required"`
	AllowedValues []string         `json:"allowed_values,omitempty"`
	Hidden        bool             `json:"hidden"`
	HelpText      string           `json:"help_text,omitempty"`
	InputPattern  string           `json:"input_pattern,omitempty"`
}

// TemplateSection is a named group of items and nested sections, forming
// the template tree.
type TemplateSection struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Items    []TemplateItem    `json:"items,omitempty"`
	Sections []TemplateSection `json:"sections,omitempty"`
}

// Template is the device's currently selected recording template.
type Template struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Sections []TemplateSection `json:"sections"`
}

func (Template) model() string { return "Template" }

// Responses maps a template item's ID to the sequence of strings entered
// for it. A multi-select checkbox_list item's answer preserves all selected
// values; text and radio_list items carry at most one.
type Responses map[string][]string

// ItemError describes a single validation failure for one template item.
type ItemError struct {
	ItemID  string
	Message string
}

// InvalidTemplateAnswersError is returned by Template.Validate when one or
// more items fail validation. It carries a structured per-item error list
// rather than a flattened message so that callers can surface them against
// the originating form fields.
type InvalidTemplateAnswersError struct {
	Errors []ItemError
}

func (e *InvalidTemplateAnswersError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, it := range e.Errors {
		parts[i] = fmt.Sprintf("%s: %s", it.ItemID, it.Message)
	}
	return "invalid template answers: " + strings.Join(parts, "; ")
}

// allItems flattens the template tree into its items, depth-first.
func (t Template) allItems() []TemplateItem {
	var out []TemplateItem
	var walk func(sections []TemplateSection)
	walk = func(sections []TemplateSection) {
		for _, s := range sections {
			out = append(out, s.Items...)
			walk(s.Sections)
		}
	}
	walk(t.Sections)
	return out
}

// Validate checks responses against the template's per-item constraints:
// a required item must have a non-empty answer, a radio_list answer must be
// one of AllowedValues, and a text item with InputPattern set must match it.
// Hidden items are exempt since they are not presented to the wearer.
func (t Template) Validate(responses Responses) error {
	var errs []ItemError
	for _, item := range t.allItems() {
		if item.Hidden {
			continue
		}
		values := responses[item.ID]
		nonEmpty := 0
		for _, v := range values {
			if v != "" {
				nonEmpty++
			}
		}
		if item.Required && nonEmpty == 0 {
			errs = append(errs, ItemError{ItemID: item.ID, Message: "required item is empty"})
			continue
		}
		if nonEmpty == 0 {
			continue
		}
		if item.Type == TemplateItemRadioList && len(item.AllowedValues) > 0 {
			if !contains(item.AllowedValues, values[0]) {
				errs = append(errs, ItemError{
					ItemID:  item.ID,
					Message: fmt.Sprintf("value %q is not one of the allowed values", values[0]),
				})
				continue
			}
		}
		if item.Type == TemplateItemText && item.InputPattern != "" {
			re, err := regexp.Compile(item.InputPattern)
			if err != nil {
				errs = append(errs, ItemError{ItemID: item.ID, Message: "invalid pattern constraint"})
				continue
			}
			for _, v := range values {
				if v != "" && !re.MatchString(v) {
					errs = append(errs, ItemError{
						ItemID:  item.ID,
						Message: fmt.Sprintf("value %q does not match required pattern", v),
					})
					break
				}
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &InvalidTemplateAnswersError{Errors: errs}
}

func contains(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
