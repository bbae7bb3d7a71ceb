// Package workspace holds the attribute database that tags are written into.
package workspace

import "errors"

// AttributeType is the value type of an attribute slot.
type AttributeType string

const (
	MultipleChoiceTag AttributeType = "multiple_choice_tag"
	SingleChoiceTag   AttributeType = "single_choice_tag"
	Text              AttributeType = "text"
)

// Valid reports whether t is a known attribute type.
func (t AttributeType) Valid() bool {
	switch t {
	case MultipleChoiceTag, SingleChoiceTag, Text:
		return true
	}
	return false
}

// Color is a display colour name for a tag.
type Color string

// Tag is one entry of an attribute's vocabulary.
type Tag struct {
	Name  string
	Color Color
}

// Attribute is a named, typed slot that can be assigned per file.
type Attribute struct {
	ID   string
	Name string
	Type AttributeType
}

var (
	ErrNotFound     = errors.New("workspace: not found")
	ErrDuplicateTag = errors.New("workspace: duplicate tag name")
	ErrUnknownTag   = errors.New("workspace: tag not in vocabulary")
)
