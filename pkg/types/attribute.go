package types

import (
	"fmt"
	"strconv"
	"time"
)

// Content types discriminate which variant fields of an Attribute apply.
const (
	ContentTypeText     = "TEXT"
	ContentTypeRichText = "RICHTEXT"
	ContentTypeNumber   = "NUMBER"
	ContentTypeDate     = "DATE"
	ContentTypeMedia    = "MEDIA"
)

// Text display variants for TEXT attributes.
const (
	TextTypeShort = "SHORT"
	TextTypeLong  = "LONG"
)

// Number format variants for NUMBER attributes.
const (
	FormatTypeInteger = "INTEGER"
	FormatTypeDecimal = "DECIMAL"
)

// Media variants for MEDIA attributes.
const (
	MediaTypeImage = "IMAGE"
	MediaTypeVideo = "VIDEO"
	MediaTypeFile  = "FILE"
)

// Date variants for DATE attributes. Each maps to a fixed parse layout.
const (
	DateTypeDate     = "DATE"
	DateTypeDateTime = "DATETIME"
	DateTypeTime     = "TIME"
)

// validContentTypes is the set of recognized content type discriminators.
var validContentTypes = map[string]bool{
	ContentTypeText:     true,
	ContentTypeRichText: true,
	ContentTypeNumber:   true,
	ContentTypeDate:     true,
	ContentTypeMedia:    true,
}

// Attribute defines one typed, constrained field of a collection schema.
// It is a tagged union: ContentType selects which of the variant fields
// are meaningful. Zero bounds mean "not set"; an unbounded text field has
// MaximumLength 0, not unlimited, so callers must supply explicit bounds
// to get real limits.
type Attribute struct {
	AttributeID string `json:"attributeId"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Required    bool   `json:"required"`

	// TEXT and RICHTEXT.
	MinimumLength int `json:"minimumLength,omitempty"`
	MaximumLength int `json:"maximumLength,omitempty"`

	// TEXT, NUMBER and DATE.
	Unique       bool   `json:"unique,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`

	// Variant discriminator payloads.
	TextType   string `json:"textType,omitempty"`
	FormatType string `json:"formatType,omitempty"`
	DateType   string `json:"dateType,omitempty"`
	MediaType  string `json:"mediaType,omitempty"`

	// NUMBER bounds.
	MinimumValue int `json:"minimumValue,omitempty"`
	MaximumValue int `json:"maximumValue,omitempty"`
}

// IsValidContentType reports whether ct is a recognized content type.
func IsValidContentType(ct string) bool {
	return validContentTypes[ct]
}

// DateLayout returns the Go time layout for a date type.
// Returns the empty string for an unknown date type.
func DateLayout(dateType string) string {
	switch dateType {
	case DateTypeDate:
		return "2006-01-02"
	case DateTypeDateTime:
		return "2006-01-02T15:04"
	case DateTypeTime:
		return "15:04"
	default:
		return ""
	}
}

// DefaultSentinel returns the value against which a non-required field is
// compared to decide whether constraint validation is skipped: a field still
// holding its injected default is trusted as-is. String kinds use the empty
// string; NUMBER uses the numeric reading of the attribute's default value.
// MEDIA has no sentinel and returns nil.
func (a *Attribute) DefaultSentinel() any {
	switch a.ContentType {
	case ContentTypeText, ContentTypeRichText, ContentTypeDate:
		return ""
	case ContentTypeNumber:
		n, err := strconv.ParseFloat(a.DefaultValue, 64)
		if err != nil {
			return float64(0)
		}
		return n
	default:
		return nil
	}
}

// CreateAttributeRequest is the untyped creation request handed to
// BuildAttribute. Bound and length fields are pointers so that an absent
// field is distinguishable from an explicit zero; absence maps to 0.
type CreateAttributeRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Required    bool   `json:"required"`
	Unique      bool   `json:"unique"`

	MinimumLength *int `json:"minimumLength"`
	MaximumLength *int `json:"maximumLength"`

	MaximumRichTextLength *int `json:"maximumRichTextLength"`

	MinimumValue *int `json:"minimumValue"`
	MaximumValue *int `json:"maximumValue"`

	TextType   string `json:"textType"`
	FormatType string `json:"formatType"`
	DateType   string `json:"dateType"`
	MediaType  string `json:"mediaType"`

	DefaultValue string `json:"defaultValue"`
}

// BuildAttribute constructs an Attribute of the kind selected by the
// request's content type. The caller supplies the pre-allocated id.
// Returns ErrUnsupportedContentType for an unknown discriminator and
// ErrInvalidArgument when a kind-mandatory field is missing or a DATE
// default does not parse under its own date type.
func BuildAttribute(id string, req CreateAttributeRequest) (*Attribute, error) {
	attr := &Attribute{
		AttributeID: id,
		Name:        req.Name,
		ContentType: req.ContentType,
		Required:    req.Required,
	}

	switch req.ContentType {
	case ContentTypeText:
		if req.TextType == "" {
			return nil, fmt.Errorf("textType is required for a TEXT attribute: %w", ErrInvalidArgument)
		}
		attr.TextType = req.TextType
		attr.MinimumLength = intOrZero(req.MinimumLength)
		attr.MaximumLength = intOrZero(req.MaximumLength)
		attr.Unique = req.Unique
		attr.DefaultValue = req.DefaultValue

	case ContentTypeRichText:
		attr.MinimumLength = intOrZero(req.MinimumLength)
		attr.MaximumLength = intOrZero(req.MaximumRichTextLength)
		attr.DefaultValue = req.DefaultValue

	case ContentTypeNumber:
		if req.FormatType == "" {
			return nil, fmt.Errorf("formatType is required for a NUMBER attribute: %w", ErrInvalidArgument)
		}
		attr.FormatType = req.FormatType
		attr.DefaultValue = req.DefaultValue
		attr.Unique = req.Unique
		attr.MinimumValue = intOrZero(req.MinimumValue)
		attr.MaximumValue = intOrZero(req.MaximumValue)

	case ContentTypeDate:
		if req.DateType == "" {
			return nil, fmt.Errorf("dateType is required for a DATE attribute: %w", ErrInvalidArgument)
		}
		attr.DateType = req.DateType
		attr.Unique = req.Unique
		if req.DefaultValue != "" {
			// Default dates are validated eagerly: a malformed default is
			// rejected at construction, not at first use.
			canonical, err := CanonicalDate(req.DateType, req.DefaultValue)
			if err != nil {
				return nil, err
			}
			attr.DefaultValue = canonical
		}

	case ContentTypeMedia:
		if req.MediaType == "" {
			return nil, fmt.Errorf("mediaType is required for a MEDIA attribute: %w", ErrInvalidArgument)
		}
		attr.MediaType = req.MediaType

	default:
		return nil, fmt.Errorf("content type %q: %w", req.ContentType, ErrUnsupportedContentType)
	}

	return attr, nil
}

// CanonicalDate parses value under the layout for dateType and returns the
// re-formatted canonical string. Returns ErrInvalidArgument when the date
// type is unknown or the value does not parse.
func CanonicalDate(dateType, value string) (string, error) {
	layout := DateLayout(dateType)
	if layout == "" {
		return "", fmt.Errorf("unknown date type %q: %w", dateType, ErrInvalidArgument)
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return "", fmt.Errorf("value %q is not a valid %s: %w", value, dateType, ErrInvalidArgument)
	}
	return t.Format(layout), nil
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
