package quill

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Validation & assembly engine: turns caller-supplied field values into the
// ordered (fieldId, fieldName, value) triples a content entry stores.
//
// Without strict validation the candidate list is authoritative and stored
// verbatim: no required-field check, no type check, no rule evaluation, and
// FieldName is the client echo rather than a schema lookup. That is the
// observed upstream behavior and the default; it means the server-side trust
// boundary is weaker than the schema implies. Strict mode closes the gap.

// AssembleFields validates and normalizes candidate field values against the
// content type's field schemas. Values are stored as text regardless of the
// declared field type.
func AssembleFields(ct *ContentType, inputs []ContentFieldInput, strict bool) ([]ContentField, error) {
	if !strict {
		fields := make([]ContentField, 0, len(inputs))
		for _, in := range inputs {
			fields = append(fields, ContentField{
				FieldID:   in.FieldID,
				FieldName: in.FieldName,
				Value:     in.Value,
			})
		}
		return fields, nil
	}

	schemas := make(map[uuid.UUID]*FieldSchema, len(ct.Fields))
	for i := range ct.Fields {
		schemas[ct.Fields[i].ID] = &ct.Fields[i]
	}

	fields := make([]ContentField, 0, len(inputs))
	supplied := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		schema, ok := schemas[in.FieldID]
		if !ok {
			return nil, &FieldValidationError{
				FieldSlug: in.FieldName,
				Reason:    fmt.Sprintf("field %s is not part of content type %q", in.FieldID, ct.Slug),
			}
		}
		if err := checkFieldValue(schema, in.Value); err != nil {
			return nil, err
		}
		supplied[in.FieldID] = true
		fields = append(fields, ContentField{
			FieldID:   in.FieldID,
			FieldName: schema.Name,
			Value:     in.Value,
		})
	}

	for i := range ct.Fields {
		schema := &ct.Fields[i]
		if schema.Required && !supplied[schema.ID] {
			return nil, &FieldValidationError{FieldSlug: schema.Slug, Reason: "required field is missing"}
		}
	}

	return fields, nil
}

// checkFieldValue parses the text value per the declared field type, then
// evaluates the schema's validation rules in order.
func checkFieldValue(schema *FieldSchema, value string) error {
	switch schema.Type {
	case FieldTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return &FieldValidationError{FieldSlug: schema.Slug, Reason: fmt.Sprintf("%q is not a number", value)}
		}
	case FieldTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return &FieldValidationError{FieldSlug: schema.Slug, Reason: fmt.Sprintf("%q is not a boolean", value)}
		}
	case FieldTypeDate:
		if !parseableDate(value) {
			return &FieldValidationError{FieldSlug: schema.Slug, Reason: fmt.Sprintf("%q is not a date", value)}
		}
	}

	for _, rule := range schema.Validations {
		if err := applyRule(schema, rule, value); err != nil {
			return err
		}
	}
	return nil
}

func parseableDate(value string) bool {
	if _, err := time.Parse(time.RFC3339, value); err == nil {
		return true
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

func applyRule(schema *FieldSchema, rule ValidationRule, value string) error {
	fail := func(reason string) error {
		return &FieldValidationError{FieldSlug: schema.Slug, Reason: reason}
	}

	switch rule.Type {
	case "minLength":
		n, err := strconv.Atoi(rule.Params)
		if err != nil {
			return fail(fmt.Sprintf("invalid minLength params %q", rule.Params))
		}
		if len([]rune(value)) < n {
			return fail(fmt.Sprintf("must be at least %d characters", n))
		}
	case "maxLength":
		n, err := strconv.Atoi(rule.Params)
		if err != nil {
			return fail(fmt.Sprintf("invalid maxLength params %q", rule.Params))
		}
		if len([]rune(value)) > n {
			return fail(fmt.Sprintf("must be at most %d characters", n))
		}
	case "min":
		bound, err := strconv.ParseFloat(rule.Params, 64)
		if err != nil {
			return fail(fmt.Sprintf("invalid min params %q", rule.Params))
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < bound {
			return fail(fmt.Sprintf("must be at least %s", rule.Params))
		}
	case "max":
		bound, err := strconv.ParseFloat(rule.Params, 64)
		if err != nil {
			return fail(fmt.Sprintf("invalid max params %q", rule.Params))
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v > bound {
			return fail(fmt.Sprintf("must be at most %s", rule.Params))
		}
	case "pattern":
		re, err := regexp.Compile(rule.Params)
		if err != nil {
			return fail(fmt.Sprintf("invalid pattern %q", rule.Params))
		}
		if !re.MatchString(value) {
			return fail(fmt.Sprintf("must match pattern %s", rule.Params))
		}
	default:
		// Unknown rule types are ignored rather than rejected so that
		// client-only rules can live in the same list.
	}
	return nil
}
