package schema

// decode.go parses schema definitions supplied as data, not code.
//
// Validator and transformer rules arrive as tagged objects distinguished by a
// "type" string, e.g. {"type": "regex", "pattern": "^\\d+$"}. Decoding maps
// each tag onto its closed sum-type variant and rejects unknown tags, so a
// typo in a schema file fails at load time rather than silently doing nothing.

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type schemaDoc struct {
	Key     string      `json:"key" yaml:"key"`
	Label   string      `json:"label" yaml:"label"`
	Columns []columnDoc `json:"columns" yaml:"columns"`
}

type columnDoc struct {
	ID           string    `json:"id" yaml:"id"`
	Label        string    `json:"label" yaml:"label"`
	Type         string    `json:"type" yaml:"type"`
	Options      []string  `json:"options" yaml:"options"`
	Validators   []ruleDoc `json:"validators" yaml:"validators"`
	Transformers []ruleDoc `json:"transformers" yaml:"transformers"`
}

// ruleDoc is the loosely-typed wire form of one validator or transformer.
// Which fields are meaningful depends on the type tag.
type ruleDoc struct {
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Value   any    `json:"value" yaml:"value"`
	Find    string `json:"find" yaml:"find"`
	Replace string `json:"replace" yaml:"replace"`
	Format  string `json:"format" yaml:"format"`
	Name    string `json:"name" yaml:"name"`
	Stage   string `json:"stage" yaml:"stage"`
}

// ParseJSON decodes and validates a JSON schema definition.
func ParseJSON(data []byte) (*Schema, error) {
	var doc schemaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return build(doc)
}

// ParseYAML decodes and validates a YAML schema definition.
func ParseYAML(data []byte) (*Schema, error) {
	var doc schemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return build(doc)
}

// build maps the wire form onto the typed model and validates the result.
func build(doc schemaDoc) (*Schema, error) {
	s := &Schema{
		Key:     doc.Key,
		Label:   doc.Label,
		Columns: make([]Column, 0, len(doc.Columns)),
	}

	for _, cd := range doc.Columns {
		col := Column{
			ID:      cd.ID,
			Label:   cd.Label,
			Type:    ColumnType(cd.Type),
			Options: cd.Options,
		}

		for _, rd := range cd.Validators {
			v, err := buildValidator(rd)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", cd.ID, err)
			}
			col.Validators = append(col.Validators, v)
		}

		for _, rd := range cd.Transformers {
			t, err := buildTransformer(rd)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", cd.ID, err)
			}
			col.Transformers = append(col.Transformers, t)
		}

		s.Columns = append(s.Columns, col)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func buildValidator(rd ruleDoc) (Validator, error) {
	switch rd.Type {
	case "required":
		return Required{Message: rd.Message}, nil
	case "unique":
		return Unique{Message: rd.Message}, nil
	case "regex":
		return Regex{Pattern: rd.Pattern, Message: rd.Message}, nil
	case "min":
		v, err := asFloat(rd.Value)
		if err != nil {
			return nil, fmt.Errorf("min validator: %w", err)
		}
		return Min{Value: v, Message: rd.Message}, nil
	case "max":
		v, err := asFloat(rd.Value)
		if err != nil {
			return nil, fmt.Errorf("max validator: %w", err)
		}
		return Max{Value: v, Message: rd.Message}, nil
	case "min_length":
		v, err := asInt(rd.Value)
		if err != nil {
			return nil, fmt.Errorf("min_length validator: %w", err)
		}
		return MinLength{Value: v, Message: rd.Message}, nil
	case "max_length":
		v, err := asInt(rd.Value)
		if err != nil {
			return nil, fmt.Errorf("max_length validator: %w", err)
		}
		return MaxLength{Value: v, Message: rd.Message}, nil
	}
	return nil, fmt.Errorf("unknown validator type %q", rd.Type)
}

func buildTransformer(rd ruleDoc) (Transformer, error) {
	stage := Stage(rd.Stage)
	switch stage {
	case StageDefault, StagePre, StagePost:
	default:
		return nil, fmt.Errorf("unknown stage %q", rd.Stage)
	}

	switch rd.Type {
	case "trim":
		return Trim{Stage: stage}, nil
	case "uppercase":
		return Uppercase{Stage: stage}, nil
	case "lowercase":
		return Lowercase{Stage: stage}, nil
	case "capitalize":
		return Capitalize{Stage: stage}, nil
	case "remove_special_chars":
		return RemoveSpecialChars{Stage: stage}, nil
	case "normalize_phone":
		return NormalizePhone{Stage: stage}, nil
	case "normalize_date":
		return NormalizeDate{Format: rd.Format, Stage: stage}, nil
	case "default":
		v, err := asString(rd.Value)
		if err != nil {
			return nil, fmt.Errorf("default transformer: %w", err)
		}
		return Default{Value: v, Stage: stage}, nil
	case "replace":
		return Replace{Find: rd.Find, Replace: rd.Replace, Stage: stage}, nil
	case "custom":
		return Custom{Name: rd.Name, Stage: stage}, nil
	}
	return nil, fmt.Errorf("unknown transformer type %q", rd.Type)
}

// asFloat accepts the numeric shapes JSON and YAML decoders produce.
func asFloat(v any) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("missing value")
	}
	return 0, fmt.Errorf("value %v is not numeric", v)
}

func asInt(v any) (int, error) {
	f, err := asFloat(v)
	if err != nil {
		return 0, err
	}
	i := int(f)
	if float64(i) != f {
		return 0, fmt.Errorf("value %v is not an integer", v)
	}
	return i, nil
}

func asString(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	}
	return "", fmt.Errorf("value %v is not a string", v)
}
