package schema

import (
	"strings"
	"testing"
)

func validColumn() Column {
	return Column{
		ID:    "email",
		Label: "Email",
		Type:  TypeEmail,
		Validators: []Validator{
			Required{},
			Unique{},
		},
		Transformers: []Transformer{
			Trim{},
			Lowercase{},
		},
	}
}

func TestSchema_Validate_OK(t *testing.T) {
	s := &Schema{Columns: []Column{validColumn()}}

	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
}

func TestSchema_Validate_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		wantErr string
	}{
		{
			name:    "no columns",
			schema:  Schema{},
			wantErr: "no columns",
		},
		{
			name: "empty column id",
			schema: Schema{Columns: []Column{
				{ID: "", Type: TypeString},
			}},
			wantErr: "empty column id",
		},
		{
			name: "duplicate column id",
			schema: Schema{Columns: []Column{
				{ID: "name", Type: TypeString},
				{ID: "name", Type: TypeString},
			}},
			wantErr: "duplicate column id",
		},
		{
			name: "unknown type",
			schema: Schema{Columns: []Column{
				{ID: "x", Type: ColumnType("decimal")},
			}},
			wantErr: `unknown column type "decimal"`,
		},
		{
			name: "select without options",
			schema: Schema{Columns: []Column{
				{ID: "status", Type: TypeSelect},
			}},
			wantErr: "select column requires options",
		},
		{
			name: "options on non-select",
			schema: Schema{Columns: []Column{
				{ID: "name", Type: TypeString, Options: []string{"a"}},
			}},
			wantErr: "options are only valid on select columns",
		},
		{
			name: "invalid regex pattern",
			schema: Schema{Columns: []Column{
				{ID: "x", Type: TypeString, Validators: []Validator{Regex{Pattern: "("}}},
			}},
			wantErr: "invalid regex pattern",
		},
		{
			name: "regex without pattern",
			schema: Schema{Columns: []Column{
				{ID: "x", Type: TypeString, Validators: []Validator{Regex{}}},
			}},
			wantErr: "regex validator requires a pattern",
		},
		{
			name: "min exceeds max",
			schema: Schema{Columns: []Column{
				{ID: "x", Type: TypeNumber, Validators: []Validator{Min{Value: 10}, Max{Value: 5}}},
			}},
			wantErr: "min (10) exceeds max (5)",
		},
		{
			name: "min_length exceeds max_length",
			schema: Schema{Columns: []Column{
				{ID: "x", Type: TypeString, Validators: []Validator{MinLength{Value: 8}, MaxLength{Value: 4}}},
			}},
			wantErr: "min_length (8) exceeds max_length (4)",
		},
		{
			name: "negative min_length",
			schema: Schema{Columns: []Column{
				{ID: "x", Type: TypeString, Validators: []Validator{MinLength{Value: -1}}},
			}},
			wantErr: "min_length must be non-negative",
		},
		{
			name: "custom transformer without name",
			schema: Schema{Columns: []Column{
				{ID: "x", Type: TypeString, Transformers: []Transformer{Custom{}}},
			}},
			wantErr: "custom transformer requires a name",
		},
		{
			name: "replace transformer without find",
			schema: Schema{Columns: []Column{
				{ID: "x", Type: TypeString, Transformers: []Transformer{Replace{Replace: "y"}}},
			}},
			wantErr: "replace transformer requires a find value",
		},
		{
			name: "unknown stage override",
			schema: Schema{Columns: []Column{
				{ID: "x", Type: TypeString, Transformers: []Transformer{Trim{Stage: Stage("mid")}}},
			}},
			wantErr: `unknown stage "mid"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSchema_Validate_ReportsAllProblems(t *testing.T) {
	s := &Schema{Columns: []Column{
		{ID: "status", Type: TypeSelect},
		{ID: "x", Type: ColumnType("decimal")},
	}}

	err := s.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"select column requires options", "unknown column type"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %q, want it to contain %q", err, want)
		}
	}
}

func TestSchema_Column(t *testing.T) {
	s := &Schema{Columns: []Column{validColumn()}}

	if _, ok := s.Column("email"); !ok {
		t.Error("Column(email) not found")
	}
	if _, ok := s.Column("missing"); ok {
		t.Error("Column(missing) found, want not found")
	}
}

func TestSchema_ColumnIDs(t *testing.T) {
	s := &Schema{Columns: []Column{
		{ID: "b", Type: TypeString},
		{ID: "a", Type: TypeString},
	}}

	ids := s.ColumnIDs()
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Errorf("ColumnIDs() = %v, want declared order [b a]", ids)
	}
}

func TestColumnType_Known(t *testing.T) {
	for _, typ := range []ColumnType{TypeString, TypeNumber, TypeEmail, TypeDate, TypePhone, TypeSelect} {
		if !typ.Known() {
			t.Errorf("%s.Known() = false, want true", typ)
		}
	}
	if ColumnType("bytes").Known() {
		t.Error(`ColumnType("bytes").Known() = true, want false`)
	}
}

func TestStageOverride(t *testing.T) {
	if got := StageOverride(Trim{}); got != StageDefault {
		t.Errorf("StageOverride(Trim{}) = %q, want default", got)
	}
	if got := StageOverride(Trim{Stage: StagePost}); got != StagePost {
		t.Errorf("StageOverride(Trim{Stage: post}) = %q, want post", got)
	}
	if got := StageOverride(Default{Stage: StagePre}); got != StagePre {
		t.Errorf("StageOverride(Default{Stage: pre}) = %q, want pre", got)
	}
}
