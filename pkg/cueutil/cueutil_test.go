// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Widget: {
	name:  string
	count: int & >=0
}
`

type widget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDecode_Valid(t *testing.T) {
	data := []byte(`{name: "gear", count: 3}`)

	w, err := Decode[widget]([]byte(testSchema), data, "#Widget", "widget.cue")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if w.Name != "gear" || w.Count != 3 {
		t.Errorf("Decode() = %+v, want {gear 3}", w)
	}
}

func TestDecode_SchemaViolation(t *testing.T) {
	data := []byte(`{name: "gear", count: -1}`)

	_, err := Decode[widget]([]byte(testSchema), data, "#Widget", "widget.cue")
	if err == nil {
		t.Fatal("Decode() expected error for negative count")
	}
	if !strings.Contains(err.Error(), "widget.cue") {
		t.Errorf("Decode() error %q should name the file", err)
	}
}

func TestDecode_SyntaxError(t *testing.T) {
	data := []byte(`{name: `)

	_, err := Decode[widget]([]byte(testSchema), data, "#Widget", "broken.cue")
	if err == nil {
		t.Fatal("Decode() expected error for broken syntax")
	}
}

func TestDecode_MissingDefinition(t *testing.T) {
	_, err := Decode[widget]([]byte(testSchema), []byte(`{}`), "#Nope", "x.cue")
	if err == nil || !strings.Contains(err.Error(), "#Nope") {
		t.Fatalf("Decode() error = %v, want missing-definition error naming #Nope", err)
	}
}

func TestCheckSize(t *testing.T) {
	if err := CheckSize(make([]byte, 10), 10, "ok.cue"); err != nil {
		t.Errorf("CheckSize() at limit should pass, got %v", err)
	}
	if err := CheckSize(make([]byte, 11), 10, "big.cue"); err == nil {
		t.Error("CheckSize() over limit should fail")
	}
}

func TestFormatError_NonCUEError(t *testing.T) {
	base := errors.New("boom")
	err := FormatError(base, "f.cue")
	if !errors.Is(err, base) {
		t.Errorf("FormatError() should wrap the original error, got %v", err)
	}
}

func TestFieldPath(t *testing.T) {
	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"entrypoints"}, "entrypoints"},
		{[]string{"entrypoints", "0", "path"}, "entrypoints[0].path"},
		{[]string{"a", "b"}, "a.b"},
	}
	for _, tt := range tests {
		if got := fieldPath(tt.path); got != tt.want {
			t.Errorf("fieldPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
