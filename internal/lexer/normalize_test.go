package lexer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestBOMStripping(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []byte
	}{
		{"with_bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'e', 'l', 'l', 'o'}, []byte("hello")},
		{"without_bom", []byte("hello"), []byte("hello")},
		{"empty_with_bom", []byte{0xEF, 0xBB, 0xBF}, []byte{}},
		{"empty_without_bom", []byte{}, []byte{}},
		{"partial_bom", []byte{0xEF, 0xBB, 'h', 'i'}, []byte{0xEF, 0xBB, 'h', 'i'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if !bytes.Equal(result, tt.expected) {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNFCNormalization(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already_nfc", "café", "café"},
		{"nfd_to_nfc", "café", "café"},
		{"ascii_unchanged", "Mortal(Socrates)", "Mortal(Socrates)"},
		{"mixed_unicode", "naïve café", "naïve café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(Normalize([]byte(tt.input)))
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
			if !norm.NFC.IsNormalString(result) {
				t.Errorf("Result is not in NFC form")
			}
		})
	}
}

func TestBOMAndNFC(t *testing.T) {
	input := append(bomUTF8, []byte("café")...)
	expected := "café"

	result := string(Normalize(input))
	if result != expected {
		t.Errorf("Expected %q, got %q", expected, result)
	}
	if !norm.NFC.IsNormalString(result) {
		t.Errorf("Result is not in NFC form")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"forall ?x. Mortal(?x)", "café", "café", "﻿forall"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := Normalize([]byte(input))
			second := Normalize(first)
			if !bytes.Equal(first, second) {
				t.Errorf("Normalize is not idempotent: first=%q, second=%q", first, second)
			}
		})
	}
}

// TestCanaryDeterministicParsing ensures lexically equivalent source
// produces an identical token stream regardless of encoding variations
// (LF vs CRLF, NFC vs NFD, with or without a BOM).
func TestCanaryDeterministicParsing(t *testing.T) {
	variants := []struct {
		name  string
		input string
	}{
		{"lf_nfc", "forall ?x:Individual. café(?x)"},
		{"crlf_nfc", "forall ?x:Individual. café(?x)"},
		{"lf_nfd", "forall ?x:Individual. café(?x)"},
		{"crlf_nfd", "forall ?x:Individual. café(?x)"},
		{"bom_lf_nfc", "﻿forall ?x:Individual. café(?x)"},
	}

	for i := range variants {
		variants[i].input = strings.Replace(variants[i].input, ". ", ".\n", 1)
	}
	variants[1].input = strings.ReplaceAll(variants[1].input, "\n", "\r\n")
	variants[3].input = strings.ReplaceAll(variants[3].input, "\n", "\r\n")

	var outputs []string
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			normalized := Normalize([]byte(v.input))
			l := New(string(normalized), "test.godel")
			var tokens []Token
			for {
				tok := l.NextToken()
				tokens = append(tokens, tok)
				if tok.Type == EOF {
					break
				}
			}
			jsonData, err := json.Marshal(tokens)
			if err != nil {
				t.Fatalf("Failed to marshal tokens: %v", err)
			}
			outputs = append(outputs, string(jsonData))
		})
	}

	baseline := outputs[0]
	for i, output := range outputs[1:] {
		if output != baseline {
			t.Errorf("Variant %d produced different output than baseline", i+1)
		}
	}
}

func TestNormalizePreservesSemantics(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"application", "Mortal(Socrates)"},
		{"unicode_identifier", "café(?x)"},
		{"string_literal", `"hello world"`},
		{"comment", "% this is a comment\nforall ?x. P(?x)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l1 := New(tt.input, "test.godel")
			var tokens1 []Token
			for {
				tok := l1.NextToken()
				tokens1 = append(tokens1, tok)
				if tok.Type == EOF {
					break
				}
			}

			normalized := Normalize([]byte(tt.input))
			l2 := New(string(normalized), "test.godel")
			var tokens2 []Token
			for {
				tok := l2.NextToken()
				tokens2 = append(tokens2, tok)
				if tok.Type == EOF {
					break
				}
			}

			if len(tokens1) != len(tokens2) {
				t.Fatalf("Token count mismatch: %d vs %d", len(tokens1), len(tokens2))
			}
			for i := range tokens1 {
				if tokens1[i].Type != tokens2[i].Type {
					t.Errorf("Token %d type mismatch: %v vs %v", i, tokens1[i].Type, tokens2[i].Type)
				}
			}
		})
	}
}

func TestNormalizeDeterminism(t *testing.T) {
	input := []byte("﻿café")

	var results [][]byte
	for i := 0; i < 100; i++ {
		results = append(results, Normalize(input))
	}

	baseline := results[0]
	for i, result := range results[1:] {
		if !bytes.Equal(result, baseline) {
			t.Errorf("Iteration %d produced different output", i+1)
		}
	}
}
