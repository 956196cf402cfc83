package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.cpp")
	if err := saveToFile(path, "int x;"); err != nil {
		t.Fatalf("saveToFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "int x;" {
		t.Errorf("content = %q", data)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{""}},
		{"single", "abc", []string{"abc"}},
		{"unix", "a\nb", []string{"a", "b"}},
		{"windows", "a\r\nb", []string{"a", "b"}},
		{"trailing newline", "a\n", []string{"a", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ v, lo, hi, want int }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{3, 3, 3, 3},
	}
	for _, tt := range tests {
		if got := clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestIsWordRune(t *testing.T) {
	for _, r := range "azAZ09_" {
		if !isWordRune(r) {
			t.Errorf("isWordRune(%q) = false", r)
		}
	}
	for _, r := range " :(+-.é" {
		if isWordRune(r) {
			t.Errorf("isWordRune(%q) = true", r)
		}
	}
}
