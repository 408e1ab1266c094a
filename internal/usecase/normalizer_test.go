package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "lowercases", input: "DELL", want: "dell"},
		{name: "strips spaces", input: "Dell XPS 13", want: "dellxps13"},
		{name: "strips hyphen", input: "65-W", want: "65w"},
		{name: "strips slash and comma", input: "USB/HDMI, VGA", want: "usbhdmivga"},
		{name: "strips tabs and newlines", input: "Laptop\tBattery\nPack", want: "laptopbatterypack"},
		{name: "only separators", input: " - / , ", want: ""},
		{name: "keeps other punctuation", input: "USB-C (3.1)!", want: "usbc(3.1)!"},
		{name: "keeps digits", input: "HP510-4C", want: "hp5104c"},
		{name: "keeps accented letters", input: "Écran Réseau", want: "écranréseau"},
		{name: "keeps underscores and dots", input: "a_b.c", want: "a_b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Properties(t *testing.T) {
	samples := []string{
		"",
		"   ",
		"Dell XPS 13",
		"HP 510 4-Cell Battery",
		"65W/90W, USB-C",
		"--//,,",
		"Ünïcödé Tëxt",
		"Samsung 27\" Monitor",
		"a b",
	}

	for _, s := range samples {
		once := Normalize(s)

		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", s)
		assert.False(t, strings.ContainsAny(once, " -/,"), "separators left in %q", once)
	}
}

func TestNormalizeValue(t *testing.T) {
	text := "Laptop Battery"
	price := 12.0
	count := 42
	visible := true

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: ""},
		{name: "string", input: "Docking Station", want: "dockingstation"},
		{name: "nil string pointer", input: (*string)(nil), want: ""},
		{name: "string pointer", input: &text, want: "laptopbattery"},
		{name: "nil float pointer", input: (*float64)(nil), want: ""},
		{name: "float pointer", input: &price, want: "12"},
		{name: "int pointer", input: &count, want: "42"},
		{name: "bool pointer", input: &visible, want: "true"},
		{name: "plain float", input: 65.5, want: "65.5"},
		{name: "plain int", input: 510, want: "510"},
		{name: "plain bool", input: false, want: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeValue(tt.input))
		})
	}
}
