package artifacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ramesh Patel", "ramesh_patel"},
		{"  Ramesh   Patel  ", "ramesh_patel"},
		{"O'Brien & Sons", "obrien_sons"},
		{"tab\tand\nnewline", "tab_and_newline"},
		{"ABCDEFGHIJKLMNOPQRSTUVWXYZ", "abcdefghijklmnopqrst"},
		{"Zoë Müller", "zo_mller"},
		{"", Placeholder},
		{"   ", Placeholder},
		{"!!!", Placeholder},
		{"___", Placeholder},
		{"राम", Placeholder},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Slug(tt.in)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), MaxSlugLen)
		})
	}
}

func TestSlug_Idempotent(t *testing.T) {
	inputs := []string{
		"a b", "a_b", "a _ b", "_lead", "trail_", "Mixed CASE name here and more",
		"x  y z", "12345678901234567890_1", "a__b", "  __  ", "ok",
	}
	for _, in := range inputs {
		once := Slug(in)
		assert.Equal(t, once, Slug(once), "input %q", in)
	}
}

func TestFileNameAndCustomer(t *testing.T) {
	assert.Equal(t, "ramesh_patel_report.pdf", FileName("Ramesh Patel", "report"))
	assert.Equal(t, "ramesh patel", CustomerFromFileName("ramesh_patel_report.pdf"))
	assert.Equal(t, "a b", CustomerFromFileName("a_b_invoice.pdf"))
	assert.Equal(t, "notes", CustomerFromFileName("notes.pdf"))
}
