package codechunk

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseAttributes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Attr
	}{
		{name: "empty", input: "", want: nil},
		{
			name:  "bool and quoted",
			input: `cmd=true id="setup"`,
			want:  []Attr{{Key: "cmd", Value: "true"}, {Key: "id", Value: "setup"}},
		},
		{
			name:  "bare flag",
			input: `hide cmd=python3`,
			want:  []Attr{{Key: "hide", Value: "true"}, {Key: "cmd", Value: "python3"}},
		},
		{
			name:  "colon separator and commas",
			input: `cmd:true, output:"html"`,
			want:  []Attr{{Key: "cmd", Value: "true"}, {Key: "output", Value: "html"}},
		},
		{
			name:  "list",
			input: `args=["-u", '-W ignore', x]`,
			want:  []Attr{{Key: "args", List: []string{"-u", "-W ignore", "x"}}},
		},
		{
			name:  "empty list",
			input: `args=[]`,
			want:  []Attr{{Key: "args", List: []string{}}},
		},
		{
			name:  "escaped quote",
			input: `id="a\"b"`,
			want:  []Attr{{Key: "id", Value: `a"b`}},
		},
		{
			name:  "class and id shorthand",
			input: `.line-numbers #intro`,
			want:  []Attr{{Key: "class", Value: "line-numbers"}, {Key: "id", Value: "intro"}},
		},
		{
			name:  "spaces around separator",
			input: `id = "x"`,
			want:  []Attr{{Key: "id", Value: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAttributes(tt.input)
			if err != nil {
				t.Fatalf("ParseAttributes(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAttributes(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAttributes_Errors(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`id="unterminated`,
		`args=["a", "b"`,
		`cmd=`,
		`="x"`,
		`args=[=]`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseAttributes(in); !errors.Is(err, ErrInvalidAttributes) {
				t.Errorf("ParseAttributes(%q) error = %v, want ErrInvalidAttributes", in, err)
			}
		})
	}
}
