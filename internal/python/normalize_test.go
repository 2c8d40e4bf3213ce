package python

import (
	"strings"
	"testing"

	"github.com/a3lem/replink/internal/repl"
)

var (
	plain     = repl.Profile{}
	bracketed = repl.Profile{BracketedPaste: true}
)

func TestNormalizePlain(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{
			name: "simple statement",
			code: "x = 42",
			want: "x = 42\n",
		},
		{
			name: "block then top-level statement",
			code: "if True:\n    print(1)\nprint(2)",
			want: "if True:\n    print(1)\n\nprint(2)\n",
		},
		{
			name: "indented last line",
			code: "with open(f) as fp:\n    data = fp.read()",
			want: "with open(f) as fp:\n    data = fp.read()\n\n",
		},
		{
			name: "single-line compound",
			code: "def hello(): ...",
			want: "def hello(): ...\n\n",
		},
		{
			name: "bare header is not a single-line compound",
			code: "x = 1\nif x:",
			want: "x = 1\nif x:\n",
		},
		{
			name: "elif chain stays attached",
			code: "if x:\n    1\nelif y:\n    2",
			want: "if x:\n    1\nelif y:\n    2\n\n",
		},
		{
			name: "else and except stay attached",
			code: "try:\n    f()\nexcept ValueError:\n    pass\nelse:\n    g()\nfinally:\n    h()",
			want: "try:\n    f()\nexcept ValueError:\n    pass\nelse:\n    g()\nfinally:\n    h()\n\n",
		},
		{
			name: "blank lines inside a body are deleted",
			code: "def foo():\n    x = 1\n\n    y = 2\n\n    return x + y",
			want: "def foo():\n    x = 1\n    y = 2\n    return x + y\n\n",
		},
		{
			name: "common indentation is stripped",
			code: "    def f():\n        return 1\n    f()",
			want: "def f():\n    return 1\n\nf()\n",
		},
		{
			name: "multiline literal is one logical line",
			code: "a = [\n    'hello',\n    'world'\n]",
			want: "a = [\n    'hello',\n    'world'\n]\n",
		},
		{
			name: "no boundary inside brackets",
			code: "def f():\n    x = [\n        1,\n    ]\nprint(2)",
			want: "def f():\n    x = [\n        1,\n    ]\n\nprint(2)\n",
		},
		{
			name: "brackets in strings are ignored",
			code: "s = '('\nprint(s)",
			want: "s = '('\nprint(s)\n",
		},
		{
			name: "two blocks get one boundary each",
			code: "def f():\n    return 1\ndef g():\n    return 2\nf()",
			want: "def f():\n    return 1\n\ndef g():\n    return 2\n\nf()\n",
		},
		{
			name: "empty input",
			code: "",
			want: "",
		},
		{
			name: "only blank lines",
			code: "\n   \n\t\n",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.code, plain); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestNormalizeBracketed(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{
			name: "simple statement",
			code: "x = 42",
			want: "x = 42\n",
		},
		{
			name: "indented block ends with one newline",
			code: "def hello():\n    print(\"hi\")",
			want: "def hello():\n    print(\"hi\")\n",
		},
		{
			name: "blank lines are preserved",
			code: "class Person:\n    name: str\n\n    def get_name(self):\n        return self.name",
			want: "class Person:\n    name: str\n\n    def get_name(self):\n        return self.name\n",
		},
		{
			name: "trailing blank lines collapse to one newline",
			code: "x = 1\n\n\n",
			want: "x = 1\n",
		},
		{
			name: "dedent applies",
			code: "    x = 1\n    y = 2",
			want: "x = 1\ny = 2\n",
		},
		{
			name: "empty input",
			code: "",
			want: "",
		},
		{
			name: "only blank lines",
			code: "\n\n",
			want: "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.code, bracketed); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"x = 42",
		"if True:\n    print(1)\nprint(2)",
		"def f():\n    x = 1\n\n    y = 2",
		"if x:\n    1\nelif y:\n    2",
		"a = [\n    1,\n    2,\n]",
		"class C:\n    def m(self):\n        pass",
	}

	for _, p := range []repl.Profile{plain, bracketed} {
		for _, code := range inputs {
			once := Normalize(code, p)
			twice := Normalize(once, p)
			if once != twice {
				t.Errorf("Normalize not idempotent for %q (bracketed=%v):\nonce:  %q\ntwice: %q",
					code, p.BracketedPaste, once, twice)
			}
		}
	}
}

func TestNormalizePlainHasNoBlankLines(t *testing.T) {
	code := "def foo():\n    x = 1\n\n\n    y = 2\n\nreturn_value = foo()"
	got := Normalize(code, plain)

	// Interior blank lines are gone; the only blank line is the inserted
	// block boundary before the top-level statement.
	body := strings.TrimRight(got, "\n")
	for i, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" && i != 3 {
			t.Errorf("unexpected blank line at %d in %q", i, got)
		}
	}
}

func TestNormalizeBracketedSingleTrailingNewline(t *testing.T) {
	inputs := []string{
		"x = 1",
		"def f():\n    pass",
		"if a:\n    b()\nelse:\n    c()",
		"x = 1\n\n\n",
	}

	for _, code := range inputs {
		got := Normalize(code, bracketed)
		if !strings.HasSuffix(got, "\n") || strings.HasSuffix(got, "\n\n") {
			t.Errorf("Normalize(%q, bracketed) = %q, want exactly one trailing newline", code, got)
		}
	}
}
