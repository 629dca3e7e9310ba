package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdcore/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"shebang bash", "#!/bin/bash\necho hello", "bash"},
		{"shebang sh normalizes to bash", "#!/bin/sh\necho hello", "bash"},
		{"shebang python", "#!/usr/bin/env python3\nprint('hello')", "python"},
		{"shebang wins over patterns", "#!/bin/bash\ndef foo():\n    pass", "bash"},
		{"go", "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}", "go"},
		{"python", "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", "python"},
		{"python import", "from os import path\nprint(path)", "python"},
		{"javascript", "const x = () => { return 42; };\nconsole.log(x());", "javascript"},
		{"json", `{"key": "value", "number": 123}`, "json"},
		{"yaml", "key: value\nother: 123\nlist:\n  - item1\n  - item2", "yaml"},
		{"rust", "fn main() {\n    println!(\"Hello, world!\");\n}", "rust"},
		{"sql", "SELECT * FROM users WHERE id = 1;", "sql"},
		{"html", "<!DOCTYPE html>\n<html>\n<body></body>\n</html>", "html"},
		{"dockerfile", "FROM golang:1.25\nWORKDIR /app\nCOPY . .\nRUN go build", "dockerfile"},
		{"plain text", "just some text without any code patterns", langdetect.Text},
		{"empty", "", langdetect.Text},
		{"whitespace only", "  \n\t\n", langdetect.Text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestGuess(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "go", langdetect.Guess([]byte("package main\n")))
	assert.Empty(t, langdetect.Guess([]byte("just some words")))
	assert.Empty(t, langdetect.Guess(nil))
}
