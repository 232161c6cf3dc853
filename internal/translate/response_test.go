package translate

import (
	"errors"
	"testing"
)

func TestParseTranslation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "plain valid array",
			input: `[{"index": 0, "text": "こんにちは"}]`,
			want:  "こんにちは",
		},
		{
			name: "preamble with valid array",
			input: `Here is the translation:
			[
				{"index": 0, "text": "Bonjour"}
			]`,
			want: "Bonjour",
		},
		{
			name: "valid array with trailing text",
			input: `[
				{"index": 0, "text": "Hola"}
			]
			I hope this helps!`,
			want: "Hola",
		},
		{
			name:  "code fenced JSON",
			input: "```json\n[{\"index\": 0, \"text\": \"翻訳されたテキスト\"}]\n```",
			want:  "翻訳されたテキスト",
		},
		{
			name:  "single object",
			input: `{"index": 0, "text": "Übersetzt"}`,
			want:  "Übersetzt",
		},
		{
			name:  "wrapper object with translations key",
			input: `{"translations": [{"index": 0, "text": "Переведено"}]}`,
			want:  "Переведено",
		},
		{
			name:  "bare text reply",
			input: "Guten Morgen",
			want:  "Guten Morgen",
		},
		{
			name:  "backslash escape kept literally",
			input: `[{"index": 0, "text": "line one\Nline two"}]`,
			want:  `line one\Nline two`,
		},
		{
			name:    "empty reply",
			input:   "  ",
			wantErr: ErrEmptyResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTranslation(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTranslationRejectsBrokenJSON(t *testing.T) {
	for _, input := range []string{
		`[{"index": 0, "text": "incomplete"`,
		`[]`,
		`[{"index": 0, "text": ""}]`,
	} {
		if _, err := parseTranslation(input); err == nil {
			t.Errorf("parseTranslation(%q) expected error", input)
		}
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON",
			input: `[{"index": 0, "text": "hello"}]`,
			want:  `[{"index": 0, "text": "hello"}]`,
		},
		{
			name:  "json code fence",
			input: "```json\n[{\"index\": 0, \"text\": \"hello\"}]\n```",
			want:  `[{"index": 0, "text": "hello"}]`,
		},
		{
			name:  "with leading/trailing whitespace",
			input: "  \n\n```json\n[{\"index\": 0}]\n```\n\n  ",
			want:  `[{"index": 0}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}
