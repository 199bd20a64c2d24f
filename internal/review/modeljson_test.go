package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"descricao": "x"}`,
			want: `{"descricao": "x"}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"descricao\": \"x\"}\n```",
			want: `{"descricao": "x"}`,
		},
		{
			name: "anonymous fence",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "prose around object",
			in:   "Claro! Segue a análise:\n{\"analise\": []}\nEspero ter ajudado.",
			want: `{"analise": []}`,
		},
		{
			name: "nested braces kept",
			in:   "x {\"a\": {\"b\": 2}} y",
			want: `{"a": {"b": 2}}`,
		},
		{
			name: "no object",
			in:   "não há json aqui",
			want: "não há json aqui",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanModelJSON(tt.in))
		})
	}
}

func TestParseModelJSON(t *testing.T) {
	type payload struct {
		Descricao string `json:"descricao"`
	}

	t.Run("fenced object", func(t *testing.T) {
		got, err := ParseModelJSON[payload]("```json\n{\"descricao\": \"resumo\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "resumo", got.Descricao)
	})

	t.Run("prose wrapped", func(t *testing.T) {
		got, err := ParseModelJSON[payload](`Aqui está: {"descricao": "ok"} — pronto.`)
		require.NoError(t, err)
		assert.Equal(t, "ok", got.Descricao)
	})

	t.Run("no object at all", func(t *testing.T) {
		_, err := ParseModelJSON[payload]("desculpe, não consegui analisar")
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseModelJSON[payload](`{"descricao": "sem fechamento`)
		require.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseModelJSON[payload]("")
		require.Error(t, err)
	})
}
