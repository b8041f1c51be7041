package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArguments(t *testing.T) {
	type searchArgs struct {
		ServiceIDs []int64 `json:"service_ids"`
		Date       string  `json:"date"`
	}

	cases := []struct {
		name string
		body string
	}{
		{"flat object", `{"service_ids":[1,2],"date":"2026-03-16"}`},
		{"under args", `{"args":{"service_ids":[1,2],"date":"2026-03-16"}}`},
		{"under parameters", `{"parameters":{"service_ids":[1,2],"date":"2026-03-16"}}`},
		{"tool call list with arguments", `{"toolCallList":[{"id":"tc1","name":"searchAvailability","arguments":{"service_ids":[1,2],"date":"2026-03-16"}}]}`},
		{"tool call list with args", `{"toolCallList":[{"id":"tc1","args":{"service_ids":[1,2],"date":"2026-03-16"}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := Arguments([]byte(tc.body))
			require.NoError(t, err)

			var args searchArgs
			require.NoError(t, json.Unmarshal(raw, &args))
			assert.Equal(t, []int64{1, 2}, args.ServiceIDs)
			assert.Equal(t, "2026-03-16", args.Date)
		})
	}

	t.Run("args wrapper wins over flat keys", func(t *testing.T) {
		raw, err := Arguments([]byte(`{"date":"wrong","args":{"date":"2026-03-16"}}`))
		require.NoError(t, err)

		var args searchArgs
		require.NoError(t, json.Unmarshal(raw, &args))
		assert.Equal(t, "2026-03-16", args.Date)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := Arguments(nil)
		assert.ErrorIs(t, err, ErrEmptyPayload)
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := Arguments([]byte(`[1,2,3]`))
		assert.ErrorIs(t, err, ErrBadPayload)
	})

	t.Run("empty object", func(t *testing.T) {
		_, err := Arguments([]byte(`{}`))
		assert.ErrorIs(t, err, ErrNoArguments)
	})
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+1 212 867 5309", "+12128675309"},
		{"(212) 867-5309", "+12128675309"},
		{"212.867.5309", "+12128675309"},
		{" +12128675309 ", "+12128675309"},
	}
	for _, tc := range cases {
		got, err := Phone(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := Phone("123")
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Phone("")
		assert.ErrorIs(t, err, ErrMissingPhone)
	})
}
