package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type provider interface {
	Name() string
}

type impl struct{}

func (i *impl) Name() string {
	return "impl"
}

func TestCheckInit(t *testing.T) {
	var typedNil *impl
	var empty provider = typedNil
	tests := []struct {
		name      string
		pairs     []any
		wantPanic bool
	}{
		{name: "все зависимости", pairs: []any{"store", &impl{}, "value", 1}},
		{name: "nil", pairs: []any{"store", nil}, wantPanic: true},
		{name: "nil указатель в интерфейсе", pairs: []any{"store", empty}, wantPanic: true},
		{name: "нечетное количество", pairs: []any{"store"}, wantPanic: true},
		{name: "имя не строка", pairs: []any{1, &impl{}}, wantPanic: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantPanic {
				require.Panics(t, func() { CheckInit(tt.pairs...) })
				return
			}
			require.NotPanics(t, func() { CheckInit(tt.pairs...) })
		})
	}
}
