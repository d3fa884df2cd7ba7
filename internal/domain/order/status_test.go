package order

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusNext(t *testing.T) {
	statuses := Statuses()
	for i, s := range statuses[:len(statuses)-1] {
		t.Run(string(s), func(t *testing.T) {
			next, err := s.Next()
			require.NoError(t, err)
			assert.Equal(t, statuses[i+1], next)
		})
	}
}

func TestStatusNext_Terminal(t *testing.T) {
	_, err := StatusDelivered.Next()
	require.ErrorIs(t, err, ErrTerminalStatus)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.True(t, StatusDelivered.IsTerminal())
}

func TestStatusNext_Unknown(t *testing.T) {
	_, err := Status("Lost").Next()

	var usErr *UnknownStatusError
	require.ErrorAs(t, err, &usErr)
	assert.Equal(t, Status("Lost"), usErr.Status)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, -1, Status("Lost").Index())
}

func TestStatuses_ReturnsCopy(t *testing.T) {
	s := Statuses()
	s[0] = "mutated"
	assert.Equal(t, StatusConfirmed, Statuses()[0])
}
