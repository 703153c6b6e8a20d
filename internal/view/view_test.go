package view_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"newsdesk/internal/view"
)

func TestCell_ZeroValueIsIdle(t *testing.T) {
	var c view.Cell[int]
	assert.Equal(t, view.Idle, c.Snapshot().Status)
}

func TestCell_StaleTicketIsDropped(t *testing.T) {
	var c view.Cell[string]
	first := c.Begin()
	second := c.Begin()

	assert.True(t, c.Resolve(second, "new", nil))
	assert.False(t, c.Resolve(first, "old", nil))

	s := c.Snapshot()
	assert.Equal(t, view.Success, s.Status)
	assert.Equal(t, "new", s.Value)
}

func TestCell_CancelDropsInFlightResult(t *testing.T) {
	var c view.Cell[int]
	tk := c.Begin()
	c.Cancel()

	assert.False(t, c.Resolve(tk, 42, nil))
	s := c.Snapshot()
	assert.Equal(t, view.Idle, s.Status)
	assert.Zero(t, s.Value)
}

func TestCell_Error(t *testing.T) {
	var c view.Cell[int]
	boom := errors.New("boom")
	tk := c.Begin()
	c.Resolve(tk, 7, boom)

	s := c.Snapshot()
	assert.Equal(t, view.Error, s.Status)
	assert.ErrorIs(t, s.Err, boom)
	assert.Zero(t, s.Value)
}

func TestLoad_AppliesResult(t *testing.T) {
	var c view.Cell[int]
	s := view.Load(context.Background(), &c, func(context.Context) (int, error) { return 3, nil })
	assert.Equal(t, view.Success, s.Status)
	assert.Equal(t, 3, s.Value)
}

func TestLoad_DiscardsAfterCancellation(t *testing.T) {
	var c view.Cell[int]
	view.Load(context.Background(), &c, func(context.Context) (int, error) { return 1, nil })

	ctx, cancel := context.WithCancel(context.Background())
	s := view.Load(ctx, &c, func(context.Context) (int, error) {
		cancel() // torn down while the request is in flight
		return 2, nil
	})
	assert.Equal(t, view.Success, s.Status)
	assert.Equal(t, 1, s.Value, "late result must not replace the applied one")
}
