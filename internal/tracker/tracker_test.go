package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinybot/internal/message"
)

func TestNew_AssignsSenderID(t *testing.T) {
	assert.Equal(t, "u1", New("u1").SenderID)
	assert.NotEmpty(t, New("").SenderID)
}

func TestAsMap_FlattensState(t *testing.T) {
	tr := New("u1")
	tr.SetSlot("name", "Ann")
	req := message.NewRequest("hi there")
	req.Intent = "greet"
	req.Entities = map[string]any{"city": "Oslo"}
	tr.Update(req)

	assert.Equal(t, map[string]any{
		"name":           "Ann",
		"city":           "Oslo",
		"sender_id":      "u1",
		"latest_message": "hi there",
		"intent":         "greet",
		"turns":          1,
	}, tr.AsMap())
}

func TestReset_ClearsStateKeepsSender(t *testing.T) {
	tr := New("u1")
	tr.SetSlot("name", "Ann")
	tr.Update(message.NewRequest("x"))

	tr.Reset()

	_, ok := tr.Slot("name")
	require.False(t, ok)
	assert.Nil(t, tr.Latest())
	assert.Zero(t, tr.Turns())
	assert.Equal(t, "u1", tr.AsMap()["sender_id"])
	assert.Equal(t, "", tr.AsMap()["latest_message"])
}

func TestSlots_ReturnsCopy(t *testing.T) {
	tr := New("u1")
	tr.SetSlot("a", 1)
	s := tr.Slots()
	s["a"] = 2
	v, _ := tr.Slot("a")
	assert.Equal(t, 1, v)
}
