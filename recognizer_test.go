package stun

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMessage(t *testing.T) {
	req := NewRequest()
	req.SetType(BindingRequest)
	encoded, err := req.Encode()
	assert.NoError(t, err)
	assert.True(t, IsMessage(encoded, false))

	assert.False(t, IsMessage(make([]byte, 10), false))

	legacy := append([]byte(nil), encoded...)
	binary.BigEndian.PutUint32(legacy[4:8], 0xDEADBEEF)
	assert.False(t, IsMessage(legacy, false))
	assert.True(t, IsMessage(legacy, true))

	notStun := append([]byte(nil), encoded...)
	notStun[0] = 0xC0
	assert.False(t, IsMessage(notStun, false))
}
