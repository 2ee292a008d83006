package bookings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestReplayedConfirmation(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	assert.True(t, replayedConfirmation(dup))

	other := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 121}}}
	assert.False(t, replayedConfirmation(other))

	assert.False(t, replayedConfirmation(errors.New("network down")))
	assert.False(t, replayedConfirmation(nil))
}
