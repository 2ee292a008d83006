package bookings

import (
	"strings"
	"testing"

	"roamly/models"

	"github.com/stretchr/testify/assert"
)

func TestTicketPayloadVerifies(t *testing.T) {
	booking := &models.Booking{BookingID: "b1", TourID: "t1", UserID: "u1"}
	payload := TicketPayload(booking)

	assert.True(t, strings.HasPrefix(payload, "b1|t1|u1|"))
	assert.True(t, VerifyTicketPayload(payload))
}

func TestTicketPayloadTamperDetected(t *testing.T) {
	booking := &models.Booking{BookingID: "b1", TourID: "t1", UserID: "u1"}
	payload := TicketPayload(booking)

	forged := strings.Replace(payload, "u1", "u2", 1)
	assert.False(t, VerifyTicketPayload(forged))

	assert.False(t, VerifyTicketPayload("no-separator"))
	assert.False(t, VerifyTicketPayload("b1|t1|u1|not-a-signature"))
}
