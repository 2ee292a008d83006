package bookings

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"roamly/apperror"
	"roamly/db"
	"roamly/globals"
	"roamly/middleware"
	"roamly/models"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func ticketSecret() []byte {
	return []byte(globals.Env("TICKET_SECRET", "change_me_in_production"))
}

// TicketPayload is the signed string embedded in the QR code, verified
// at the meeting point: bookingID|tourID|userID|signature.
func TicketPayload(b *models.Booking) string {
	data := fmt.Sprintf("%s|%s|%s", b.BookingID, b.TourID, b.UserID)
	h := hmac.New(sha256.New, ticketSecret())
	h.Write([]byte(data))
	return data + "|" + base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// VerifyTicketPayload checks a scanned QR payload's signature.
func VerifyTicketPayload(payload string) bool {
	i := strings.LastIndexByte(payload, '|')
	if i < 0 {
		return false
	}
	data, sig := payload[:i], payload[i+1:]
	h := hmac.New(sha256.New, ticketSecret())
	h.Write([]byte(data))
	want := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(want))
}

// PrintTicket renders a booking as a PDF with a signed QR code. Only the
// booking owner or staff can print it.
func PrintTicket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	user := middleware.CurrentUser(r.Context())
	if user == nil {
		apperror.WriteAPI(w, r, apperror.Unauthenticated("You are not logged in. Please log in to access!"))
		return
	}

	var booking models.Booking
	err := db.BookingCollection.FindOne(ctx, bson.M{"bookingid": ps.ByName("id")}).Decode(&booking)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.FromStore(err, "booking"))
		return
	}
	if booking.UserID != user.UserID && user.Role != models.RoleAdmin && user.Role != models.RoleLeadGuide {
		apperror.WriteAPI(w, r, apperror.Forbidden())
		return
	}
	if !booking.Paid {
		apperror.WriteAPI(w, r, apperror.Validation("This booking has not been paid yet"))
		return
	}

	var tour models.Tour
	if err := db.TourCollection.FindOne(ctx, bson.M{"tourid": booking.TourID}).Decode(&tour); err != nil {
		apperror.WriteAPI(w, r, apperror.FromStore(err, "tour"))
		return
	}

	qrPNG, err := qrcode.Encode(TicketPayload(&booking), qrcode.Medium, 256)
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Tour Ticket")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Tour: %s", tour.Name))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", user.Name))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Booking: %s", booking.BookingID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Price: $%.2f", booking.Price))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=ticket-"+booking.BookingID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
