package notification

import (
	"fmt"
	"time"
)

type confirmationData struct {
	RenterName    string
	LandlordName  string
	ListingTitle  string
	PickupCity    string
	StartDate     time.Time
	EndDate       time.Time
	TotalDays     int
	TotalAmount   int64
	BookingID     int64
	RenterEmail   string
	RenterPhone   string
	LandlordEmail string
	LandlordPhone string
}

const dateLayout = "02.01.2006"

func euros(minor int64) string {
	return fmt.Sprintf("%d,%02d €", minor/100, minor%100)
}

func orMissing(s string) string {
	if s == "" {
		return "Nicht angegeben"
	}
	return s
}

func renterConfirmation(d confirmationData) (subject, body string) {
	subject = fmt.Sprintf("Buchungsbestätigung – %s", d.ListingTitle)
	body = fmt.Sprintf(
		"Hallo %s,\n\ndeine Buchung ist bestätigt!\n\n"+
			"Dachbox: %s\nAbholung: %s\nZeitraum: %s bis %s (%d Tage)\nGesamtbetrag: %s\n\n"+
			"Kontakt Vermieter: %s, %s, Tel: %s\n\nBuchungsnummer: %d\n",
		d.RenterName, d.ListingTitle, d.PickupCity,
		d.StartDate.Format(dateLayout), d.EndDate.Format(dateLayout), d.TotalDays,
		euros(d.TotalAmount),
		d.LandlordName, d.LandlordEmail, orMissing(d.LandlordPhone),
		d.BookingID,
	)
	return subject, body
}

func landlordConfirmation(d confirmationData) (subject, body string) {
	subject = fmt.Sprintf("Neue Buchung – %s", d.ListingTitle)
	body = fmt.Sprintf(
		"Hallo %s,\n\ndeine Dachbox wurde gebucht und bezahlt.\n\n"+
			"Dachbox: %s\nZeitraum: %s bis %s (%d Tage)\n\n"+
			"Kontakt Mieter: %s, %s, Tel: %s\n\nBuchungsnummer: %d\n",
		d.LandlordName, d.ListingTitle,
		d.StartDate.Format(dateLayout), d.EndDate.Format(dateLayout), d.TotalDays,
		d.RenterName, d.RenterEmail, orMissing(d.RenterPhone),
		d.BookingID,
	)
	return subject, body
}

func reviewReminder(renterName, listingTitle string, bookingID int64) (subject, body string) {
	subject = fmt.Sprintf("Wie war deine Dachbox? – %s", listingTitle)
	body = fmt.Sprintf(
		"Hallo %s,\n\ndeine Miete von %s ist beendet. "+
			"Teile deine Erfahrung mit einer Bewertung!\n\nBuchungsnummer: %d\n",
		renterName, listingTitle, bookingID,
	)
	return subject, body
}
