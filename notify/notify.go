// Package notify is the boundary to outbound customer/driver messaging.
// Actual WhatsApp/SMS delivery lives outside this service; the app only
// hands links across this interface.
package notify

import "log"

// Sender delivers tracking links to their audience.
type Sender interface {
	SendTrackingLink(phone, orderID, url string) error
	SendDriverLink(driverID, orderID, url string) error
}

// LogSender writes links to the process log instead of sending them.
type LogSender struct{}

func (LogSender) SendTrackingLink(phone, orderID, url string) error {
	log.Printf("notify: tracking link for order %s -> %s: %s", orderID, phone, url)
	return nil
}

func (LogSender) SendDriverLink(driverID, orderID, url string) error {
	log.Printf("notify: driver link for order %s -> driver %s: %s", orderID, driverID, url)
	return nil
}
