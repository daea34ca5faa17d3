package queue

import "time"

// MailQueueName is the durable queue carrying outbound mail events.
const MailQueueName = "mail.outbound"

// PasswordResetMail is the event published when a password reset token
// has been issued and must be delivered out of band. Body contains the
// fully rendered message including the reset URL with the plaintext
// token; the event is the only place outside the HTTP response where
// that plaintext appears, and it is never written to the database.
type PasswordResetMail struct {
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
