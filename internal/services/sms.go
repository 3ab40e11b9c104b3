package services

import "log"

// SMSSender delivers one-time codes. Implementations report delivery
// success only; the caller decides how to surface a failure and never
// retries internally.
type SMSSender interface {
	Send(phone, code string) bool
}

// LogSMSSender writes codes to the process log instead of dispatching
// them. Used when no SMS provider is configured.
type LogSMSSender struct{}

// Send logs the code and reports success.
func (LogSMSSender) Send(phone, code string) bool {
	log.Printf("[sms] code for %s: %s", phone, code)
	return true
}
