package port

// Notifier dispatches user notifications. Sends are fire-and-forget from
// the caller's perspective: the implementation spawns its own delivery work
// and accounts for completion via metrics, so the pipeline's success path
// never depends on delivery.
type Notifier interface {
	DispatchEmail(to, subject, htmlBody string)
	DispatchSMS(to, body string)
}
