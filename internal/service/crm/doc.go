// Package crm forwards prospects to the external Lead Desk CRM. The push
// is synchronous and is not retried; upstream failures surface as
// ErrUpstream so handlers can answer 502.
package crm
