// Package payments holds the Payment aggregate and its value objects.
//
// A payment is created PENDING and moves exactly once to COMPLETED or FAILED. Money and
// Metadata validate on construction and are immutable afterwards.
package payments
