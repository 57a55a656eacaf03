// Package aggregates defines the error taxonomy shared by domain packages.
//
// Nothing here knows about persistence or transport; data and http layers translate their own
// failures into these codes.
package aggregates
