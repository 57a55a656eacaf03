// Package persistence holds the generic gorm repository and the row/domain mapping contract.
package persistence
