// Package repository implements raw-SQL persistence over MySQL. Each
// repository owns one table family and reports failures through sentinel
// errors (ErrUserNotFound, ErrTokenNotFound, ErrAlreadyApplied, ...) so
// handlers can map them to HTTP statuses with errors.Is.
package repository
