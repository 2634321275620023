// Package tasks keeps the keywords robots search fans by and the queue of
// messages they send.
package tasks
