// Package task provides the background worker pool used for asynchronous
// persistence. Tasks are held only in memory: submission is fire-and-forget,
// failed tasks are reported to an error handler but never retried, and
// nothing survives a process restart.
package task
