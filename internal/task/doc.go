// Package task runs background work off the request path. Content
// generation tasks are pushed onto a bounded in-memory TaskQueue and executed
// by a WorkerPool; a Backfiller periodically enqueues properties that still
// lack generated content. Tasks are not persisted: anything lost on restart
// is picked up again by the next backfill pass.
package task
