// Package tasks contains the job orchestration core: the [Request] and
// [Event] unions, the pause [Gate], and the [Worker] that services every
// download, convert, and refresh job.
//
// # Architecture
//
// A single worker goroutine consumes a bounded request queue in FIFO
// order and emits an ordered event stream per job. The worker exclusively
// owns the dedup catalog and the error journal; the UI side owns its
// queue state and communicates only through the two channels. Even
// user-initiated store mutations (journal deletions, catalog cleanup,
// library file deletes) are expressed as requests so the single-writer
// rule holds.
//
// # Pausing
//
// The [Gate] suspends the worker cooperatively at track boundaries. An
// in-flight yt-dlp or ffmpeg invocation always runs to completion; pause
// takes effect before the next track starts.
//
// # Event delivery
//
// State transitions ([JobStarted], [TrackComplete], ...) use blocking
// sends on a buffered channel, so their order and delivery hold as long
// as the consumer keeps draining. [LogLine] events are raw subprocess
// chatter and use non-blocking sends; under backpressure lines are
// dropped rather than stalling the job.
//
// # Failure handling
//
// A failed track journals an entry with everything needed to retry it
// verbatim and the job moves on; one bad track never aborts the rest. A
// failed catalog lookup short-circuits the job, journals an entry without
// artist or title, and emits [JobError]. Requests carrying a [RetryRef]
// settle their journal entry instead of adding a new one: removed on
// success, retry counter bumped on another failure.
package tasks
