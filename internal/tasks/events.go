package tasks

// Event is the closed union of notifications the worker emits while
// servicing requests. Events for one job are totally ordered; events are
// consumed at most once, there is no replay.
type Event interface {
	JobID() int
	isEvent()
}

// MetadataFetched reports that a job's display name is known, before the
// full track listing has resolved.
type MetadataFetched struct {
	ID   int
	Name string
}

// JobStarted reports that the track listing is resolved and downloading
// begins.
type JobStarted struct {
	ID          int
	Name        string
	TotalTracks int
}

// TrackStarted reports that one track's download began.
type TrackStarted struct {
	ID       int
	Artist   string
	Title    string
	TrackNum int
}

// TrackComplete reports a finished, tagged, and cataloged track.
type TrackComplete struct {
	ID     int
	Artist string
	Title  string
	Path   string
}

// TrackSkipped reports a track already present in the catalog.
type TrackSkipped struct {
	ID     int
	Artist string
	Title  string
}

// TrackFailed reports one track's failure. The job continues with the
// next track.
type TrackFailed struct {
	ID     int
	Artist string
	Title  string
	Error  string
}

// LogLine carries raw subprocess output for display. LogLines are
// best-effort: under backpressure the worker drops them rather than
// stalling the job.
type LogLine struct {
	ID   int
	Line string
}

// JobComplete reports that every track of a job has been visited.
type JobComplete struct {
	ID   int
	Name string
}

// JobError reports a job-level failure before any track processing.
type JobError struct {
	ID    int
	Error string
}

// ConvertStarted reports the beginning of one file conversion.
type ConvertStarted struct {
	ID        int
	InputPath string
}

// ConvertComplete reports a finished conversion.
type ConvertComplete struct {
	ID         int
	InputPath  string
	OutputPath string
}

// ConvertFailed reports a failed conversion.
type ConvertFailed struct {
	ID        int
	InputPath string
	Error     string
}

// ConvertDeleteConfirm asks whether to delete the original file after a
// successful single conversion.
type ConvertDeleteConfirm struct {
	ID   int
	Path string
}

// ConvertBatchComplete summarizes a batch conversion.
type ConvertBatchComplete struct {
	ID         int
	Total      int
	Successful int
}

// ConvertBatchDeleteConfirm asks once whether to delete all successfully
// converted originals.
type ConvertBatchDeleteConfirm struct {
	ID    int
	Paths []string
}

// RefreshStarted reports the beginning of one metadata refresh.
type RefreshStarted struct {
	ID        int
	InputPath string
}

// RefreshComplete reports refreshed tags on one file.
type RefreshComplete struct {
	ID        int
	InputPath string
}

// RefreshFailed reports a failed metadata refresh.
type RefreshFailed struct {
	ID        int
	InputPath string
	Error     string
}

// RefreshBatchComplete summarizes a batch refresh.
type RefreshBatchComplete struct {
	ID         int
	Total      int
	Successful int
}

// M3UGenerated reports a written playlist file.
type M3UGenerated struct {
	ID   int
	Path string
}

// M3UConfirm asks whether to write a playlist despite missing tracks. The
// resolved paths ride along so confirmation does not refetch.
type M3UConfirm struct {
	ID      int
	Name    string
	Paths   []string
	Missing []string
}

// CleanupDone reports the result of a catalog sweep.
type CleanupDone struct {
	ID          int
	Removed     int
	TotalBefore int
}

// ErrorsPurged reports completed journal deletions.
type ErrorsPurged struct {
	ID int
}

// FilesDeleted reports completed file deletions.
type FilesDeleted struct {
	ID      int
	Deleted int
}

func (e MetadataFetched) JobID() int           { return e.ID }
func (e JobStarted) JobID() int                { return e.ID }
func (e TrackStarted) JobID() int              { return e.ID }
func (e TrackComplete) JobID() int             { return e.ID }
func (e TrackSkipped) JobID() int              { return e.ID }
func (e TrackFailed) JobID() int               { return e.ID }
func (e LogLine) JobID() int                   { return e.ID }
func (e JobComplete) JobID() int               { return e.ID }
func (e JobError) JobID() int                  { return e.ID }
func (e ConvertStarted) JobID() int            { return e.ID }
func (e ConvertComplete) JobID() int           { return e.ID }
func (e ConvertFailed) JobID() int             { return e.ID }
func (e ConvertDeleteConfirm) JobID() int      { return e.ID }
func (e ConvertBatchComplete) JobID() int      { return e.ID }
func (e ConvertBatchDeleteConfirm) JobID() int { return e.ID }
func (e RefreshStarted) JobID() int            { return e.ID }
func (e RefreshComplete) JobID() int           { return e.ID }
func (e RefreshFailed) JobID() int             { return e.ID }
func (e RefreshBatchComplete) JobID() int      { return e.ID }
func (e M3UGenerated) JobID() int              { return e.ID }
func (e M3UConfirm) JobID() int                { return e.ID }
func (e CleanupDone) JobID() int               { return e.ID }
func (e ErrorsPurged) JobID() int              { return e.ID }
func (e FilesDeleted) JobID() int              { return e.ID }

func (MetadataFetched) isEvent()           {}
func (JobStarted) isEvent()                {}
func (TrackStarted) isEvent()              {}
func (TrackComplete) isEvent()             {}
func (TrackSkipped) isEvent()              {}
func (TrackFailed) isEvent()               {}
func (LogLine) isEvent()                   {}
func (JobComplete) isEvent()               {}
func (JobError) isEvent()                  {}
func (ConvertStarted) isEvent()            {}
func (ConvertComplete) isEvent()           {}
func (ConvertFailed) isEvent()             {}
func (ConvertDeleteConfirm) isEvent()      {}
func (ConvertBatchComplete) isEvent()      {}
func (ConvertBatchDeleteConfirm) isEvent() {}
func (RefreshStarted) isEvent()            {}
func (RefreshComplete) isEvent()           {}
func (RefreshFailed) isEvent()             {}
func (RefreshBatchComplete) isEvent()      {}
func (M3UGenerated) isEvent()              {}
func (M3UConfirm) isEvent()                {}
func (CleanupDone) isEvent()               {}
func (ErrorsPurged) isEvent()              {}
func (FilesDeleted) isEvent()              {}
