package track

// Reason classifies why a track did not end up on disk.
type Reason string

const (
	ReasonDownloadError    Reason = "download_error"
	ReasonFileMissing      Reason = "file_missing"
	ReasonAccessRestricted Reason = "access_restricted"
)

// Failure records a per-track outcome that is not a success.
type Failure struct {
	Key    string `json:"key"`
	Track  Record `json:"track"`
	Reason Reason `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// NewFailure builds a failure for the record.
func NewFailure(rec Record, reason Reason, detail string) Failure {
	return Failure{
		Key:    rec.Key(),
		Track:  rec,
		Reason: reason,
		Detail: detail,
	}
}

// CountByReason tallies failures per reason.
func CountByReason(failures []Failure) map[Reason]int {
	counts := make(map[Reason]int, 3)
	for _, f := range failures {
		counts[f.Reason]++
	}
	return counts
}
