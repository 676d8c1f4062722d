package domain

import (
	"time"
)

// to iterate thru layers: handler -> service -> storage
type ThreadCreationData struct {
	Board   BoardShortName
	Title   ThreadTitle
	Content PostText
	Image   *string // filename token from the media store, nil when no upload
}

type ThreadMetadata struct {
	Id        ThreadId
	Board     BoardShortName
	Title     ThreadTitle
	Content   PostText
	Image     *string
	CreatedAt time.Time
	BumpTime  time.Time
}

// ThreadSummary is one entry of a board listing: thread metadata plus the
// total reply count and a bounded preview of the earliest replies.
type ThreadSummary struct {
	ThreadMetadata
	ReplyCount     int
	PreviewReplies []*Reply
}

type Thread struct {
	ThreadMetadata
	Replies []*Reply
}

// Eviction describes a thread removed by capacity enforcement.
// ImagePaths lists the uploads that still need filesystem release.
type Eviction struct {
	ThreadId   ThreadId
	ImagePaths []string
}

// ImagePaths collects every upload referenced by the thread and its replies.
func (t *Thread) ImagePaths() []string {
	var paths []string
	if t.Image != nil {
		paths = append(paths, *t.Image)
	}
	for _, r := range t.Replies {
		if r.Image != nil {
			paths = append(paths, *r.Image)
		}
	}
	return paths
}
