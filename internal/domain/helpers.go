package domain

import (
	"fmt"
	"time"
)

// for debug
func (r *Reply) String() string {
	image := "-"
	if r.Image != nil {
		image = *r.Image
	}
	return fmt.Sprintf("[id:%d, thread_id:%d, image:%s, created:%s]", r.Id, r.ThreadId, image, r.CreatedAt.Format(time.StampMilli))
}

func (t *Thread) String() string {
	s := fmt.Sprintf("[id:%d, board:%s, title:%s, bumped:%v, replies:[", t.Id, t.Board, t.Title, t.BumpTime)
	for i, r := range t.Replies {
		if i > 0 {
			s += ", "
		}
		s += r.String()
	}
	return s + "]]"
}
