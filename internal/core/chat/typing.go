package chat

import "time"

// typingIndicator 打字指示；出現後至少顯示 minVisible，等待提早結束時延後隱藏
type typingIndicator struct {
	minVisible time.Duration
	shownAt    time.Time
}

func (t *typingIndicator) show(now time.Time) {
	t.shownAt = now
}

func (t *typingIndicator) visible(busy bool, now time.Time) bool {
	if busy {
		return true
	}
	return !t.shownAt.IsZero() && now.Sub(t.shownAt) < t.minVisible
}

func (t *typingIndicator) reset() {
	t.shownAt = time.Time{}
}
