package billing

import "time"

// PassCache memoizes next due dates for one reconciliation pass or one
// request. It is keyed by member id, is not safe for concurrent use, and must
// not outlive the pass that created it. A nil *PassCache disables caching.
type PassCache struct {
	due map[string]time.Time
}

func NewPassCache() *PassCache {
	return &PassCache{due: make(map[string]time.Time)}
}

func (c *PassCache) NextDueDate(memberID string) (time.Time, bool) {
	if c == nil {
		return time.Time{}, false
	}
	t, ok := c.due[memberID]
	return t, ok
}

func (c *PassCache) Remember(memberID string, due time.Time) {
	if c == nil {
		return
	}
	c.due[memberID] = due
}

// Invalidate drops the memoized value for memberID.
func (c *PassCache) Invalidate(memberID string) {
	if c == nil {
		return
	}
	delete(c.due, memberID)
}

func (c *PassCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.due)
}
