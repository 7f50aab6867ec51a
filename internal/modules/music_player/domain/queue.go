package domain

import "math/rand/v2"

// Queue holds the tracks waiting to be played, in play order.
// The track that is currently playing is not part of the queue.
// Positions are 0-based.
type Queue struct {
	tracks []*Track
}

// NewQueue creates a new empty Queue.
func NewQueue() Queue {
	return Queue{
		tracks: make([]*Track, 0),
	}
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

func (q *Queue) isValidIndex(index int) bool {
	return 0 <= index && index < q.Len()
}

// List returns a copy of the queued tracks.
func (q *Queue) List() []*Track {
	result := make([]*Track, q.Len())
	copy(result, q.tracks)
	return result
}

// Append adds tracks to the end of the queue.
func (q *Queue) Append(tracks ...*Track) {
	q.tracks = append(q.tracks, tracks...)
}

// Prepend adds tracks to the front of the queue.
func (q *Queue) Prepend(tracks ...*Track) {
	q.tracks = append(append(make([]*Track, 0, len(tracks)+q.Len()), tracks...), q.tracks...)
}

// GetAt returns the track at index, or nil if out of range.
func (q *Queue) GetAt(index int) *Track {
	if !q.isValidIndex(index) {
		return nil
	}
	return q.tracks[index]
}

// PopFront removes and returns the first track, or nil if the queue is empty.
func (q *Queue) PopFront() *Track {
	if q.IsEmpty() {
		return nil
	}
	track := q.tracks[0]
	q.tracks[0] = nil
	q.tracks = q.tracks[1:]
	return track
}

// RemoveAt removes and returns the track at index, or nil if out of range.
func (q *Queue) RemoveAt(index int) *Track {
	if !q.isValidIndex(index) {
		return nil
	}
	track := q.tracks[index]
	q.tracks = append(q.tracks[:index], q.tracks[index+1:]...)
	return track
}

// InsertAt inserts a track before index. An index equal to Len appends.
// It returns false if index is out of range.
func (q *Queue) InsertAt(index int, track *Track) bool {
	if index < 0 || index > q.Len() {
		return false
	}
	q.tracks = append(q.tracks, nil)
	copy(q.tracks[index+1:], q.tracks[index:])
	q.tracks[index] = track
	return true
}

// Move cuts the track at from and inserts it at to.
// from is evaluated against the queue before removal and to against the queue after it,
// so moving index 2 to 0 in [A,B,C,D] yields [C,A,B,D].
func (q *Queue) Move(from, to int) bool {
	if !q.isValidIndex(from) || !q.isValidIndex(to) {
		return false
	}
	track := q.RemoveAt(from)
	return q.InsertAt(to, track)
}

// DropFront removes the first n tracks. n is clamped to the queue length.
func (q *Queue) DropFront(n int) {
	if n <= 0 {
		return
	}
	if n > q.Len() {
		n = q.Len()
	}
	clear(q.tracks[:n])
	q.tracks = q.tracks[n:]
}

// Shuffle randomizes the queue order.
func (q *Queue) Shuffle() {
	rand.Shuffle(q.Len(), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
}

// Clear removes all tracks.
func (q *Queue) Clear() {
	q.tracks = make([]*Track, 0)
}
