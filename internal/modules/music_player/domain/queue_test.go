package domain

import (
	"slices"
	"testing"
)

func titles(tracks []*Track) []string {
	result := make([]string, len(tracks))
	for i, track := range tracks {
		result[i] = track.Title
	}
	return result
}

func queueOf(names ...string) Queue {
	q := NewQueue()
	for _, name := range names {
		q.Append(&Track{Encoded: "encoded-" + name, Title: name})
	}
	return q
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if !q.IsEmpty() {
		t.Errorf("expected empty queue, got length %d", q.Len())
	}
	if got := q.PopFront(); got != nil {
		t.Errorf("expected nil from empty queue, got %v", got)
	}
}

func TestQueue_AppendAndPrepend(t *testing.T) {
	q := queueOf("B", "C")
	q.Prepend(&Track{Title: "A"})
	q.Append(&Track{Title: "D"})

	want := []string{"A", "B", "C", "D"}
	if got := titles(q.List()); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestQueue_PopFront(t *testing.T) {
	q := queueOf("A", "B")

	if got := q.PopFront(); got == nil || got.Title != "A" {
		t.Fatalf("expected A, got %v", got)
	}
	if got := q.PopFront(); got == nil || got.Title != "B" {
		t.Fatalf("expected B, got %v", got)
	}
	if got := q.PopFront(); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestQueue_Move(t *testing.T) {
	tests := []struct {
		name   string
		from   int
		to     int
		want   []string
		wantOK bool
	}{
		{
			name:   "move third to first",
			from:   2,
			to:     0,
			want:   []string{"C", "A", "B", "D"},
			wantOK: true,
		},
		{
			name:   "move first to last",
			from:   0,
			to:     3,
			want:   []string{"B", "C", "D", "A"},
			wantOK: true,
		},
		{
			name:   "move second to third",
			from:   1,
			to:     2,
			want:   []string{"A", "C", "B", "D"},
			wantOK: true,
		},
		{
			name:   "same position",
			from:   1,
			to:     1,
			want:   []string{"A", "B", "C", "D"},
			wantOK: true,
		},
		{
			name:   "from out of range",
			from:   4,
			to:     0,
			want:   []string{"A", "B", "C", "D"},
			wantOK: false,
		},
		{
			name:   "to out of range",
			from:   0,
			to:     4,
			want:   []string{"A", "B", "C", "D"},
			wantOK: false,
		},
		{
			name:   "negative from",
			from:   -1,
			to:     0,
			want:   []string{"A", "B", "C", "D"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := queueOf("A", "B", "C", "D")

			ok := q.Move(tt.from, tt.to)
			if ok != tt.wantOK {
				t.Errorf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got := titles(q.List()); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestQueue_RemoveAt(t *testing.T) {
	q := queueOf("A", "B", "C")

	removed := q.RemoveAt(1)
	if removed == nil || removed.Title != "B" {
		t.Fatalf("expected B to be removed, got %v", removed)
	}
	if got := titles(q.List()); !slices.Equal(got, []string{"A", "C"}) {
		t.Errorf("expected [A C], got %v", got)
	}

	if got := q.RemoveAt(5); got != nil {
		t.Errorf("expected nil for out of range, got %v", got)
	}
	if q.Len() != 2 {
		t.Errorf("expected length 2, got %d", q.Len())
	}
}

func TestQueue_InsertAt(t *testing.T) {
	q := queueOf("A", "C")

	if !q.InsertAt(1, &Track{Title: "B"}) {
		t.Fatal("expected insert to succeed")
	}
	if !q.InsertAt(3, &Track{Title: "D"}) {
		t.Fatal("expected insert at end to succeed")
	}
	if q.InsertAt(9, &Track{Title: "X"}) {
		t.Error("expected insert out of range to fail")
	}

	if got := titles(q.List()); !slices.Equal(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("expected [A B C D], got %v", got)
	}
}

func TestQueue_DropFront(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "drop none", n: 0, want: []string{"A", "B", "C"}},
		{name: "drop two", n: 2, want: []string{"C"}},
		{name: "drop more than length", n: 10, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := queueOf("A", "B", "C")
			q.DropFront(tt.n)
			if got := titles(q.List()); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestQueue_ShuffleKeepsTracks(t *testing.T) {
	q := queueOf("A", "B", "C", "D", "E")
	q.Shuffle()

	got := titles(q.List())
	slices.Sort(got)
	if !slices.Equal(got, []string{"A", "B", "C", "D", "E"}) {
		t.Errorf("expected the same tracks after shuffle, got %v", got)
	}
}

func TestQueue_Clear(t *testing.T) {
	q := queueOf("A", "B")
	q.Clear()

	if !q.IsEmpty() {
		t.Errorf("expected empty queue, got length %d", q.Len())
	}
}

func TestQueue_ListReturnsCopy(t *testing.T) {
	q := queueOf("A", "B")
	list := q.List()
	list[0] = &Track{Title: "Z"}

	if q.GetAt(0).Title != "A" {
		t.Error("expected List to return a copy")
	}
}
