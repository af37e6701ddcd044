package main

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-hypermedia/pkg/hyperlink"
)

// Note is the demo resource.
type Note struct {
	ID      int    `microdata:"identifier"`
	Title   string `microdata:"name"`
	Body    string `microdata:"text,omitempty"`
	Tags    []string
	Created time.Time      `microdata:"dateCreated"`
	Self    hyperlink.Link `microdata:"url" label:"Link"`
}

type noteStore struct {
	mu     sync.RWMutex
	notes  map[int]Note
	nextID int
	now    func() time.Time
}

func newNoteStore(notes ...Note) *noteStore {
	s := &noteStore{notes: make(map[int]Note), nextID: 1, now: time.Now}
	for _, note := range notes {
		s.put(note)
	}
	return s
}

func (s *noteStore) put(note Note) Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	if note.ID == 0 {
		note.ID = s.nextID
	}
	if note.ID >= s.nextID {
		s.nextID = note.ID + 1
	}
	if note.Created.IsZero() {
		note.Created = s.now().UTC().Truncate(time.Second)
	}
	note.Self = hyperlink.New("/notes/"+strconv.Itoa(note.ID), note.Title, hyperlink.WithRel("self"))
	s.notes[note.ID] = note
	return note
}

func (s *noteStore) get(id int) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	note, ok := s.notes[id]
	return note, ok
}

// list returns notes ordered by id whose title, body or tags contain query.
func (s *noteStore) list(query string) []Note {
	query = strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Note, 0, len(s.notes))
	for _, note := range s.notes {
		if query == "" || matches(note, query) {
			out = append(out, note)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func matches(note Note, query string) bool {
	if strings.Contains(strings.ToLower(note.Title), query) || strings.Contains(strings.ToLower(note.Body), query) {
		return true
	}
	for _, tag := range note.Tags {
		if strings.EqualFold(tag, query) {
			return true
		}
	}
	return false
}

func sampleNotes() []Note {
	created := time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)
	return []Note{
		{Title: "Welcome", Body: "Every page here is a microdata item.", Tags: []string{"intro"}, Created: created},
		{Title: "Forms", Body: "Actions with parameters render as forms.", Tags: []string{"intro", "forms"}, Created: created.Add(time.Hour)},
	}
}
