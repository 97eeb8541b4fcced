// Package inmemdb provides in-memory repositories backing the core services.
// Used by tests and local development; the sqlx repositories are the real deal.
package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/forum"
	"github.com/trezcool/darasa/core/resource"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/core/week"
)

type DB struct {
	mutex sync.RWMutex
	seq   int

	users    map[string]*user.User       // ID -> user
	students map[string]*student.Student // StudentID -> student

	weeks        map[string]*week.Week // WeekID -> week
	weekComments map[int]*week.Comment

	resources        map[int]*resource.Resource
	resourceComments map[int]*resource.Comment

	assignments        map[int]*assignment.Assignment
	assignmentComments map[int]*assignment.Comment

	topics  map[string]*forum.Topic // TopicID -> topic
	replies map[string]*forum.Reply // ReplyID -> reply
}

func NewDB() *DB {
	return &DB{
		users:              make(map[string]*user.User),
		students:           make(map[string]*student.Student),
		weeks:              make(map[string]*week.Week),
		weekComments:       make(map[int]*week.Comment),
		resources:          make(map[int]*resource.Resource),
		resourceComments:   make(map[int]*resource.Comment),
		assignments:        make(map[int]*assignment.Assignment),
		assignmentComments: make(map[int]*assignment.Comment),
		topics:             make(map[string]*forum.Topic),
		replies:            make(map[string]*forum.Reply),
	}
}

// nextID must be called with the write lock held.
func (db *DB) nextID() int {
	db.seq++
	return db.seq
}
