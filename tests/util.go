package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/forum"
	"github.com/trezcool/darasa/core/resource"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/core/week"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if role == "" {
		role = user.RoleStudent
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	studentID, name, email, pwd string,
) student.Student {
	t.Helper()

	now := time.Now().UTC()
	std := student.Student{
		StudentID: studentID,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := std.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStudent() failed: %v", err)
		}
	}
	std, err := repo.CreateStudent(context.Background(), std)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateWeek(
	t *testing.T,
	repo week.Repository,
	weekID, title, startDate string,
) week.Week {
	t.Helper()

	now := time.Now().UTC()
	wk := week.Week{
		WeekID:    weekID,
		Title:     title,
		StartDate: startDate,
		Links:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	wk, err := repo.CreateWeek(context.Background(), wk)
	if err != nil {
		t.Fatalf("CreateWeek() failed: %v", err)
	}
	return wk
}

func CreateWeekComment(
	t *testing.T,
	repo week.Repository,
	weekID, userID, text string,
) week.Comment {
	t.Helper()

	cmt, err := repo.CreateComment(context.Background(), week.Comment{
		WeekID:    weekID,
		UserID:    userID,
		Comment:   text,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateWeekComment() failed: %v", err)
	}
	return cmt
}

func CreateResource(
	t *testing.T,
	repo resource.Repository,
	title, link string,
) resource.Resource {
	t.Helper()

	now := time.Now().UTC()
	res, err := repo.CreateResource(context.Background(), resource.Resource{
		Title:     title,
		Link:      link,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateResource() failed: %v", err)
	}
	return res
}

func CreateResourceComment(
	t *testing.T,
	repo resource.Repository,
	resourceID int,
	userID, text string,
) resource.Comment {
	t.Helper()

	cmt, err := repo.CreateComment(context.Background(), resource.Comment{
		ResourceID: resourceID,
		UserID:     userID,
		Comment:    text,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateResourceComment() failed: %v", err)
	}
	return cmt
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	title, dueDate string,
) assignment.Assignment {
	t.Helper()

	now := time.Now().UTC()
	asg, err := repo.CreateAssignment(context.Background(), assignment.Assignment{
		Title:     title,
		DueDate:   dueDate,
		Files:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}

func CreateAssignmentComment(
	t *testing.T,
	repo assignment.Repository,
	assignmentID int,
	author, text string,
) assignment.Comment {
	t.Helper()

	cmt, err := repo.CreateComment(context.Background(), assignment.Comment{
		AssignmentID: assignmentID,
		Author:       author,
		Text:         text,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateAssignmentComment() failed: %v", err)
	}
	return cmt
}

func CreateTopic(
	t *testing.T,
	repo forum.Repository,
	topicID, subject, author string,
) forum.Topic {
	t.Helper()

	now := time.Now().UTC()
	topic, err := repo.CreateTopic(context.Background(), forum.Topic{
		TopicID:   topicID,
		Subject:   subject,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTopic() failed: %v", err)
	}
	return topic
}

func CreateReply(
	t *testing.T,
	repo forum.Repository,
	replyID, topicID, text, author string,
) forum.Reply {
	t.Helper()

	reply, err := repo.CreateReply(context.Background(), forum.Reply{
		ReplyID:   replyID,
		TopicID:   topicID,
		Text:      text,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateReply() failed: %v", err)
	}
	return reply
}
