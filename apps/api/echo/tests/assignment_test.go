package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/tests"
)

func Test_assignmentApi_crud(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "admin1", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, ta.usrRepo, "Hero", "heroman", "hero@test.cd", "", "", true)

	adminToken := getToken(t, admin)
	heroToken := getToken(t, hero)

	newAsg := func(title, dueDate string) []byte {
		return marchallObj(t, map[string]interface{}{
			"title": title, "description": "read chapter 1", "due_date": dueDate,
		})
	}

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: "/v1/assignments",
			body: newAsg("Essay", "2021-02-01"), wantCode: http.StatusUnauthorized, wantData: missingToken(t),
		},
		{
			name: "admin required", method: http.MethodPost, path: "/v1/assignments", token: heroToken,
			body: newAsg("Essay", "2021-02-01"), wantCode: http.StatusForbidden, wantData: permissionDenied(t),
		},
		{
			name: "create", method: http.MethodPost, path: "/v1/assignments", token: adminToken,
			body: newAsg("Essay", "2021-02-01"), wantCode: http.StatusCreated,
		},
		{
			name: "invalid due date", method: http.MethodPost, path: "/v1/assignments", token: adminToken,
			body: newAsg("Essay 2", "2024-02-30"), wantCode: http.StatusBadRequest,
			wantData: failure(t, map[string]string{"due_date": "invalid date format. Use YYYY-MM-DD"}),
		},
		{
			name: "retrieve unknown", method: http.MethodGet, path: "/v1/assignments/999", token: heroToken,
			wantCode: http.StatusNotFound, wantData: notFound(t),
		},
		{
			name: "non-numeric id", method: http.MethodGet, path: "/v1/assignments/lol", token: heroToken,
			wantCode: http.StatusNotFound, wantData: notFound(t),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ta.exec(tt.method, tt.path, tt.token, tt.body)
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body = %v", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}

	t.Run("files default to empty list", func(t *testing.T) {
		assignments, err := ta.asgRepo.QueryAssignments(ctx(), assignment.QueryFilter{}, assignment.OrderSpec.Resolve("", ""))
		if err != nil {
			t.Fatalf("QueryAssignments() failed, %v", err)
		}
		if len(assignments) != 1 {
			t.Fatalf("expected 1 assignment; got %d", len(assignments))
		}
		if assignments[0].Files == nil {
			t.Error("expected files to be an empty list, not nil")
		}
	})
}

func Test_assignmentApi_comments(t *testing.T) {
	ta := setup(t)

	hero := testutil.CreateUser(t, ta.usrRepo, "Hero", "heroman", "hero@test.cd", "", "", true)
	king := testutil.CreateUser(t, ta.usrRepo, "King", "kingkong", "king@test.cd", "", "", true)

	heroToken := getToken(t, hero)
	kingToken := getToken(t, king)

	asg := testutil.CreateAssignment(t, ta.asgRepo, "Essay", "2021-02-01")

	var cmtID int
	t.Run("any authed user comments", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"author": "Hero", "text": "is chapter 2 included?"})
		rec := ta.exec(http.MethodPost, fmt.Sprintf("/v1/assignments/%d/comments", asg.ID), heroToken, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		resp := struct {
			Data assignment.Comment `json:"data"`
		}{}
		mustUnmarshal(t, rec.Body.Bytes(), &resp)
		cmtID = resp.Data.ID
	})

	t.Run("any authed user deletes a comment", func(t *testing.T) {
		rec := ta.exec(http.MethodDelete, fmt.Sprintf("/v1/assignments/comments/%d", cmtID), kingToken)
		checkCodeAndData(t, httpTest{wantData: successMsg(t, "comment deleted")}, rec)

		if _, err := ta.asgRepo.GetCommentByID(ctx(), cmtID); err != assignment.ErrCommentNotFound {
			t.Errorf("expected the comment to be gone; got %v", err)
		}
	})

	t.Run("delete unknown comment", func(t *testing.T) {
		rec := ta.exec(http.MethodDelete, "/v1/assignments/comments/999", kingToken)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: notFound(t)}, rec)
	})
}
