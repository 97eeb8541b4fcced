package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/resource"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/tests"
)

func Test_resourceApi_crud(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "admin1", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, ta.usrRepo, "Hero", "heroman", "hero@test.cd", "", "", true)

	adminToken := getToken(t, admin)
	heroToken := getToken(t, hero)

	newRes := func(title, link string) []byte {
		return marchallObj(t, map[string]string{
			"title": title, "description": "lecture slides", "link": link,
		})
	}

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: "/v1/resources",
			body: newRes("Slides", "https://example.cd/slides.pdf"), wantCode: http.StatusUnauthorized, wantData: missingToken(t),
		},
		{
			name: "admin required", method: http.MethodPost, path: "/v1/resources", token: heroToken,
			body: newRes("Slides", "https://example.cd/slides.pdf"), wantCode: http.StatusForbidden, wantData: permissionDenied(t),
		},
		{
			name: "create", method: http.MethodPost, path: "/v1/resources", token: adminToken,
			body: newRes("Slides", "https://example.cd/slides.pdf"), wantCode: http.StatusCreated,
		},
		{
			name: "invalid link", method: http.MethodPost, path: "/v1/resources", token: adminToken,
			body: newRes("Slides 2", "not a url"), wantCode: http.StatusBadRequest,
		},
		{
			name: "retrieve unknown", method: http.MethodGet, path: "/v1/resources/999", token: heroToken,
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
}

func Test_resourceApi_comments(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "admin1", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, ta.usrRepo, "Hero", "heroman", "hero@test.cd", "", "", true)
	king := testutil.CreateUser(t, ta.usrRepo, "King", "kingkong", "king@test.cd", "", "", true)

	heroToken := getToken(t, hero)
	kingToken := getToken(t, king)

	res := testutil.CreateResource(t, ta.resRepo, "Slides", "https://example.cd/slides.pdf")
	cmt := testutil.CreateResourceComment(t, ta.resRepo, res.ID, hero.ID, "thanks")

	t.Run("delete by non-owner is a silent no-op", func(t *testing.T) {
		rec := ta.exec(http.MethodDelete, fmt.Sprintf("/v1/resources/comments/%d", cmt.ID), kingToken)
		checkCodeAndData(t, httpTest{wantData: successMsg(t, "comment deleted")}, rec)

		if _, err := ta.resRepo.GetCommentByID(ctx(), cmt.ID); err != nil {
			t.Errorf("expected comment to survive; got %v", err)
		}
	})

	t.Run("delete by owner", func(t *testing.T) {
		rec := ta.exec(http.MethodDelete, fmt.Sprintf("/v1/resources/comments/%d", cmt.ID), heroToken)
		checkCodeAndData(t, httpTest{wantData: successMsg(t, "comment deleted")}, rec)

		if _, err := ta.resRepo.GetCommentByID(ctx(), cmt.ID); err != resource.ErrCommentNotFound {
			t.Errorf("expected the comment to be gone; got %v", err)
		}
	})

	t.Run("cascade delete", func(t *testing.T) {
		cmt2 := testutil.CreateResourceComment(t, ta.resRepo, res.ID, hero.ID, "bye")
		rec := ta.exec(http.MethodDelete, fmt.Sprintf("/v1/resources/%d", res.ID), getToken(t, admin))
		checkCodeAndData(t, httpTest{wantData: successMsg(t, "resource deleted")}, rec)

		if _, err := ta.resRepo.GetCommentByID(ctx(), cmt2.ID); err != resource.ErrCommentNotFound {
			t.Errorf("expected comments to cascade; got %v", err)
		}
	})
}
