package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/core/week"
	"github.com/trezcool/darasa/tests"
)

func Test_weekApi_crud(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "admin1", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, ta.usrRepo, "Hero", "heroman", "hero@test.cd", "", "", true)

	adminToken := getToken(t, admin)
	heroToken := getToken(t, hero)

	newWk := func(weekID, title, startDate string) []byte {
		return marchallObj(t, map[string]interface{}{
			"week_id": weekID, "title": title, "start_date": startDate,
			"description": "course intro", "links": []string{"https://example.cd"},
		})
	}

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: "/v1/weeks",
			body: newWk("week1", "Week 1", "2021-01-04"), wantCode: http.StatusUnauthorized, wantData: missingToken(t),
		},
		{
			name: "admin required", method: http.MethodPost, path: "/v1/weeks", token: heroToken,
			body: newWk("week1", "Week 1", "2021-01-04"), wantCode: http.StatusForbidden, wantData: permissionDenied(t),
		},
		{
			name: "create", method: http.MethodPost, path: "/v1/weeks", token: adminToken,
			body: newWk("week1", "Week 1", "2021-01-04"), wantCode: http.StatusCreated,
		},
		{
			name: "duplicate week_id", method: http.MethodPost, path: "/v1/weeks", token: adminToken,
			body: newWk("week1", "Week 1 bis", "2021-01-11"), wantCode: http.StatusConflict,
			wantData: failure(t, map[string]string{"week_id": "a week with this week_id already exists"}),
		},
		{
			name: "calendar-invalid date", method: http.MethodPost, path: "/v1/weeks", token: adminToken,
			body: newWk("week2", "Week 2", "2024-02-30"), wantCode: http.StatusBadRequest,
			wantData: failure(t, map[string]string{"start_date": "invalid date format. Use YYYY-MM-DD"}),
		},
		{
			name: "non-ISO date", method: http.MethodPost, path: "/v1/weeks", token: adminToken,
			body: newWk("week2", "Week 2", "04/01/2021"), wantCode: http.StatusBadRequest,
			wantData: failure(t, map[string]string{"start_date": "invalid date format. Use YYYY-MM-DD"}),
		},
		{
			name: "retrieve unknown", method: http.MethodGet, path: "/v1/weeks/lol", token: heroToken,
			wantCode: http.StatusNotFound, wantData: notFound(t),
		},
		{
			name: "update with no fields", method: http.MethodPut, path: "/v1/weeks/week1", token: adminToken,
			body: marchallObj(t, map[string]string{}), wantCode: http.StatusBadRequest,
			wantData: failure(t, "no fields provided for update"),
		},
		{
			name: "update unknown", method: http.MethodPut, path: "/v1/weeks/lol", token: adminToken,
			body: marchallObj(t, map[string]string{"title": "Week X"}), wantCode: http.StatusNotFound, wantData: notFound(t),
		},
		{
			name: "delete requires admin", method: http.MethodDelete, path: "/v1/weeks/week1", token: heroToken,
			wantCode: http.StatusForbidden, wantData: permissionDenied(t),
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

	t.Run("retrieve", func(t *testing.T) {
		wk, err := ta.weekRepo.GetWeekByWeekID(ctx(), "week1")
		if err != nil {
			t.Fatalf("GetWeekByWeekID() failed, %v", err)
		}
		rec := ta.exec(http.MethodGet, "/v1/weeks/week1", heroToken)
		checkCodeAndData(t, httpTest{wantData: successData(t, wk)}, rec)
	})

	t.Run("list sorted by start_date", func(t *testing.T) {
		testutil.CreateWeek(t, ta.weekRepo, "week0", "Week 0", "2020-12-28")
		rec := ta.exec(http.MethodGet, "/v1/weeks", heroToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		weeks := struct {
			Data []week.Week `json:"data"`
		}{}
		mustUnmarshal(t, rec.Body.Bytes(), &weeks)
		if len(weeks.Data) != 2 {
			t.Fatalf("expected 2 weeks; got %d", len(weeks.Data))
		}
		if weeks.Data[0].WeekID != "week0" || weeks.Data[1].WeekID != "week1" {
			t.Errorf("unexpected order: %v, %v", weeks.Data[0].WeekID, weeks.Data[1].WeekID)
		}
	})
}

func Test_weekApi_comments(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "admin1", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, ta.usrRepo, "Hero", "heroman", "hero@test.cd", "", "", true)
	king := testutil.CreateUser(t, ta.usrRepo, "King", "kingkong", "king@test.cd", "", "", true)

	adminToken := getToken(t, admin)
	heroToken := getToken(t, hero)
	kingToken := getToken(t, king)

	wk := testutil.CreateWeek(t, ta.weekRepo, "week1", "Week 1", "2021-01-04")

	t.Run("comment on unknown week", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"comment": "hey"})
		rec := ta.exec(http.MethodPost, "/v1/weeks/lol/comments", heroToken, body)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: notFound(t)}, rec)
	})

	var cmtID int
	t.Run("add comment", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"comment": "looks great"})
		rec := ta.exec(http.MethodPost, "/v1/weeks/"+wk.WeekID+"/comments", heroToken, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		resp := struct {
			Data week.Comment `json:"data"`
		}{}
		mustUnmarshal(t, rec.Body.Bytes(), &resp)
		if resp.Data.UserID != hero.ID {
			t.Errorf("comment owner = %v; want %v", resp.Data.UserID, hero.ID)
		}
		cmtID = resp.Data.ID
	})

	t.Run("delete by non-owner is a silent no-op", func(t *testing.T) {
		rec := ta.exec(http.MethodDelete, fmt.Sprintf("/v1/weeks/comments/%d", cmtID), kingToken)
		checkCodeAndData(t, httpTest{wantData: successMsg(t, "comment deleted")}, rec)

		if _, err := ta.weekRepo.GetCommentByID(ctx(), cmtID); err != nil {
			t.Errorf("expected comment to survive; got %v", err)
		}
	})

	t.Run("delete by admin", func(t *testing.T) {
		rec := ta.exec(http.MethodDelete, fmt.Sprintf("/v1/weeks/comments/%d", cmtID), adminToken)
		checkCodeAndData(t, httpTest{wantData: successMsg(t, "comment deleted")}, rec)

		if _, err := ta.weekRepo.GetCommentByID(ctx(), cmtID); err != week.ErrCommentNotFound {
			t.Errorf("expected the comment to be gone; got %v", err)
		}
	})

	t.Run("cascade delete", func(t *testing.T) {
		cmt := testutil.CreateWeekComment(t, ta.weekRepo, wk.WeekID, hero.ID, "bye")
		rec := ta.exec(http.MethodDelete, "/v1/weeks/"+wk.WeekID, adminToken)
		checkCodeAndData(t, httpTest{wantData: successMsg(t, "week deleted")}, rec)

		if _, err := ta.weekRepo.GetCommentByID(ctx(), cmt.ID); err != week.ErrCommentNotFound {
			t.Errorf("expected comments to cascade; got %v", err)
		}
	})
}
