package tests

import (
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/tests"
)

func Test_statsApi(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "admin1", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, ta.usrRepo, "Hero", "heroman", "hero@test.cd", "", "", true)

	testutil.CreateStudent(t, ta.stdRepo, "std001", "Ayo", "ayo@test.cd", "")
	testutil.CreateWeek(t, ta.weekRepo, "week1", "Week 1", "2021-01-04")
	testutil.CreateWeek(t, ta.weekRepo, "week2", "Week 2", "2021-01-11")
	testutil.CreateAssignment(t, ta.asgRepo, "Essay", "2021-02-01")
	testutil.CreateTopic(t, ta.forumRepo, "t1", "Week 1 homework", "Hero")

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: missingToken(t)},
		{name: "admin required", token: getToken(t, hero), wantCode: http.StatusForbidden, wantData: permissionDenied(t)},
		{
			name: "counts", token: getToken(t, admin),
			wantData: successData(t, map[string]int{
				"users": 2, "students": 1, "weeks": 2, "resources": 0, "assignments": 1, "topics": 1,
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ta.exec(http.MethodGet, "/v1/stats", tt.token)
			checkCodeAndData(t, tt, rec)
		})
	}
}
