package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/tests"
)

func Test_userApi_login(t *testing.T) {
	ta := setup(t)

	testutil.CreateUser(t, ta.usrRepo, "Hero", "heroman", "hero@test.cd", "passwd", "", true)
	testutil.CreateUser(t, ta.usrRepo, "N Dog", "ndoggy", "ndog@test.cd", "passwd", "", false)

	tests := []httpTest{
		{
			name: "required fields", body: marchallObj(t, map[string]string{}),
			wantCode: http.StatusBadRequest,
			wantData: failure(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown user", body: marchallObj(t, map[string]string{"username": "lol", "password": "passwd"}),
			wantCode: http.StatusBadRequest, wantData: failure(t, "authentication failed"),
		},
		{
			name: "wrong password", body: marchallObj(t, map[string]string{"username": "heroman", "password": "lol"}),
			wantCode: http.StatusBadRequest, wantData: failure(t, "authentication failed"),
		},
		{
			name: "deactivated account", body: marchallObj(t, map[string]string{"username": "ndoggy", "password": "passwd"}),
			wantCode: http.StatusForbidden, wantData: failure(t, "account deactivated"),
		},
		{
			name: "login with username", body: marchallObj(t, map[string]string{"username": "heroman", "password": "passwd"}),
			wantCode: http.StatusOK,
		},
		{
			name: "login with email", body: marchallObj(t, map[string]string{"username": "hero@test.cd", "password": "passwd"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ta.exec(http.MethodPost, "/v1/users/login", "", tt.body)
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			var resp struct {
				Success bool `json:"success"`
				Data    struct {
					Token   string `json:"token"`
					IsAdmin bool   `json:"is_admin"`
				} `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("json.Unmarshal() failed, %v", err)
			}
			if !resp.Success || resp.Data.Token == "" {
				t.Errorf("expected a token; got %v", rec.Body.String())
			}
			if resp.Data.IsAdmin {
				t.Error("expected is_admin to be false")
			}
		})
	}
}

func Test_userApi_claims(t *testing.T) {
	std := user.User{ID: "u1", Username: "heroman", Email: "hero@test.cd", Role: user.RoleStudent}
	claims := GetUserClaims(std)
	if !claims.IsStudent || claims.IsAdmin {
		t.Errorf("student claims = {is_student: %v, is_admin: %v}; want {true, false}", claims.IsStudent, claims.IsAdmin)
	}

	adm := user.User{ID: "u2", Username: "admin1", Email: "admin@test.cd", Role: user.RoleAdmin}
	claims = GetUserClaims(adm)
	if claims.IsStudent || !claims.IsAdmin {
		t.Errorf("admin claims = {is_student: %v, is_admin: %v}; want {false, true}", claims.IsStudent, claims.IsAdmin)
	}
}

func Test_userApi_query(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "admin1", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, ta.usrRepo, "Hero", "heroman", "hero@test.cd", "", "", true)
	king := testutil.CreateUser(t, ta.usrRepo, "King", "kingkong", "king@test.cd", "", "", true)

	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: missingToken(t)},
		{
			name: "admin required", path: "/v1/users", token: getToken(t, hero),
			wantCode: http.StatusForbidden, wantData: permissionDenied(t),
		},
		{
			name: "get all (name asc)", path: "/v1/users", token: adminToken,
			wantData: successList(t, admin, hero, king),
		},
		{name: "search (unknown)", path: "/v1/users?search=lol", token: adminToken, wantData: successList(t)},
		{name: "search", path: "/v1/users?search=hero", token: adminToken, wantData: successList(t, hero)},
		{name: "filter by role", path: "/v1/users?role=admin", token: adminToken, wantData: successList(t, admin)},
		{
			name: "sort by created_at desc", path: "/v1/users?sort=created_at&order=desc", token: adminToken,
			wantData: successList(t, king, hero, admin),
		},
		{
			name: "unknown sort falls back to default", path: "/v1/users?sort=lol", token: adminToken,
			wantData: successList(t, admin, hero, king),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ta.exec(http.MethodGet, tt.path, tt.token)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "admin1", "admin@test.cd", "", user.RoleAdmin, true)
	student := testutil.CreateUser(t, ta.usrRepo, "Hero", "heroman", "hero@test.cd", "", "", true)

	adminToken := getToken(t, admin)

	newUsr := func(name, uname, email string) []byte {
		return marchallObj(t, map[string]string{
			"name": name, "username": uname, "email": email,
			"password": "v3ryS3cret", "password_confirm": "v3ryS3cret",
		})
	}

	tests := []httpTest{
		{name: "auth required", body: newUsr("King", "kingkong", "king@test.cd"), wantCode: http.StatusUnauthorized, wantData: missingToken(t)},
		{
			name: "admin required", body: newUsr("King", "kingkong", "king@test.cd"), token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: permissionDenied(t),
		},
		{
			name: "short password", token: adminToken,
			body: marchallObj(t, map[string]string{
				"name": "King", "username": "kingkong", "email": "king@test.cd",
				"password": "passwd", "password_confirm": "passwd",
			}),
			wantCode: http.StatusBadRequest,
			wantData: failure(t, map[string]string{"password": "password must contain at least 8 characters"}),
		},
		{name: "create", body: newUsr("King", "kingkong", "king@test.cd"), token: adminToken, wantCode: http.StatusCreated},
		{
			name: "duplicate username", body: newUsr("King II", "kingkong", "king2@test.cd"), token: adminToken,
			wantCode: http.StatusConflict,
			wantData: failure(t, map[string]string{"username": "a user with this username already exists"}),
		},
		{
			name: "duplicate email", body: newUsr("King II", "kingkong2", "king@test.cd"), token: adminToken,
			wantCode: http.StatusConflict,
			wantData: failure(t, map[string]string{"email": "a user with this email already exists"}),
		},
		{
			name: "password mismatch", token: adminToken,
			body: marchallObj(t, map[string]string{
				"name": "Qui", "email": "qui@test.cd", "password": "v3ryS3cret", "password_confirm": "lol",
			}),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ta.exec(http.MethodPost, "/v1/users/register", tt.token, tt.body)
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

func Test_userApi_detail(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "admin1", "admin@test.cd", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, ta.usrRepo, "Hero", "heroman", "hero@test.cd", "", "", true)
	king := testutil.CreateUser(t, ta.usrRepo, "King", "kingkong", "king@test.cd", "", "", true)

	adminToken := getToken(t, admin)
	heroToken := getToken(t, hero)

	t.Run("retrieve own account", func(t *testing.T) {
		rec := ta.exec(http.MethodGet, "/v1/users/"+hero.ID, heroToken)
		checkCodeAndData(t, httpTest{wantData: successData(t, hero)}, rec)
	})
	t.Run("retrieve other is hidden", func(t *testing.T) {
		rec := ta.exec(http.MethodGet, "/v1/users/"+king.ID, heroToken)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: notFound(t)}, rec)
	})
	t.Run("admin retrieves any", func(t *testing.T) {
		rec := ta.exec(http.MethodGet, "/v1/users/"+king.ID, adminToken)
		checkCodeAndData(t, httpTest{wantData: successData(t, king)}, rec)
	})
	t.Run("non-admin cannot change role", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"role": user.RoleAdmin})
		rec := ta.exec(http.MethodPut, "/v1/users/"+hero.ID, heroToken, body)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: permissionDenied(t)}, rec)
	})
	t.Run("own name update", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"name": "Hero II"})
		rec := ta.exec(http.MethodPut, "/v1/users/"+hero.ID, heroToken, body)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
	})
	t.Run("admin cannot delete self", func(t *testing.T) {
		rec := ta.exec(http.MethodDelete, "/v1/users/"+admin.ID, adminToken)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: permissionDenied(t)}, rec)
	})
	t.Run("delete requires admin", func(t *testing.T) {
		rec := ta.exec(http.MethodDelete, "/v1/users/"+hero.ID, heroToken)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: permissionDenied(t)}, rec)
	})
	t.Run("admin deletes user", func(t *testing.T) {
		rec := ta.exec(http.MethodDelete, "/v1/users/"+king.ID, adminToken)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
	})
}
