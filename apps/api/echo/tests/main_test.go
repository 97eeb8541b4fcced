package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/forum"
	"github.com/trezcool/darasa/core/resource"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/core/week"
	"github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/database/inmem"
)

var (
	conf       *core.Config
	validate   *validator.Validate
	translator ut.Translator
)

func TestMain(m *testing.M) {
	os.Setenv("ENV", "TEST")
	os.Setenv("TEST_DEBUG", "false")
	conf = core.NewConfig()

	validate = validator.New()
	_en := en.New()
	translator, _ = ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	os.Exit(m.Run())
}

// testApp wires a Server on fresh in-memory repositories.
type testApp struct {
	app Server

	usrRepo   user.Repository
	stdRepo   student.Repository
	weekRepo  week.Repository
	resRepo   resource.Repository
	asgRepo   assignment.Repository
	forumRepo forum.Repository

	usrSvc user.ServiceInterface
}

func setup(t *testing.T) *testApp {
	t.Helper()

	db := inmemdb.NewDB()
	ta := &testApp{
		usrRepo:   inmemdb.NewUserRepository(db),
		stdRepo:   inmemdb.NewStudentRepository(db),
		weekRepo:  inmemdb.NewWeekRepository(db),
		resRepo:   inmemdb.NewResourceRepository(db),
		asgRepo:   inmemdb.NewAssignmentRepository(db),
		forumRepo: inmemdb.NewForumRepository(db),
	}

	mailSvc := emailsvc.NewConsoleServiceMock()
	ta.usrSvc = user.NewService(ta.usrRepo, mailSvc, conf)

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)

	ta.app = NewServer(
		ServerDeps{
			Conf:          conf,
			Logger:        logger,
			UserSvc:       ta.usrSvc,
			StudentSvc:    student.NewService(ta.stdRepo),
			WeekSvc:       week.NewService(ta.weekRepo),
			ResourceSvc:   resource.NewService(ta.resRepo),
			AssignmentSvc: assignment.NewService(ta.asgRepo),
			ForumSvc:      forum.NewService(ta.forumRepo),
			Validate:      validate,
			Translator:    translator,
		},
	)
	return ta
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func (ta *testApp) exec(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ta.app.ServeHTTP(rec, req)
	return rec
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func ctx() context.Context {
	return context.Background()
}

func mustUnmarshal(t *testing.T, data []byte, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("json.Unmarshal() failed, %v", err)
	}
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

// response envelope helpers

func successData(t *testing.T, data interface{}) []byte {
	return marchallObj(t, map[string]interface{}{"success": true, "data": data})
}

func successList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	return marchallObj(t, map[string]interface{}{"success": true, "data": objs})
}

func successMsg(t *testing.T, msg string) []byte {
	return marchallObj(t, map[string]interface{}{"success": true, "message": msg})
}

func failure(t *testing.T, err interface{}) []byte {
	return marchallObj(t, map[string]interface{}{"success": false, "error": err})
}

func missingToken(t *testing.T) []byte {
	return failure(t, "missing or malformed jwt")
}

func permissionDenied(t *testing.T) []byte {
	return failure(t, "permission denied")
}

func notFound(t *testing.T) []byte {
	return failure(t, "not found")
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
