package employee

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/fleetbase/internal/domain"
	"github.com/simp-lee/fleetbase/internal/pkg"
	"github.com/simp-lee/fleetbase/internal/store"
)

func setupAPIRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := pkg.RegisterValidators(); err != nil {
		t.Fatalf("RegisterValidators: %v", err)
	}

	db := setupTestDB(t)
	svc := NewEmployeeService(NewEmployeeRepository(db), store.New[domain.Branch](db, nil))

	r := gin.New()
	NewModule(NewEmployeeHandler(svc, "/api/v1/")).RegisterRoutes(r.Group("/api/v1"))
	return r, db
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to unmarshal response: %v (%s)", err, w.Body.String())
	}
	return env.Data
}

func TestEmployeeHandler_CRUD(t *testing.T) {
	r, db := setupAPIRouter(t)
	b := seedBranch(t, db, "Centro", "São Paulo", "SP")

	body := fmt.Sprintf(`{"name":"Ana","email":"ana@fleet.test","role":"Driver","branchId":%d}`, b.ID)
	w := doJSON(r, http.MethodPost, "/api/v1/employees", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decode[EmployeeResponse](t, w)
	if created.Branch == nil || created.Branch.Name != "Centro" || created.Branch.State != "SP" {
		t.Errorf("branch summary = %+v", created.Branch)
	}
	self := fmt.Sprintf("/api/v1/employees/%d", created.ID)
	if created.Links["self"] != self || created.Links["branch"] != fmt.Sprintf("/api/v1/branches/%d", b.ID) {
		t.Errorf("links = %v", created.Links)
	}

	if w := doJSON(r, http.MethodPost, "/api/v1/employees", body); w.Code != http.StatusConflict {
		t.Errorf("duplicate email: expected 409, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/employees/email/ANA@fleet.test", "")
	if w.Code != http.StatusOK || decode[EmployeeResponse](t, w).ID != created.ID {
		t.Errorf("GET by email: %d %s", w.Code, w.Body.String())
	}

	update := fmt.Sprintf(`{"name":"Ana Souza","email":"ana@fleet.test","role":"Manager","branchId":%d}`, b.ID)
	w = doJSON(r, http.MethodPut, self, update)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[EmployeeResponse](t, w); got.Role != "Manager" || got.Name != "Ana Souza" {
		t.Errorf("updated = %+v", got)
	}

	if w := doJSON(r, http.MethodDelete, self, ""); w.Code != http.StatusNoContent {
		t.Fatalf("DELETE: expected 204, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, self, ""); w.Code != http.StatusNotFound {
		t.Errorf("GET after delete: expected 404, got %d", w.Code)
	}
}

func TestEmployeeHandler_Create_Errors(t *testing.T) {
	r, db := setupAPIRouter(t)
	b := seedBranch(t, db, "Centro", "São Paulo", "SP")

	tests := []struct {
		name string
		body string
		code int
	}{
		{"invalid email", fmt.Sprintf(`{"name":"Ana","email":"nope","role":"Driver","branchId":%d}`, b.ID), http.StatusBadRequest},
		{"missing branch id", `{"name":"Ana","email":"ana@fleet.test","role":"Driver"}`, http.StatusBadRequest},
		{"unknown branch", `{"name":"Ana","email":"ana@fleet.test","role":"Driver","branchId":999}`, http.StatusUnprocessableEntity},
		{"malformed json", `{"name":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doJSON(r, http.MethodPost, "/api/v1/employees", tt.body); w.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestEmployeeHandler_ListByBranchAndRole(t *testing.T) {
	r, db := setupAPIRouter(t)
	a := seedBranch(t, db, "Centro", "São Paulo", "SP")
	b := seedBranch(t, db, "Copacabana", "Rio de Janeiro", "RJ")

	for i := 0; i < 6; i++ {
		branchID, role := a.ID, "Driver"
		if i%2 == 1 {
			branchID, role = b.ID, "Mechanic"
		}
		body := fmt.Sprintf(`{"name":"Employee %d","email":"e%d@fleet.test","role":"%s","branchId":%d}`, i, i, role, branchID)
		if w := doJSON(r, http.MethodPost, "/api/v1/employees", body); w.Code != http.StatusCreated {
			t.Fatalf("create: %d %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/employees/branch/%d?pageSize=2", b.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("by branch: expected 200, got %d", w.Code)
	}
	page := decode[pkg.Paged[EmployeeResponse]](t, w)
	if page.Pagination.TotalItems != 3 || page.Pagination.TotalPages != 2 || len(page.Data) != 2 {
		t.Errorf("pagination = %+v, len = %d", page.Pagination, len(page.Data))
	}
	wantNext := fmt.Sprintf("/api/v1/employees/branch/%d?pageNumber=2&pageSize=2", b.ID)
	if page.Links[pkg.LinkNext] != wantNext {
		t.Errorf("next = %q; want %q", page.Links[pkg.LinkNext], wantNext)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/employees/role/driver?searchTerm=employee%204", "")
	page = decode[pkg.Paged[EmployeeResponse]](t, w)
	if len(page.Data) != 1 || page.Data[0].Name != "Employee 4" {
		t.Errorf("by role = %+v", page.Data)
	}
	if page.Links[pkg.LinkSelf] != "/api/v1/employees/role/driver?searchTerm=employee+4&pageNumber=1&pageSize=10" {
		t.Errorf("self = %q", page.Links[pkg.LinkSelf])
	}

	if w := doJSON(r, http.MethodGet, "/api/v1/employees/branch/abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad branch id: expected 400, got %d", w.Code)
	}
}
