package directory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/orgchart/pkg/loader"
	"github.com/vanderheijden86/orgchart/pkg/model"
)

func TestSplitDepartment(t *testing.T) {
	tests := []struct {
		dept, corp, team string
	}{
		{"플랫폼팀 (Acme Korea)", "Acme Korea", "플랫폼팀"},
		{"Design Studio(Acme Japan)", "Acme Japan", "Design Studio"},
		{"Sales (APAC) (Acme Korea)", "Acme Korea", "Sales (APAC)"},
		{"(Acme Korea) 재무팀", "Acme Korea", "재무팀"},
		{"Finance", "", "Finance"},
		{"", "", ""},
		{"  Ops ( HQ )  ", "HQ", "Ops"},
	}
	for _, tt := range tests {
		corp, team := SplitDepartment(tt.dept)
		if corp != tt.corp || team != tt.team {
			t.Errorf("SplitDepartment(%q) = (%q, %q), want (%q, %q)", tt.dept, corp, team, tt.corp, tt.team)
		}
	}
}

func TestParseMergeKey(t *testing.T) {
	for in, want := range map[string]MergeKey{"": MergeByName, "Name": MergeByName, "email": MergeByEmail} {
		got, err := ParseMergeKey(in)
		if err != nil || got != want {
			t.Errorf("ParseMergeKey(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMergeKey("id"); err == nil {
		t.Error("expected error for unsupported key")
	}
}

func TestMerge_ByName(t *testing.T) {
	previous := []model.PersonRecord{
		{ID: "2", ManagerID: "1", DisplayName: "Park Min-jun", Email: "old@example.com"},
		{ID: "9", ManagerID: "2", DisplayName: "Gone Person"},
	}
	users := []User{
		{DisplayName: "New Hire", JobTitle: "Engineer", Department: "플랫폼팀 (Acme Korea)"},
		{DisplayName: "Park Min-jun", JobTitle: "Lead", Department: "플랫폼팀 (Acme Korea)", Mail: "park@example.com"},
	}
	got := Merge(previous, users, MergeByName)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].ID != "" || got[0].ManagerID != "" || got[0].DisplayName != "New Hire" {
		t.Errorf("new people get blank ids: %+v", got[0])
	}
	park := got[1]
	if park.ID != "2" || park.ManagerID != "1" {
		t.Errorf("curated ids should survive: %+v", park)
	}
	if park.Email != "park@example.com" || park.Title != "Lead" || park.CorporateUnit != "Acme Korea" || park.Team != "플랫폼팀" {
		t.Errorf("directory fields should be refreshed: %+v", park)
	}
}

func TestMerge_ByEmail(t *testing.T) {
	previous := []model.PersonRecord{
		{ID: "2", ManagerID: "1", DisplayName: "Kim", Email: "Kim.A@example.com"},
		{ID: "3", ManagerID: "1", DisplayName: "Kim", Email: "kim.b@example.com"},
	}
	users := []User{
		{DisplayName: "Kim", Mail: "kim.b@example.com"},
		{DisplayName: "Kim", Mail: "kim.a@example.com"},
		{DisplayName: "Kim"},
	}
	got := Merge(previous, users, MergeByEmail)
	if got[0].ID != "3" || got[1].ID != "2" {
		t.Errorf("email merge should disambiguate namesakes: %s, %s", got[0].ID, got[1].ID)
	}
	if got[2].ID != "" {
		t.Errorf("users without mail cannot match: %+v", got[2])
	}

	byName := Merge(previous, users, MergeByName)
	if byName[0].ID != "2" || byName[1].ID != "2" {
		t.Errorf("name merge keeps the first namesake: %s, %s", byName[0].ID, byName[1].ID)
	}
}

// fakeGraph serves two pages of users and checks the bearer header.
func fakeGraph(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(`{"value":[{"id":"b","displayName":"Sato Yuki","jobTitle":"Designer","department":"Design Studio (Acme Japan)","mail":"sato@example.com"}]}`))
			return
		}
		if !strings.Contains(r.URL.Query().Get("$select"), "department") {
			t.Errorf("missing $select: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"value":[{"id":"a","displayName":"Park Min-jun","jobTitle":"Lead","department":"플랫폼팀 (Acme Korea)","mail":"park@example.com"}],` +
			`"@odata.nextLink":"` + srv.URL + `/users?page=2"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchUsersFollowsPaging(t *testing.T) {
	srv := fakeGraph(t)
	c := NewClientWithHTTP(srv.Client(), srv.URL+"/")

	users, err := c.FetchUsers(context.Background())
	if err != nil {
		t.Fatalf("FetchUsers: %v", err)
	}
	if len(users) != 2 || users[0].DisplayName != "Park Min-jun" || users[1].Mail != "sato@example.com" {
		t.Errorf("unexpected users %+v", users)
	}
}

func TestClient_FetchUsersError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"denied"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClientWithHTTP(srv.Client(), srv.URL).FetchUsers(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("expected 403 error, got %v", err)
	}
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	prev := filepath.Join(dir, "users.csv")
	if err := loader.WriteCSVFile(prev, []model.PersonRecord{
		{ID: "2", ManagerID: "1", DisplayName: "Park Min-jun"},
	}, loader.DefaultColumns()); err != nil {
		t.Fatal(err)
	}

	srv := fakeGraph(t)
	res, err := Dump(context.Background(), NewClientWithHTTP(srv.Client(), srv.URL), DumpOptions{
		Previous: prev,
		Output:   prev,
		Key:      MergeByName,
	})
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if res.Users != 2 || res.Matched != 1 {
		t.Errorf("unexpected result %+v", res)
	}

	raw, err := os.ReadFile(prev)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "\ufeff") {
		t.Error("output should start with a BOM")
	}
	recs, err := loader.LoadFile(prev, loader.ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].ID != "2" || recs[0].ManagerID != "1" || recs[0].CorporateUnit != "Acme Korea" {
		t.Errorf("unexpected first row %+v", recs[0])
	}
	if recs[1].ID != "" || recs[1].Team != "Design Studio" {
		t.Errorf("unexpected second row %+v", recs[1])
	}
}

func TestDump_MissingPreviousIsFine(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "users.csv")
	srv := fakeGraph(t)
	res, err := Dump(context.Background(), NewClientWithHTTP(srv.Client(), srv.URL), DumpOptions{
		Previous: filepath.Join(t.TempDir(), "nope.csv"),
		Output:   out,
	})
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if res.Matched != 0 || res.Users != 2 {
		t.Errorf("unexpected result %+v", res)
	}
}

type failingFetcher struct{}

func (failingFetcher) FetchUsers(context.Context) ([]User, error) {
	return nil, errors.New("offline")
}

func TestDump_FetchError(t *testing.T) {
	_, err := Dump(context.Background(), failingFetcher{}, DumpOptions{Output: filepath.Join(t.TempDir(), "x.csv")})
	if err == nil || !strings.Contains(err.Error(), "offline") {
		t.Errorf("expected fetch error, got %v", err)
	}
}

func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("TENANT_ID=tenant\nCLIENT_ID=client\nCLIENT_SECRET=secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"TENANT_ID", "CLIENT_ID", "CLIENT_SECRET", "GRAPH_URL", "AUTHORITY_URL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	c, err := LoadCredentials(envFile)
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if c.TenantID != "tenant" || c.ClientSecret != "secret" {
		t.Errorf("unexpected credentials %+v", c)
	}
	if c.TokenURL() != "https://login.microsoftonline.com/tenant/oauth2/v2.0/token" {
		t.Errorf("token url = %s", c.TokenURL())
	}
	if c.GraphURL != "https://graph.microsoft.com/v1.0" {
		t.Errorf("graph url default = %s", c.GraphURL)
	}
}

func TestLoadCredentials_Missing(t *testing.T) {
	for _, k := range []string{"TENANT_ID", "CLIENT_ID", "CLIENT_SECRET"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	if _, err := LoadCredentials(filepath.Join(t.TempDir(), "none.env")); err == nil {
		t.Error("expected error for missing credentials")
	}
}
