package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/infrastructure/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}

	if got := truncate("Compañía", 7); got != "Comp..." {
		t.Fatalf("expected rune-aware truncation, got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	printJSON(&out, struct {
		A int `json:"a"`
	}{A: 1})

	expected := "{\n  \"a\": 1\n}\n"
	if out.String() != expected {
		t.Fatalf("unexpected json output:\n%s", out.String())
	}
}

func TestSalesListRendersTable(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/sales" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{
			"sales":[{"id":"s1","client":"Acme SAC","area":"Legal","currency":"S/","receipt_number":"F001-1",
				"invoice_date":"2024-03-01","total":"118","status":{"category":"paid","label":"Paid"}}],
			"summary":{"local":"118","foreign":"0","local_rounded":"118","foreign_rounded":"0","unclassified":2},
			"count":1,"total":1}`)
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "sales", "list", "--year", "2024", "--month", "3")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if gotQuery != "month=3&year=2024" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	for _, want := range []string{"Acme SAC", "F001-1", "118.00", "Paid", "2 sales with an unknown currency"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestSalesReorderReportsFailedWrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req["active_id"] != "c" || req["over_id"] != "a" {
			t.Errorf("unexpected body %v (%v)", req, err)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"error":"failed to reorder sales","failed":["b"]}`)
	}))
	defer srv.Close()

	_, err := execute(t, "--url", srv.URL, "--token", "tok", "sales", "reorder", "c", "a")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "failed: b") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSalesImportPostsFile(t *testing.T) {
	var (
		gotFormat string
		gotBody   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFormat = r.URL.Query().Get("format")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusMultiStatus)
		io.WriteString(w, `{"created":["n1"],"failed":[{"row":2,"error":"db error"}]}`)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "ventas.CSV")
	if err := os.WriteFile(path, []byte("Client,Total\nAcme,1\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	out, err := execute(t, "--url", srv.URL, "sales", "import", path)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if gotFormat != "csv" || !strings.HasPrefix(gotBody, "Client,Total") {
		t.Fatalf("unexpected upload format=%q body=%q", gotFormat, gotBody)
	}
	if !strings.Contains(out, "imported 1 sales") || !strings.Contains(out, "db error") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSalesImportRejectsUnknownExtension(t *testing.T) {
	_, err := execute(t, "sales", "import", "ventas.ods")
	if err == nil || !strings.Contains(err.Error(), "unsupported file type") {
		t.Fatalf("expected unsupported file type error, got %v", err)
	}
}

func TestSalesExportWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "pdf" || r.URL.Query().Get("q") != "acme" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		io.WriteString(w, "%PDF-1.3 fake")
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.pdf")
	if _, err := execute(t, "--url", srv.URL, "sales", "export", "-f", "PDF", "-q", "acme", "-o", path); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected export file: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Fatalf("unexpected export contents %q", data)
	}
}

func TestReportCompareRendersTotals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/reports/compare" || r.URL.Query().Get("by") != "month" {
			t.Errorf("unexpected request %s", r.URL)
		}
		io.WriteString(w, `{"year_a":2023,"year_b":2024,"group_by":"month","available":true,
			"rows":[{"key":"Jan","a":"10","b":"15","delta":"5"}],"total_a":"10","total_b":"15"}`)
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "report", "compare", "2023", "2024", "--by", "month")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	for _, want := range []string{"2023 vs 2024", "Jan", "15.00", "5.00", "Total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestReportAreasUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("convert") != "true" {
			t.Errorf("expected convert=true, got %s", r.URL.RawQuery)
		}
		io.WriteString(w, `{"groups":[],"available":false,"converted":true}`)
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "report", "areas", "--convert")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "exchange rate unavailable") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestTokenCmd(t *testing.T) {
	out, err := execute(t, "token", "--secret", "cli-secret", "--id", "op-7", "--name", "Ana", "--role", "editor", "--ttl", "1h")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	claims, err := auth.NewJWTManager("cli-secret", time.Hour).Verify(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if claims.OperatorID != "op-7" || claims.Role != domain.RoleEditor {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenCmdRejectsBadRole(t *testing.T) {
	_, err := execute(t, "token", "--secret", "s", "--id", "op", "--role", "owner")
	if err == nil || !strings.Contains(err.Error(), "invalid role") {
		t.Fatalf("expected invalid role error, got %v", err)
	}
}
