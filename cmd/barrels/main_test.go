package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/millesime/barrels/internal/cart"
	"github.com/millesime/barrels/internal/config"
	"github.com/millesime/barrels/internal/storage"
	"github.com/millesime/barrels/pkg/domain"
)

var (
	margauxID = uuid.MustParse("6f1c1f86-5a35-4b8e-9e0b-2a4c9e1b7d01")
	emptyID   = uuid.MustParse("6f1c1f86-5a35-4b8e-9e0b-2a4c9e1b7d02")
)

// fakeShop serves the endpoints the commands call.
func fakeShop(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/barrels/{id}", func(w http.ResponseWriter, r *http.Request) {
		stock := 3
		name := "Margaux 225L"
		switch r.PathValue("id") {
		case margauxID.String():
		case emptyID.String():
			stock, name = 0, "Empty Cask"
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Barrel not found"}`)) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":             r.PathValue("id"),
			"name":           name,
			"origin_country": "France",
			"volume_liters":  "225.00",
			"price":          "450.00",
			"stock_quantity": stock,
			"created_at":     "2026-01-05T10:00:00Z",
		})
	})
	mux.HandleFunc("GET /v1/barrels/{$}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("origin_country") != "France" {
			w.Write([]byte(`{"items":[],"total":0,"page":1,"size":20,"pages":0}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"items":[{"id":"` + margauxID.String() + `","name":"Margaux 225L","origin_country":"France","volume_liters":"225.00","price":"450.00","stock_quantity":3}],"total":1,"page":1,"size":20,"pages":1}`)) //nolint:errcheck
	})
	mux.HandleFunc("GET /v1/barrels/search/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"` + emptyID.String() + `","name":"` + r.URL.Query().Get("q") + ` cask","stock_quantity":0}]`)) //nolint:errcheck
	})
	mux.HandleFunc("GET /v1/barrels/categories/origins", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`["France","Spain"]`)) //nolint:errcheck
	})
	mux.HandleFunc("GET /v1/barrels/categories/wood-types", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`["French oak"]`)) //nolint:errcheck
	})
	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		json.NewDecoder(r.Body).Decode(&creds) //nolint:errcheck
		if creds.Password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Email ou mot de passe incorrect"}`)) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.AuthResponse{ //nolint:errcheck
			AccessToken: "tok",
			TokenType:   "bearer",
			User:        &domain.User{Email: creds.Email, Role: domain.RoleB2B},
		})
	})
	mux.HandleFunc("POST /v1/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// setEnv points configuration at srv and a fresh file store.
func setEnv(t *testing.T, srv *httptest.Server) (dataDir, exportDir string) {
	t.Helper()
	dataDir = t.TempDir()
	exportDir = t.TempDir()
	t.Setenv("MSF_API_BASE_URL", srv.URL)
	t.Setenv("MSF_DATA_DIR", dataDir)
	t.Setenv("MSF_EXPORT_DIR", exportDir)
	t.Setenv("MSF_STORE", config.StoreFile)
	t.Setenv("MSF_LOG_LEVEL", "8")
	return dataDir, exportDir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	envFile := "--env-file=" + filepath.Join(t.TempDir(), "missing.env")
	root.SetArgs(append([]string{envFile}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := run(t, stdin, args...)
	if err != nil {
		t.Fatalf("barrels %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestCartCommands(t *testing.T) {
	srv := fakeShop(t)
	_, exportDir := setEnv(t, srv)

	if out := mustRun(t, "", "cart", "add", margauxID.String(), "2"); !strings.Contains(out, "Added 2 x Margaux 225L (2 in cart)") {
		t.Errorf("add output = %q", out)
	}
	if out := mustRun(t, "", "cart", "add", margauxID.String()); !strings.Contains(out, "(3 in cart)") {
		t.Errorf("second add should merge into the line: %q", out)
	}

	out := mustRun(t, "", "cart", "ls")
	for _, want := range []string{"Margaux 225L", "1350.00 €", "free", "270.00 €", "1620.00 €"} {
		if !strings.Contains(out, want) {
			t.Errorf("cart ls missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "", "cart", "promo", "welcome10")
	if !strings.Contains(out, "Promo code applied: 10% off") || !strings.Contains(out, "-135.00 €") || !strings.Contains(out, "1485.00 €") {
		t.Errorf("promo output:\n%s", out)
	}
	if _, err := run(t, "", "cart", "promo", "BOGUS"); err == nil || err.Error() != "Invalid promo code" {
		t.Errorf("invalid promo err = %v", err)
	}

	if out := mustRun(t, "", "cart", "qty", "1", "1"); !strings.Contains(out, "450.00 €") {
		t.Errorf("qty output:\n%s", out)
	}

	exported := filepath.Join(exportDir, cart.ExportFilename)
	if out := mustRun(t, "", "cart", "export"); out != "Wrote "+exported+"\n" {
		t.Errorf("export output = %q", out)
	}
	data, err := os.ReadFile(exported)
	if err != nil {
		t.Fatalf("export file: %v", err)
	}
	if !strings.HasPrefix(string(data), `"Name","Origin Country"`) || !strings.Contains(string(data), `"Margaux 225L","France","225","450","1","450"`) {
		t.Errorf("export =\n%s", data)
	}

	if _, err := run(t, "", "cart", "export", "--format", "xlsx"); !errors.Is(err, cart.ErrUnsupportedFormat) {
		t.Errorf("export xlsx err = %v, want ErrUnsupportedFormat", err)
	}

	if out := mustRun(t, "", "cart", "rm", "1"); !strings.Contains(out, "Removed cart_") {
		t.Errorf("rm output = %q", out)
	}
	if out := mustRun(t, "", "cart", "ls"); !strings.Contains(out, "Your cart is empty.") {
		t.Errorf("cart should be empty:\n%s", out)
	}
}

func TestCartAddOutOfStock(t *testing.T) {
	setEnv(t, fakeShop(t))

	_, err := run(t, "", "cart", "add", emptyID.String())
	if err == nil || !strings.Contains(err.Error(), "out of stock") {
		t.Errorf("err = %v, want out of stock", err)
	}
	_, err = run(t, "", "cart", "add", uuid.NewString())
	if err == nil || !strings.Contains(err.Error(), "Barrel not found") {
		t.Errorf("err = %v, want not found", err)
	}
	if _, err := run(t, "", "cart", "add", margauxID.String(), "zero"); err == nil {
		t.Error("expected error for non-numeric quantity")
	}
}

func TestCartSaveRestore(t *testing.T) {
	setEnv(t, fakeShop(t))

	mustRun(t, "", "cart", "add", margauxID.String())
	if out := mustRun(t, "", "cart", "save"); !strings.Contains(out, "Saved 1 barrels for later.") {
		t.Errorf("save output = %q", out)
	}
	if out := mustRun(t, "", "status"); !strings.Contains(out, "barrels cart restore") {
		t.Errorf("status should mention the saved cart:\n%s", out)
	}
	if out := mustRun(t, "", "cart", "restore"); !strings.Contains(out, "Margaux 225L") {
		t.Errorf("restore output:\n%s", out)
	}
	if out := mustRun(t, "", "cart", "restore"); !strings.Contains(out, "No saved cart.") {
		t.Errorf("second restore output = %q", out)
	}
}

func TestCartCheckoutEmpty(t *testing.T) {
	setEnv(t, fakeShop(t))
	if out := mustRun(t, "", "cart", "checkout"); !strings.Contains(out, "Your cart is empty.") {
		t.Errorf("checkout output = %q", out)
	}
}

func TestAuthCommands(t *testing.T) {
	dataDir, _ := setEnv(t, fakeShop(t))

	if out := mustRun(t, "", "whoami"); !strings.Contains(out, "barrels login") {
		t.Errorf("anonymous whoami should greet:\n%s", out)
	}

	if _, err := run(t, "wrong\n", "login", "--email", "cave@example.com"); err == nil || !strings.Contains(err.Error(), "incorrect") {
		t.Errorf("bad password err = %v", err)
	}

	out := mustRun(t, "s3cret\n", "login", "--email", "cave@example.com")
	if !strings.Contains(out, "Signed in as cave@example.com (b2b)") {
		t.Errorf("login output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "auth_token")); err != nil {
		t.Errorf("token not persisted: %v", err)
	}

	if out := mustRun(t, "", "whoami"); strings.TrimSpace(out) != "cave@example.com (b2b)" {
		t.Errorf("whoami = %q", out)
	}
	if out := mustRun(t, "", "logout"); !strings.Contains(out, "Logged out.") {
		t.Errorf("logout output = %q", out)
	}
	if out := mustRun(t, "", "logout"); !strings.Contains(out, "Already logged out.") {
		t.Errorf("second logout output = %q", out)
	}
}

func TestLoginPromptsForEmail(t *testing.T) {
	setEnv(t, fakeShop(t))
	out := mustRun(t, "bordeaux@example.com\ns3cret\n", "login")
	if !strings.Contains(out, "bordeaux@example.com") {
		t.Errorf("login output = %q", out)
	}
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	setEnv(t, fakeShop(t))
	_, err := run(t, "one\ntwo\n", "register", "--email", "a@b.fr")
	if err == nil || !strings.Contains(err.Error(), "do not match") {
		t.Errorf("err = %v", err)
	}
}

func TestProfileRequiresSession(t *testing.T) {
	setEnv(t, fakeShop(t))
	_, err := run(t, "", "profile")
	if err == nil || !strings.Contains(err.Error(), "not signed in") {
		t.Errorf("err = %v", err)
	}
	if _, err := run(t, "", "refresh"); err == nil {
		t.Error("refresh without a session should fail")
	}
}

func TestProfileUpdateFromFlags(t *testing.T) {
	cmd := newProfileCmd()
	if !profileUpdateFromFlags(cmd).Empty() {
		t.Fatal("no flags should produce an empty update")
	}
	cmd.Flags().Set("first-name", "Ana") //nolint:errcheck
	cmd.Flags().Set("company", "")       //nolint:errcheck

	upd := profileUpdateFromFlags(cmd)
	if upd.FirstName == nil || *upd.FirstName != "Ana" {
		t.Errorf("FirstName = %v", upd.FirstName)
	}
	if upd.CompanyName == nil || *upd.CompanyName != "" {
		t.Errorf("explicit empty company should be sent, got %v", upd.CompanyName)
	}
	if upd.LastName != nil || upd.PhoneNumber != nil {
		t.Error("unset flags should stay nil")
	}
}

func TestResolveLine(t *testing.T) {
	items := []domain.CartItem{{ID: "cart_a"}, {ID: "cart_b"}}
	tests := []struct {
		arg     string
		want    string
		wantErr bool
	}{
		{"1", "cart_a", false},
		{"2", "cart_b", false},
		{"cart_b", "cart_b", false},
		{"0", "", true},
		{"3", "", true},
		{"cart_zz", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := resolveLine(items, tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveLine(%q) err = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveLine(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	s, closer, err := openStore(ctx, &config.Config{Store: config.StoreMemory})
	if err != nil || closer != nil {
		t.Fatalf("memory: err=%v closer=%v", err, closer != nil)
	}
	if _, ok := s.(*storage.Memory); !ok {
		t.Errorf("memory store type = %T", s)
	}

	dir := t.TempDir()
	s, _, err = openStore(ctx, &config.Config{Store: config.StoreFile, DataDir: dir})
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if fs, ok := s.(*storage.FileStore); !ok || fs.BasePath != dir {
		t.Errorf("file store = %#v", s)
	}

	mr := miniredis.RunT(t)
	cfg := &config.Config{Store: config.StoreRedis, Redis: config.Redis{Addr: mr.Addr(), Prefix: "test:"}}
	s, closer, err = openStore(ctx, cfg)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	defer closer() //nolint:errcheck
	if err := s.Set(ctx, "cart_items", "[]"); err != nil {
		t.Fatalf("redis set: %v", err)
	}
	if got, _ := mr.Get("test:cart_items"); got != "[]" {
		t.Errorf("redis value = %q", got)
	}

	mr.Close()
	if _, _, err := openStore(ctx, cfg); err == nil {
		t.Error("expected error when redis is down")
	}

	if _, _, err := openStore(ctx, &config.Config{Store: "sqlite"}); err == nil {
		t.Error("expected error for unknown store")
	}
}

func TestStoreFlagOverridesEnv(t *testing.T) {
	dataDir, _ := setEnv(t, fakeShop(t))
	mustRun(t, "", "cart", "add", margauxID.String(), "--store", "memory")
	if _, err := os.Stat(filepath.Join(dataDir, "cart_items")); !os.IsNotExist(err) {
		t.Errorf("memory store should not write %s (err %v)", dataDir, err)
	}
}

func TestBarrelsListAndSearch(t *testing.T) {
	setEnv(t, fakeShop(t))

	out := mustRun(t, "", "barrels", "--origin", "France")
	for _, want := range []string{margauxID.String(), "Margaux 225L", "450.00 €", "3 in stock", "page 1/1, 1 barrels"} {
		if !strings.Contains(out, want) {
			t.Errorf("barrels missing %q:\n%s", want, out)
		}
	}
	if out := mustRun(t, "", "barrels"); !strings.Contains(out, "No barrels found.") {
		t.Errorf("unfiltered fake catalog should be empty:\n%s", out)
	}
	if out := mustRun(t, "", "barrels", "sherry"); !strings.Contains(out, "sherry cask") || !strings.Contains(out, "out of stock") {
		t.Errorf("search output:\n%s", out)
	}
}

func TestCategories(t *testing.T) {
	setEnv(t, fakeShop(t))
	out := mustRun(t, "", "categories")
	for _, want := range []string{"Origins", "France", "Spain", "Wood types", "French oak"} {
		if !strings.Contains(out, want) {
			t.Errorf("categories missing %q:\n%s", want, out)
		}
	}
}

func TestDescribeUser(t *testing.T) {
	tests := []struct {
		u    *domain.User
		want string
	}{
		{nil, "anonymous"},
		{&domain.User{Email: "a@b.fr", Role: domain.RoleB2C}, "a@b.fr (b2c)"},
		{&domain.User{Email: "a@b.fr", FirstName: "Ana", LastName: "Lopes", Role: domain.RoleB2B}, "Ana Lopes <a@b.fr> (b2b)"},
	}
	for _, tt := range tests {
		if got := describeUser(tt.u); got != tt.want {
			t.Errorf("describeUser = %q, want %q", got, tt.want)
		}
	}
}

func TestVersionAndHelp(t *testing.T) {
	if out := mustRun(t, "", "version"); out != "barrels version dev\n" {
		t.Errorf("version = %q", out)
	}
	out := mustRun(t, "", "--help")
	for _, want := range []string{"barrels login", "barrels cart", "--store"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q", want)
		}
	}

	if out := mustRun(t, "", "cart", "--help"); !strings.Contains(out, "export") {
		t.Errorf("cart help = %q, want subcommand list", out)
	}
}

func TestPrintGreeting(t *testing.T) {
	var b bytes.Buffer
	printGreeting(&b)
	if !strings.Contains(b.String(), "MILLÉSIME") || !strings.Contains(b.String(), "barrels login") {
		t.Errorf("greeting = %q", b.String())
	}
}
