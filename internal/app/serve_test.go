package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/miner"
	"github.com/blackwell-systems/basketmine/internal/web"
)

func TestServeCommandFlags(t *testing.T) {
	for _, name := range []string{"addr", "datasets-dir", "min-sup", "prune-ref", "no-store"} {
		if serveCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag on serve", name)
		}
	}
}

func TestServerConfig_Defaults(t *testing.T) {
	setupCLI(t)
	serveNoStore = true

	webCfg, st, err := serverConfig(&cobra.Command{})
	if err != nil {
		t.Fatalf("serverConfig: %v", err)
	}
	if st != nil {
		t.Error("expected no store with --no-store")
	}
	if webCfg.DatasetsDir != "datasets" || webCfg.MinSupport != 2 || webCfg.Prune != miner.PruneAgainstLevel {
		t.Errorf("unexpected defaults: %+v", webCfg)
	}
	if webCfg.Source != nil {
		t.Error("expected nil Source")
	}
}

func TestServerConfig_FlagsAndStore(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "toy-out1.csv"), sampleCSV)

	dbPath = filepath.Join(t.TempDir(), "serve.db")
	serveDatasetsDir = dir
	servePruneRef = "transactions"

	webCfg, st, err := serverConfig(&cobra.Command{})
	if err != nil {
		t.Fatalf("serverConfig: %v", err)
	}
	if st == nil {
		t.Fatal("expected the dataset store to be opened")
	}
	defer st.Close()

	if webCfg.DatasetsDir != dir || webCfg.Prune != miner.PruneAgainstTransactions || webCfg.Source == nil {
		t.Errorf("unexpected config: %+v", webCfg)
	}

	// The resulting server mines the file-backed dataset.
	srv := web.NewServer(webCfg)
	req := httptest.NewRequest(http.MethodPost, "/api/rules", strings.NewReader(`{"database":"toy"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if doc := decodeJSONReport(t, rec.Body.String()); len(doc.Rules) != 11 {
		t.Errorf("len(Rules) = %d, want 11", len(doc.Rules))
	}
}

func TestServerConfig_InvalidPrune(t *testing.T) {
	setupCLI(t)
	serveNoStore = true
	servePruneRef = "sideways"

	if _, _, err := serverConfig(&cobra.Command{}); err == nil {
		t.Error("expected an error for an invalid prune reference")
	}
}
